package clog

import (
	"bytes"
	"testing"
	"time"

	"github.com/apex/log"
	"github.com/stretchr/testify/require"
)

func TestHandler_SortsFields(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf)
	h.now = func() time.Time { return time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC) }

	logger := &log.Logger{Handler: h, Level: log.DebugLevel}
	logger.WithFields(log.Fields{"url": "http://h/search", "code": 0}).Debug("GET")

	require.Equal(t, "DEBUG 2024-03-01 10:30:00 GET                       code=0 url=http://h/search\n", buf.String())
}

func TestNewLogger(t *testing.T) {
	var tests = []struct {
		level    string
		expected log.Level
		wantErr  bool
	}{
		{level: "", expected: log.InfoLevel},
		{level: "debug", expected: log.DebugLevel},
		{level: "warn", expected: log.WarnLevel},
		{level: "loud", wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.level, func(t *testing.T) {
			logger, err := NewLogger(&bytes.Buffer{}, test.level)
			if test.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, test.expected, logger.Level)
		})
	}
}

func TestNewLogger_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "warn")
	require.NoError(t, err)

	logger.Info("hidden")
	require.Empty(t, buf.String())

	logger.Warn("shown")
	require.Contains(t, buf.String(), " WARN ")
}
