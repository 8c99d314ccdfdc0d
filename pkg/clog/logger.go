// Package clog sets up the apex loggers used by the rets packages and
// retsctl.
package clog

import (
	"io"

	"github.com/apex/log"
	"github.com/pkg/errors"
)

// NewLogger returns a logger writing through a Handler at level. An empty
// level means info.
func NewLogger(w io.Writer, level string) (*log.Logger, error) {
	if level == "" {
		level = "info"
	}

	l, err := log.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "bad log level %q", level)
	}

	return &log.Logger{Handler: NewHandler(w), Level: l}, nil
}
