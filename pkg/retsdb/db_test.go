package retsdb

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/jkestr/rechanize/pkg/retsdb/retsmodel"
	"github.com/stretchr/testify/require"
)

func TestOpen_Sqlite(t *testing.T) {
	db, err := Open(DriverSqlite, filepath.Join(t.TempDir(), "rets.db"))
	require.NoError(t, err)

	require.True(t, db.Migrator().HasTable(&retsmodel.SearchRecord{}))
	require.True(t, db.Migrator().HasTable(&retsmodel.ObjectPart{}))
	require.True(t, db.Migrator().HasTable(&retsmodel.MetadataSnapshot{}))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open("postgres", "whatever")
	require.ErrorIs(t, err, ErrUnknownDriver)
}

func TestOpenWithRetry(t *testing.T) {
	var tests = []struct {
		name    string
		driver  string
		dsn     string
		wantErr error
	}{
		{name: "sqlite opens first try", driver: DriverSqlite, dsn: filepath.Join(t.TempDir(), "rets.db")},
		{name: "unknown driver is not retried", driver: "postgres", dsn: "whatever", wantErr: ErrUnknownDriver},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			db, err := OpenWithRetry(test.driver, test.dsn, 3, time.Hour)
			if test.wantErr != nil {
				require.ErrorIs(t, err, test.wantErr)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, db)
		})
	}
}

func TestOpenWithRetry_GivesUp(t *testing.T) {
	// Nothing listens on port 1, every attempt is refused.
	dsn := "rets:rets@tcp(127.0.0.1:1)/rets?timeout=1s"

	_, err := OpenWithRetry(DriverMysql, dsn, 2, time.Millisecond)
	require.Error(t, err)
	require.Contains(t, err.Error(), "gave up after 2 tries")
}
