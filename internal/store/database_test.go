package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDSN(t *testing.T) {
	tests := []struct {
		dsn        string
		wantDriver string
		wantSource string
		wantErr    bool
	}{
		{"postgres://u:p@localhost:5432/plutus", DriverPostgres, "postgres://u:p@localhost:5432/plutus", false},
		{"postgresql://localhost/plutus", DriverPostgres, "postgresql://localhost/plutus", false},
		{"sqlite:///tmp/plutus.db", DriverSQLite, "file:/tmp/plutus.db?_pragma=foreign_keys(1)", false},
		{"file:plutus.db?cache=shared", DriverSQLite, "file:plutus.db?cache=shared&_pragma=foreign_keys(1)", false},
		{"sqlite://", "", "", true},
		{"mysql://localhost", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			driver, source, err := parseDSN(tt.dsn)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDriver, driver)
			assert.Equal(t, tt.wantSource, source)
		})
	}
}

func TestSplitStatements(t *testing.T) {
	sql := "-- comment\nCREATE TABLE a (x INT);\n\nCREATE INDEX i ON a (x);\n"
	assert.Equal(t, []string{"CREATE TABLE a (x INT)", "CREATE INDEX i ON a (x)"}, splitStatements(sql))
}
