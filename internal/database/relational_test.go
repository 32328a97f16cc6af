package database

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConnectRelationalSQLite(t *testing.T) {
	db, err := ConnectRelational(DriverSQLite, "file::memory:")
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Ping())
	require.NoError(t, sqlDB.Close())
}

func TestConnectRelationalRejectsBadInput(t *testing.T) {
	_, err := ConnectRelational(DriverPostgres, "")
	require.Error(t, err)

	_, err = ConnectRelational("oracle", "dsn")
	require.Error(t, err)
}
