package database

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resortbooking/internal/pkg/logger"
)

func TestConnectSQLiteAndMigrate(t *testing.T) {
	dsn := fmt.Sprintf("file:database_test_%s?mode=memory&cache=shared", t.Name())
	db, err := Connect(dsn, logger.Discard())
	require.NoError(t, err)

	require.NoError(t, Migrate(db))
	for _, table := range []string{"users", "cities", "hotels", "room_categories", "rooms", "bookings", "payments", "room_holds", "uploads"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}
