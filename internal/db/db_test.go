package db_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsroom/internal/db"
	"newsroom/internal/db/dbtest"
	"newsroom/internal/model"
)

func TestMigrateAndReset(t *testing.T) {
	gormDB := dbtest.New(t)

	assert.True(t, gormDB.Migrator().HasTable("posts"))
	assert.True(t, gormDB.Migrator().HasTable("users"))
	assert.True(t, gormDB.Migrator().HasIndex(&model.Article{}, "Slug"))

	require.NoError(t, db.Reset(gormDB))
	assert.False(t, gormDB.Migrator().HasTable("posts"))
	assert.False(t, gormDB.Migrator().HasTable("users"))

	// Resetting an empty schema is a no-op.
	require.NoError(t, db.Reset(gormDB))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := db.Open(db.Options{Driver: "oracle"})
	assert.Error(t, err)
}
