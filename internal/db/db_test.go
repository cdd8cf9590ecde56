package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invitation-canvas-editor/internal/config"
	"invitation-canvas-editor/internal/domain"
)

func TestMigrate_CreatesEveryCollection(t *testing.T) {
	gdb, err := OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { Close(gdb) })

	require.NoError(t, Migrate(gdb))
	require.NoError(t, Migrate(gdb), "migrations are repeatable")

	for _, c := range domain.Collections() {
		assert.True(t, gdb.Migrator().HasTable(string(c)), c)
	}
	assert.True(t, gdb.Migrator().HasTable(&domain.User{}))

	// slug is unique per table
	require.NoError(t, gdb.Table("templates").Create(&domain.Record{ID: "a", Slug: "s"}).Error)
	assert.Error(t, gdb.Table("templates").Create(&domain.Record{ID: "b", Slug: "s"}).Error)
	require.NoError(t, gdb.Table("invitations").Create(&domain.Record{ID: "c", Slug: "s"}).Error)
}

func TestDialector(t *testing.T) {
	d, err := Dialector(config.Config{DBDriver: "sqlite", DBPath: ":memory:"})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())

	d, err = Dialector(config.Config{DBDriver: "postgres"})
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	_, err = Dialector(config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}
