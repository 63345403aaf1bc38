package migration

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMigrationsRequiresDB(t *testing.T) {
	assert.Error(t, RunMigrations(nil))
}

func TestSourceListsMigrationsInOrder(t *testing.T) {
	src, err := Source()
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	second, err := src.Next(first)
	require.NoError(t, err)
	third, err := src.Next(second)
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 3}, []uint{second, third})

	up, identifier, err := src.ReadUp(second)
	require.NoError(t, err)
	defer up.Close()
	assert.Equal(t, "create_order17vat", identifier)

	body, err := io.ReadAll(up)
	require.NoError(t, err)
	assert.Contains(t, string(body), "CREATE UNIQUE INDEX IF NOT EXISTS uniq_order17vat_order ON order17vat (id_order)")
}
