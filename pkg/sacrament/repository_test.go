package sacrament

import (
	"context"
	"testing"

	"github.com/parokya/parokya/internal/test_utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogIsSeededByMigration(t *testing.T) {
	catalog := NewCatalog(test_utils.SetupTestDB(t))

	types, err := catalog.GetAll(context.Background())

	require.NoError(t, err)
	names := make([]string, 0, len(types))
	for _, st := range types {
		names = append(names, st.Name)
	}
	assert.Contains(t, names, "Baptism")
	assert.Contains(t, names, "Wedding")
	assert.Contains(t, names, "Funeral Mass")
}

func TestExists(t *testing.T) {
	catalog := NewCatalog(test_utils.SetupTestDB(t))

	known, err := catalog.Exists(context.Background(), "Baptism")
	require.NoError(t, err)
	assert.True(t, known)

	unknown, err := catalog.Exists(context.Background(), "Ordination")
	require.NoError(t, err)
	assert.False(t, unknown)
}
