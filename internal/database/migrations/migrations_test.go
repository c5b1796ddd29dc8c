package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "sql")
	require.NoError(t, err)

	var ups, downs int
	for _, e := range entries {
		switch {
		case strings.HasSuffix(e.Name(), ".up.sql"):
			ups++
		case strings.HasSuffix(e.Name(), ".down.sql"):
			downs++
		}
	}

	assert.Equal(t, ups, downs, "every up migration needs a down migration")
	assert.GreaterOrEqual(t, ups, 1)

	up, err := fs.ReadFile(migrationsFS, "sql/000001_create_article_counters.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(up), "article_counters")
	assert.Contains(t, string(up), "slug")
}
