package repo

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/beka-birhanu/vinom-roads/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteRetiredRepo(t *testing.T) {
	ctx := context.Background()
	r, err := OpenSQLiteRetiredRepo(filepath.Join(t.TempDir(), "db", "retired.sqlite"))
	require.NoError(t, err)
	defer r.Close(ctx)

	t.Run("empty table", func(t *testing.T) {
		got, err := r.Retired(ctx, 0, 100)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	require.NoError(t, r.SaveRetired(ctx, []domain.RetiredPlayer{
		{ID: 1, Name: "bob", Score: 10, PlaySeconds: 30},
		{ID: 2, Name: "amy", Score: 10, PlaySeconds: 30},
		{ID: 3, Name: "cat", Score: 50, PlaySeconds: 90},
		{ID: 4, Name: "dan", Score: 10, PlaySeconds: 12.5},
	}))
	require.NoError(t, r.SaveRetired(ctx, nil))

	t.Run("ranking order", func(t *testing.T) {
		got, err := r.Retired(ctx, 0, 100)
		require.NoError(t, err)
		assert.Equal(t, []domain.RetiredPlayer{
			{ID: 3, Name: "cat", Score: 50, PlaySeconds: 90},
			{ID: 4, Name: "dan", Score: 10, PlaySeconds: 12.5},
			{ID: 2, Name: "amy", Score: 10, PlaySeconds: 30},
			{ID: 1, Name: "bob", Score: 10, PlaySeconds: 30},
		}, got)
	})

	t.Run("paging", func(t *testing.T) {
		got, err := r.Retired(ctx, 1, 2)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "dan", got[0].Name)
		assert.Equal(t, "amy", got[1].Name)
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := OpenSQLiteRetiredRepo("")
		assert.Error(t, err)
	})
}
