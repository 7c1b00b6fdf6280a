package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wiritpol/Line-Bot-CP/internal/domain"
)

// countingSource wraps a fixed result and counts Load calls.
type countingSource struct {
	records []domain.ProductRecord
	err     error
	calls   int
}

func (s *countingSource) Load(_ context.Context) ([]domain.ProductRecord, error) {
	s.calls++
	return s.records, s.err
}

func touch(t *testing.T, path string, at time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	require.NoError(t, os.Chtimes(path, at, at))
}

func TestCacheLoad(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("serves snapshot without reloading while mtime is unchanged", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.csv")
		touch(t, path, base)

		source := &countingSource{records: []domain.ProductRecord{{Name: "ซุปต้มยำ"}}}
		cache := NewCache(source, path)

		for i := 0; i < 3; i++ {
			records, err := cache.Load(ctx)
			require.NoError(t, err)
			require.Len(t, records, 1)
		}
		assert.Equal(t, 1, source.calls)
		assert.Equal(t, 1, cache.Size())
	})

	t.Run("reloads when the file mtime changes", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.csv")
		touch(t, path, base)

		source := &countingSource{records: []domain.ProductRecord{{Name: "ซุปต้มยำ"}}}
		cache := NewCache(source, path)

		_, err := cache.Load(ctx)
		require.NoError(t, err)

		source.records = append(source.records, domain.ProductRecord{Name: "ข้าวผัด"})
		touch(t, path, base.Add(time.Minute))

		records, err := cache.Load(ctx)
		require.NoError(t, err)
		assert.Len(t, records, 2)
		assert.Equal(t, 2, source.calls)
	})

	t.Run("serves stale snapshot when reload fails", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.csv")
		touch(t, path, base)

		source := &countingSource{records: []domain.ProductRecord{{Name: "ซุปต้มยำ"}}}
		cache := NewCache(source, path)

		_, err := cache.Load(ctx)
		require.NoError(t, err)

		source.err = errors.New("disk gone")
		touch(t, path, base.Add(time.Minute))

		records, err := cache.Load(ctx)
		assert.NoError(t, err)
		assert.Len(t, records, 1, "previous snapshot should survive a failed reload")
	})

	t.Run("first load failure is reported", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.csv")
		touch(t, path, base)

		source := &countingSource{err: errors.New("disk gone")}
		cache := NewCache(source, path)

		_, err := cache.Load(ctx)
		assert.Error(t, err)
	})

	t.Run("missing file still loads through the source", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing.csv")

		source := &countingSource{}
		cache := NewCache(source, path)

		records, err := cache.Load(ctx)
		assert.NoError(t, err)
		assert.Empty(t, records)
		assert.Equal(t, 1, source.calls)
	})
}
