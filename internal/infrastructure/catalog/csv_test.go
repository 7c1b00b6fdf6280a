package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalogFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCSVSourceLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("parses thai headers into records", func(t *testing.T) {
		path := writeCatalogFile(t,
			"ชื่อสินค้า,รูปภาพ,ราคาปกติ,คำอธิบาย,ลิงก์\n"+
				"ซุปต้มยำ,https://img/1,฿120.00,ซุปรสจัดจ้าน,https://shop/1\n"+
				"ข้าวผัด,https://img/2,฿60.00,,\n")

		records, err := NewCSVSource(path, false).Load(ctx)
		require.NoError(t, err)
		require.Len(t, records, 2)

		assert.Equal(t, "ซุปต้มยำ", records[0].Name)
		assert.Equal(t, "https://img/1", records[0].ImageURL)
		assert.Equal(t, "฿120.00", records[0].Price)
		assert.Equal(t, "ซุปรสจัดจ้าน", records[0].Description)
		assert.Equal(t, "https://shop/1", records[0].Link)

		assert.Equal(t, "ข้าวผัด", records[1].Name)
		assert.Empty(t, records[1].Description)
	})

	t.Run("accepts legacy price column", func(t *testing.T) {
		path := writeCatalogFile(t,
			"ชื่อสินค้า,รูปภาพ,ราคา\n"+
				"ซุปไก่,https://img/3,฿80.00\n")

		records, err := NewCSVSource(path, false).Load(ctx)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "฿80.00", records[0].Price)
	})

	t.Run("skips rows without name or image", func(t *testing.T) {
		path := writeCatalogFile(t,
			"ชื่อสินค้า,รูปภาพ,ราคาปกติ\n"+
				",https://img/1,฿120.00\n"+
				"ไร้รูป,,฿60.00\n"+
				"ข้าวมันไก่,https://img/2,฿50.00\n")

		records, err := NewCSVSource(path, false).Load(ctx)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "ข้าวมันไก่", records[0].Name)
	})

	t.Run("tolerates ragged rows", func(t *testing.T) {
		path := writeCatalogFile(t,
			"ชื่อสินค้า,รูปภาพ,ราคาปกติ,คำอธิบาย,ลิงก์\n"+
				"ซุปสั้น,https://img/1,฿90.00\n")

		records, err := NewCSVSource(path, false).Load(ctx)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Empty(t, records[0].Description)
		assert.Empty(t, records[0].Link)
	})

	t.Run("missing file yields empty catalog without error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "does-not-exist.csv")

		records, err := NewCSVSource(path, false).Load(ctx)
		assert.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("empty file yields empty catalog", func(t *testing.T) {
		path := writeCatalogFile(t, "")

		records, err := NewCSVSource(path, false).Load(ctx)
		assert.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("cancelled context aborts the read", func(t *testing.T) {
		path := writeCatalogFile(t,
			"ชื่อสินค้า,รูปภาพ,ราคาปกติ\n"+
				"ซุปต้มยำ,https://img/1,฿120.00\n")

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := NewCSVSource(path, false).Load(cancelled)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
