package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twstock-heatmap/pkg/logger"
)

func writeMappingFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "StockMapping.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestStockMappingLoad(t *testing.T) {
	path := writeMappingFile(t, "name,ticker,industry,market\n台積電,2330,半導體,tse\n群聯,8299,半導體,otc\n")

	repo, err := NewStockMappingRepository(path, logger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.Len())

	m, ok := repo.GetByName("台積電")
	require.True(t, ok)
	assert.Equal(t, "2330", m.Ticker)
	assert.Equal(t, "tse", m.Market)

	m, ok = repo.GetByTicker("8299")
	require.True(t, ok)
	assert.Equal(t, "群聯", m.Name)

	_, ok = repo.GetByName("不存在")
	assert.False(t, ok)
}

func TestStockMappingMissingFile(t *testing.T) {
	repo, err := NewStockMappingRepository(filepath.Join(t.TempDir(), "nope.csv"), logger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 0, repo.Len())
}

func TestStockMappingSkipsMalformedRows(t *testing.T) {
	path := writeMappingFile(t, "name,ticker,industry,market\n,1234,x,tse\n台積電,,x,tse\n緯創,3231,電腦,tse\n")

	repo, err := NewStockMappingRepository(path, logger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.Len())

	_, ok := repo.GetByName("緯創")
	assert.True(t, ok)
}

func TestStockMappingLastWriteWinsOnDuplicates(t *testing.T) {
	path := writeMappingFile(t, "name,ticker,industry,market\n台積電,1111,舊,tse\n台積電,2330,半導體,tse\n")

	repo, err := NewStockMappingRepository(path, logger.NewNop())
	require.NoError(t, err)

	m, ok := repo.GetByName("台積電")
	require.True(t, ok)
	assert.Equal(t, "2330", m.Ticker)
}

func TestStockMappingEmptyFile(t *testing.T) {
	path := writeMappingFile(t, "")

	repo, err := NewStockMappingRepository(path, logger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 0, repo.Len())
}
