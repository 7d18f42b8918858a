package dataset_test

import (
	"context"
	"errors"
	"io"
	"io/ioutil"
	"path/filepath"
	"testing"

	"thordash/cache/memory"
	"thordash/dataset"
	"thordash/filestore"
	M "thordash/model"
	"thordash/services/disk"

	"github.com/stretchr/testify/assert"
)

type countingFileManager struct {
	filestore.FileManager
	gets int
}

func (c *countingFileManager) Get(ctx context.Context, dir, fileName string) (io.ReadCloser, error) {
	c.gets++
	return c.FileManager.Get(ctx, dir, fileName)
}

func writeFile(t *testing.T, dir, name, content string) {
	assert.Nil(t, ioutil.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestLoaderCachesContent(t *testing.T) {
	baseDir := t.TempDir()
	writeFile(t, baseDir, "thorchain_affiliate_fee.csv", "affiliates,affiliate_fee\nA,50\nB,150\n")

	files := &countingFileManager{FileManager: disk.New(baseDir)}
	store, err := memory.New(8)
	assert.Nil(t, err)
	loader := dataset.NewLoader(files, store, nil, 0)

	table, err := loader.Load(context.Background(), dataset.AffiliateFee)
	assert.Nil(t, err)
	assert.Equal(t, []string{"affiliates", "affiliate_fee"}, table.Headers)
	assert.Len(t, table.Rows, 2)

	// Served from cache even after the object changes.
	writeFile(t, baseDir, "thorchain_affiliate_fee.csv", "affiliates,affiliate_fee\nC,1\n")
	table, err = loader.Load(context.Background(), dataset.AffiliateFee)
	assert.Nil(t, err)
	assert.Len(t, table.Rows, 2)
	assert.Equal(t, 1, files.gets)
}

func TestLoaderWithoutCache(t *testing.T) {
	baseDir := t.TempDir()
	writeFile(t, baseDir, "thorchain_users.csv", "date,type,amount\n2025-04-01,new,1\n")

	files := &countingFileManager{FileManager: disk.New(baseDir)}
	loader := dataset.NewLoader(files, nil, nil, 0)

	for i := 0; i < 2; i++ {
		_, err := loader.Load(context.Background(), dataset.Users)
		assert.Nil(t, err)
	}
	assert.Equal(t, 2, files.gets)
}

func TestLoaderResourceNotFound(t *testing.T) {
	loader := dataset.NewLoader(disk.New(t.TempDir()), nil, nil, 0)

	_, err := loader.Load(context.Background(), dataset.Overview)
	assert.True(t, errors.Is(err, M.ErrResourceNotFound))
	dataErr, _ := M.AsDataError(err)
	assert.Equal(t, dataset.Overview, dataErr.Resource)

	_, err = loader.Load(context.Background(), "unknown")
	assert.True(t, errors.Is(err, M.ErrResourceNotFound))
}

func TestLoaderEmptyObject(t *testing.T) {
	baseDir := t.TempDir()
	writeFile(t, baseDir, "thorchain_overview.csv", "")

	loader := dataset.NewLoader(disk.New(baseDir), nil, nil, 0)
	_, err := loader.Load(context.Background(), dataset.Overview)
	assert.True(t, errors.Is(err, M.ErrEmptyDataset))
}

func TestLoadRegistry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "datasets.yaml")
	writeFile(t, dir, "datasets.yaml", "datasets:\n  overview:\n    dir: extracts\n    file: overview_2025.csv\n")

	registry, err := dataset.LoadRegistry(path)
	assert.Nil(t, err)
	location, ok := registry.Resolve(dataset.Overview)
	assert.True(t, ok)
	assert.Equal(t, dataset.Location{Dir: "extracts", File: "overview_2025.csv"}, location)

	location, ok = registry.Resolve(dataset.Users)
	assert.True(t, ok)
	assert.Equal(t, "thorchain_users.csv", location.File)
	assert.Equal(t, []string{"affiliate_fee", "affiliate_volume", "overview", "users"}, registry.Names())

	writeFile(t, dir, "bad.yaml", "datasets:\n  overview:\n    dir: extracts\n")
	_, err = dataset.LoadRegistry(filepath.Join(dir, "bad.yaml"))
	assert.NotNil(t, err)

	_, err = dataset.LoadRegistry(filepath.Join(dir, "missing.yaml"))
	assert.NotNil(t, err)

	registry, err = dataset.LoadRegistry("")
	assert.Nil(t, err)
	assert.Len(t, registry.Names(), 4)
}

func TestLoaderRejectsOversizedObject(t *testing.T) {
	baseDir := t.TempDir()
	writeFile(t, baseDir, "thorchain_affiliate_fee.csv", "affiliates,affiliate_fee\nA,50\nB,150\n")

	files := &countingFileManager{FileManager: disk.New(baseDir)}
	loader := dataset.NewLoader(files, nil, nil, 0).SetMaxObjectSize(16)

	_, err := loader.Load(context.Background(), dataset.AffiliateFee)
	assert.True(t, errors.Is(err, M.ErrSchemaMismatch))
	dataErr, _ := M.AsDataError(err)
	assert.Equal(t, dataset.AffiliateFee, dataErr.Resource)
	assert.Contains(t, dataErr.Expectation, "at most 16 bytes")
	assert.Equal(t, 0, files.gets)

	loader.SetMaxObjectSize(1024)
	table, err := loader.Load(context.Background(), dataset.AffiliateFee)
	assert.Nil(t, err)
	assert.Len(t, table.Rows, 2)
	assert.Equal(t, 1, files.gets)
}
