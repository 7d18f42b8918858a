package dataset

import (
	"context"
	"fmt"
	"io/ioutil"
	"strings"
	"time"

	"thordash/cache"
	"thordash/filestore"
	"thordash/metrics"
	M "thordash/model"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	cacheKeyPrefix = "dataset"

	// DefaultCacheExpiryInSecs bounds how stale a served extract can be.
	DefaultCacheExpiryInSecs = 600

	// DefaultMaxObjectBytes caps the size of an extract read into memory.
	DefaultMaxObjectBytes = 64 << 20
)

// Loader fetches named datasets from object storage, memoising the raw content.
type Loader struct {
	fileManager  filestore.FileManager
	cache        cache.Store
	registry     *Registry
	expiryInSecs float64
	maxBytes     int64
}

func NewLoader(fileManager filestore.FileManager, store cache.Store, registry *Registry, expiryInSecs float64) *Loader {
	if registry == nil {
		registry = DefaultRegistry()
	}
	if expiryInSecs <= 0 {
		expiryInSecs = DefaultCacheExpiryInSecs
	}
	return &Loader{fileManager: fileManager, cache: store, registry: registry, expiryInSecs: expiryInSecs,
		maxBytes: DefaultMaxObjectBytes}
}

// SetMaxObjectSize overrides the largest object the loader will fetch. Non-positive values keep the default.
func (l *Loader) SetMaxObjectSize(maxBytes int64) *Loader {
	if maxBytes > 0 {
		l.maxBytes = maxBytes
	}
	return l
}

func (l *Loader) Registry() *Registry {
	return l.registry
}

// Load returns the parsed table for a dataset name. Missing datasets are ResourceNotFound.
func (l *Loader) Load(ctx context.Context, name string) (*M.Table, error) {
	location, ok := l.registry.Resolve(name)
	if !ok {
		return nil, M.NewResourceNotFoundError(name, errors.New("dataset is not registered"))
	}

	content, err := l.content(ctx, name, location)
	if err != nil {
		return nil, err
	}
	return M.ParseCSV(name, strings.NewReader(content))
}

func (l *Loader) content(ctx context.Context, name string, location Location) (string, error) {
	logCtx := log.WithFields(log.Fields{"dataset": name, "file": location.File})
	key := &cache.Key{Prefix: cacheKeyPrefix, Suffix: name}

	if l.cache != nil {
		content, exists, err := l.cache.GetIfExists(key)
		if err != nil {
			logCtx.WithError(err).Warn("Failed to get dataset from cache.")
		} else if exists {
			metrics.Increment(metrics.IncrDatasetCacheHit)
			return content, nil
		}
	}
	metrics.Increment(metrics.IncrDatasetCacheMiss)

	startTime := time.Now()
	size, err := l.fileManager.GetObjectSize(ctx, location.Dir, location.File)
	if err == filestore.ErrNotFound {
		metrics.Increment(metrics.IncrDatasetNotFound)
		return "", M.NewResourceNotFoundError(name, err)
	}
	if err != nil {
		return "", errors.Wrapf(err, "failed to stat dataset %s in %s", name, l.fileManager.GetBucketName())
	}
	if size > l.maxBytes {
		logCtx.WithFields(log.Fields{"bytes": size, "max_bytes": l.maxBytes}).Error("Dataset exceeds size limit.")
		return "", M.NewSchemaMismatchError(name, fmt.Sprintf("object must be at most %d bytes, got %d", l.maxBytes, size))
	}

	reader, err := l.fileManager.Get(ctx, location.Dir, location.File)
	if err == filestore.ErrNotFound {
		metrics.Increment(metrics.IncrDatasetNotFound)
		return "", M.NewResourceNotFoundError(name, err)
	}
	if err != nil {
		return "", errors.Wrapf(err, "failed to fetch dataset %s from %s", name, l.fileManager.GetBucketName())
	}
	defer reader.Close()

	raw, err := ioutil.ReadAll(reader)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read dataset %s", name)
	}
	metrics.RecordLatencySince(metrics.LatencyDatasetFetch, startTime)
	metrics.RecordBytesSize(metrics.BytesDatasetFetchSize, float64(len(raw)))
	logCtx.WithFields(log.Fields{"bytes": len(raw), "time_taken_ms": time.Since(startTime).Milliseconds()}).
		Debug("Fetched dataset from file store.")

	content := string(raw)
	if l.cache != nil && content != "" {
		if err := l.cache.Set(key, content, l.expiryInSecs); err != nil {
			logCtx.WithError(err).Warn("Failed to set dataset in cache.")
		}
	}
	return content, nil
}
