package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"thordash/cache"
	cacheMemcache "thordash/cache/memcache"
	cacheMemory "thordash/cache/memory"
	cacheRedis "thordash/cache/redis"
	D "thordash/dashboard"
	"thordash/dataset"
	"thordash/filestore"
	"thordash/metrics"
	M "thordash/model"
	serviceDisk "thordash/services/disk"
	serviceGCS "thordash/services/gcstorage"
	serviceS3 "thordash/services/s3"

	"contrib.go.opencensus.io/exporter/stackdriver"
	"github.com/evalphobia/logrus_sentry"
	"github.com/getsentry/sentry-go"
	"github.com/imdario/mergo"
	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"
)

const (
	DEVELOPMENT = "development"
	STAGING     = "staging"
	PRODUCTION  = "production"

	EnvPrefix = "DASHBOARD"
)

// Fields are read from the environment only with the prefix, i.e CacheBackend from DASHBOARD_CACHE_BACKEND.
type Configuration struct {
	AppName string `split_words:"true"`
	Env     string `split_words:"true"`
	Port    int    `split_words:"true"`

	FileStore   string `split_words:"true"`
	BucketName  string `split_words:"true"`
	DiskBaseDir string `split_words:"true"`
	AWSRegion   string `split_words:"true"`

	CacheBackend      string   `split_words:"true"`
	CacheExpiryInSecs float64  `split_words:"true"`
	RedisHost         string   `split_words:"true"`
	RedisPort         int      `split_words:"true"`
	RedisPassword     string   `split_words:"true"`
	MemcacheServers   []string `split_words:"true"`
	MemoryCacheSize   int      `split_words:"true"`

	DatasetRegistryFile string `split_words:"true"`
	MaxDatasetBytes     int64  `split_words:"true"`
	KPIPeriodRule       string `split_words:"true"`
	AffiliatePeriod     string `split_words:"true"`

	SentryDSN          string `split_words:"true"`
	GCPProjectID       string `split_words:"true"`
	GCPProjectLocation string `split_words:"true"`
}

type Services struct {
	FileManager     filestore.FileManager
	Cache           cache.Store
	Loader          *dataset.Loader
	Assembler       *D.Assembler
	MetricsExporter *stackdriver.Exporter
	SentryHook      *logrus_sentry.SentryHook
}

var configuration *Configuration
var services *Services

// DefaultConfiguration fills anything left unset by flags and environment.
func DefaultConfiguration() Configuration {
	return Configuration{
		AppName:            "thorchain_dashboard",
		Env:                DEVELOPMENT,
		Port:               8080,
		FileStore:          filestore.DriverS3,
		BucketName:         "thorchain-data",
		DiskBaseDir:        "/usr/local/var/thordash/data",
		AWSRegion:          "us-east-1",
		CacheBackend:       cache.BackendMemory,
		CacheExpiryInSecs:  dataset.DefaultCacheExpiryInSecs,
		RedisHost:          "localhost",
		RedisPort:          6379,
		MemcacheServers:    []string{"localhost:11211"},
		MemoryCacheSize:    64,
		MaxDatasetBytes:    dataset.DefaultMaxObjectBytes,
		KPIPeriodRule:      M.PeriodRuleSecondToLast,
		GCPProjectLocation: "us-west1",
	}
}

// Resolve overlays environment variables on the flag values and fills defaults.
func Resolve(config *Configuration) error {
	if err := envconfig.Process(EnvPrefix, config); err != nil {
		return err
	}
	if err := mergo.Merge(config, DefaultConfiguration()); err != nil {
		return err
	}
	return Validate(config)
}

func Validate(config *Configuration) error {
	switch config.Env {
	case DEVELOPMENT, STAGING, PRODUCTION:
	default:
		return fmt.Errorf("invalid env %q", config.Env)
	}

	switch config.FileStore {
	case filestore.DriverS3, filestore.DriverGCS:
		if config.BucketName == "" {
			return errors.New("bucket name is required for cloud file stores")
		}
	case filestore.DriverDisk:
	default:
		return fmt.Errorf("invalid filestore %q, expected one of s3, gcs, disk", config.FileStore)
	}

	switch config.CacheBackend {
	case cache.BackendRedis, cache.BackendMemcache, cache.BackendMemory:
	default:
		return fmt.Errorf("invalid cache backend %q, expected one of redis, memcache, memory", config.CacheBackend)
	}

	// Redis expiries are whole seconds.
	if config.CacheExpiryInSecs < 1 {
		return fmt.Errorf("invalid cache expiry %v, expected at least 1 second", config.CacheExpiryInSecs)
	}

	if _, err := M.PeriodRuleByName(config.KPIPeriodRule); err != nil {
		return err
	}
	return nil
}

func initLogging() {
	// Log as JSON instead of the default ASCII formatter.
	log.SetFormatter(&log.JSONFormatter{})

	if IsDevelopment() {
		log.SetLevel(log.DebugLevel)
	}
}

func initSentryLogging(dsn, appName string) *logrus_sentry.SentryHook {
	if dsn == "" {
		return nil
	}

	if err := sentry.Init(sentry.ClientOptions{Dsn: dsn, Environment: configuration.Env, ServerName: appName}); err != nil {
		log.WithError(err).Error("Failed to initialize sentry client.")
	}

	hook, err := logrus_sentry.NewSentryHook(dsn, []log.Level{log.PanicLevel, log.FatalLevel, log.ErrorLevel})
	if err != nil {
		log.WithError(err).Error("Failed to initialize sentry logrus hook.")
		return nil
	}
	hook.Timeout = 2 * time.Second
	hook.StacktraceConfiguration.Enable = true
	hook.SetEnvironment(configuration.Env)
	log.AddHook(hook)
	return hook
}

// SafeFlushSentryHook flushes buffered error reports before exit.
func SafeFlushSentryHook() {
	sentry.Flush(2 * time.Second)
	if services != nil && services.SentryHook != nil {
		services.SentryHook.Flush()
	}
}

func NewFileManager(config *Configuration) (filestore.FileManager, error) {
	switch config.FileStore {
	case filestore.DriverS3:
		return serviceS3.New(config.BucketName, config.AWSRegion)
	case filestore.DriverGCS:
		return serviceGCS.New(config.BucketName)
	case filestore.DriverDisk:
		return serviceDisk.New(config.DiskBaseDir), nil
	}
	return nil, fmt.Errorf("invalid filestore %q", config.FileStore)
}

func NewCache(config *Configuration) (cache.Store, error) {
	switch config.CacheBackend {
	case cache.BackendRedis:
		return cacheRedis.New(cacheRedis.NewPool(config.RedisHost, config.RedisPort, config.RedisPassword)), nil
	case cache.BackendMemcache:
		return cacheMemcache.New(config.MemcacheServers...), nil
	case cache.BackendMemory:
		return cacheMemory.New(config.MemoryCacheSize)
	}
	return nil, fmt.Errorf("invalid cache backend %q", config.CacheBackend)
}

// NewServices wires storage, cache and the view assembler from a resolved configuration.
func NewServices(config *Configuration) (*Services, error) {
	fileManager, err := NewFileManager(config)
	if err != nil {
		log.WithError(err).WithField("filestore", config.FileStore).Error("Failed to initialize file store.")
		return nil, err
	}

	store, err := NewCache(config)
	if err != nil {
		log.WithError(err).WithField("cache_backend", config.CacheBackend).Error("Failed to initialize cache.")
		return nil, err
	}

	registry, err := dataset.LoadRegistry(config.DatasetRegistryFile)
	if err != nil {
		log.WithError(err).Error("Failed to load dataset registry.")
		return nil, err
	}

	periodRule, err := M.PeriodRuleByName(config.KPIPeriodRule)
	if err != nil {
		return nil, err
	}

	loader := dataset.NewLoader(fileManager, store, registry, config.CacheExpiryInSecs).
		SetMaxObjectSize(config.MaxDatasetBytes)
	return &Services{
		FileManager: fileManager,
		Cache:       store,
		Loader:      loader,
		Assembler:   D.NewAssembler(loader, periodRule, config.AffiliatePeriod),
	}, nil
}

func Init(config *Configuration) error {
	if configuration != nil {
		return errors.New("config already initialized")
	}
	if err := Resolve(config); err != nil {
		return err
	}
	configuration = config

	initLogging()
	hook := initSentryLogging(config.SentryDSN, config.AppName)

	var err error
	services, err = NewServices(config)
	if err != nil {
		return err
	}
	services.SentryHook = hook
	services.MetricsExporter = metrics.InitMetrics(config.Env, config.AppName,
		config.GCPProjectID, config.GCPProjectLocation)

	log.WithFields(log.Fields{
		"env":           config.Env,
		"filestore":     config.FileStore,
		"bucket":        services.FileManager.GetBucketName(),
		"cache_backend": services.Cache.Name(),
		"datasets":      strings.Join(services.Loader.Registry().Names(), ","),
	}).Info("Config initialized.")
	return nil
}

func GetConfig() *Configuration {
	return configuration
}

func GetServices() *Services {
	return services
}

func IsDevelopment() bool {
	return configuration != nil && configuration.Env == DEVELOPMENT
}
