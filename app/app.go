package main

import (
	"flag"
	"strconv"
	"strings"

	C "thordash/config"
	H "thordash/handler"
	mid "thordash/middleware"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// ./app --env=development --api_http_port=8080 --filestore=disk --disk_base_dir=/tmp/thorchain-data --cache_backend=memory
func main() {
	env := flag.String("env", C.DEVELOPMENT, "")
	port := flag.Int("api_http_port", 8080, "")

	fileStore := flag.String("filestore", "", "Object store driver: s3, gcs or disk")
	bucketName := flag.String("bucket_name", "", "Bucket holding the csv extracts")
	diskBaseDir := flag.String("disk_base_dir", "", "Base directory for the disk driver")
	awsRegion := flag.String("aws_region", "", "")

	cacheBackend := flag.String("cache_backend", "", "Cache for fetched extracts: redis, memcache or memory")
	cacheExpiry := flag.Float64("cache_expiry_secs", 0, "Seconds a fetched extract is served from cache")
	redisHost := flag.String("redis_host", "", "")
	redisPort := flag.Int("redis_port", 0, "")
	redisPassword := flag.String("redis_password", "", "")
	memcacheServers := flag.String("memcache_servers", "", "Comma separated list of memcache servers localhost:11211,localhost:11212")
	memoryCacheSize := flag.Int("memory_cache_size", 0, "")

	datasetRegistryFile := flag.String("dataset_registry_file", "", "Yaml file overriding dataset locations")
	maxDatasetBytes := flag.Int64("max_dataset_bytes", 0, "Largest extract the loader will read")
	kpiPeriodRule := flag.String("kpi_period_rule", "", "second_to_last, last or latest_complete")
	affiliatePeriod := flag.String("affiliate_period", "", "Period shown on affiliate totals, i.e Apr 2025")

	sentryDSN := flag.String("sentry_dsn", "", "Sentry DSN")
	gcpProjectID := flag.String("gcp_project_id", "", "Project for stackdriver metrics")
	gcpProjectLocation := flag.String("gcp_project_location", "", "")
	flag.Parse()

	config := &C.Configuration{
		AppName:             "thorchain_dashboard",
		Env:                 *env,
		Port:                *port,
		FileStore:           *fileStore,
		BucketName:          *bucketName,
		DiskBaseDir:         *diskBaseDir,
		AWSRegion:           *awsRegion,
		CacheBackend:        *cacheBackend,
		CacheExpiryInSecs:   *cacheExpiry,
		RedisHost:           *redisHost,
		RedisPort:           *redisPort,
		RedisPassword:       *redisPassword,
		MemoryCacheSize:     *memoryCacheSize,
		DatasetRegistryFile: *datasetRegistryFile,
		MaxDatasetBytes:     *maxDatasetBytes,
		KPIPeriodRule:       *kpiPeriodRule,
		AffiliatePeriod:     *affiliatePeriod,
		SentryDSN:           *sentryDSN,
		GCPProjectID:        *gcpProjectID,
		GCPProjectLocation:  *gcpProjectLocation,
	}
	if *memcacheServers != "" {
		config.MemcacheServers = strings.Split(*memcacheServers, ",")
	}

	// Initialize configs and connections.
	err := C.Init(config)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize.")
		return
	}

	if !C.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	defer C.SafeFlushSentryHook()

	r := gin.New()
	r.Use(mid.CustomCors())
	r.Use(mid.RequestIdGenerator())
	r.Use(mid.Logger())
	r.Use(mid.Recovery())
	if C.GetConfig().SentryDSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}

	H.InitRoutes(r, C.GetServices().Assembler)
	if err := r.Run(":" + strconv.Itoa(C.GetConfig().Port)); err != nil {
		log.WithError(err).Error("Server stopped.")
	}
}
