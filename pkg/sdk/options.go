package geosnap

import "go.uber.org/zap"

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	dsn string

	storageEndpoint  string
	storageAccessKey string
	storageSecretKey string
	storageBucket    string
	storageUseSSL    bool

	geocoderAPIKey string

	visionProvider string // "yandex" or "openai"
	visionAPIKey   string
	visionModel    string

	cacheAddrs    []string
	cachePassword string
	cacheDB       int

	locality string

	logger *zap.Logger
}

// WithPostgres sets the Postgres connection string. Required.
func WithPostgres(dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.dsn = dsn
	})
}

// WithStorage configures the S3-compatible object store for image blobs. Required.
func WithStorage(endpoint, accessKey, secretKey, bucket string, useSSL bool) Option {
	return optionFunc(func(c *clientConfig) {
		c.storageEndpoint = endpoint
		c.storageAccessKey = accessKey
		c.storageSecretKey = secretKey
		c.storageBucket = bucket
		c.storageUseSSL = useSSL
	})
}

// WithGeocoder enables forward and reverse geocoding through the Yandex
// Geocoding API. Without it, address origins are unresolvable and addresses
// are synthesized from coordinates.
func WithGeocoder(apiKey string) Option {
	return optionFunc(func(c *clientConfig) {
		c.geocoderAPIKey = apiKey
	})
}

// WithVision enables the detected-text resolution stage.
// provider is "yandex" or "openai"; model applies to the openai provider only.
func WithVision(provider, apiKey, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.visionProvider = provider
		c.visionAPIKey = apiKey
		c.visionModel = model
	})
}

// WithGeocodeCache caches geocoding results in Redis.
func WithGeocodeCache(addr, password string, db int) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
		c.cacheDB = db
	})
}

// WithLocality overrides the default locality used for synthesized and
// text-derived addresses. Default: Moscow.
func WithLocality(locality string) Option {
	return optionFunc(func(c *clientConfig) {
		c.locality = locality
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}
