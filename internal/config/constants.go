package config

import "time"

// Storage backends
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Defaults
const (
	DefaultPort             = 8080
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
	DefaultEnvironment      = "dev"
	DefaultServiceName      = "wardrobe"
	DefaultVersion          = "dev"
	DefaultStorage          = StoragePostgres
	DefaultDBMaxConns       = 10
	DefaultDBMaxConnIdle    = 5 * time.Minute
	DefaultDBMaxConnLife    = time.Hour
	DefaultCatalogCacheSize = 1024
	DefaultCatalogCacheTTL  = 5 * time.Minute
	DefaultRequestTimeout   = 10 * time.Second
	DefaultKafkaTopic       = "wardrobe.inventory"
	DefaultDeadLetterPath   = "logs/events_deadletter.jsonl"
	DefaultOtelSampleRate   = 1.0
)
