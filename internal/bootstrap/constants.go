package bootstrap

import "time"

// =============================================================================
// File System Permissions
// =============================================================================

const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0755
)

// =============================================================================
// Logger Configuration
// =============================================================================

// Log messages for logger initialization
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStartingService     = "Starting wardrobe"
	LogMsgConfigurationLoaded = "Configuration loaded"
)

// =============================================================================
// Storage Configuration
// =============================================================================

// Log messages for storage initialization
const (
	LogMsgStorageInitialized = "Storage initialized"
	LogMsgMigrationsApplied  = "Database migrations applied"
	LogMsgCatalogCacheActive = "Catalog cache enabled"
	ErrMsgFailedConnectDB    = "failed to connect to database"
	ErrMsgFailedMigrate      = "failed to run migrations"
)

// =============================================================================
// Event System Configuration
// =============================================================================

const (
	// EventDefaultRetryDelay is the base delay between retry attempts
	EventDefaultRetryDelay = 2 * time.Second

	// EventDefaultMaxRetries is the number of background retries per event
	EventDefaultMaxRetries = 3
)

// Log messages for event system initialization
const (
	LogMsgEventSystemInitialized     = "Event system initialized"
	LogMsgFailedCreateDeadLetterDir  = "failed to create dead-letter directory"
	LogMsgFailedOpenDeadLetter       = "failed to open dead-letter file"
	LogMsgMetricsCollectorRegistered = "Metrics collector registered"
	LogMsgEventLoggerInitialized     = "Event logger initialized"
	LogMsgInventoryEvent             = "Inventory event"
)

// =============================================================================
// Tracing
// =============================================================================

const (
	LogMsgTracingInitialized = "Tracing exporter initialized"
	LogMsgTracingFlushFailed = "Tracing shutdown failed"
	ErrMsgFailedInitTracing  = "failed to initialize tracing"
)

// =============================================================================
// Catalog Sync Messages
// =============================================================================

const (
	// CatalogSchemaVersion is the catalog file version this build reads
	CatalogSchemaVersion = "1.0"

	LogMsgSyncingCatalog  = "Syncing catalog from JSON config..."
	LogMsgCatalogSynced   = "Catalog synced successfully"
	ErrMsgFailedLoadItems = "failed to load catalog config"
	ErrMsgInvalidItems    = "invalid catalog config"
	ErrMsgFailedSyncItems = "failed to sync catalog to store"
)

// =============================================================================
// Shutdown Messages
// =============================================================================

const (
	LogMsgShuttingDownServer         = "Shutting down server..."
	LogMsgShuttingDownEventPublisher = "Shutting down event publisher..."
	LogMsgServerStopped              = "Server stopped"
	LogMsgServerForcedShutdown       = "Server forced to shutdown"
	LogMsgResilientPublisherFailed   = "Resilient publisher shutdown failed"
	LogMsgEventSystemCloseFailed     = "Event system close failed"
)
