package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
	MetricNameSecurityRejections   = "security_rejections_total"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventPublishErrors = "event_publish_errors_total"
)

// Inventory metric names
const (
	MetricNameInventoryOperations = "inventory_operations_total"
	MetricNameItemsEquipped       = "inventory_items_equipped_total"
	MetricNameCatalogCacheHits    = "catalog_cache_hits_total"
	MetricNameCatalogCacheMisses  = "catalog_cache_misses_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
	HelpTextSecurityRejections   = "Requests rejected by auth or rate limiting"
)

const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventPublishErrors = "Total number of events that failed to publish"
)

const (
	HelpTextInventoryOperations = "Inventory processor operations by outcome"
	HelpTextItemsEquipped       = "Equips by item type"
	HelpTextCatalogCacheHits    = "Catalog lookups served from cache"
	HelpTextCatalogCacheMisses  = "Catalog lookups that fell through to the store"
)

// ============================================================================
// Metric Label Names
// ============================================================================

const (
	LabelMethod    = "method"
	LabelPath      = "path"
	LabelStatus    = "status"
	LabelType      = "type"
	LabelOperation = "operation"
	LabelOutcome   = "outcome"
	LabelLookup    = "lookup"
	LabelItemType  = "item_type"
	LabelReason    = "reason"
)

// Log messages
const (
	LogMsgUnexpectedPayload = "Event payload is not an ownership payload"
)

// HTTPLatencyBuckets are histogram buckets for request latency in seconds
var HTTPLatencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}
