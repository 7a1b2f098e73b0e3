package server

import "time"

// HTTP error messages for middleware responses
const (
	ErrMsgUnauthorized    = "Unauthorized"
	ErrMsgTooManyRequests = "Too Many Requests"
)

// Security alert message templates
const (
	SecurityAlertFailedAuth = "SECURITY ALERT: Multiple failed authentication attempts"
	SecurityAlertHighRate   = "SECURITY ALERT: Blocking high request rate"
)

// Log messages for server lifecycle and request handling
const (
	LogMsgServerStarting   = "Server starting"
	LogMsgRequestStarted   = "Request started"
	LogMsgRequestCompleted = "Request completed"
	LogMsgRequestHeaders   = "Request headers"
	LogMsgAuthFailed       = "Authentication failed"
)

// HTTP header names
const (
	HeaderAPIKey         = "X-API-Key"
	HeaderAuthorization  = "Authorization"
	HeaderForwardedFor   = "X-Forwarded-For"
	HeaderRequestID      = "X-Request-ID"
	HeaderContentType    = "X-Content-Type-Options"
	HeaderFrameOptions   = "X-Frame-Options"
	HeaderXSSProtection  = "X-XSS-Protection"
	HeaderReferrerPolicy = "Referrer-Policy"
	HeaderRetryAfter     = "Retry-After"
)

// securityHeaders are set on every response
var securityHeaders = [][2]string{
	{HeaderContentType, "nosniff"},
	{HeaderFrameOptions, "SAMEORIGIN"},
	{HeaderXSSProtection, "1; mode=block"},
	{HeaderReferrerPolicy, "strict-origin-when-cross-origin"},
}

// Rate limiting thresholds per client IP
const (
	FailedAuthAlertThreshold = 5
	MaxRequestsPerWindow     = 1000
	RateWindow               = 5 * time.Minute
	MaxTrackedClients        = 10000
	RateAlertEvery           = 100
	RetryAfterSeconds        = "300"
)

// Rejection reasons for the security_rejections_total metric
const (
	RejectUnauthorized = "unauthorized"
	RejectRateLimited  = "rate_limited"
)

// Server limits
const (
	MaxRequestBodyBytes = 1 << 20
	ReadHeaderTimeout   = 5 * time.Second
)

// Public path prefixes that bypass authentication
var PublicPaths = []string{
	"/healthz",
	"/readyz",
	"/version",
	"/metrics",
}

// Paths that are neither traced nor logged per request
var untracedPaths = []string{
	"/healthz",
	"/readyz",
	"/metrics",
}

// TraceOperationName names the server span instrumentation
const TraceOperationName = "wardrobe.http"

// Header redaction marker
const (
	RedactedValue = "[REDACTED]"
)
