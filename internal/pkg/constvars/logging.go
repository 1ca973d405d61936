package constvars

const (
	LoggingRequestIDKey   = "request_id"
	LoggingClaimIDKey     = "claim_id"
	LoggingItemIDKey      = "item_id"
	LoggingStageKey       = "stage"
	LoggingDocumentIDKey  = "document_id"
	LoggingRerunTokenKey  = "rerun_token"
	LoggingDecisionKey    = "decision"
	LoggingDataKey        = "data"
	LoggingRequestKey     = "request"
	LoggingResponseKey    = "response"
	LoggingEndpointKey    = "endpoint"
	LoggingMethodKey      = "method"
	LoggingRemoteAddrKey  = "remote_addr"
	LoggingUserAgentKey   = "user_agent"
	LoggingQueryKey       = "query"
	LoggingStatusCodeKey  = "status_code"
	LoggingDurationKey    = "duration"
	LoggingSuccessKey     = "success"
	LoggingAlertCountKey  = "alert_count"
	LoggingItemCountKey   = "item_count"
)

const (
	ResponseUnknown = "unknown"
)
