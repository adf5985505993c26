package log

// Field names used across the application for structured logging.
const (
	FieldComponent  = "component"
	FieldError      = "error"
	FieldOwnerID    = "owner_id"
	FieldResource   = "resource"
	FieldResourceID = "resource_id"
	FieldAction     = "action"
	FieldRequestID  = "request_id"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatus     = "status"
	FieldDuration   = "duration_ms"
	FieldRemoteAddr = "remote_addr"
	FieldPage       = "page"
	FieldPageSize   = "page_size"
	FieldCount      = "count"
	FieldQueue      = "queue"
	FieldRoutingKey = "routing_key"
	FieldExchange   = "exchange"
	FieldDBPath     = "db_path"
	FieldPort       = "port"
)

// ComponentApp names the binary in log records.
const ComponentApp = "trackzy"
