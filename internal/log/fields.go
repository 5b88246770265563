package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"

	FieldSession     = "session"
	FieldSourceFile  = "source_file"
	FieldFileCount   = "file_count"
	FieldRecordCount = "record_count"
	FieldTxCount     = "transaction_count"
	FieldCategory    = "category"
	FieldAmountCents = "amount_cents"
	FieldSnapshotID  = "snapshot_id"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentParser   = "parser"
	ComponentAnalysis = "analysis"
	ComponentStorage  = "storage"
	ComponentAMQP     = "amqp"
)

// Operations defines standard operation names
const (
	OpParse    = "parse"
	OpAnalyze  = "analyze"
	OpAppend   = "append"
	OpList     = "list"
	OpRead     = "read"
	OpUpdate   = "update"
	OpPublish  = "publish"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
