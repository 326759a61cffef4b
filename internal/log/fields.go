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
	FieldSession    = "session_id"
	FieldChart      = "chart"
	FieldRecords    = "records"
	FieldYears      = "years"
	FieldYear       = "year"
	FieldCategory   = "category"
	FieldContentKey = "content_key"
	FieldCacheHit   = "cache_hit"
	FieldBackend    = "backend"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentIngest  = "ingest"
	ComponentDataset = "dataset"
	ComponentSession = "session"
	ComponentCache   = "cache"
	ComponentSource  = "source"
)

// Operations defines standard operation names
const (
	OpLoad      = "load"
	OpPartition = "partition"
	OpSelect    = "select"
	OpBuild     = "build"
	OpCreate    = "create"
	OpTeardown  = "teardown"
	OpStartup   = "startup"
	OpShutdown  = "shutdown"
)
