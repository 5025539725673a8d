package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldRoute      = "route"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldBytes      = "bytes"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldUserID     = "user_id"
	FieldKind       = "kind"
	FieldRecordID   = "record_id"
	FieldPeriod     = "period"
)

// Component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentLedger  = "ledger"
	ComponentAuth    = "auth"
	ComponentStore   = "store"
	ComponentMQ      = "mq"
	ComponentStorage = "storage"
	ComponentMigrate = "migrate"
	ComponentSeed    = "seed"
)
