package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// ============================================
// Standard Tracing Fields (Context level)
// These fields are propagated through the call chain
// ============================================

const (
	// FieldRequestID is the HTTP request ID (UUID)
	FieldRequestID = "request_id"

	// FieldCustomerID is the customer the operation is scoped to
	FieldCustomerID = "customer_id"

	// FieldSessionID is the polling session ID (UUID)
	FieldSessionID = "session_id"

	// FieldComponent is the component/module name
	FieldComponent = "component"

	// FieldSource is the collection data source (social_media, website, email)
	FieldSource = "source"
)

// ============================================
// Standard Metric Fields (Entry level)
// These fields are used for aggregation and alerting
// ============================================

const (
	// FieldDurationMs is the execution duration in milliseconds
	FieldDurationMs = "duration_ms"

	// FieldAttempt is the poll attempt number within a session
	FieldAttempt = "attempt"

	// FieldCount is a generic count field
	FieldCount = "count"

	// FieldSize is the data size in bytes
	FieldSize = "size"

	// FieldStatus is the operation status
	FieldStatus = "status"
)
