package logkey

// Shared keys for structured logging so log queries stay consistent
// across packages.
const (
	TraceID = "Trace ID"
	ERROR   = "Error"
)
