package tracing

// Context carries request identifiers through handlers and helpers for log
// correlation.
type Context struct {
	RequestID     string `json:"request_id"`
	RequestSource string `json:"request_source"`
}
