package server

// Response represents the standardized JSON response for a calculation request.
type Response struct {
	// K is the index of the Fibonacci number requested.
	K uint64 `json:"k"`
	// Result is the decimal text of F(k). It is omitted if an error occurred.
	Result string `json:"result,omitempty"`
	// Digits is the digit count of the result.
	Digits int `json:"digits,omitempty"`
	// Duration is the formatted execution time string.
	Duration string `json:"duration"`
	// Error contains the error message if the calculation failed.
	Error string `json:"error,omitempty"`
	// Algorithm is the name of the strategy used for the calculation.
	Algorithm string `json:"algorithm"`
}

// ErrorResponse represents the standardized JSON response for an API error.
type ErrorResponse struct {
	// Error is the short error code or status text.
	Error string `json:"error"`
	// Message is a descriptive error message.
	Message string `json:"message,omitempty"`
}

// StatusResponse reports process and host health for the /status endpoint.
type StatusResponse struct {
	// MaxIndex is the configured inclusive maximum index.
	MaxIndex uint64 `json:"max_index"`
	// Algorithms lists the registered calculation strategies.
	Algorithms []string `json:"algorithms"`
	// HeapAllocBytes is the current heap in use by the process.
	HeapAllocBytes uint64 `json:"heap_alloc_bytes"`
	// NumGC is the number of completed GC cycles.
	NumGC uint32 `json:"num_gc"`
	// CPUPercent is the system-wide CPU usage, 0..100.
	CPUPercent float64 `json:"cpu_percent"`
	// MemPercent is the system-wide memory usage, 0..100.
	MemPercent float64 `json:"mem_percent"`
}

// parseError represents a query parameter parsing error with HTTP status.
type parseError struct {
	Message    string
	StatusCode int
}

// Error implements the error interface.
func (e parseError) Error() string {
	return e.Message
}
