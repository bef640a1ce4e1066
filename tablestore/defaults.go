package tablestore

const (
	// DefaultCompletionWorkers is the number of goroutines a client starts to
	// process completions when it owns its completion queue.
	DefaultCompletionWorkers = 4

	apiVersionPrefix = "/v2"
)
