package domain

// SnapshotStatus tags a streaming snapshot as intermediate or terminal.
type SnapshotStatus string

const (
	StatusStreaming SnapshotStatus = "streaming"
	StatusFinished  SnapshotStatus = "finished"
)

// Snapshot is one incremental partial-or-final state of a model answer.
// A snapshot sequence is finite and ends with exactly one finished snapshot.
type Snapshot struct {
	Status       SnapshotStatus
	Text         string
	InputTokens  int
	OutputTokens int

	// Trimmed is how many leading dialog messages were dropped to fit the
	// model's context window for this request.
	Trimmed int

	// Err is set only on a terminal snapshot when the request failed.
	Err error
}
