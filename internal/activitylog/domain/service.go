package domain

// Recorder is the shared append-only activity log. Implementations must
// make Append atomic with respect to interleaved requests.
type Recorder interface {
	Append(severity, message string)
	// Recent returns up to n entries, newest first.
	Recent(n int) []Entry
	// Total reports the number of entries currently retained.
	Total() int
	// Last returns the most recent entry, if any.
	Last() (Entry, bool)
}
