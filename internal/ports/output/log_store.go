package output

// LogStore interface - Output port
// Defines the shared append-only log every connection session writes to.
// Implementations must give single-writer/multi-reader semantics: Append excludes
// every other Append and ReadAll, ReadAll calls may run in parallel with each other.
type LogStore interface {
	// Append writes line followed by a line terminator and flushes it.
	// When Append returns nil the line is visible to every later ReadAll.
	// A failed Append leaves no partial line behind and the store stays usable.
	// Errors wrap domain.ErrStoreIO.
	Append(line string) error

	// ReadAll returns the full current content, every record followed by a
	// line terminator. It never observes a partially written line.
	// Errors wrap domain.ErrStoreIO.
	ReadAll() (string, error)

	// Close releases the backing resource.
	Close() error
}
