package domain

// RawLine is a single line of input text together with its 1-based line
// number and the format label of the file it came from (LOG, TXT, VLOG).
// RawLines are owned by the collector for one parse pass and discarded
// after extraction.
type RawLine struct {
	Number int
	Text   string
	Format string
}

// LogRecord is one successfully parsed log entry.
// Timestamp is the only required field. All other fields are optional and
// absent fields are nil pointers, never empty strings, so that summary
// cardinalities count only values that were actually present.
type LogRecord struct {
	Timestamp int64   `json:"timestamp"`
	EventType *string `json:"event_type,omitempty"`
	Username  *string `json:"username,omitempty"`
	IPAddress *string `json:"ip_address,omitempty"`
	FilePath  *string `json:"file_path,omitempty"`
	ProcessID *int    `json:"process_id,omitempty"`

	// SourceLine points back to the originating line number, for
	// traceability only.
	SourceLine int `json:"source_line"`

	// SourceFormat is the uppercased extension of the source file.
	SourceFormat string `json:"source_format,omitempty"`
}
