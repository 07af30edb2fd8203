package sqlite

// DriverName is the database/sql driver registered by modernc.org/sqlite
const DriverName = "sqlite"

// PragmaJournalWAL enables write-ahead logging so readers never block the writer
const PragmaJournalWAL = `PRAGMA journal_mode=WAL`

// Error Messages
const (
	ErrMsgFailedToCreateDir = "failed to create cache directory"
	ErrMsgFailedToOpen      = "failed to open sqlite cache"
	ErrMsgFailedToMigrate   = "failed to apply sqlite schema"
	ErrMsgFailedToRead      = "failed to read sqlite cache"
	ErrMsgFailedToWrite     = "failed to write sqlite cache"
)
