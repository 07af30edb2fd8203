package database

// DefaultMinConnections is kept open even when the service is idle
const DefaultMinConnections int32 = 2

const (
	ErrMsgFailedToParseConnString = "failed to parse connection string"
	ErrMsgFailedToCreatePool      = "failed to create connection pool"
	ErrMsgFailedToPingDatabase    = "failed to ping database"
	ErrMsgFailedToOpenMigrationDB = "failed to open database for migrations"
	ErrMsgFailedToMigrate         = "failed to apply migrations"
)

const (
	LogMsgConnected         = "Connected to document store database"
	LogMsgMigrationsApplied = "Database migrations applied"
)
