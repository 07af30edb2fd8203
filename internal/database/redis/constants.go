package redis

const (
	// DefaultNamespace prefixes keys when Options.Namespace is empty
	DefaultNamespace = "ecoquest"
	// ScanBatchSize is the COUNT hint passed to SCAN
	ScanBatchSize = 200
)

// Error Messages
const (
	ErrMsgFailedToConnect = "failed to connect to redis"
	ErrMsgFailedToRead    = "failed to read redis cache"
	ErrMsgFailedToWrite   = "failed to write redis cache"
)

// Log Messages
const (
	LogMsgConnected = "Connected to Redis"
)
