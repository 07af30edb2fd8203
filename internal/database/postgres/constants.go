package postgres

// Error Messages - Document Operations
const (
	ErrMsgFailedToGetDocument       = "failed to get document"
	ErrMsgFailedToWriteDocument     = "failed to write document"
	ErrMsgFailedToUpdateDocument    = "failed to update document"
	ErrMsgFailedToIncrementField    = "failed to increment field"
	ErrMsgFailedToListDocuments     = "failed to list documents"
	ErrMsgFailedToLockDocument      = "failed to lock document"
	ErrMsgFailedToBeginTransaction  = "failed to begin transaction"
	ErrMsgFailedToCommitTransaction = "failed to commit transaction"
)

// Log Messages
const (
	LogMsgRollbackFailed = "Failed to rollback transaction"
)
