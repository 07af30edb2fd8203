package store

// Source tells where a tiered read or write was served from
type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
)

// Error Messages
const (
	ErrMsgEncodeFailed     = "failed to encode document"
	ErrMsgDecodeFailed     = "failed to decode document"
	ErrMsgBothStoresFailed = "remote and local stores both failed"
)

// Log Messages
const (
	LogMsgRemoteReadFailed  = "Remote read failed, falling back to local cache"
	LogMsgRemoteWriteFailed = "Remote write failed, keeping local copy only"
	LogMsgRemoteTxFailed    = "Remote transaction failed, applying update locally"
	LogMsgMirrorSaveFailed  = "Failed to mirror document locally"
	LogMsgCorruptLocalItem  = "Discarding corrupt local cache item"
)

// Fallback operation labels
const (
	OpGet      = "get"
	OpSet      = "set"
	OpTransact = "transact"
)
