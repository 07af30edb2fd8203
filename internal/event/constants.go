package event

// EventSchemaVersion is stamped on every published event
const EventSchemaVersion = "1.0"

const (
	LogMsgPublishFailed = "Event publish failed"

	ErrMsgPayloadMismatch = "payload does not match event type"

	// errHandlersFailedFormat wraps every handler error returned from one publish
	errHandlersFailedFormat = "%d handlers failed for %s: %w"
)
