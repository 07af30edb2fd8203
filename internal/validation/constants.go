package validation

const (
	ErrMsgSchemaLoad      = "failed to load schema"
	ErrMsgParseDocument   = "failed to parse JSON document"
	ErrMsgSchemaViolation = "document does not match schema"
	ErrMsgInvalidValue    = "invalid value"
)
