package classifier

// Reserved values the classifier uses when nothing recyclable was found
const (
	TypeError         = "error"
	StatusOK          = 200
	StatusUnsupported = 400
)

// Error Messages
const (
	ErrMsgNoJSONObject  = "no JSON object in response"
	ErrMsgDecodeFailed  = "response is not valid JSON"
	ErrMsgNotRecyclable = "object was not recognised as recyclable"
	ErrMsgInvalidFields = "response fields are invalid"
)
