package event

import (
	"encoding/json"
	"fmt"
)

// DecodePayload returns the payload as T. Payloads published in process are
// already T (or *T); anything else, such as a map decoded from a replayed
// event, is converted through JSON.
func DecodePayload[T Payload](input any) (T, error) {
	var result T
	switch v := input.(type) {
	case T:
		return v, nil
	case *T:
		if v == nil {
			return result, fmt.Errorf("%s: nil %T", ErrMsgPayloadMismatch, v)
		}
		return *v, nil
	case nil:
		return result, fmt.Errorf("%s: missing payload for %s", ErrMsgPayloadMismatch, result.eventType())
	}

	data, err := json.Marshal(input)
	if err != nil {
		return result, fmt.Errorf("%s: %w", ErrMsgPayloadMismatch, err)
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, fmt.Errorf("%s: %w", ErrMsgPayloadMismatch, err)
	}
	return result, nil
}
