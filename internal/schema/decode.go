package schema

import (
	"bytes"
	"encoding/json"
)

// decodeArguments parses the raw tool arguments. Unknown fields are
// rejected: the model is bound to the declared parameter set.
func decodeArguments(raw json.RawMessage) (verdictArguments, error) {
	var args verdictArguments
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&args); err != nil {
		return args, err
	}
	return args, nil
}
