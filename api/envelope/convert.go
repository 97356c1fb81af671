// Package envelope - Wire and flag input to RawInput conversion
package envelope

import (
	"encoding/json"
	"io"

	"transfer-cost/internal/errors"
)

// MsgInvalidBody is returned when the body is not a JSON object
const MsgInvalidBody = "Invalid request body: expected a JSON object"

// DecodeJSON reads a RawInput from a JSON body.
// An empty body decodes to an empty RawInput so that it reports missing fields.
func DecodeJSON(r io.Reader) (RawInput, error) {
	var raw RawInput
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		if err == io.EOF {
			return RawInput{}, nil
		}
		return RawInput{}, errors.Wrap(errors.TypeValidation, MsgInvalidBody, err)
	}
	return raw, nil
}

// FromFlags builds a RawInput from command line values
func FromFlags(amount, subType, dutyType, date string) RawInput {
	return RawInput{
		Amount:   Amount(amount),
		SubType:  subType,
		DutyType: dutyType,
		Date:     date,
	}
}
