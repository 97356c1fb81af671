// Package envelope - Input normalization and envelope creation
// The engine NEVER sees raw input - only normalized envelopes.
// This keeps validation at the boundary and the engine total.
package envelope

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"math"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"transfer-cost/core/types"
	"transfer-cost/internal/errors"
)

const (
	// MsgMissingFields is returned when any required field is absent
	MsgMissingFields = "Missing required fields: amount, sub_type, dutytype, date"

	// MsgInvalidAmount is returned when amount is not a finite positive number within range
	MsgInvalidAmount = "Invalid amount provided"

	// MsgInvalidSubType is returned for an unknown sub_type
	MsgInvalidSubType = "Invalid sub_type: must be S or F"

	// MsgInvalidDutyType is returned for an unknown dutytype
	MsgInvalidDutyType = "Invalid dutytype: must be N, A or C"
)

// Amount is a property value as it arrives on the wire.
// The widget may send a JSON number or a numeric string.
type Amount string

// UnmarshalJSON accepts numbers, strings and null
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*a = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
	default:
		// Left unparsed; anything non-numeric fails amount validation.
		*a = Amount(data)
	}
	return nil
}

// RawInput represents the unnormalized request boundary
type RawInput struct {
	Amount   Amount `json:"amount" validate:"required"`
	SubType  string `json:"sub_type" validate:"required,oneof=S F"`
	DutyType string `json:"dutytype" validate:"required,oneof=N A C"`
	Date     string `json:"date" validate:"required"`
}

// InputEnvelope is the normalized, hashed representation of a request.
// The engine receives ONLY the request inside it.
type InputEnvelope struct {
	Request types.CostRequest `json:"request"`

	// Identity
	InputHash string `json:"input_hash"`

	// Timing
	NormalizedAt time.Time `json:"normalized_at"`
}

// Normalizer validates raw input into envelopes
type Normalizer struct {
	validate *validator.Validate
	now      func() time.Time
}

// NewNormalizer creates a normalizer
func NewNormalizer() *Normalizer {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	return &Normalizer{
		validate: v,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Normalize validates raw input and builds a deterministic envelope.
// Errors are always of type errors.TypeValidation.
func (n *Normalizer) Normalize(raw RawInput) (*InputEnvelope, error) {
	var fieldErrs validator.ValidationErrors
	if err := n.validate.Struct(raw); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return nil, errors.Internal("validate request", err)
		}
		fieldErrs = verrs
	}

	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			return nil, errors.Validation(MsgMissingFields).WithContext("field", fe.Field())
		}
	}

	amount, err := ParseAmount(string(raw.Amount))
	if err != nil {
		return nil, err
	}

	for _, fe := range fieldErrs {
		switch fe.Field() {
		case "sub_type":
			return nil, errors.Validation(MsgInvalidSubType).WithContext("value", raw.SubType)
		case "dutytype":
			return nil, errors.Validation(MsgInvalidDutyType).WithContext("value", raw.DutyType)
		}
	}

	envelope := &InputEnvelope{
		Request: types.CostRequest{
			Amount:   amount,
			SubType:  types.SubType(raw.SubType),
			DutyType: types.DutyType(raw.DutyType),
			Regime:   types.ParseRegime(raw.Date),
		},
		NormalizedAt: n.now(),
	}
	envelope.InputHash = computeInputHash(envelope.Request)

	return envelope, nil
}

// ParseAmount strips all whitespace and parses a finite positive amount
func ParseAmount(raw string) (decimal.Decimal, error) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)

	amount, err := decimal.NewFromString(cleaned)
	if err != nil || !withinBounds(amount) {
		return decimal.Zero, errors.Validation(MsgInvalidAmount).WithContext("value", raw)
	}
	return amount, nil
}

// maxAmount caps the purchase price. Larger values are not property prices.
var maxAmount = decimal.New(1, 15)

// maxExponent bounds the decimal exponent before any comparison rescales it
const maxExponent = 20

// withinBounds reports whether amount is a finite positive price the engine can price cheaply
func withinBounds(amount decimal.Decimal) bool {
	if exp := amount.Exponent(); exp > maxExponent || exp < -maxExponent {
		return false
	}
	if !amount.IsPositive() || amount.GreaterThan(maxAmount) {
		return false
	}
	return !math.IsInf(amount.InexactFloat64(), 0)
}

func computeInputHash(req types.CostRequest) string {
	// Hash only the fields that affect the calculation
	hashData := struct {
		Amount   string
		SubType  string
		DutyType string
		Regime   string
	}{
		Amount:   req.Amount.String(),
		SubType:  req.SubType.String(),
		DutyType: req.DutyType.String(),
		Regime:   req.Regime.String(),
	}

	data, _ := json.Marshal(hashData)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ShortHash returns first 12 characters of hash
func (e *InputEnvelope) ShortHash() string {
	if len(e.InputHash) >= 12 {
		return e.InputHash[:12]
	}
	return e.InputHash
}
