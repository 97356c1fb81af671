package envelope

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"transfer-cost/core/types"
	"transfer-cost/internal/errors"
)

func decode(t *testing.T, body string) RawInput {
	t.Helper()
	raw, err := DecodeJSON(strings.NewReader(body))
	require.NoError(t, err)
	return raw
}

func TestNormalizeValidInput(t *testing.T) {
	n := NewNormalizer()

	tests := []struct {
		name   string
		body   string
		amount string
		regime types.Regime
	}{
		{"number amount", `{"amount": 450000, "sub_type": "F", "dutytype": "N", "date": "before"}`, "450000", types.RegimePreCutover},
		{"string amount", `{"amount": "1200000", "sub_type": "S", "dutytype": "N", "date": "after"}`, "1200000", types.RegimePostCutover},
		{"whitespace stripped", `{"amount": " 1 200 000.50 ", "sub_type": "S", "dutytype": "A", "date": "after"}`, "1200000.5", types.RegimePostCutover},
		{"exponent notation", `{"amount": "1.5e6", "sub_type": "F", "dutytype": "N", "date": "after"}`, "1500000", types.RegimePostCutover},
		{"maximum amount", `{"amount": 1000000000000000, "sub_type": "F", "dutytype": "C", "date": "after"}`, "1000000000000000", types.RegimePostCutover},
		{"any other date is post cutover", `{"amount": 10, "sub_type": "S", "dutytype": "C", "date": "2023-01-01"}`, "10", types.RegimePostCutover},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := n.Normalize(decode(t, tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.amount, env.Request.Amount.String())
			assert.Equal(t, tt.regime, env.Request.Regime)
			assert.Len(t, env.InputHash, 64)
			assert.Len(t, env.ShortHash(), 12)
		})
	}
}

func TestNormalizeRejectsInvalidInput(t *testing.T) {
	n := NewNormalizer()

	tests := []struct {
		name string
		body string
		msg  string
	}{
		{"empty object", `{}`, MsgMissingFields},
		{"missing date", `{"amount": 1, "sub_type": "S", "dutytype": "N"}`, MsgMissingFields},
		{"null amount", `{"amount": null, "sub_type": "S", "dutytype": "N", "date": "after"}`, MsgMissingFields},
		{"empty sub type", `{"amount": 1, "sub_type": "", "dutytype": "N", "date": "after"}`, MsgMissingFields},
		{"zero amount", `{"amount": 0, "sub_type": "S", "dutytype": "N", "date": "after"}`, MsgInvalidAmount},
		{"negative amount", `{"amount": "-10", "sub_type": "S", "dutytype": "N", "date": "after"}`, MsgInvalidAmount},
		{"non numeric amount", `{"amount": "abc", "sub_type": "S", "dutytype": "N", "date": "after"}`, MsgInvalidAmount},
		{"overflowing amount", `{"amount": "1e400", "sub_type": "S", "dutytype": "N", "date": "after"}`, MsgInvalidAmount},
		{"overflowing numeric amount", `{"amount": 1e400, "sub_type": "S", "dutytype": "N", "date": "after"}`, MsgInvalidAmount},
		{"huge exponent", `{"amount": "1e5000000", "sub_type": "S", "dutytype": "N", "date": "after"}`, MsgInvalidAmount},
		{"tiny exponent", `{"amount": "1e-5000000", "sub_type": "S", "dutytype": "N", "date": "after"}`, MsgInvalidAmount},
		{"above maximum", `{"amount": "1000000000000001", "sub_type": "S", "dutytype": "N", "date": "after"}`, MsgInvalidAmount},
		{"boolean amount", `{"amount": true, "sub_type": "S", "dutytype": "N", "date": "after"}`, MsgInvalidAmount},
		{"amount checked before enums", `{"amount": "x", "sub_type": "Q", "dutytype": "N", "date": "after"}`, MsgInvalidAmount},
		{"unknown sub type", `{"amount": 1, "sub_type": "Q", "dutytype": "N", "date": "after"}`, MsgInvalidSubType},
		{"unknown duty type", `{"amount": 1, "sub_type": "S", "dutytype": "R", "date": "after"}`, MsgInvalidDutyType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := n.Normalize(decode(t, tt.body))
			require.Error(t, err)

			e, ok := errors.As(err)
			require.True(t, ok)
			assert.Equal(t, errors.TypeValidation, e.Type)
			assert.Equal(t, tt.msg, e.Message)
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	raw, err := DecodeJSON(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, RawInput{}, raw)

	_, err = DecodeJSON(strings.NewReader(`{"amount":`))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeValidation))
}

func TestInputHashIsDeterministic(t *testing.T) {
	n := NewNormalizer()

	a, err := n.Normalize(FromFlags("1200000", "S", "N", "after"))
	require.NoError(t, err)
	b, err := n.Normalize(FromFlags("1 200 000", "S", "N", "whenever"))
	require.NoError(t, err)
	c, err := n.Normalize(FromFlags("1200000", "S", "N", "before"))
	require.NoError(t, err)

	assert.Equal(t, a.InputHash, b.InputHash)
	assert.NotEqual(t, a.InputHash, c.InputHash)
}

func TestZapAuditLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	audit := &ZapAuditLogger{Logger: zap.New(core)}

	env, err := NewNormalizer().Normalize(FromFlags("450000", "F", "N", "before"))
	require.NoError(t, err)

	entry := CreateAuditEntry(env, "req-1", "127.0.0.1", "test")
	entry.RateTable = "pre-2024-10-01"
	entry.SetDuration(3 * time.Millisecond)
	entry.MarkFailed(errors.Internal("boom", nil))
	require.NoError(t, audit.Log(entry))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "450000/F/N/before", fields["request"])
	assert.Equal(t, false, fields["success"])
	assert.Equal(t, int64(3), fields["duration_ms"])
	assert.NotEmpty(t, fields["error"])
}
