package comm

import (
	"encoding/json"
	"testing"

	"github.com/avvvet/round-services/internal/gamesvc/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBetRequestAmountText(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`{"amount": 100}`, "100"},
		{`{"amount": "12.50"}`, "12.50"},
		{`{"amount": " 7 "}`, "7"},
		{`{"amount": "NaN"}`, "NaN"},
		{`{"target": 3}`, ""},
		{`{"amount": null}`, "null"},
		{`{"amount": "abc", "target": 10}`, "abc"},
	}
	for _, tt := range tests {
		var r BetRequest
		require.NoError(t, json.Unmarshal([]byte(tt.raw), &r), tt.raw)
		assert.Equal(t, tt.want, r.AmountText(), tt.raw)
	}
}

func TestNewCommandResponse(t *testing.T) {
	ok := NewCommandResponse(nil)
	assert.True(t, ok.Status)
	assert.Empty(t, ok.Reason)

	rej := NewCommandResponse(engine.ErrNoActivePosition)
	assert.False(t, rej.Status)
	assert.Equal(t, "no_active_position", rej.Reason)
	assert.NotZero(t, rej.Timestamp)
}
