package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{name: "plain number", input: `10`, want: 10},
		{name: "float", input: `2.5`, want: 2.5},
		{name: "numeral string", input: `"10"`, want: 10},
		{name: "float string", input: `"0.75"`, want: 0.75},
		{name: "null", input: `null`, want: 0},
		{name: "empty string", input: `""`, want: 0},
		{name: "garbage", input: `"fast"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n Number
			err := json.Unmarshal([]byte(tt.input), &n)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, n.Float())
		})
	}
}

func TestAnimationAcceptsStringDelays(t *testing.T) {
	raw := `{"type":"fadeIn","delay":"12","duration":"30","easing":"easeOut"}`

	var a Animation
	require.NoError(t, json.Unmarshal([]byte(raw), &a))
	assert.Equal(t, 12, a.Delay.Int())
	assert.Equal(t, 30, a.Duration.Int())
}

func TestTotalDuration(t *testing.T) {
	scenes := []Scene{{Duration: 90}, {Duration: 60}, {Duration: 150}}
	assert.Equal(t, 300, TotalDuration(scenes))
	assert.Equal(t, 0, TotalDuration(nil))
}
