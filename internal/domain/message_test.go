package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumber_Unmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Number
		ok    bool
	}{
		{"plain int", `4`, 4, true},
		{"negative int", `-2`, -2, true},
		{"string int", `"4"`, 4, true},
		{"string negative", `"-1"`, -1, true},
		{"float truncates", `4.0`, 4, true},
		{"string float truncates", `"4.7"`, 4, true},
		{"empty string", `""`, 0, false},
		{"null", `null`, 0, false},
		{"not a number", `"abc"`, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var n Number
			err := json.Unmarshal([]byte(tc.input), &n)
			if !tc.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, n)
		})
	}
}
