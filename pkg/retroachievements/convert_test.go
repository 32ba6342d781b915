package retroachievements

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_Unmarshal(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValid bool
		wantTime  time.Time
		wantErr   bool
	}{
		{
			name:      "vendor layout",
			input:     `"2023-06-15 20:30:00"`,
			wantValid: true,
			wantTime:  time.Date(2023, 6, 15, 20, 30, 0, 0, time.UTC),
		},
		{name: "null is invalid not zero-value error", input: `null`},
		{name: "empty string is invalid", input: `""`},
		{name: "unparsable string errors", input: `"June 15th"`, wantErr: true},
		{name: "number errors", input: `1686860000`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			err := json.Unmarshal([]byte(tt.input), &ts)

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, ts.Valid)
			if tt.wantValid {
				assert.True(t, ts.Time.Equal(tt.wantTime))
			}
		})
	}
}

func TestTimestamp_MarshalRoundTrip(t *testing.T) {
	ts := Timestamp{Time: time.Date(2023, 6, 15, 20, 30, 0, 0, time.UTC), Valid: true}

	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2023-06-15 20:30:00"`, string(data))

	data, err = json.Marshal(Timestamp{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestFlexInt_Unmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    FlexInt
		wantErr bool
	}{
		{name: "number", input: `42`, want: 42},
		{name: "quoted number", input: `"42"`, want: 42},
		{name: "null", input: `null`, want: 0},
		{name: "empty string", input: `""`, want: 0},
		{name: "garbage", input: `"lots"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexInt
			err := json.Unmarshal([]byte(tt.input), &f)

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, f)
		})
	}
}

func TestFlexFloat_Unmarshal(t *testing.T) {
	var f FlexFloat
	require.NoError(t, json.Unmarshal([]byte(`"99.85"`), &f))
	assert.InDelta(t, 99.85, f.Float64(), 0.0001)

	require.NoError(t, json.Unmarshal([]byte(`99.85`), &f))
	assert.InDelta(t, 99.85, f.Float64(), 0.0001)
}
