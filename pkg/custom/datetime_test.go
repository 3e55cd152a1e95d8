package custom

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDatetimeJSON(t *testing.T) {
	d := Datetime(time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC))

	got, err := json.Marshal(d)
	require.NoError(t, err)
	require.Equal(t, `"2024-03-01T12:30:00Z"`, string(got))

	out := new(Datetime)
	require.NoError(t, json.Unmarshal(got, out))
	require.True(t, time.Time(d).Equal(time.Time(*out)))
}

func TestDatetimeJSONZero(t *testing.T) {
	got, err := json.Marshal(Datetime{})
	require.NoError(t, err)
	require.Equal(t, `null`, string(got))

	out := new(Datetime)
	require.NoError(t, json.Unmarshal([]byte(`null`), out))
	require.True(t, time.Time(*out).IsZero())
}

func TestDatetimeScan(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		src  any
		want time.Time
	}{
		{
			name: "time value",
			src:  now,
			want: now,
		},
		{
			name: "rfc3339 string",
			src:  "2024-03-01T12:30:00Z",
			want: now,
		},
		{
			name: "sqlite timestamp string",
			src:  "2024-03-01 12:30:00",
			want: now,
		},
		{
			name: "nil",
			src:  nil,
			want: time.Time{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := new(Datetime)
			require.NoError(t, d.Scan(tt.src))
			require.True(t, tt.want.Equal(time.Time(*d)))
		})
	}
}

func TestDatetimeScanUnsupported(t *testing.T) {
	d := new(Datetime)
	require.Error(t, d.Scan(42))
}

func TestDatetimeValue(t *testing.T) {
	d := Datetime(time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC))

	v, err := d.Value()
	require.NoError(t, err)
	require.Equal(t, "2024-03-01T12:30:00Z", v)

	// Zero datetimes persist as NULL.
	v, err = Datetime{}.Value()
	require.NoError(t, err)
	require.Nil(t, v)
}
