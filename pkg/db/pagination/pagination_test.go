package pagination

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeClamps(t *testing.T) {
	cases := []struct {
		name string
		in   Params
		want Params
	}{
		{"zero values", Params{}, Params{Page: 1, Limit: DefaultLimit}},
		{"negative page", Params{Page: -3, Limit: 20}, Params{Page: 1, Limit: 20}},
		{"limit too large", Params{Page: 2, Limit: 500}, Params{Page: 2, Limit: MaxLimit}},
		{"in range", Params{Page: 4, Limit: 25}, Params{Page: 4, Limit: 25}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.in.Normalize())
		})
	}
}

func TestOffset(t *testing.T) {
	require.Equal(t, 0, Params{Page: 1, Limit: 10}.Offset())
	require.Equal(t, 30, Params{Page: 4, Limit: 10}.Offset())
	require.Equal(t, 0, Params{}.Offset())
}

func TestBuildMetaCeil(t *testing.T) {
	meta := BuildMeta(21, Params{Page: 1, Limit: 10})
	require.Equal(t, int64(21), meta.Total)
	require.Equal(t, 3, meta.TotalPages)

	meta = BuildMeta(20, Params{Page: 2, Limit: 10})
	require.Equal(t, 2, meta.TotalPages)

	meta = BuildMeta(0, Params{Page: 1, Limit: 10})
	require.Equal(t, 0, meta.TotalPages)
}
