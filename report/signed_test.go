package report

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSignedDecode(t *testing.T) {
	cases := []struct {
		v    uint32
		w    int
		want int32
	}{
		{0x00, 8, 0},
		{0x7F, 8, 127},
		{0x80, 8, -128},
		{0xFF, 8, -1},
		{0xFE, 8, -2}, // S2
	}
	for _, c := range cases {
		require.Equal(t, c.want, SignedDecode(c.v, c.w))
	}
}

func TestSignedDecodeRoundTrip(t *testing.T) {
	// Invariant 6: signed_decode(unsigned_encode(x, w), w) == x.
	for w := 2; w <= 16; w++ {
		min := -(int32(1) << uint(w-1))
		max := int32(1)<<uint(w-1) - 1
		for x := min; x <= max; x++ {
			encoded := uint32(x) & (uint32(1)<<uint(w) - 1)
			require.Equal(t, x, SignedDecode(encoded, w), "w=%d x=%d", w, x)
		}
	}
}

func TestSignedConditional(t *testing.T) {
	require.EqualValues(t, 65535, signedConditional(0xFFFF, 16, true))
	require.EqualValues(t, -1, signedConditional(0xFFFF, 16, false))
}
