package report

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBitCursorRoundTrip(t *testing.T) {
	// S5 — two adjacent 12-bit fields packed into 3 bytes.
	buf := make([]byte, 3)
	w := NewBitCursor(buf)
	require.NoError(t, w.Write(12, 0xABC))
	require.NoError(t, w.Write(12, 0x123))
	require.Equal(t, []byte{0xBC, 0x3A, 0x12}, buf)

	r := NewBitCursor(buf)
	v1, err := r.Read(12)
	require.NoError(t, err)
	require.EqualValues(t, 0xABC, v1)
	v2, err := r.Read(12)
	require.NoError(t, err)
	require.EqualValues(t, 0x123, v2)
}

func TestBitCursorRoundTripArbitraryWidths(t *testing.T) {
	widths := []int{1, 3, 7, 8, 9, 15, 16, 17, 31, 32}
	values := []uint32{1, 5, 100, 0xFF, 0x1FF, 0x7FFF, 0xFFFF, 0x1AAAA, 0x7FFFFFFF, 0xFFFFFFFF}

	totalBits := 0
	for _, w := range widths {
		totalBits += w
	}
	buf := make([]byte, (totalBits+7)/8)
	writer := NewBitCursor(buf)
	for i, w := range widths {
		require.NoError(t, writer.Write(w, values[i]&mask32(w)))
	}

	reader := NewBitCursor(buf)
	for i, w := range widths {
		got, err := reader.Read(w)
		require.NoError(t, err)
		require.Equal(t, values[i]&mask32(w), got)
	}
}

func mask32(w int) uint32 {
	if w >= 32 {
		return 0xFFFFFFFF
	}
	return uint32(1)<<uint(w) - 1
}

func TestBitCursorEndOfBuffer(t *testing.T) {
	buf := make([]byte, 1)
	c := NewBitCursor(buf)
	_, err := c.Read(9)
	require.ErrorIs(t, err, ErrEndOfBuffer)
}

func TestBitCursorRemainingBits(t *testing.T) {
	buf := make([]byte, 2)
	c := NewBitCursor(buf)
	require.Equal(t, 16, c.RemainingBits())
	require.NoError(t, c.Skip(5))
	require.Equal(t, 11, c.RemainingBits())
	require.Equal(t, 5, c.BitOffset())
}
