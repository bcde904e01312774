package report

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func buttonElement(usage uint32) *Element {
	e := newElement()
	e.IOType = IOInput
	e.ReportSize = 1
	e.Flags = ElementFlags(0x02) // Variable
	e.LogicalMin = 0
	e.LogicalMax = 1
	e.Usage = usage
	return e
}

func TestDecodeInputFiresCallbackOnChange(t *testing.T) {
	model := newDeviceModel()
	e1 := buttonElement(1)
	e2 := buttonElement(2)
	model.Elements = append(model.Elements, e1, e2)

	codec := NewReportCodec(model)
	var fired []*Element
	cb := func(e *Element) { fired = append(fired, e) }

	require.NoError(t, codec.DecodeInput([]byte{0b01}, cb))
	require.Len(t, fired, 1)
	require.Equal(t, e1, fired[0])
	require.EqualValues(t, 1, e1.Value)
	require.EqualValues(t, 0, e2.Value)

	fired = nil
	require.NoError(t, codec.DecodeInput([]byte{0b01}, cb))
	require.Empty(t, fired, "unchanged raw value must not re-fire")

	fired = nil
	e2.Repeat = true
	require.NoError(t, codec.DecodeInput([]byte{0b01}, cb))
	require.Len(t, fired, 1)
	require.Equal(t, e2, fired[0])
}

// S2 — signed field decode via the full decode path.
func TestDecodeInputSignedField(t *testing.T) {
	model := newDeviceModel()
	e := newElement()
	e.IOType = IOInput
	e.ReportSize = 8
	e.Flags = ElementFlags(0x02)
	e.LogicalMin = -127
	e.LogicalMax = 127
	model.Elements = append(model.Elements, e)

	codec := NewReportCodec(model)
	require.NoError(t, codec.DecodeInput([]byte{0b11111110}, nil))
	require.EqualValues(t, -2, e.Value)
}

// S3 — array input.
func TestDecodeInputArrayField(t *testing.T) {
	model := newDeviceModel()
	e := newElement()
	e.IOType = IOInput
	e.ReportSize = 8
	e.Flags = ElementFlags(0x00) // Array (Variable bit clear)
	e.LogicalMin = 0
	e.LogicalMax = 255
	e.UsageMin = 4
	model.Elements = append(model.Elements, e)

	codec := NewReportCodec(model)
	require.NoError(t, codec.DecodeInput([]byte{7}, nil))
	require.EqualValues(t, 1, e.Value)
	require.EqualValues(t, 11, e.Usage)
	require.EqualValues(t, 7, e.ArrayValue)

	require.NoError(t, codec.DecodeInput([]byte{0}, nil))
	require.EqualValues(t, 0, e.Value)
	require.EqualValues(t, 0, e.ArrayValue)
}

// S4 — multi-report output.
func TestEncodeOutputMultiReport(t *testing.T) {
	model := newDeviceModel()
	model.reportSlot(1)
	model.reportSlot(2)
	model.ReportLengths[model.reportSlot(2)] = 16

	lo := newElement()
	lo.IOType = IOOutput
	lo.ReportID = 2
	lo.ReportSize = 8
	lo.LogicalMin = 0
	lo.LogicalMax = 255
	lo.Value = 0xBC

	hi := newElement()
	hi.IOType = IOOutput
	hi.ReportID = 2
	hi.ReportSize = 8
	hi.LogicalMin = 0
	hi.LogicalMax = 255
	hi.Value = 0x3A

	model.Elements = append(model.Elements, lo, hi)

	codec := NewReportCodec(model)
	buf, err := codec.EncodeOutput(2)
	require.NoError(t, err)
	require.Equal(t, []byte{0x02, 0xBC, 0x3A}, buf)
}

// Invariant 4 — codec round-trip: encode Output values then decode the
// same bytes as Input of identical layout restores the same values.
func TestCodecRoundTrip(t *testing.T) {
	model := newDeviceModel()
	model.ReportLengths[0] = 16

	a := newElement()
	a.IOType = IOOutput
	a.ReportSize = 12
	a.Flags = ElementFlags(0x02) // Variable
	a.LogicalMin = 0
	a.LogicalMax = 0xFFF
	a.Value = 0xABC

	b := newElement()
	b.IOType = IOOutput
	b.ReportSize = 12
	b.Flags = ElementFlags(0x02) // Variable
	b.LogicalMin = 0
	b.LogicalMax = 0xFFF
	b.Value = 0x123

	model.Elements = append(model.Elements, a, b)
	model.ReportLengths[0] = 24

	codec := NewReportCodec(model)
	buf, err := codec.EncodeOutput(0)
	require.NoError(t, err)

	// Decode the identical payload as Input fields of the same layout.
	a.IOType, b.IOType = IOInput, IOInput
	var decoded []int32
	require.NoError(t, codec.DecodeInput(buf, func(e *Element) {
		decoded = append(decoded, e.Value)
	}))
	require.Equal(t, []int32{0xABC, 0x123}, decoded)
}

func TestMapLogicalAndPhysical(t *testing.T) {
	e := newElement()
	e.Flags = ElementFlags(0x02) // Variable
	e.LogicalMin, e.LogicalMax = 0, 100
	e.PhysMin, e.PhysMax = -50, 50
	e.Value = 75

	require.InDelta(t, 0.75, MapLogical(e), 1e-9)
	require.InDelta(t, 25, MapPhysical(e), 1e-9)
}

func TestSetLogicalUsesCorrectedForm(t *testing.T) {
	e := newElement()
	e.LogicalMin, e.LogicalMax = -10, 10
	SetLogical(e, 0.5)
	require.EqualValues(t, 0, e.Value)

	SetLogical(e, 1.0)
	require.EqualValues(t, 10, e.Value)
}

func TestResolution(t *testing.T) {
	e := newElement()
	e.LogicalMin, e.LogicalMax = 0, 255
	e.PhysMin, e.PhysMax = 0, 255
	e.UnitExponent = 0
	require.InDelta(t, 1.0, Resolution(e), 1e-9)
}

func TestEncodeOutputOutOfRangeIsMaskedNotFatal(t *testing.T) {
	model := newDeviceModel()
	model.ReportLengths[0] = 4

	e := newElement()
	e.IOType = IOOutput
	e.ReportSize = 4
	e.LogicalMin = 0
	e.LogicalMax = 15
	e.Value = 200 // does not fit in 4 bits
	model.Elements = append(model.Elements, e)

	codec := NewReportCodec(model)
	buf, err := codec.EncodeOutput(0)
	require.ErrorIs(t, err, ErrOutOfRange)
	require.Len(t, buf, 1) // single report id: no leading report-id byte
}
