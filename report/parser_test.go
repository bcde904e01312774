package report

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// S1 — minimal mouse descriptor.
func TestParseMinimalMouse(t *testing.T) {
	descriptor := []byte{
		0x05, 0x01, // USAGE_PAGE (Generic Desktop)
		0x09, 0x02, // USAGE (Mouse)
		0xA1, 0x01, // COLLECTION (Application)
		0x09, 0x01, // USAGE (Pointer)
		0xA1, 0x00, // COLLECTION (Physical)
		0x05, 0x09, // USAGE_PAGE (Button)
		0x19, 0x01, // USAGE_MIN (1)
		0x29, 0x03, // USAGE_MAX (3)
		0x15, 0x00, // LOGICAL_MIN (0)
		0x25, 0x01, // LOGICAL_MAX (1)
		0x95, 0x03, // REPORT_COUNT (3)
		0x75, 0x01, // REPORT_SIZE (1)
		0x81, 0x02, // INPUT (Data,Var,Abs)
		0x95, 0x01, // REPORT_COUNT (1)
		0x75, 0x05, // REPORT_SIZE (5)
		0x81, 0x03, // INPUT (Const,Var,Abs)
		0x05, 0x01, // USAGE_PAGE (Generic Desktop)
		0x09, 0x30, // USAGE (X)
		0x09, 0x31, // USAGE (Y)
		0x15, 0x81, // LOGICAL_MIN (-127)
		0x25, 0x7F, // LOGICAL_MAX (127)
		0x75, 0x08, // REPORT_SIZE (8)
		0x95, 0x02, // REPORT_COUNT (2)
		0x81, 0x06, // INPUT (Data,Var,Rel)
		0xC0,       // END_COLLECTION
		0xC0,       // END_COLLECTION
	}

	model, err := Parse(descriptor)
	require.NoError(t, err)

	require.Equal(t, 2, model.NumCollections)
	require.Len(t, model.Elements, 6)

	buttons := model.Elements[0:3]
	for i, e := range buttons {
		require.Equal(t, IOInput, e.IOType)
		require.Equal(t, 1, e.ReportSize)
		require.EqualValues(t, i+1, e.Usage)
		require.True(t, e.IsVariable())
	}

	padding := model.Elements[3]
	require.Equal(t, 5, padding.ReportSize)
	require.True(t, padding.Flags.Constant())

	xAxis, yAxis := model.Elements[4], model.Elements[5]
	require.Equal(t, 8, xAxis.ReportSize)
	require.EqualValues(t, -127, xAxis.LogicalMin)
	require.EqualValues(t, 127, xAxis.LogicalMax)
	require.EqualValues(t, 0x30, xAxis.Usage)
	require.EqualValues(t, 0x31, yAxis.Usage)
	require.True(t, xAxis.IsRelative())

	require.Equal(t, []uint8{0}, model.ReportIDs)
	require.Equal(t, []int{24}, model.InputLengths)
}

// S6 — physical-range fallback.
func TestParsePhysicalRangeFallback(t *testing.T) {
	descriptor := []byte{
		0x15, 0xFF, // LOGICAL_MIN (-1)
		0x25, 0x01, // LOGICAL_MAX (1)
		0x75, 0x08, // REPORT_SIZE (8)
		0x95, 0x01, // REPORT_COUNT (1)
		0x81, 0x02, // INPUT (Data,Var,Abs)
	}
	model, err := Parse(descriptor)
	require.NoError(t, err)
	require.Len(t, model.Elements, 1)
	e := model.Elements[0]
	require.EqualValues(t, -1, e.PhysMin)
	require.EqualValues(t, 1, e.PhysMax)
}

func TestParseUnbalancedPushPopIsPermissive(t *testing.T) {
	descriptor := []byte{
		0xB4,       // POP with nothing pushed
		0x75, 0x08, // REPORT_SIZE (8)
		0x95, 0x01, // REPORT_COUNT (1)
		0x81, 0x02, // INPUT
	}
	model, err := Parse(descriptor)
	require.NoError(t, err)
	require.Len(t, model.Elements, 1)
}

func TestParsePushPopRestoresGlobalState(t *testing.T) {
	descriptor := []byte{
		0x15, 0x00, // LOGICAL_MIN (0)
		0x25, 0x01, // LOGICAL_MAX (1)
		0xA4,       // PUSH
		0x15, 0x00, // LOGICAL_MIN (0)
		0x25, 0x09, // LOGICAL_MAX (9)
		0x75, 0x08, 0x95, 0x01, 0x81, 0x02, // emit one element with range 0..9
		0xB4,                               // POP restores range 0..1
		0x75, 0x08, 0x95, 0x01, 0x81, 0x02, // emit second element with restored range 0..1
	}
	model, err := Parse(descriptor)
	require.NoError(t, err)
	require.Len(t, model.Elements, 2)
	require.EqualValues(t, 9, model.Elements[0].LogicalMax)
	require.EqualValues(t, 1, model.Elements[1].LogicalMax)
}

func TestParseTruncatedItem(t *testing.T) {
	descriptor := []byte{0x15} // LOGICAL_MIN announces 1 data byte, none follow
	_, err := Parse(descriptor)
	require.ErrorIs(t, err, ErrDescriptorTruncated)
}

func TestParseLongItemUnsupported(t *testing.T) {
	_, err := Parse([]byte{0xFE, 0x00, 0x00})
	require.ErrorIs(t, err, ErrDescriptorUnsupported)
}

// S4 — multi-report device builds distinct report-id slots.
func TestParseMultipleReportIDs(t *testing.T) {
	descriptor := []byte{
		0x85, 0x01, // REPORT_ID (1)
		0x75, 0x10, 0x95, 0x01, 0x91, 0x02, // OUTPUT 16 bits
		0x85, 0x02, // REPORT_ID (2)
		0x75, 0x10, 0x95, 0x01, 0x91, 0x02, // OUTPUT 16 bits
	}
	model, err := Parse(descriptor)
	require.NoError(t, err)
	require.Equal(t, []uint8{0, 1, 2}, model.ReportIDs)
	require.Equal(t, []int{0, 16, 16}, model.ReportLengths)
	require.True(t, model.HasMultipleReportIDs())
}
