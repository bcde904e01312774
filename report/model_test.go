package report

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCollectionTypeString(t *testing.T) {
	require.Equal(t, "Application", CollectionApplication.String())
	require.Equal(t, "Vendor(0xA0)", CollectionType(0xA0).String())
	require.Equal(t, "Reserved(0x07)", CollectionType(0x07).String())
}

func TestIOTypeString(t *testing.T) {
	require.Equal(t, "Input", IOInput.String())
	require.Equal(t, "Unknown(0x09)", IOType(9).String())
}

func mouseDescriptor() []byte {
	return []byte{
		0x05, 0x01, 0x09, 0x02, 0xA1, 0x01, 0x09, 0x01, 0xA1, 0x00,
		0x05, 0x09, 0x19, 0x01, 0x29, 0x03,
		0x15, 0x00, 0x25, 0x01, 0x95, 0x03, 0x75, 0x01, 0x81, 0x02,
		0x95, 0x01, 0x75, 0x05, 0x81, 0x03,
		0x05, 0x01, 0x09, 0x30, 0x09, 0x31,
		0x15, 0x81, 0x25, 0x7F, 0x75, 0x08, 0x95, 0x02, 0x81, 0x06,
		0xC0, 0xC0,
	}
}

// Invariant 1: report_size >= 1 and logical_min <= logical_max for every
// parsed element.
func TestInvariantElementRanges(t *testing.T) {
	model, err := Parse(mouseDescriptor())
	require.NoError(t, err)
	for _, e := range model.Elements {
		require.GreaterOrEqual(t, e.ReportSize, 1)
		require.LessOrEqual(t, e.LogicalMin, e.LogicalMax)
	}
}

// Invariant 2: every non-root collection is reachable from root and is
// listed in its parent's Children.
func TestInvariantCollectionReachability(t *testing.T) {
	model, err := Parse(mouseDescriptor())
	require.NoError(t, err)

	var walk func(c *Collection)
	seen := 0
	walk = func(c *Collection) {
		for _, child := range c.Children {
			seen++
			require.Same(t, c, child.Parent)
			require.Contains(t, child.Parent.Children, child)
			walk(child)
		}
	}
	walk(model.Root)
	require.Equal(t, model.NumCollections, seen)
}

// Invariant 3: the flat element list preserves descriptor declaration
// order — each element's Index is strictly increasing.
func TestInvariantElementOrdering(t *testing.T) {
	model, err := Parse(mouseDescriptor())
	require.NoError(t, err)
	for i, e := range model.Elements {
		require.Equal(t, i, e.Index)
	}
}

// Invariant 7: report id table is duplicate-free and ReportLengths[r]
// equals the summed report_size of Output elements carrying id r.
func TestInvariantReportLengths(t *testing.T) {
	descriptor := []byte{
		0x85, 0x01, // REPORT_ID (1)
		0x75, 0x08, 0x95, 0x03, 0x91, 0x02, // OUTPUT: 3 x 8 bits
	}
	model, err := Parse(descriptor)
	require.NoError(t, err)

	seen := map[uint8]bool{}
	for _, id := range model.ReportIDs {
		require.False(t, seen[id], "duplicate report id %d", id)
		seen[id] = true
	}

	sum := 0
	for _, e := range model.Elements {
		if e.IOType == IOOutput && e.ReportID == 1 {
			sum += e.ReportSize
		}
	}
	require.Equal(t, sum, model.lengthFor(1, model.ReportLengths))
	require.Equal(t, 24, sum)
}

func TestNextInputOutputFeatureFiltering(t *testing.T) {
	model := newDeviceModel()
	in := newElement()
	in.IOType = IOInput
	out := newElement()
	out.IOType = IOOutput
	feat1 := newElement()
	feat1.IOType = IOFeature
	feat1.ReportID = 1
	feat2 := newElement()
	feat2.IOType = IOFeature
	feat2.ReportID = 2
	model.Elements = append(model.Elements, in, out, feat1, feat2)

	require.Equal(t, []*Element{in}, model.NextInput(0))
	require.Equal(t, []*Element{out}, model.NextOutput(0))
	require.Equal(t, []*Element{feat1, feat2}, model.NextFeature())
	require.Equal(t, []*Element{feat1}, model.FeatureElements(1))
}
