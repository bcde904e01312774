package report

import "fmt"

// CollectionType is the value carried by a COLLECTION item, HID 1.11 §6.2.2.6.
type CollectionType uint8

const (
	CollectionPhysical     = CollectionType(0x00)
	CollectionApplication  = CollectionType(0x01)
	CollectionLogical      = CollectionType(0x02)
	CollectionReport       = CollectionType(0x03)
	CollectionNamedArray   = CollectionType(0x04)
	CollectionUsageSwitch  = CollectionType(0x05)
	CollectionUsageModifier = CollectionType(0x06)
)

var collectionTypeNames = map[CollectionType]string{
	CollectionPhysical:      "Physical",
	CollectionApplication:   "Application",
	CollectionLogical:       "Logical",
	CollectionReport:        "Report",
	CollectionNamedArray:    "NamedArray",
	CollectionUsageSwitch:   "UsageSwitch",
	CollectionUsageModifier: "UsageModifier",
}

func (t CollectionType) String() string {
	if name, ok := collectionTypeNames[t]; ok {
		return name
	}
	if t >= 0x80 {
		return fmt.Sprintf("Vendor(0x%.2X)", uint8(t))
	}
	return fmt.Sprintf("Reserved(0x%.2X)", uint8(t))
}

// IOType classifies which report kind an Element belongs to.
type IOType uint8

const (
	IOInput   = IOType(1)
	IOOutput  = IOType(2)
	IOFeature = IOType(3)
)

var ioTypeNames = map[IOType]string{
	IOInput:   "Input",
	IOOutput:  "Output",
	IOFeature: "Feature",
}

func (t IOType) String() string {
	if name, ok := ioTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(0x%.2X)", uint8(t))
}

// ElementFlags is the raw data byte of an INPUT/OUTPUT/FEATURE main item
// (HID 1.11 §6.2.2.4); each bit has a fixed meaning the accessor methods
// below decode.
type ElementFlags uint32

func (f ElementFlags) Constant() bool      { return f&(1<<0) != 0 }
func (f ElementFlags) Variable() bool      { return f&(1<<1) != 0 }
func (f ElementFlags) Relative() bool      { return f&(1<<2) != 0 }
func (f ElementFlags) Wrap() bool          { return f&(1<<3) != 0 }
func (f ElementFlags) NonLinear() bool     { return f&(1<<4) != 0 }
func (f ElementFlags) NoPreferred() bool   { return f&(1<<5) != 0 }
func (f ElementFlags) HasNull() bool       { return f&(1<<6) != 0 }
func (f ElementFlags) Volatile() bool      { return f&(1<<7) != 0 }
func (f ElementFlags) BufferedBytes() bool { return f&(1<<8) != 0 }

// Collection is a grouping node in the descriptor tree (§3).
type Collection struct {
	Type       CollectionType
	UsagePage  uint32
	UsageIndex uint32
	UsageMin   uint32
	UsageMax   uint32
	Index      int

	// NumCollections counts direct child collections opened under this
	// one (§4.4's "increment parent's num_collections when parent is not
	// the device root").
	NumCollections int

	Parent   *Collection
	Children []*Collection
	Elements []*Element
}

func newCollection() *Collection {
	return &Collection{
		Children: make([]*Collection, 0, 4),
		Elements: make([]*Element, 0, 8),
	}
}

// Element is a single bit-field within some report (§3).
type Element struct {
	IOType       IOType
	ReportID     uint8
	ReportSize   int
	ReportIndex  int
	Index        int
	UsagePage    uint32
	Usage        uint32
	UsageMin     uint32 // array fields use this at decode time to compute Usage from the raw index
	LogicalMin   int32
	LogicalMax   int32
	PhysMin      int32
	PhysMax      int32
	Unit         uint32
	UnitExponent int32
	Flags        ElementFlags

	// Mutable state set by ReportCodec.
	RawValue   uint32
	Value      int32
	ArrayValue uint32
	Repeat     bool

	Parent *Collection
}

func newElement() *Element {
	return &Element{}
}

// IsVariable reports whether the field is a single variable bit-field
// (as opposed to an array index field).
func (e *Element) IsVariable() bool {
	return !e.Flags.Constant() && e.Flags.Variable()
}

// IsArray reports whether the field is an array (selector) field.
func (e *Element) IsArray() bool {
	return !e.Flags.Variable()
}

// IsRelative reports whether the field encodes a relative delta rather
// than an absolute value.
func (e *Element) IsRelative() bool {
	return e.Flags.Relative()
}

// DeviceModel is the parsed report-descriptor tree plus the flat element
// list and report-id tables the codec walks (§3).
type DeviceModel struct {
	Root     *Collection
	Elements []*Element

	ReportIDs      []uint8
	ReportLengths  []int // summed report_size over Output elements, by report id
	InputLengths   []int // computed symmetrically (SPEC_FULL §3)
	FeatureLengths []int // computed symmetrically (SPEC_FULL §3)

	NumCollections int
}

func newDeviceModel() *DeviceModel {
	root := newCollection()
	root.Index = 0
	d := &DeviceModel{
		Root:           root,
		Elements:       make([]*Element, 0, 32),
		ReportIDs:      []uint8{0},
		ReportLengths:  []int{0},
		InputLengths:   []int{0},
		FeatureLengths: []int{0},
	}
	return d
}

// reportSlot returns the index of reportID in ReportIDs, appending a new
// zeroed slot to all three length tables if it hasn't been seen before.
func (d *DeviceModel) reportSlot(reportID uint8) int {
	for i, id := range d.ReportIDs {
		if id == reportID {
			return i
		}
	}
	d.ReportIDs = append(d.ReportIDs, reportID)
	d.ReportLengths = append(d.ReportLengths, 0)
	d.InputLengths = append(d.InputLengths, 0)
	d.FeatureLengths = append(d.FeatureLengths, 0)
	return len(d.ReportIDs) - 1
}

// filterElements returns, in descriptor-declaration order, every element
// of the given io type, optionally restricted to one report id.
func (d *DeviceModel) filterElements(io IOType, reportID uint8, anyReport bool) []*Element {
	res := make([]*Element, 0, len(d.Elements))
	for _, e := range d.Elements {
		if e.IOType != io {
			continue
		}
		if !anyReport && e.ReportID != reportID {
			continue
		}
		res = append(res, e)
	}
	return res
}

// NextInput returns the Input elements belonging to reportID, in
// descriptor order (§4.3).
func (d *DeviceModel) NextInput(reportID uint8) []*Element {
	return d.filterElements(IOInput, reportID, false)
}

// NextOutput returns the Output elements belonging to reportID, in
// descriptor order (§4.3).
func (d *DeviceModel) NextOutput(reportID uint8) []*Element {
	return d.filterElements(IOOutput, reportID, false)
}

// NextFeature returns every Feature element, in descriptor order (§4.3).
func (d *DeviceModel) NextFeature() []*Element {
	return d.filterElements(IOFeature, 0, true)
}

// FeatureElements returns the Feature elements belonging to reportID.
// Added (SPEC_FULL §5) for DecodeFeature/EncodeFeature, which — unlike
// NextFeature — need to work one report id at a time.
func (d *DeviceModel) FeatureElements(reportID uint8) []*Element {
	return d.filterElements(IOFeature, reportID, false)
}

// lengthFor looks up reportID's entry in one of the three parallel
// length tables without mutating ReportIDs (unlike reportSlot); an
// unregistered id reads back as 0.
func (d *DeviceModel) lengthFor(reportID uint8, table []int) int {
	for i, id := range d.ReportIDs {
		if id == reportID {
			return table[i]
		}
	}
	return 0
}

// knownReportID reports whether reportID was registered during parsing.
func (d *DeviceModel) knownReportID(reportID uint8) bool {
	for _, id := range d.ReportIDs {
		if id == reportID {
			return true
		}
	}
	return false
}

// HasMultipleReportIDs reports whether more than one report id was
// registered during parsing, which determines whether report payloads
// carry a leading report-id byte (§4.5).
func (d *DeviceModel) HasMultipleReportIDs() bool {
	return len(d.ReportIDs) > 1
}
