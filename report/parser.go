package report

import "fmt"

// Short-item tags (HID 1.11 §6.2.2.2), keyed by prefix&0xFC so the type
// bits (Main/Global/Local) ride along with the tag instead of needing a
// second switch.
const (
	tagUsagePage     = 0x04
	tagUsage         = 0x08
	tagLogicalMin    = 0x14
	tagLogicalMax    = 0x24
	tagPhysicalMin   = 0x34
	tagPhysicalMax   = 0x44
	tagUnitExponent  = 0x54
	tagUnit          = 0x64
	tagReportSize    = 0x74
	tagReportID      = 0x84
	tagReportCount   = 0x94
	tagPush          = 0xA4
	tagPop           = 0xB4
	tagUsageMin      = 0x18
	tagUsageMax      = 0x28
	tagCollection    = 0xA0
	tagEndCollection = 0xC0
	tagInput         = 0x80
	tagOutput        = 0x90
	tagFeature       = 0xB0
)

const longItemPrefix = 0xFE

// staging accumulates item state between main-item commits. Global fields
// persist across INPUT/OUTPUT/FEATURE/COLLECTION; local fields are
// cleared after each (§4.4 "Staging register").
type staging struct {
	usagePage    uint32
	logicalMin   int32
	logicalMax   int32
	physMin      int32
	physMax      int32
	unit         uint32
	unitExponent int32
	reportSize   int
	reportID     uint8
	reportCount  int

	usage       uint32
	usages      []uint32
	usageMin    uint32
	usageMax    uint32
	usageMinSet bool
}

func (s *staging) resetLocal() {
	s.usages = s.usages[:0]
	s.usage = 0
	s.usageMin = 0
	s.usageMax = 0
	s.usageMinSet = false
}

func (s *staging) addUsage(v uint32) {
	if len(s.usages) < 256 {
		s.usages = append(s.usages, v)
	}
	s.usage = v
}

// globalSnapshot is what PUSH saves and POP restores (§9 open question 1:
// a real stack rather than the source's no-op stub).
type globalSnapshot struct {
	usagePage    uint32
	logicalMin   int32
	logicalMax   int32
	physMin      int32
	physMax      int32
	unit         uint32
	unitExponent int32
	reportSize   int
	reportID     uint8
	reportCount  int
}

func (s *staging) snapshot() globalSnapshot {
	return globalSnapshot{
		usagePage:    s.usagePage,
		logicalMin:   s.logicalMin,
		logicalMax:   s.logicalMax,
		physMin:      s.physMin,
		physMax:      s.physMax,
		unit:         s.unit,
		unitExponent: s.unitExponent,
		reportSize:   s.reportSize,
		reportID:     s.reportID,
		reportCount:  s.reportCount,
	}
}

func (s *staging) restore(g globalSnapshot) {
	s.usagePage = g.usagePage
	s.logicalMin = g.logicalMin
	s.logicalMax = g.logicalMax
	s.physMin = g.physMin
	s.physMax = g.physMax
	s.unit = g.unit
	s.unitExponent = g.unitExponent
	s.reportSize = g.reportSize
	s.reportID = g.reportID
	s.reportCount = g.reportCount
}

type parser struct {
	device     *DeviceModel
	current    *Collection
	stage      staging
	globalStack []globalSnapshot
}

// Parse interprets a raw HID report descriptor byte stream and returns
// the resulting device model (§4.4). Parsing is permissive: unrecognized
// tags are recorded but never fatal; the only hard failures are a
// truncated item and an unsupported long-item prefix (§7).
func Parse(data []byte) (*DeviceModel, error) {
	p := &parser{device: newDeviceModel()}
	p.current = p.device.Root

	i := 0
	for i < len(data) {
		prefix := data[i]
		i++
		if prefix == longItemPrefix {
			return nil, ErrDescriptorUnsupported
		}
		tag := prefix & 0xFC
		sizeField := prefix & 0x03
		dataSize := sizeField
		if dataSize == 3 {
			dataSize = 4
		}
		if i+int(dataSize) > len(data) {
			return nil, fmt.Errorf("%w: item at byte %d wants %d data bytes, %d remain", ErrDescriptorTruncated, i-1, dataSize, len(data)-i)
		}
		var v uint32
		for k := 0; k < int(dataSize); k++ {
			v |= uint32(data[i+k]) << uint(8*k)
		}
		i += int(dataSize)
		p.dispatch(tag, v, int(dataSize))
	}
	return p.device, nil
}

func signedFromItem(v uint32, dataSize int) int32 {
	if dataSize == 0 {
		return 0
	}
	return SignedDecode(v, dataSize*8)
}

func maxFromItem(v uint32, dataSize int, minNonNegative bool) int32 {
	if minNonNegative {
		return int32(v)
	}
	return signedFromItem(v, dataSize)
}

func (p *parser) dispatch(tag byte, v uint32, dataSize int) {
	s := &p.stage
	switch tag {
	case tagUsagePage:
		s.usagePage = v
	case tagUsage:
		s.addUsage(v)
	case tagLogicalMin:
		s.logicalMin = signedFromItem(v, dataSize)
	case tagLogicalMax:
		s.logicalMax = maxFromItem(v, dataSize, s.logicalMin >= 0)
	case tagPhysicalMin:
		s.physMin = signedFromItem(v, dataSize)
	case tagPhysicalMax:
		s.physMax = maxFromItem(v, dataSize, s.physMin >= 0)
	case tagUnitExponent:
		s.unitExponent = signedFromItem(v, dataSize)
	case tagUnit:
		s.unit = v
	case tagReportSize:
		s.reportSize = int(v)
	case tagReportID:
		s.reportID = uint8(v)
		p.device.reportSlot(s.reportID)
	case tagReportCount:
		s.reportCount = int(v)
	case tagPush:
		p.globalStack = append(p.globalStack, s.snapshot())
	case tagPop:
		if n := len(p.globalStack); n > 0 {
			s.restore(p.globalStack[n-1])
			p.globalStack = p.globalStack[:n-1]
		}
	case tagUsageMin:
		s.usageMin = v
		s.usageMinSet = true
	case tagUsageMax:
		s.usageMax = v
	case tagCollection:
		p.openCollection(CollectionType(v))
	case tagEndCollection:
		p.closeCollection()
	case tagInput:
		p.emit(IOInput, v)
	case tagOutput:
		p.emit(IOOutput, v)
	case tagFeature:
		p.emit(IOFeature, v)
	default:
		// Recorded only in the sense that it was seen and skipped; §7's
		// permissive policy treats unknown tags as non-fatal.
	}
}

func (p *parser) openCollection(t CollectionType) {
	s := &p.stage
	c := newCollection()
	c.Type = t
	c.UsagePage = s.usagePage
	c.UsageIndex = s.usage
	c.UsageMin = s.usageMin
	c.UsageMax = s.usageMax
	c.Index = p.device.NumCollections
	c.Parent = p.current

	p.current.Children = append(p.current.Children, c)
	p.device.NumCollections++
	if p.current != p.device.Root {
		p.current.NumCollections++
	}

	p.current = c
	s.resetLocal()
}

func (p *parser) closeCollection() {
	c := p.current
	if c.Parent == nil {
		// Unbalanced END_COLLECTION at the root; permissive per §7.
		return
	}
	p.stage.usagePage = c.UsagePage
	p.stage.usage = c.UsageIndex
	p.stage.resetLocal()
	p.current = c.Parent
}

func (p *parser) emit(io IOType, flagsByte uint32) {
	s := &p.stage
	for j := 0; j < s.reportCount; j++ {
		e := newElement()
		e.IOType = io
		e.ReportID = s.reportID
		e.ReportSize = s.reportSize
		e.ReportIndex = j
		e.UsagePage = s.usagePage
		e.UsageMin = s.usageMin
		e.LogicalMin = s.logicalMin
		e.LogicalMax = s.logicalMax
		e.PhysMin = s.physMin
		e.PhysMax = s.physMax
		e.Unit = s.unit
		e.UnitExponent = s.unitExponent
		e.Flags = ElementFlags(flagsByte)
		e.Parent = p.current

		if s.usageMinSet {
			e.Usage = s.usageMin + uint32(j)
		} else if j < len(s.usages) {
			e.Usage = s.usages[j]
		}

		if e.PhysMin == 0 && e.PhysMax == 0 {
			e.PhysMin = e.LogicalMin
			e.PhysMax = e.LogicalMax
		}

		e.Index = len(p.device.Elements)
		p.device.Elements = append(p.device.Elements, e)
		p.current.Elements = append(p.current.Elements, e)

		slot := p.device.reportSlot(e.ReportID)
		switch io {
		case IOOutput:
			p.device.ReportLengths[slot] += e.ReportSize
		case IOInput:
			p.device.InputLengths[slot] += e.ReportSize
		case IOFeature:
			p.device.FeatureLengths[slot] += e.ReportSize
		}
	}
	s.resetLocal()
}
