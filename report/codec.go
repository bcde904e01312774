package report

import (
	"fmt"
	"math"
)

// ElementCallback fires once per decoded element whose raw value changed,
// or whose Repeat flag forces a callback on every decode regardless.
type ElementCallback func(e *Element)

// ReportCodec maps a DeviceModel's elements onto report payload bytes in
// both directions (§4.5).
type ReportCodec struct {
	model *DeviceModel
}

// NewReportCodec binds a codec to model; the codec never owns the model,
// only mutates element state during decode and reads it during encode.
func NewReportCodec(model *DeviceModel) *ReportCodec {
	return &ReportCodec{model: model}
}

// splitReport strips the leading report-id byte when the device uses more
// than one report id, per the wire format in §6.
func (c *ReportCodec) splitReport(buf []byte) (reportID uint8, payload []byte, err error) {
	if !c.model.HasMultipleReportIDs() {
		return 0, buf, nil
	}
	if len(buf) < 1 {
		return 0, nil, ErrReportTooShort
	}
	reportID = buf[0]
	if !c.model.knownReportID(reportID) {
		return 0, nil, ErrUnknownReportId
	}
	return reportID, buf[1:], nil
}

// DecodeInput reads buf as an input report, firing cb for every Input
// element whose value changed (or whose Repeat flag is set), in
// descriptor order (§4.5).
func (c *ReportCodec) DecodeInput(buf []byte, cb ElementCallback) error {
	reportID, payload, err := c.splitReport(buf)
	if err != nil {
		return err
	}
	return c.decode(c.model.NextInput(reportID), payload, reportID, cb)
}

// DecodeFeature reads buf as a feature report. Added (SPEC_FULL §5)
// symmetrically with DecodeInput — the source only implements the input
// read path, but feature reports use the identical wire format and the
// same per-element set_value_from_input rule.
func (c *ReportCodec) DecodeFeature(buf []byte, cb ElementCallback) error {
	reportID, payload, err := c.splitReport(buf)
	if err != nil {
		return err
	}
	return c.decode(c.model.FeatureElements(reportID), payload, reportID, cb)
}

func (c *ReportCodec) decode(elements []*Element, payload []byte, reportID uint8, cb ElementCallback) error {
	cursor := NewBitCursor(payload)
	for _, e := range elements {
		raw, err := cursor.Read(e.ReportSize)
		if err != nil {
			return fmt.Errorf("%w: report id %d", ErrReportTooShort, reportID)
		}
		if raw != e.RawValue || e.Repeat {
			setValueFromInput(e, raw)
			if cb != nil {
				cb(e)
			}
		}
	}
	return nil
}

// setValueFromInput applies a freshly read raw bit-field to an element's
// interpreted value (§4.5).
func setValueFromInput(e *Element, raw uint32) {
	e.RawValue = raw
	switch {
	case e.LogicalMin < 0:
		e.Value = SignedDecode(raw, e.ReportSize)
	case e.IsArray():
		if raw == 0 {
			e.Value = 0
			e.ArrayValue = 0
		} else {
			e.Usage = e.UsageMin + raw
			e.Value = 1
			e.ArrayValue = raw
		}
	default:
		e.Value = int32(raw)
	}
}

// fitsWidth reports whether e.Value can be represented exactly in
// e.ReportSize bits, signed or unsigned according to whether the element
// has a negative logical range.
func (e *Element) fitsWidth() bool {
	w := e.ReportSize
	if w <= 0 || w >= 32 {
		return true
	}
	if e.LogicalMin < 0 {
		maxV := int32(1)<<uint(w-1) - 1
		minV := -(int32(1) << uint(w-1))
		return e.Value >= minV && e.Value <= maxV
	}
	maxV := int32(uint32(1)<<uint(w) - 1)
	return e.Value >= 0 && e.Value <= maxV
}

// EncodeOutput builds an output report for reportID from the current
// Value of every Output element registered under it (§4.5). The returned
// error is ErrOutOfRange when some element's Value did not fit its
// report_size — the buffer is still fully built, masking the offending
// fields, per §7's documented choice.
func (c *ReportCodec) EncodeOutput(reportID uint8) ([]byte, error) {
	return c.encode(c.model.NextOutput(reportID), reportID, c.model.lengthFor(reportID, c.model.ReportLengths))
}

// EncodeFeature builds a feature report for reportID. Added (SPEC_FULL
// §5) symmetrically with EncodeOutput.
func (c *ReportCodec) EncodeFeature(reportID uint8) ([]byte, error) {
	return c.encode(c.model.FeatureElements(reportID), reportID, c.model.lengthFor(reportID, c.model.FeatureLengths))
}

// encode builds a report for reportID, prefixing a leading report-id byte
// only when the device uses more than one report id — the same condition
// splitReport checks on decode, so an encoded buffer round-trips straight
// back through DecodeInput/DecodeFeature without the caller stripping or
// adding anything (§6 wire format, §8 #4).
func (c *ReportCodec) encode(elements []*Element, reportID uint8, bitLength int) ([]byte, error) {
	byteLen := bitLength / 8
	if bitLength%8 != 0 {
		byteLen++
	}
	prefixLen := 0
	if c.model.HasMultipleReportIDs() {
		prefixLen = 1
	}
	buf := make([]byte, byteLen+prefixLen)
	if prefixLen == 1 {
		buf[0] = reportID
	}

	cursor := NewBitCursor(buf[prefixLen:])
	var rangeErr error
	for _, e := range elements {
		if !e.fitsWidth() {
			rangeErr = ErrOutOfRange
		}
		if err := cursor.Write(e.ReportSize, uint32(e.Value)); err != nil {
			return buf, err
		}
	}
	return buf, rangeErr
}

// mapLogical normalizes e.Value into 0..1 of its logical range; array
// elements have no range to normalize against and report their raw
// presence value instead (§4.5).
func mapLogical(e *Element) float64 {
	if e.IsArray() {
		return float64(e.Value)
	}
	span := e.LogicalMax - e.LogicalMin
	if span == 0 {
		return 0
	}
	return float64(e.Value-e.LogicalMin) / float64(span)
}

// MapLogical is the exported form of mapLogical.
func MapLogical(e *Element) float64 {
	return mapLogical(e)
}

// MapPhysical scales e's normalized logical value into its physical
// range (§4.5).
func MapPhysical(e *Element) float64 {
	return mapLogical(e)*float64(e.PhysMax-e.PhysMin) + float64(e.PhysMin)
}

// SetLogical assigns e.Value from a normalized 0..1 fraction f of its
// logical range. Uses the corrected `+min` form rather than the source's
// `-min` (§9 open question: "set_logical asymmetry").
func SetLogical(e *Element, f float64) {
	span := float64(e.LogicalMax - e.LogicalMin)
	e.Value = int32(math.Round(f*span)) + e.LogicalMin
}

// Resolution computes HID 1.11's per-element resolution: logical units
// per physical unit, adjusted by unit_exponent. Implemented per spec
// rather than omitted (§9: the source's hid_element_resolution always
// returned 0).
func Resolution(e *Element) float64 {
	physSpan := float64(e.PhysMax - e.PhysMin)
	if physSpan == 0 {
		return 0
	}
	logicalSpan := float64(e.LogicalMax - e.LogicalMin)
	return logicalSpan / (physSpan * math.Pow(10, float64(e.UnitExponent)))
}
