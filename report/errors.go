package report

import "errors"

// Sentinel errors surfaced by BitCursor, the descriptor parser and the
// report codec. Parsing is deliberately permissive (HID devices in the
// wild routinely carry odd descriptors); these are reserved for the
// conditions §7 calls out as real failures rather than oddities to shrug
// off.
var (
	// ErrEndOfBuffer is returned by BitCursor.Read/Skip when fewer bits
	// remain than requested.
	ErrEndOfBuffer = errors.New("report: end of buffer")

	// ErrDescriptorTruncated means the descriptor buffer ended mid-item:
	// a prefix byte announced more data bytes than remained.
	ErrDescriptorTruncated = errors.New("report: descriptor truncated")

	// ErrDescriptorUnsupported means a long item (prefix 0xFE) was seen;
	// short items only are supported.
	ErrDescriptorUnsupported = errors.New("report: unsupported descriptor item")

	// ErrReportTooShort means the decode buffer ran out before every
	// field for the matched report id had been read.
	ErrReportTooShort = errors.New("report: report buffer too short")

	// ErrUnknownReportId means a multi-report-id device handed decode a
	// buffer whose leading byte matches no registered report id.
	ErrUnknownReportId = errors.New("report: unknown report id")

	// ErrOutOfRange means a value assigned to an element does not fit in
	// report_size bits. Encode still proceeds, masking the value, per
	// §7's documented choice; the error is returned so the caller can log
	// or reject the call.
	ErrOutOfRange = errors.New("report: value out of range for element width")
)
