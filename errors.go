package hidkit

import (
	"errors"

	"github.com/hidkit/hidkit/report"
)

// Facade-level error kinds (spec.md §7) not already covered by the report
// package's parse/codec sentinels.
var (
	// ErrNotFound is returned by OpenByPath/OpenByVidPid when no matching
	// device is present.
	ErrNotFound = errors.New("hidkit: device not found")

	// ErrDescriptorRead means the transport's report-descriptor fetch
	// failed or produced bytes report.Parse could not accept.
	ErrDescriptorRead = errors.New("hidkit: failed to read report descriptor")

	// ErrTransport wraps an underlying I/O failure from the Transport.
	ErrTransport = errors.New("hidkit: transport error")

	// ErrClosed is returned by Device.SetElementValue and
	// Device.RefreshDescriptor when called after Close.
	ErrClosed = errors.New("hidkit: device closed")
)

// Re-exported so callers that only import the root package can still
// errors.Is against the report package's parse/codec failures (§7)
// without a second import.
var (
	ErrDescriptorTruncated   = report.ErrDescriptorTruncated
	ErrDescriptorUnsupported = report.ErrDescriptorUnsupported
	ErrReportTooShort        = report.ErrReportTooShort
	ErrUnknownReportId       = report.ErrUnknownReportId
	ErrOutOfRange            = report.ErrOutOfRange
)
