package hidkit

// DeviceInfo describes one HID device found by Enumerate, before it is
// opened (spec.md §6). Grounded on karalabe-hid's DeviceInfo, trimmed to
// the fields a Transport backed by raw USB descriptors can actually
// populate (Windows/Mac-only UsagePage/Usage fields are dropped — no
// Transport in this module runs on those platforms).
type DeviceInfo struct {
	Path         string
	VendorID     uint16
	ProductID    uint16
	Serial       string
	Manufacturer string
	Product      string
	Interface    int
}

// Transport is the per-device handle the facade drives (spec.md §6,
// "Transport contract (consumed)"). Grounded on karalabe-hid's Device
// interface (Close/Write/Read) merged with the report-descriptor and
// non-blocking controls gousb's Device exposes under different names
// (GetDescriptorData, SetNonblocking is new — gousb has no non-blocking
// mode of its own, added because spec.md §6 requires it).
type Transport interface {
	// Close releases the underlying device handle.
	Close() error

	// Write sends one outgoing report (Output or Feature, caller's
	// choice of framing) to the device.
	Write(b []byte) (int, error)

	// Read retrieves one incoming report. A zero-length, nil-error
	// result means no report was available (non-blocking mode).
	Read(b []byte) (int, error)

	// GetReportDescriptor returns the device's raw report-descriptor
	// bytes, ready for report.Parse.
	GetReportDescriptor() ([]byte, error)

	// SetNonblocking switches the transport's read behavior; the facade
	// requests non-blocking by default (spec.md §5).
	SetNonblocking(nonblocking bool) error
}

// TransportOpener constructs Transports and enumerates the devices it
// can open — the factory half of the §6 contract that doesn't belong on
// an already-open handle. linuxhid.Opener is the concrete Linux
// implementation.
type TransportOpener interface {
	OpenByPath(path string) (Transport, DeviceInfo, error)
	OpenByVidPid(vid, pid uint16, serial string) (Transport, DeviceInfo, error)
	Enumerate(vid, pid uint16) ([]DeviceInfo, error)
}
