package usbcore

// RequestType is the bmRequestType byte of a USB control transfer: direction,
// type, and recipient bits packed together per USB 2.0 §9.3.
type RequestType uint8

const (
	RequestDirectionIn  = RequestType(0b10000000)
	RequestDirectionOut = RequestType(0b00000000)

	RequestTypeStandard = RequestType(0b00000000)
	RequestTypeClass    = RequestType(0b00100000)
	RequestTypeVendor   = RequestType(0b01000000)

	RequestRecipientDevice    = RequestType(0b00000000)
	RequestRecipientInterface = RequestType(0b00000001)
	RequestRecipientEndpoint  = RequestType(0b00000010)
)

// Standard request codes, USB 2.0 table 9-4.
const (
	ReqGetStatus        = 0x00
	ReqClearFeature     = 0x01
	ReqSetFeature       = 0x03
	ReqSetAddress       = 0x05
	ReqGetDescriptor    = 0x06
	ReqSetDescriptor    = 0x07
	ReqGetConfiguration = 0x08
	ReqSetConfiguration = 0x09
	ReqGetInterface     = 0x0A
	ReqSetInterface     = 0x0B
)

// Feature selectors, USB 2.0 table 9-6. FeatureEndpointHalt is the one a
// HID transport actually needs, to clear a stalled interrupt endpoint.
type Feature uint16

const (
	FeatureEndpointHalt       = Feature(0)
	FeatureDeviceRemoteWakeUp = Feature(1)
)
