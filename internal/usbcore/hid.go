package usbcore

import (
	"fmt"

	"github.com/hidkit/hidkit/report"
)

// HIDDescriptor is the USB HID class descriptor (HID 1.11 §6.2.1). It
// precedes the interface's report descriptor in the configuration blob and
// tells the host how long that report descriptor is.
type HIDDescriptor struct {
	DescriptorHeader
	BcdHID                   uint16
	CountryCode              uint8
	NumDescriptors           uint8
	DescriptorType           uint8
	DescriptorLength         uint16
	OptionalDescriptorType   uint8
	OptionalDescriptorLength uint16
}

const (
	DescriptorTypeHID      = DescriptorType(0x21)
	DescriptorTypeReport   = DescriptorType(0x22)
	DescriptorTypePhysical = DescriptorType(0x23)
)

// HID class-specific requests, HID 1.11 §7.2.
const (
	HIDGetReport   = 0x01
	HIDGetIdle     = 0x02
	HIDGetProtocol = 0x03
	HIDSetReport   = 0x09
	HIDSetIdle     = 0x0A
	HIDSetProtocol = 0x0B
)

func init() {
	RegisterDescriptorType(DescriptorTypeHID, HIDDescriptor{})
}

// HIDDevice wraps a Device whose configuration carries a HID class
// descriptor, caching the interrupt endpoints and the parsed report
// descriptor model it exposes.
type HIDDevice struct {
	*Device
	HIDDesc   *HIDDescriptor
	Interface *InterfaceDescriptor
	EpIn      *EndpointDescriptor
	EpOut     *EndpointDescriptor
	Model     *report.DeviceModel
}

func NewHIDDevice(dev *Device) *HIDDevice {
	var hidDesc *HIDDescriptor
	var iface *InterfaceDescriptor
	var inEp, outEp *EndpointDescriptor
	for _, d := range dev.Descriptors {
		switch desc := d.(type) {
		case *InterfaceDescriptor:
			if desc.BInterfaceClass == ClassCodeInterfaceHID {
				iface = desc
			}
		case *HIDDescriptor:
			hidDesc = desc
		case *EndpointDescriptor:
			if desc.IsInput() {
				inEp = desc
			} else {
				outEp = desc
			}
		}
	}
	return &HIDDevice{
		Device:    dev,
		HIDDesc:   hidDesc,
		Interface: iface,
		EpIn:      inEp,
		EpOut:     outEp,
	}
}

func (dev *HIDDevice) ReadMax() ([]byte, error) {
	size := dev.EpIn.WMaxPacketSize
	buffer := make([]byte, size)
	n, err := dev.Device.BulkTimeout(dev.EpIn.BEndpointAddress, buffer, 100)
	if err != nil {
		return nil, err
	}
	return buffer[0:n], nil
}

func (dev *HIDDevice) Read(buff []byte) (int, error) {
	return dev.Device.BulkTimeout(dev.EpIn.BEndpointAddress, buff, 100)
}

func (dev *HIDDevice) Write(data []byte) (int, error) {
	if dev.EpOut == nil {
		return 0, fmt.Errorf("usbcore: device has no interrupt OUT endpoint, use SetReport instead")
	}
	return dev.Device.BulkTimeout(dev.EpOut.BEndpointAddress, data, 1000)
}

// GetReportDescriptorBytes issues the standard GET_DESCRIPTOR(Report)
// control transfer and returns the raw descriptor bytes, undecoded. This
// is what a Transport implementation hands to report.Parse; it exists
// separately from GetReportDescriptor so callers that only need the
// bytes (e.g. to log or re-parse with a quirk applied) don't pay for a
// parse they discard.
func (dev *HIDDevice) GetReportDescriptorBytes() ([]byte, error) {
	if dev.HIDDesc == nil {
		return nil, fmt.Errorf("usbcore: device has no HID class descriptor")
	}
	raw, err := dev.Device.GetDescriptorData(DescriptorTypeReport, 0, dev.HIDDesc.DescriptorLength)
	if err != nil {
		return nil, fmt.Errorf("usbcore: reading report descriptor: %w", err)
	}
	return raw, nil
}

// GetReportDescriptor issues the standard GET_DESCRIPTOR(Report) control
// transfer, parses the returned bytes into a report.DeviceModel and caches
// it on the HIDDevice.
func (dev *HIDDevice) GetReportDescriptor() (*report.DeviceModel, error) {
	raw, err := dev.GetReportDescriptorBytes()
	if err != nil {
		return nil, err
	}
	model, err := report.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("usbcore: parsing report descriptor: %w", err)
	}
	dev.Model = model
	return model, nil
}

// GetReport issues a GET_REPORT class request for the given report type
// (1=Input, 2=Output, 3=Feature) and id, sized to fit length bytes.
func (dev *HIDDevice) GetReport(reportType, reportID uint8, length int) ([]byte, error) {
	data := make([]byte, length)
	reqType := RequestDirectionIn | RequestTypeClass | RequestRecipientInterface
	value := uint16(reportType)<<8 | uint16(reportID)
	_, err := dev.Device.Ctrl(reqType, HIDGetReport, value, 0, data)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// SetReport issues a SET_REPORT class request carrying report's bytes.
func (dev *HIDDevice) SetReport(reportType, reportID uint8, report []byte) error {
	reqType := RequestDirectionOut | RequestTypeClass | RequestRecipientInterface
	value := uint16(reportType)<<8 | uint16(reportID)
	_, err := dev.Device.Ctrl(reqType, HIDSetReport, value, 0, report)
	return err
}

func (dev *HIDDevice) GetIdle(reportID uint8) (int, error) {
	data := []byte{0}
	reqType := RequestDirectionIn | RequestTypeClass | RequestRecipientInterface
	_, err := dev.Device.Ctrl(reqType, HIDGetIdle, uint16(reportID), 0, data)
	if err != nil {
		return 0, err
	}
	return int(data[0]), nil
}

func (dev *HIDDevice) SetIdle(reportID, duration uint8) error {
	reqType := RequestDirectionOut | RequestTypeClass | RequestRecipientInterface
	value := uint16(duration)<<8 | uint16(reportID)
	_, err := dev.Device.Ctrl(reqType, HIDSetIdle, value, 0, nil)
	return err
}

// WriteReport sends an outgoing report, preferring the interrupt OUT
// endpoint when the interface has one and falling back to a SET_REPORT
// control transfer otherwise (HID 1.11 §7.2.2) — the same fallback
// hidapi's libusb backend uses for OUT-endpoint-less interfaces.
func (dev *HIDDevice) WriteReport(data []byte) (int, error) {
	if dev.EpOut != nil {
		return dev.Write(data)
	}
	var reportID uint8
	payload := data
	if len(data) > 0 {
		reportID = data[0]
		payload = data[1:]
	}
	if err := dev.SetReport(2 /* Output */, reportID, payload); err != nil {
		return 0, err
	}
	return len(data), nil
}

func hidUSBFilter(device *Device) bool {
	for _, desc := range device.Descriptors {
		if _, ok := desc.(*HIDDescriptor); ok {
			return true
		}
	}
	return false
}

func FindHIDDevices() ([]*Device, error) {
	return FindDevices(hidUSBFilter)
}
