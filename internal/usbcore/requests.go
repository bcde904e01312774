package usbcore

// Standard device requests a HID transport actually issues: descriptor
// retrieval, configuration/interface selection, and endpoint-halt feature
// control. PTM status, SEL, isochronous delay and the other Gen X/SuperSpeed
// only requests from USB 2.0 chapter 9 have no HID use and are left out.

// GetDescriptor retrieves a standard descriptor by type and index. A
// request for a configuration descriptor returns the configuration,
// interface, endpoint and any trailing class descriptors as one blob.
func (d *Device) GetDescriptor(descriptorType DescriptorType, idx uint8, languageID uint16) ([]byte, error) {
	buff := make([]byte, 256)
	n, err := d.Ctrl(RequestDirectionIn|RequestTypeStandard|RequestRecipientDevice,
		ReqGetDescriptor, (uint16(descriptorType)<<8)|uint16(idx), languageID, buff)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	return buff[0:n], nil
}

// GetDescriptorData is like GetDescriptor but addresses the request to an
// interface and reads exactly size bytes (the caller already knows the
// length, as with a HID report descriptor whose size comes from the HID
// class descriptor) instead of a fixed 256-byte buffer.
func (d *Device) GetDescriptorData(descriptorType DescriptorType, idx uint16, size uint16) ([]byte, error) {
	buff := make([]byte, size)
	n, err := d.Ctrl(RequestDirectionIn|RequestRecipientInterface,
		ReqGetDescriptor, (uint16(descriptorType)<<8)|idx, 0, buff)
	if err != nil {
		return nil, err
	}
	return buff[0:n], nil
}

func (d *Device) GetStringDescriptor(idx uint8) (string, error) {
	buff, err := d.GetDescriptor(DescriptorTypeString, idx, 0x0409)
	if err != nil {
		return "", err
	}
	desc, err := ParseDescriptor(buff)
	if err != nil {
		return "", err
	}
	strDesc := desc.(*StringDescriptor)
	return string(strDesc.Data), nil
}

// GetConfiguration returns the current device configuration value; zero
// means the device is not configured.
func (d *Device) GetConfiguration() (int, error) {
	buff := make([]byte, 1)
	_, err := d.Ctrl(RequestDirectionIn|RequestTypeStandard|RequestRecipientDevice,
		ReqGetConfiguration, 0, 0, buff)
	return int(buff[0]), err
}

// SetConfiguration selects a device configuration by its bConfigurationValue.
func (d *Device) SetConfiguration(configurationValue int) error {
	_, err := d.Ctrl(RequestDirectionOut|RequestTypeStandard|RequestRecipientDevice,
		ReqSetConfiguration, uint16(configurationValue), 0, nil)
	return err
}

// GetInterface returns the selected alternate setting for an interface.
func (d *Device) GetInterface(interfaceIndex uint8) (uint8, error) {
	data := make([]byte, 1)
	_, err := d.Ctrl(RequestDirectionIn|RequestTypeStandard|RequestRecipientInterface,
		ReqGetInterface, 0, uint16(interfaceIndex), data)
	return data[0], err
}

// SetInterface selects an alternate setting for an interface.
func (d *Device) SetInterface(interfaceIndex uint8, setting int) error {
	_, err := d.Ctrl(RequestDirectionOut|RequestTypeStandard|RequestRecipientInterface,
		ReqSetInterface, uint16(setting), uint16(interfaceIndex), nil)
	return err
}

// EndpointStatus reports the halt feature of one endpoint, USB 2.0 figure 9-6.
type EndpointStatus struct {
	Halt bool
}

func (d *Device) GetEndpointStatus(endpoint uint8) (*EndpointStatus, error) {
	data := make([]byte, 2)
	_, err := d.Ctrl(RequestDirectionIn|RequestTypeStandard|RequestRecipientEndpoint,
		ReqGetStatus, 0, uint16(endpoint), data)
	if err != nil {
		return nil, err
	}
	return &EndpointStatus{Halt: data[0]&1 > 0}, nil
}

// ClearFeature clears a feature on the device, an interface, or an endpoint
// (most commonly FeatureEndpointHalt, to recover a stalled interrupt pipe).
func (d *Device) ClearFeature(recipient RequestType, feature Feature, idx uint8) error {
	_, err := d.Ctrl(RequestDirectionOut|RequestTypeStandard|recipient,
		ReqClearFeature, uint16(feature), uint16(idx), nil)
	return err
}

func (d *Device) SetFeature(recipient RequestType, feature Feature, idx uint8) error {
	_, err := d.Ctrl(RequestDirectionOut|RequestTypeStandard|recipient,
		ReqSetFeature, uint16(feature), uint16(idx), nil)
	return err
}
