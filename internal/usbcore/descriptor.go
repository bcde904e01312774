package usbcore

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"io/ioutil"
	"reflect"
)

type (
	DescriptorType uint8

	Descriptor interface {
		Type() DescriptorType
	}

	DescriptorHeader struct {
		Length         uint8
		DescriptorType DescriptorType
	}

	UnknownDescriptor struct {
		DescriptorHeader
		Data []byte
	}

	// DescriptorParser lets a descriptor type take over its own decoding
	// instead of the generic reflection-based field walk in readDescriptor.
	DescriptorParser interface {
		ReadUSBDescriptor(hdr DescriptorHeader, i io.Reader) error
	}
)

const (
	DescriptorTypeDevice = DescriptorType(iota + 1)
	DescriptorTypeConfig
	DescriptorTypeString
	DescriptorTypeInterface
	DescriptorTypeEndpoint
)

var (
	descriptorMap = map[DescriptorType]reflect.Type{
		DescriptorTypeDevice:    reflect.TypeOf(DeviceDescriptor{}),
		DescriptorTypeConfig:    reflect.TypeOf(ConfigurationDescriptor{}),
		DescriptorTypeInterface: reflect.TypeOf(InterfaceDescriptor{}),
		DescriptorTypeEndpoint:  reflect.TypeOf(EndpointDescriptor{}),
		DescriptorTypeString:    reflect.TypeOf(StringDescriptor{}),
	}
)

func (h DescriptorHeader) Type() DescriptorType {
	return h.DescriptorType
}

func (t DescriptorType) String() string {
	if typ, exist := descriptorMap[t]; exist {
		return typ.String()
	}
	return fmt.Sprintf("Unknown(0x%.2X)", uint8(t))
}

type (
	// DeviceDescriptor describes general information about a device: its
	// class, vendor/product IDs and the number of configurations it offers.
	// A device has only one DeviceDescriptor.
	DeviceDescriptor struct {
		DescriptorHeader
		BcdUSB             uint16
		BDeviceClass       ClassCode
		BDeviceSubClass    SubClass
		BDeviceProtocol    uint8
		BMaxPacketSize0    uint8
		IDVendor           uint16
		IDProduct          uint16
		BcdDevice          uint16
		IManufacturer      uint8
		IProduct           uint8
		ISerialNumber      uint8
		BNumConfigurations uint8
	}

	// ConfigurationDescriptor describes one device configuration. When the
	// host requests it, all interface, endpoint and HID class descriptors
	// that belong to the configuration are returned as a single blob.
	ConfigurationDescriptor struct {
		DescriptorHeader
		WTotalLength        uint16
		BNumInterfaces      uint8
		BConfigurationValue uint8
		IConfiguration      uint8
		BmAttributes        uint8
		BMaxPower           uint8
	}

	// InterfaceDescriptor describes one interface within a configuration.
	// HID functions report class ClassCodeInterfaceHID here; the HID class
	// descriptor immediately follows it in the configuration blob.
	InterfaceDescriptor struct {
		DescriptorHeader
		BInterfaceNumber   uint8
		BAlternateSetting  uint8
		BNumEndpoints      uint8
		BInterfaceClass    ClassCode
		BInterfaceSubClass SubClass
		BInterfaceProtocol uint8
		IInterface         uint8
	}

	// EndpointDescriptor describes one endpoint's transfer characteristics.
	// HID interfaces use one Interrupt IN endpoint, and usually a second
	// Interrupt OUT endpoint for output reports.
	EndpointDescriptor struct {
		DescriptorHeader
		BEndpointAddress uint8
		BmAttributes     uint8
		WMaxPacketSize   uint16
		BInterval        uint8
	}

	// StringDescriptor holds a UTF-16LE string, or (when read with index 0)
	// the array of LANGIDs a device supports.
	StringDescriptor struct {
		DescriptorHeader
		Data []byte
	}
)

func RegisterDescriptorType(typ DescriptorType, desc Descriptor) {
	descriptorMap[typ] = reflect.TypeOf(desc)
}

func readDescriptorHeader(i io.Reader) (*DescriptorHeader, error) {
	header := DescriptorHeader{}
	err := binary.Read(i, binary.LittleEndian, &header)
	return &header, err
}

func newDescriptor(hdr DescriptorHeader) (any, reflect.Value) {
	if descriptor, exist := descriptorMap[hdr.DescriptorType]; exist {
		x := reflect.New(descriptor)
		x.Elem().Field(0).Set(reflect.ValueOf(hdr))
		return x.Interface(), x
	}
	x := reflect.New(reflect.TypeOf(UnknownDescriptor{}))
	x.Elem().Field(0).Set(reflect.ValueOf(hdr))
	return x.Interface(), x
}

func readDescriptor(header *DescriptorHeader, i io.Reader) (Descriptor, error) {
	descriptor, ptrVal := newDescriptor(*header)
	if customReader, implements := descriptor.(DescriptorParser); implements {
		if err := customReader.ReadUSBDescriptor(*header, i); err != nil {
			return nil, err
		}
		return descriptor.(Descriptor), nil
	}
	elem := ptrVal.Elem()

loop:
	for elemIndex := 1; elemIndex < elem.NumField(); elemIndex++ {
		field := elem.Field(elemIndex)
		dest := field.Addr().Interface()

		switch field.Kind() {
		case reflect.Slice:
			switch field.Type() {
			case reflect.TypeOf([]uint8{}):
				excessiveData, err := ioutil.ReadAll(i)
				field.Set(reflect.ValueOf(excessiveData))
				if err != nil {
					return nil, err
				}
			default:
				if err := binary.Read(i, binary.LittleEndian, dest); err != nil {
					break loop
				}
			}
		default:
			if err := binary.Read(i, binary.LittleEndian, dest); err != nil {
				break loop
			}
		}
	}
	return descriptor.(Descriptor), nil
}

// ReadDescriptors walks a stream of back-to-back descriptors (as returned
// by a GetDescriptor(Configuration) request or read from sysfs) and invokes
// descriptorCB for each one, in order.
func ReadDescriptors(i io.Reader, descriptorCB func(d Descriptor)) error {
	var err error
	var hdr *DescriptorHeader
	for hdr, err = readDescriptorHeader(i); err == nil; hdr, err = readDescriptorHeader(i) {
		if hdr.Length < 2 {
			return fmt.Errorf("descriptor length %d shorter than its header", hdr.Length)
		}
		body := make([]byte, hdr.Length-2)
		if _, err := io.ReadFull(i, body); err != nil {
			return err
		}
		descriptor, err := readDescriptor(hdr, bytes.NewReader(body))
		if err != nil {
			return err
		}
		descriptorCB(descriptor)
	}
	if err == io.EOF {
		return nil
	}
	return err
}

func ParseDescriptor(data []byte) (Descriptor, error) {
	reader := bytes.NewReader(data)
	hdr, err := readDescriptorHeader(reader)
	if err != nil {
		return nil, err
	}
	return readDescriptor(hdr, reader)
}
