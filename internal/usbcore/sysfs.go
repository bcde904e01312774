package usbcore

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"strconv"
	"strings"
)

const (
	sysfsDeviceDir = "/sys/bus/usb/devices"
)

func readSysfsAttrInt(devName, attrName string) (int, error) {
	fileName := fmt.Sprintf("%s/%s/%s", sysfsDeviceDir, devName, attrName)
	data, err := ioutil.ReadFile(fileName)
	if err != nil {
		return 0, err
	}
	strData := strings.Trim(string(data), "\n")
	value, err := strconv.ParseInt(strData, 10, 64)
	if err != nil {
		return 0, err
	}
	return int(value), nil
}

func openSysfsAttr(devName, attrName string) (*os.File, error) {
	fileName := fmt.Sprintf("%s/%s/%s", sysfsDeviceDir, devName, attrName)
	return os.Open(fileName)
}

func getDeviceAddress(devName string) (int, int, error) {
	busNum, err := readSysfsAttrInt(devName, "busnum")
	if err != nil {
		return 0, 0, err
	}
	devNum, err := readSysfsAttrInt(devName, "devnum")
	if err != nil {
		return 0, 0, err
	}
	return busNum, devNum, nil
}

// sysfsDescriptors reads the raw concatenated descriptor blob sysfs exposes
// per device (its "descriptors" attribute) and parses it the same way a
// live GetDescriptor(Configuration) control transfer would be parsed.
func sysfsDescriptors(devName string) ([]Descriptor, error) {
	x, err := openSysfsAttr(devName, "descriptors")
	if err != nil {
		return nil, err
	}
	defer x.Close()

	res := make([]Descriptor, 0, 10)
	var hdr *DescriptorHeader
	for hdr, err = readDescriptorHeader(x); err == nil; hdr, err = readDescriptorHeader(x) {
		descriptorData := make([]byte, hdr.Length-2)
		if _, err := io.ReadFull(x, descriptorData); err != nil {
			log.Println("bad descriptor data:", err)
			continue
		}
		descriptorReader := bytes.NewReader(descriptorData)
		desc, descErr := readDescriptor(hdr, descriptorReader)
		if descErr != nil {
			return nil, descErr
		}
		res = append(res, desc)
	}
	if err != io.EOF {
		return nil, err
	}
	return res, nil
}

// EnumerateDevices walks /sys/bus/usb/devices and builds an unopened Device
// for every USB device node found there (skipping root hubs and interface
// entries, which sysfs lists alongside devices under the same directory).
func EnumerateDevices() ([]*Device, error) {
	dirs, err := ioutil.ReadDir(sysfsDeviceDir)
	if err != nil {
		return nil, err
	}

	res := make([]*Device, 0, 10)

	for _, dir := range dirs {
		name := dir.Name()
		if strings.HasPrefix(name, "usb") || strings.Contains(name, ":") {
			continue
		}
		descriptors, err := sysfsDescriptors(name)
		if err != nil {
			return nil, err
		}
		busNum, devNum, err := getDeviceAddress(name)
		if err != nil {
			return nil, err
		}
		res = append(res, &Device{
			BusNumber:    busNum,
			DeviceNumber: devNum,
			Descriptors:  descriptors,
			fd:           -1,
		})
	}
	return res, nil
}

func FindDevices(filter func(device *Device) bool) ([]*Device, error) {
	allDevices, err := EnumerateDevices()
	if err != nil {
		return nil, err
	}
	res := make([]*Device, 0, len(allDevices))
	for _, dev := range allDevices {
		if filter(dev) {
			res = append(res, dev)
		}
	}
	return res, nil
}
