// Package linuxhid is the concrete Linux transport backend: it opens USB
// HID devices through usbfs (internal/usbcore) and exposes them as
// hidkit.Transport/hidkit.DeviceInfo values, the way gousb's own hid/hid.go
// walked its Device/HIDDevice pair into a caller-facing handle.
package linuxhid

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hidkit/hidkit"
	"github.com/hidkit/hidkit/internal/usbcore"
)

// Opener is the Linux hidkit.TransportOpener, backed by usbfs enumeration
// and control/interrupt transfers. The zero value is ready to use.
type Opener struct{}

var _ hidkit.TransportOpener = Opener{}

// path encodes a usbfs device address as "<bus>/<device>", since usbfs has
// no notion of a stable path the way /dev/hidraw* or a macOS IOService
// does (spec.md §6's "platform-specific path" is this string on Linux).
func path(dev *usbcore.Device) string {
	return fmt.Sprintf("%d/%d", dev.BusNumber, dev.DeviceNumber)
}

func parsePath(p string) (bus, addr int, err error) {
	if _, err := fmt.Sscanf(p, "%d/%d", &bus, &addr); err != nil {
		return 0, 0, fmt.Errorf("linuxhid: malformed path %q: %w", p, err)
	}
	return bus, addr, nil
}

func isHID(dev *usbcore.Device) bool {
	for _, d := range dev.Descriptors {
		if iface, ok := d.(*usbcore.InterfaceDescriptor); ok && iface.BInterfaceClass == usbcore.ClassCodeInterfaceHID {
			return true
		}
	}
	return false
}

// describe builds the best-effort hidkit.DeviceInfo for dev. Serial,
// Manufacturer and Product require opening the device to issue
// GET_DESCRIPTOR(String) requests; when that fails (permissions, device
// gone) the fields are left blank rather than failing enumeration outright
// — a device missing its string descriptors is still worth listing.
func describe(dev *usbcore.Device) hidkit.DeviceInfo {
	desc := dev.GetDeviceDescriptor()
	info := hidkit.DeviceInfo{
		Path:      path(dev),
		VendorID:  desc.IDVendor,
		ProductID: desc.IDProduct,
	}
	for _, d := range dev.Descriptors {
		if iface, ok := d.(*usbcore.InterfaceDescriptor); ok && iface.BInterfaceClass == usbcore.ClassCodeInterfaceHID {
			info.Interface = int(iface.BInterfaceNumber)
			break
		}
	}

	if err := dev.Open(); err != nil {
		return info
	}
	defer dev.Close()
	if desc.IManufacturer != 0 {
		if s, err := dev.GetStringDescriptor(desc.IManufacturer); err == nil {
			info.Manufacturer = s
		}
	}
	if desc.IProduct != 0 {
		if s, err := dev.GetStringDescriptor(desc.IProduct); err == nil {
			info.Product = s
		}
	}
	if desc.ISerialNumber != 0 {
		if s, err := dev.GetStringDescriptor(desc.ISerialNumber); err == nil {
			info.Serial = s
		}
	}
	return info
}

// Enumerate lists every HID-class interface on the bus, optionally
// filtered by vid/pid (either left zero matches anything).
func (Opener) Enumerate(vid, pid uint16) ([]hidkit.DeviceInfo, error) {
	devs, err := usbcore.FindDevices(isHID)
	if err != nil {
		return nil, fmt.Errorf("linuxhid: enumerating: %w", err)
	}
	res := make([]hidkit.DeviceInfo, 0, len(devs))
	for _, dev := range devs {
		desc := dev.GetDeviceDescriptor()
		if vid != 0 && desc.IDVendor != vid {
			continue
		}
		if pid != 0 && desc.IDProduct != pid {
			continue
		}
		res = append(res, describe(dev))
	}
	return res, nil
}

func open(dev *usbcore.Device) (hidkit.Transport, hidkit.DeviceInfo, error) {
	info := describe(dev)
	if err := dev.Open(); err != nil {
		return nil, hidkit.DeviceInfo{}, fmt.Errorf("linuxhid: opening %s: %w", path(dev), err)
	}
	hidDev := usbcore.NewHIDDevice(dev)
	if hidDev.Interface == nil {
		dev.Close()
		return nil, hidkit.DeviceInfo{}, fmt.Errorf("linuxhid: %s has no HID interface", path(dev))
	}
	if err := dev.ClaimInterface(int(hidDev.Interface.BInterfaceNumber)); err != nil {
		dev.Close()
		return nil, hidkit.DeviceInfo{}, fmt.Errorf("linuxhid: claiming interface on %s: %w", path(dev), err)
	}
	info.Interface = int(hidDev.Interface.BInterfaceNumber)
	return &transport{dev: hidDev}, info, nil
}

// OpenByPath opens the device at the usbfs "<bus>/<device>" path returned
// by Enumerate.
func (Opener) OpenByPath(p string) (hidkit.Transport, hidkit.DeviceInfo, error) {
	bus, addr, err := parsePath(p)
	if err != nil {
		return nil, hidkit.DeviceInfo{}, err
	}
	devs, err := usbcore.FindDevices(func(d *usbcore.Device) bool {
		return d.BusNumber == bus && d.DeviceNumber == addr && isHID(d)
	})
	if err != nil {
		return nil, hidkit.DeviceInfo{}, fmt.Errorf("linuxhid: enumerating: %w", err)
	}
	if len(devs) == 0 {
		return nil, hidkit.DeviceInfo{}, fmt.Errorf("linuxhid: no HID device at %s", p)
	}
	return open(devs[0])
}

// OpenByVidPid opens the first HID device matching vid/pid, and serial if
// serial is non-empty.
func (Opener) OpenByVidPid(vid, pid uint16, serial string) (hidkit.Transport, hidkit.DeviceInfo, error) {
	devs, err := usbcore.FindDevices(func(d *usbcore.Device) bool {
		if !isHID(d) {
			return false
		}
		desc := d.GetDeviceDescriptor()
		return desc.IDVendor == vid && desc.IDProduct == pid
	})
	if err != nil {
		return nil, hidkit.DeviceInfo{}, fmt.Errorf("linuxhid: enumerating: %w", err)
	}
	for _, dev := range devs {
		if serial != "" {
			info := describe(dev)
			if info.Serial != serial {
				continue
			}
		}
		return open(dev)
	}
	return nil, hidkit.DeviceInfo{}, fmt.Errorf("linuxhid: no device matching %04x:%04x serial=%q", vid, pid, serial)
}

// transport implements hidkit.Transport over a usbcore.HIDDevice. The
// interrupt IN endpoint is read with a short poll timeout so Read can
// honor SetNonblocking without a dedicated async usbfs reap loop — the
// same busy-poll-with-timeout shape gousb's own ReadMax used, narrowed to
// a timeout the caller controls.
type transport struct {
	dev         *usbcore.HIDDevice
	nonblocking bool
}

var _ hidkit.Transport = (*transport)(nil)

func (t *transport) Close() error {
	if t.dev.Interface != nil {
		t.dev.ReleaseInterface(int(t.dev.Interface.BInterfaceNumber))
	}
	return t.dev.Close()
}

func (t *transport) Write(b []byte) (int, error) {
	n, err := t.dev.WriteReport(b)
	if err != nil {
		return n, fmt.Errorf("linuxhid: writing report: %w", err)
	}
	return n, nil
}

func (t *transport) Read(b []byte) (int, error) {
	timeout := 1000 * time.Millisecond
	if t.nonblocking {
		timeout = 10 * time.Millisecond
	}
	n, err := t.dev.Device.BulkTimeout(t.dev.EpIn.BEndpointAddress, b, uint32(timeout/time.Millisecond))
	if err != nil {
		if t.nonblocking && isTimeout(err) {
			return 0, nil
		}
		if t.recoverStall() {
			n, err = t.dev.Device.BulkTimeout(t.dev.EpIn.BEndpointAddress, b, uint32(timeout/time.Millisecond))
			if err == nil {
				return n, nil
			}
		}
		return 0, fmt.Errorf("linuxhid: reading report: %w", err)
	}
	return n, nil
}

// recoverStall checks the interrupt IN endpoint's halt feature and, if
// it's set, clears it at the device and resets usbfs's host-side data
// toggle — the clear-feature-then-clear-halt pair USB 2.0 §9.4.5/§5.8.5
// prescribes for resuming a stalled interrupt pipe. Reports whether
// recovery was attempted so Read knows whether a retry is worthwhile.
func (t *transport) recoverStall() bool {
	ep := t.dev.EpIn.BEndpointAddress
	status, err := t.dev.Device.GetEndpointStatus(ep)
	if err != nil || status == nil || !status.Halt {
		return false
	}
	if err := t.dev.Device.ClearFeature(usbcore.RequestRecipientEndpoint, usbcore.FeatureEndpointHalt, ep); err != nil {
		log.Debug().Err(err).Msg("linuxhid: clearing endpoint halt feature")
		return false
	}
	if err := t.dev.Device.ClearHalt(ep); err != nil {
		log.Debug().Err(err).Msg("linuxhid: resetting host-side data toggle")
		return false
	}
	return true
}

func (t *transport) GetReportDescriptor() ([]byte, error) {
	raw, err := t.dev.GetReportDescriptorBytes()
	if err != nil {
		return nil, fmt.Errorf("linuxhid: %w", err)
	}
	return raw, nil
}

func (t *transport) SetNonblocking(nonblocking bool) error {
	t.nonblocking = nonblocking
	return nil
}

// isTimeout reports whether err is the ETIMEDOUT a usbfs URB reap returns
// when an interrupt transfer's timeout expires with no data pending —
// SetNonblocking's only distinguishable "nothing to read" signal, since
// usbfs has no separate EAGAIN path the way a pollable fd would.
func isTimeout(err error) bool {
	type timeouter interface{ Timeout() bool }
	if te, ok := err.(timeouter); ok {
		return te.Timeout()
	}
	log.Debug().Err(err).Msg("linuxhid: treating non-timeout read error as fatal")
	return false
}
