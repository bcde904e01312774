package usbfs

// ioctl numbers and argument structs for Linux's usbdevfs, as documented in
// linux/usbdevice_fs.h. Only the subset a control/bulk HID transport needs
// is kept; the stream and SuperSpeed-port ioctls (USBDEVFS_ALLOC_STREAMS,
// USBDEVFS_CLAIM_PORT, ...) have no HID use and are left out.

import (
	ioctl "github.com/daedaluz/goioctl"
	"strings"
	"unsafe"
)

var (
	USBDEVFS_CONTROL          = ioctl.IOWR('U', 0, unsafe.Sizeof(usbdevfs_ctrltransfer{}))
	USBDEVFS_BULK             = ioctl.IOWR('U', 2, unsafe.Sizeof(usbdevfs_bulktransfer{}))
	USBDEVFS_RESETEP          = ioctl.IOR('U', 3, unsafe.Sizeof(uint32(0)))
	USBDEVFS_SETINTERFACE     = ioctl.IOR('U', 4, unsafe.Sizeof(usbdevfs_setinterface{}))
	USBDEVFS_SETCONFIGURATION = ioctl.IOR('U', 5, unsafe.Sizeof(uint32(0)))
	USBDEVFS_GETDRIVER        = ioctl.IOW('U', 8, unsafe.Sizeof(usbdevfs_getdriver{}))
	USBDEVFS_CLAIMINTERFACE   = ioctl.IOR('U', 15, unsafe.Sizeof(uint32(0)))
	USBDEVFS_RELEASEINTERFACE = ioctl.IOR('U', 16, unsafe.Sizeof(uint32(0)))
	USBDEVFS_CONNECTINFO      = ioctl.IOW('U', 17, unsafe.Sizeof(usbdevfs_connectinfo{}))
	USBDEVFS_IOCTL            = ioctl.IOWR('U', 18, unsafe.Sizeof(usbdevfs_ioctl{}))
	USBDEVFS_RESET            = ioctl.IO('U', 20)
	USBDEVFS_CLEAR_HALT       = ioctl.IOR('U', 21, unsafe.Sizeof(uint32(0)))
	USBDEVFS_GET_CAPABILITIES = ioctl.IOR('U', 26, unsafe.Sizeof(uint32(0)))
)

// USBDEVFS_DISCONNECT and USBDEVFS_CONNECT are not separate ioctls; Linux
// multiplexes both through USBDEVFS_IOCTL's IoctlCode field, which carries
// the full _IO('U', nr) number.
const (
	USBDEVFS_DISCONNECT = int32(0x5516) // _IO('U', 22)
	USBDEVFS_CONNECT    = int32(0x5517) // _IO('U', 23)
)

type (
	usbdevfs_ctrltransfer struct {
		RequestType uint8
		Request     uint8
		Value       uint16
		Index       uint16
		Length      uint16
		Timeout     uint32
		Data        uintptr
	}
	usbdevfs_bulktransfer struct {
		Endpoint uint32
		Length   uint32
		Timeout  uint32
		Data     uintptr
	}

	usbdevfs_setinterface struct {
		Interface  uint32
		AltSetting uint32
	}

	usbdevfs_getdriver struct {
		Interface uint32
		Driver    [nUSBDEVFS_MAXDRIVERNAME + 1]byte
	}

	usbdevfs_connectinfo struct {
		DevNum uint32
		Slow   uint8
	}

	usbdevfs_ioctl struct {
		Interface int32
		IoctlCode int32
		Data      uintptr
	}
)

func (d *usbdevfs_getdriver) String() string {
	buff := strings.Builder{}
	for _, x := range d.Driver {
		if x == 0 {
			break
		}
		buff.WriteByte(x)
	}
	return buff.String()
}

func slicePtr(s []byte) uintptr {
	if len(s) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&s[0]))
}
