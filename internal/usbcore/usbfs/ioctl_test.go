package usbfs

import (
	"testing"
	"unsafe"
)

const (
	iocNrBits   = 8
	iocTypeBits = 8
	iocSizeBits = 14
	iocDirBits  = 2

	iocNrShift   = 0
	iocTypeShift = iocNrShift + iocNrBits
	iocSizeShift = iocTypeShift + iocTypeBits
	iocDirShift  = iocSizeShift + iocSizeBits

	iocNone  = 0
	iocWrite = 1
	iocRead  = 2
)

func _IO(t, nr uintptr) uintptr {
	return _IOC(iocNone, t, nr, 0)
}

func _IOR(t, nr, size uintptr) uintptr {
	return _IOC(iocRead, t, nr, size)
}

func _IOW(t, nr, size uintptr) uintptr {
	return _IOC(iocWrite, t, nr, size)
}

func _IOWR(t, nr, size uintptr) uintptr {
	return _IOC(iocRead|iocWrite, t, nr, size)
}

func _IOC(dir, t, nr, size uintptr) uintptr {
	return (dir << iocDirShift) | (t << iocTypeShift) | (nr << iocNrShift) | (size << iocSizeShift)
}

type ioctlstruct struct {
	name   string
	number uintptr
	target uintptr
}

// Expected values taken from linux/usbdevice_fs.h. Only the ioctls this
// package declares are checked; the stream/port/PTM-only numbers it does
// not declare are not exercised here.
var ioctls = []ioctlstruct{
	{"USBDEVFS_CONTROL", _IOWR('U', 0, unsafe.Sizeof(usbdevfs_ctrltransfer{})), 0xC0185500},
	{"USBDEVFS_BULK", _IOWR('U', 2, unsafe.Sizeof(usbdevfs_bulktransfer{})), 0xC0185502},
	{"USBDEVFS_RESETEP", _IOR('U', 3, unsafe.Sizeof(uint32(0))), 0x80045503},
	{"USBDEVFS_SETINTERFACE", _IOR('U', 4, unsafe.Sizeof(usbdevfs_setinterface{})), 0x80085504},
	{"USBDEVFS_SETCONFIGURATION", _IOR('U', 5, unsafe.Sizeof(uint32(0))), 0x80045505},
	{"USBDEVFS_GETDRIVER", _IOW('U', 8, unsafe.Sizeof(usbdevfs_getdriver{})), 0x41045508},
	{"USBDEVFS_CLAIMINTERFACE", _IOR('U', 15, unsafe.Sizeof(uint32(0))), 0x8004550F},
	{"USBDEVFS_RELEASEINTERFACE", _IOR('U', 16, unsafe.Sizeof(uint32(0))), 0x80045510},
	{"USBDEVFS_CONNECTINFO", _IOW('U', 17, unsafe.Sizeof(usbdevfs_connectinfo{})), 0x40085511},
	{"USBDEVFS_IOCTL", _IOWR('U', 18, unsafe.Sizeof(usbdevfs_ioctl{})), 0xC0105512},
	{"USBDEVFS_RESET", _IO('U', 20), 0x00005514},
	{"USBDEVFS_CLEAR_HALT", _IOR('U', 21, unsafe.Sizeof(uint32(0))), 0x80045515},
	{"USBDEVFS_DISCONNECT", _IO('U', 22), 0x00005516},
	{"USBDEVFS_CONNECT", _IO('U', 23), 0x00005517},
	{"USBDEVFS_GET_CAPABILITIES", _IOR('U', 26, unsafe.Sizeof(uint32(0))), 0x8004551A},
}

func TestIOCTLNumbers(t *testing.T) {
	for _, ctl := range ioctls {
		if ctl.number != ctl.target {
			t.Logf("WRONG NUMBER - %s, %.8X != %.8X\n", ctl.name, ctl.number, ctl.target)
			t.Fail()
		}
		t.Logf("%s = 0x%.8X\n", ctl.name, ctl.number)
	}
}
