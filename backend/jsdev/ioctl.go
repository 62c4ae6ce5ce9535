package jsdev

import (
	"bytes"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Joystick ioctl request codes from linux/joystick.h.
const (
	jsiocgVersion = 0x80046a01 // JSIOCGVERSION, reads int32
	jsiocgAxes    = 0x80016a11 // JSIOCGAXES, reads uint8
	jsiocgButtons = 0x80016a12 // JSIOCGBUTTONS, reads uint8
)

// maxNameLen bounds the buffer handed to JSIOCGNAME.
const maxNameLen = 128

// jsiocgName builds the JSIOCGNAME request for a buffer of n bytes; the
// buffer length is encoded in the size field of the request.
func jsiocgName(n int) uint {
	return 0x80006a13 + uint(n)<<16
}

func ioctl(fd int, req uint, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(req), uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

func ioctlUint8(fd int, req uint) (uint8, error) {
	var v uint8
	if err := ioctl(fd, req, unsafe.Pointer(&v)); err != nil {
		return 0, err
	}
	return v, nil
}

func ioctlInt32(fd int, req uint) (int32, error) {
	var v int32
	if err := ioctl(fd, req, unsafe.Pointer(&v)); err != nil {
		return 0, err
	}
	return v, nil
}

// ioctlName queries the human readable device name from the driver. The
// driver NUL-terminates the string inside the buffer.
func ioctlName(fd int) (string, error) {
	buf := make([]byte, maxNameLen)
	if err := ioctl(fd, jsiocgName(len(buf)), unsafe.Pointer(&buf[0])); err != nil {
		return "", err
	}
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}
	return string(buf), nil
}
