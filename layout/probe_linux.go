package layout

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// DeviceCapacity returns the size of a block device in bytes.
func DeviceCapacity(device string) (uint64, error) {
	f, err := os.Open(device)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var size uint64
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), unix.BLKGETSIZE64, uintptr(unsafe.Pointer(&size)))
	if errno != 0 {
		return 0, fmt.Errorf("BLKGETSIZE64 %s: %w", device, errno)
	}
	return size, nil
}

// VerifyDevice opens a block device and checks its partition table against
// the planned layout.
func VerifyDevice(device string, want *Layout) error {
	f, err := os.Open(device)
	if err != nil {
		return err
	}
	defer f.Close()
	return Verify(f, want)
}
