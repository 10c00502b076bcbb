package layout

import "errors"

var (
	// ErrInsufficientCapacity means the device is too small to hold the
	// boot partitions plus a usable data partition.
	ErrInsufficientCapacity = errors.New("device capacity insufficient")

	// ErrNoFirmwareSupport means neither BIOS nor UEFI support was
	// requested, which leaves nothing to plan for.
	ErrNoFirmwareSupport = errors.New("no firmware support requested")

	// ErrLayoutMismatch means the on-disk partition table does not match
	// the planned layout.
	ErrLayoutMismatch = errors.New("on-disk partition table does not match plan")
)
