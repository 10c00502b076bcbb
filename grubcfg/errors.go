package grubcfg

import "errors"

var (
	// ErrDuplicateHotkey indicates a bug in hotkey assignment, not a
	// runtime condition.
	ErrDuplicateHotkey = errors.New("duplicate menu hotkey")

	// ErrNoDataPartition means the layout has no data partition to
	// search for at boot time.
	ErrNoDataPartition = errors.New("layout has no data partition")
)
