// Package config holds the policy defaults for boot media generation. The
// values are observed policy, not derived constraints, so everything here
// can be overridden by flags.
package config

import (
	"github.com/spf13/pflag"
)

const (
	mib = 1024 * 1024
	gib = 1024 * mib
)

// Options collects every tunable the generation pass consumes.
type Options struct {
	// VolumeLabel is the data partition label the generated script
	// searches for at boot time.
	VolumeLabel string

	// FirmwareSystemSize is the size of the FAT-formatted partition read
	// by UEFI firmware.
	FirmwareSystemSize uint64

	// MinDataSize is the smallest acceptable data partition. Devices
	// that cannot fit it are rejected during layout planning.
	MinDataSize uint64

	// RAMLoadThreshold is the largest image size offered a RAM-load boot
	// mode (windows-pe images are exempt from the limit).
	RAMLoadThreshold uint64

	// MenuTimeout is the boot menu countdown in seconds.
	MenuTimeout int

	// SupportBIOS requests a legacy chain-loading stub partition.
	SupportBIOS bool
	// SupportUEFI requests the firmware-system partition.
	SupportUEFI bool
}

// Defaults returns the documented policy defaults.
func Defaults() Options {
	return Options{
		VolumeLabel:        "LUXusb",
		FirmwareSystemSize: 512 * mib,
		MinDataSize:        4 * gib,
		RAMLoadThreshold:   2 * gib,
		MenuTimeout:        30,
		SupportBIOS:        true,
		SupportUEFI:        true,
	}
}

// RegisterPflags binds the options to fs, starting from their current
// values.
func (o *Options) RegisterPflags(fs *pflag.FlagSet) {
	fs.StringVar(&o.VolumeLabel, "label", o.VolumeLabel,
		`volume label of the data partition`)

	fs.Uint64Var(&o.FirmwareSystemSize, "firmware_partition_bytes", o.FirmwareSystemSize,
		`size of the FAT firmware-system partition`)

	fs.Uint64Var(&o.RAMLoadThreshold, "ramload_threshold_bytes", o.RAMLoadThreshold,
		`largest image offered a RAM-load boot mode`)

	fs.IntVar(&o.MenuTimeout, "timeout", o.MenuTimeout,
		`boot menu countdown in seconds`)

	fs.BoolVar(&o.SupportBIOS, "bios", o.SupportBIOS,
		`support legacy (BIOS) firmware`)

	fs.BoolVar(&o.SupportUEFI, "uefi", o.SupportUEFI,
		`support UEFI firmware`)
}
