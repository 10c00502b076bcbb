// Package layout computes the physical partition plan for a multiboot
// device and can check a device's on-disk GPT against such a plan. It only
// computes; writing the partition table and formatting are the
// provisioning tooling's job.
package layout

import (
	"fmt"

	"github.com/asafelobotomy/LUXusb-sub001/config"
)

// Alignment is the boundary every partition start and size is rounded to.
// Flash media performs poorly with unaligned writes, so 1 MiB throughout.
const Alignment = 1024 * 1024

// Role tags what a partition is for.
type Role string

const (
	// RoleBootStub is the tiny unformatted partition holding the legacy
	// chain-loading code.
	RoleBootStub Role = "boot-stub"
	// RoleFirmwareSystem is the FAT partition UEFI firmware reads to find
	// the boot program.
	RoleFirmwareSystem Role = "firmware-system"
	// RoleData holds the disk images.
	RoleData Role = "data"
)

// Partition is one planned partition.
type Partition struct {
	Role       Role
	StartBytes uint64
	SizeBytes  uint64
	// Filesystem is empty for the unformatted boot stub.
	Filesystem string
	Label      string
}

// Layout is the computed geometry for one device. It is created once and
// consumed read-only.
type Layout struct {
	DeviceBytes uint64
	Partitions  []Partition
}

// Partition returns the partition with the given role, or nil.
func (l *Layout) Partition(role Role) *Partition {
	for i := range l.Partitions {
		if l.Partitions[i].Role == role {
			return &l.Partitions[i]
		}
	}
	return nil
}

// DataIndex returns the 1-based partition table index of the data
// partition, the value boot-time label search uses as its device hint.
func (l *Layout) DataIndex() int {
	for i := range l.Partitions {
		if l.Partitions[i].Role == RoleData {
			return i + 1
		}
	}
	return 0
}

func alignDown(v uint64) uint64 { return v &^ (Alignment - 1) }

// Plan computes the partition layout for a device of the given capacity.
// The first partition starts at the first alignment boundary; the data
// partition takes whatever remains, aligned down. Plan fails with
// ErrInsufficientCapacity when the remainder is below opts.MinDataSize.
func Plan(capacityBytes uint64, opts config.Options) (*Layout, error) {
	if !opts.SupportBIOS && !opts.SupportUEFI {
		return nil, ErrNoFirmwareSupport
	}

	l := &Layout{DeviceBytes: capacityBytes}
	offset := uint64(Alignment)

	if opts.SupportBIOS {
		l.Partitions = append(l.Partitions, Partition{
			Role:       RoleBootStub,
			StartBytes: offset,
			SizeBytes:  Alignment,
		})
		offset += Alignment
	}

	if opts.SupportUEFI {
		size := alignDown(opts.FirmwareSystemSize)
		if size == 0 {
			return nil, fmt.Errorf("firmware-system partition size %d below alignment", opts.FirmwareSystemSize)
		}
		l.Partitions = append(l.Partitions, Partition{
			Role:       RoleFirmwareSystem,
			StartBytes: offset,
			SizeBytes:  size,
			Filesystem: "vfat",
			Label:      "VMBOOT",
		})
		offset += size
	}

	if capacityBytes < offset {
		return nil, fmt.Errorf("%w: %d byte device cannot hold the boot partitions", ErrInsufficientCapacity, capacityBytes)
	}
	dataSize := alignDown(capacityBytes - offset)
	if dataSize < opts.MinDataSize {
		return nil, fmt.Errorf("%w: %d bytes left for data, need %d", ErrInsufficientCapacity, dataSize, opts.MinDataSize)
	}
	l.Partitions = append(l.Partitions, Partition{
		Role:       RoleData,
		StartBytes: offset,
		SizeBytes:  dataSize,
		Filesystem: "exfat",
		Label:      opts.VolumeLabel,
	})

	return l, nil
}
