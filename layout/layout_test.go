package layout

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/asafelobotomy/LUXusb-sub001/config"
)

const (
	mib = 1024 * 1024
	gib = 1024 * mib
)

func TestPlan32GB(t *testing.T) {
	// A nominal 32 GB (decimal) stick with both firmware types.
	got, err := Plan(32_000_000_000, config.Defaults())
	if err != nil {
		t.Fatal(err)
	}
	want := &Layout{
		DeviceBytes: 32_000_000_000,
		Partitions: []Partition{
			{Role: RoleBootStub, StartBytes: 1 * mib, SizeBytes: 1 * mib},
			{Role: RoleFirmwareSystem, StartBytes: 2 * mib, SizeBytes: 512 * mib, Filesystem: "vfat", Label: "VMBOOT"},
			{Role: RoleData, StartBytes: 514 * mib, SizeBytes: 31_460_425_728, Filesystem: "exfat", Label: "LUXusb"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected layout: diff (-want +got):\n%s", diff)
	}
	if idx := got.DataIndex(); idx != 3 {
		t.Errorf("DataIndex = %d, want 3", idx)
	}
}

func TestPlanAlignmentAndOverlap(t *testing.T) {
	for name, opts := range map[string]config.Options{
		"both": config.Defaults(),
		"uefi-only": func() config.Options {
			o := config.Defaults()
			o.SupportBIOS = false
			return o
		}(),
		"bios-only": func() config.Options {
			o := config.Defaults()
			o.SupportUEFI = false
			return o
		}(),
	} {
		t.Run(name, func(t *testing.T) {
			l, err := Plan(64_000_000_000, opts)
			if err != nil {
				t.Fatal(err)
			}
			var endExcl uint64
			for _, p := range l.Partitions {
				if p.StartBytes%Alignment != 0 {
					t.Errorf("%s starts at %d, not aligned", p.Role, p.StartBytes)
				}
				if p.SizeBytes%Alignment != 0 {
					t.Errorf("%s size %d not aligned", p.Role, p.SizeBytes)
				}
				if p.StartBytes < endExcl {
					t.Errorf("%s overlaps previous partition (start %d < %d)", p.Role, p.StartBytes, endExcl)
				}
				endExcl = p.StartBytes + p.SizeBytes
			}
			if endExcl > l.DeviceBytes {
				t.Errorf("partitions end at %d, beyond device size %d", endExcl, l.DeviceBytes)
			}
		})
	}
}

func TestPlanBootStubOnlyWithBIOS(t *testing.T) {
	opts := config.Defaults()
	opts.SupportBIOS = false
	l, err := Plan(32_000_000_000, opts)
	if err != nil {
		t.Fatal(err)
	}
	if p := l.Partition(RoleBootStub); p != nil {
		t.Errorf("boot stub planned without BIOS support: %+v", p)
	}
	if p := l.Partition(RoleFirmwareSystem); p == nil || p.StartBytes != 1*mib {
		t.Errorf("firmware-system partition = %+v, want start at 1 MiB", p)
	}
}

func TestPlanInsufficientCapacity(t *testing.T) {
	_, err := Plan(3_000_000_000, config.Defaults())
	if !errors.Is(err, ErrInsufficientCapacity) {
		t.Fatalf("Plan(3 GB) = %v, want ErrInsufficientCapacity", err)
	}

	// Smaller than the boot partitions themselves.
	_, err = Plan(100*mib, config.Defaults())
	if !errors.Is(err, ErrInsufficientCapacity) {
		t.Fatalf("Plan(100 MiB) = %v, want ErrInsufficientCapacity", err)
	}
}

func TestPlanNoFirmwareSupport(t *testing.T) {
	opts := config.Defaults()
	opts.SupportBIOS = false
	opts.SupportUEFI = false
	if _, err := Plan(32*gib, opts); !errors.Is(err, ErrNoFirmwareSupport) {
		t.Fatalf("Plan = %v, want ErrNoFirmwareSupport", err)
	}
}
