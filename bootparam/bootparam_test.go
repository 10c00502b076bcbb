package bootparam

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/asafelobotomy/LUXusb-sub001/catalog"
)

const testLabel = "LUXusb"

func img(family catalog.Family) catalog.Image {
	return catalog.Image{
		ID:     "t1",
		Name:   "Test",
		Family: family,
		Path:   "/isos/t1/test.iso",
	}
}

func TestResolveDebianCandidateOrder(t *testing.T) {
	ps := Resolve(img(catalog.FamilyDebian), ModeNormal, testLabel)
	if ps.ImagePath != "/isos/t1/test.iso" {
		t.Errorf("ImagePath = %q", ps.ImagePath)
	}
	want := []Candidate{
		{ConfigFile: "/boot/grub/loopback.cfg"},
		{
			Kernel: "/live/vmlinuz",
			Initrd: "/live/initrd.img",
			Args:   []string{"boot=live", "findiso=/isos/t1/test.iso", "components", "quiet", "splash"},
		},
		{
			Kernel: "/casper/vmlinuz",
			Initrd: "/casper/initrd",
			Args:   []string{"boot=casper", "iso-scan/filename=/isos/t1/test.iso", "quiet", "splash"},
		},
	}
	if diff := cmp.Diff(want, ps.Candidates); diff != "" {
		t.Fatalf("unexpected candidates: diff (-want +got):\n%s", diff)
	}
}

func TestResolveSafeGraphicsFlags(t *testing.T) {
	// Every family gets the universal nomodeset plus all vendor disables
	// on every kernel candidate; hardware detection never happens at
	// generation time.
	families := []catalog.Family{
		catalog.FamilyDebian, catalog.FamilyArch, catalog.FamilyFedora,
		catalog.FamilyOpenSUSE, catalog.FamilyWindowsPE, catalog.FamilyGeneric,
	}
	wantFlags := []string{"nomodeset", "i915.modeset=0", "nouveau.modeset=0", "radeon.modeset=0", "amdgpu.modeset=0"}
	for _, family := range families {
		ps := Resolve(img(family), ModeSafeGraphics, testLabel)
		for _, cand := range ps.Candidates {
			if cand.ConfigFile != "" {
				continue // chains into the image's own config
			}
			args := strings.Join(cand.Args, " ")
			for _, flag := range wantFlags {
				if !strings.Contains(args, flag) {
					t.Errorf("family %s candidate %s: args %q missing %q", family, cand.Kernel, args, flag)
				}
			}
		}
	}
}

func TestResolveNormalHasNoSafeFlags(t *testing.T) {
	ps := Resolve(img(catalog.FamilyArch), ModeNormal, testLabel)
	for _, cand := range ps.Candidates {
		if strings.Contains(strings.Join(cand.Args, " "), "nomodeset") {
			t.Errorf("normal mode candidate %s carries nomodeset", cand.Kernel)
		}
	}
}

func TestResolveUnknownFamilyDegradesToGeneric(t *testing.T) {
	unknown := Resolve(img(catalog.Family("haiku-like")), ModeNormal, testLabel)
	generic := Resolve(img(catalog.FamilyGeneric), ModeNormal, testLabel)
	if diff := cmp.Diff(generic, unknown); diff != "" {
		t.Fatalf("unknown family differs from generic: diff (-generic +unknown):\n%s", diff)
	}
}

func TestResolveLabelThreading(t *testing.T) {
	ps := Resolve(img(catalog.FamilyArch), ModeNormal, "MYSTICK")
	args := strings.Join(ps.Candidates[0].Args, " ")
	if !strings.Contains(args, "img_dev=/dev/disk/by-label/MYSTICK") {
		t.Errorf("arch args %q do not reference the volume label", args)
	}

	ps = Resolve(img(catalog.FamilyFedora), ModeNormal, "MYSTICK")
	args = strings.Join(ps.Candidates[0].Args, " ")
	if !strings.Contains(args, "root=live:LABEL=MYSTICK") {
		t.Errorf("fedora args %q do not reference the volume label", args)
	}
}

func TestResolveRAMLoad(t *testing.T) {
	pe := Resolve(img(catalog.FamilyWindowsPE), ModeRAMLoad, testLabel)
	want := ParamSet{
		Mode:      ModeRAMLoad,
		ImagePath: "/isos/t1/test.iso",
		Candidates: []Candidate{{
			Kernel: MemdiskPath,
			Initrd: "/isos/t1/test.iso",
			Args:   []string{"iso", "raw"},
		}},
	}
	if diff := cmp.Diff(want, pe); diff != "" {
		t.Fatalf("unexpected windows-pe ram-load set: diff (-want +got):\n%s", diff)
	}

	plain := Resolve(img(catalog.FamilyDebian), ModeRAMLoad, testLabel)
	if diff := cmp.Diff([]string{"iso"}, plain.Candidates[0].Args); diff != "" {
		t.Fatalf("unexpected memdisk args: diff (-want +got):\n%s", diff)
	}
}
