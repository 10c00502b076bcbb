// Package bootparam maps an image's declared OS family to the kernel and
// initrd candidates its boot menu entries try at boot time. The true paths
// inside an image are only knowable once the image is loop-mounted by the
// boot program, so each mode carries an ordered candidate list and the
// rendered script probes them with existence checks.
package bootparam

import (
	"github.com/asafelobotomy/LUXusb-sub001/catalog"
)

// Mode tags one way of booting an image.
type Mode string

const (
	ModeNormal       Mode = "normal"
	ModeSafeGraphics Mode = "safe-graphics"
	ModeRAMLoad      Mode = "ram-load"
)

// MemdiskPath is where the provisioning tooling places the memdisk binary
// on the firmware-system partition.
const MemdiskPath = "/boot/memdisk"

// Candidate is one kernel/initrd pair to try, with the arguments that go
// with it. Paths are inside the loop-mounted image. If ConfigFile is set
// the candidate instead chains into the image's own loopback-aware grub
// config and the other fields are empty.
type Candidate struct {
	ConfigFile string
	Kernel     string
	Initrd     string
	Args       []string
}

// ParamSet is the resolved boot parameters for one image in one mode.
// ImagePath is the image's location on the data partition, the value the
// rendered entry assigns before mounting or loading anything.
type ParamSet struct {
	Mode       Mode
	ImagePath  string
	Candidates []Candidate
}

// safeGraphicsArgs is appended to every candidate in safe-graphics mode:
// the universal mode-setting disable plus one disable per known GPU vendor
// driver. Flags for absent hardware are no-ops at runtime, which is why no
// hardware detection happens at generation time.
var safeGraphicsArgs = []string{
	"nomodeset",
	"i915.modeset=0",
	"nouveau.modeset=0",
	"radeon.modeset=0",
	"amdgpu.modeset=0",
}

// Resolve returns the boot parameters for img in the given mode. label is
// the data partition's volume label, referenced by argument sets that
// locate the image by device label. Unknown families never fail; they get
// the generic strategy.
func Resolve(img catalog.Image, mode Mode, label string) ParamSet {
	if mode == ModeRAMLoad {
		return ramLoad(img)
	}

	var cands []Candidate
	switch img.Family {
	case catalog.FamilyDebian:
		cands = debianCandidates(img.Path)
	case catalog.FamilyArch:
		cands = archCandidates(img.Path, label)
	case catalog.FamilyFedora:
		cands = fedoraCandidates(img.Path, label)
	case catalog.FamilyOpenSUSE:
		cands = opensuseCandidates(img.Path, label)
	case catalog.FamilyWindowsPE, catalog.FamilyGeneric:
		cands = genericCandidates(img.Path)
	default:
		cands = genericCandidates(img.Path)
	}

	if mode == ModeSafeGraphics {
		for i := range cands {
			if cands[i].ConfigFile != "" {
				continue
			}
			cands[i].Args = append(cands[i].Args, safeGraphicsArgs...)
		}
	}
	return ParamSet{Mode: mode, ImagePath: img.Path, Candidates: cands}
}

// ramLoad boots via memdisk. Windows PE images need the raw flag; for
// everything else plain iso mode suffices.
func ramLoad(img catalog.Image) ParamSet {
	args := []string{"iso"}
	if img.Family == catalog.FamilyWindowsPE {
		args = []string{"iso", "raw"}
	}
	return ParamSet{
		Mode:      ModeRAMLoad,
		ImagePath: img.Path,
		Candidates: []Candidate{{
			Kernel: MemdiskPath,
			Initrd: img.Path,
			Args:   args,
		}},
	}
}

func debianCandidates(isoPath string) []Candidate {
	return []Candidate{
		{ConfigFile: "/boot/grub/loopback.cfg"},
		{
			Kernel: "/live/vmlinuz",
			Initrd: "/live/initrd.img",
			Args:   []string{"boot=live", "findiso=" + isoPath, "components", "quiet", "splash"},
		},
		{
			Kernel: "/casper/vmlinuz",
			Initrd: "/casper/initrd",
			Args:   []string{"boot=casper", "iso-scan/filename=" + isoPath, "quiet", "splash"},
		},
	}
}

func archCandidates(isoPath, label string) []Candidate {
	args := []string{
		"archisobasedir=arch",
		"img_dev=/dev/disk/by-label/" + label,
		"img_loop=" + isoPath,
		"earlymodules=loop",
		"quiet",
	}
	return []Candidate{
		{
			Kernel: "/arch/boot/x86_64/vmlinuz-linux",
			Initrd: "/arch/boot/x86_64/initramfs-linux.img",
			Args:   args,
		},
		{
			Kernel: "/boot/vmlinuz-linux",
			Initrd: "/boot/initramfs-linux.img",
			Args:   args,
		},
	}
}

func fedoraCandidates(isoPath, label string) []Candidate {
	args := []string{
		"iso-scan/filename=" + isoPath,
		"root=live:LABEL=" + label,
		"rd.live.image",
		"quiet",
	}
	return []Candidate{
		{
			Kernel: "/isolinux/vmlinuz",
			Initrd: "/isolinux/initrd.img",
			Args:   args,
		},
		{
			Kernel: "/images/pxeboot/vmlinuz",
			Initrd: "/images/pxeboot/initrd.img",
			Args:   args,
		},
	}
}

func opensuseCandidates(isoPath, label string) []Candidate {
	return []Candidate{
		{
			Kernel: "/boot/x86_64/loader/linux",
			Initrd: "/boot/x86_64/loader/initrd",
			Args: []string{
				"isofrom_device=/dev/disk/by-label/" + label,
				"isofrom_system=" + isoPath,
				"quiet", "splash",
			},
		},
	}
}

// genericCandidates tries every known live-boot convention in sequence.
func genericCandidates(isoPath string) []Candidate {
	return []Candidate{
		{ConfigFile: "/boot/grub/loopback.cfg"},
		{
			Kernel: "/casper/vmlinuz",
			Initrd: "/casper/initrd",
			Args:   []string{"boot=casper", "iso-scan/filename=" + isoPath, "quiet", "splash", "noeject", "noprompt"},
		},
		{
			Kernel: "/isolinux/vmlinuz",
			Initrd: "/isolinux/initrd.img",
			Args:   []string{"iso-scan/filename=" + isoPath, "quiet"},
		},
		{
			Kernel: "/arch/boot/x86_64/vmlinuz-linux",
			Initrd: "/arch/boot/x86_64/initramfs-linux.img",
			Args:   []string{"archisobasedir=arch", "img_loop=" + isoPath, "quiet"},
		},
	}
}
