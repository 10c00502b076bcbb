// Package ramload decides whether an image may be offered a RAM-preload
// boot mode. Pure computation, no I/O.
package ramload

import (
	"github.com/asafelobotomy/LUXusb-sub001/catalog"
	"github.com/asafelobotomy/LUXusb-sub001/humanize"
)

// Eligible reports whether img may be booted fully from RAM. Images below
// the threshold qualify; Windows PE images always qualify because they use
// a different RAM-load mechanism and expect it.
func Eligible(img catalog.Image, thresholdBytes uint64) bool {
	if img.Family == catalog.FamilyWindowsPE {
		return true
	}
	return img.SizeBytes < thresholdBytes
}

// Requirement returns the human-readable RAM requirement shown next to the
// RAM-load menu entry, e.g. "requires 800 MiB of RAM".
func Requirement(img catalog.Image) string {
	return "requires " + humanize.MiB(img.SizeBytes) + " of RAM"
}
