// Package catalog models the set of bootable disk images offered in the
// generated boot menu. It uses JSON for interoperability with the metadata
// and import tooling that produces it.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// Family identifies which live-boot convention an image follows. It is
// declared by the catalog, never inferred from image contents.
type Family string

const (
	FamilyDebian    Family = "debian-like"
	FamilyArch      Family = "arch-like"
	FamilyFedora    Family = "fedora-like"
	FamilyOpenSUSE  Family = "opensuse-like"
	FamilyWindowsPE Family = "windows-pe"
	FamilyGeneric   Family = "generic"
)

// Known reports whether f is one of the declared families. Unknown families
// are not an error anywhere in the engine; they boot via the generic
// strategy.
func (f Family) Known() bool {
	switch f {
	case FamilyDebian, FamilyArch, FamilyFedora, FamilyOpenSUSE, FamilyWindowsPE, FamilyGeneric:
		return true
	}
	return false
}

// Image is one bootable disk image. Images are validated (existence, size
// bounds, bootable format) before they reach this package and are immutable
// during a generation pass.
type Image struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Family       Family `json:"family,omitempty"`
	Architecture string `json:"architecture,omitempty"`
	SizeBytes    uint64 `json:"size_bytes"`
	Description  string `json:"description,omitempty"`
	// Path of the image on the data partition, with a leading slash,
	// e.g. /isos/ubuntu/ubuntu-24.04-desktop-amd64.iso.
	Path string `json:"path"`
	// Signed records whether Secure-Boot-compatible signing was applied.
	// It only controls a warning in the rendered help text.
	Signed bool `json:"signed,omitempty"`
}

// IsValid returns true if the image is usable at all. The on-media path
// may still be empty here: metadata catalogs gain paths when the device is
// scanned, and menu generation rejects pathless images itself.
func (img *Image) IsValid() bool {
	return img.ID != "" && img.Name != ""
}

// Validate checks catalog-level preconditions. A violation is a bug in the
// caller, not a runtime condition, so generation refuses to proceed.
func Validate(images []Image) error {
	if len(images) == 0 {
		return ErrEmptyCatalog
	}
	seen := make(map[string]bool, len(images))
	for i := range images {
		img := &images[i]
		if !img.IsValid() {
			return fmt.Errorf("%w: entry %d (id %q)", ErrInvalidImage, i, img.ID)
		}
		if seen[img.ID] {
			return fmt.Errorf("%w: %q", ErrDuplicateID, img.ID)
		}
		seen[img.ID] = true
	}
	return nil
}

// Load reads a catalog from a JSON file and validates it.
func Load(path string) ([]Image, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var images []Image
	if err := json.Unmarshal(b, &images); err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}
	if err := Validate(images); err != nil {
		return nil, err
	}
	return images, nil
}
