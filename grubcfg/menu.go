// Package grubcfg synthesizes the boot menu script: it builds the
// two-level menu tree for a catalog of images and renders it to grub
// syntax, applying the structural workarounds in the quirk registry.
package grubcfg

import (
	"fmt"

	"github.com/asafelobotomy/LUXusb-sub001/bootparam"
	"github.com/asafelobotomy/LUXusb-sub001/catalog"
	"github.com/asafelobotomy/LUXusb-sub001/config"
	"github.com/asafelobotomy/LUXusb-sub001/discover"
	"github.com/asafelobotomy/LUXusb-sub001/ramload"
)

// maxHotkeys caps direct-selection hotkeys at the alphabet. Entries past Z
// stay reachable by arrow keys.
const maxHotkeys = 26

// ModeEntry is one leaf menu entry: a single way to boot a single image.
// Every script variable it needs is declared inside its own block when
// rendered; the search chain is repeated per entry for the same reason.
type ModeEntry struct {
	Label  string
	Params bootparam.ParamSet
	Search discover.SearchChain
}

// Submenu is the per-image menu of boot modes. ReturnLabel is always
// rendered as the final child.
type Submenu struct {
	Image       catalog.Image
	Modes       []ModeEntry
	ReturnLabel string
}

// RootEntry is one image in the root menu. Hotkey is 0 when the entry has
// none.
type RootEntry struct {
	Hotkey  byte
	Label   string
	Submenu Submenu
}

// Tree is the menu tree for one generation pass. It is built fresh per
// call and discarded after rendering.
type Tree struct {
	Roots []RootEntry
}

// BuildTree constructs the menu tree: one RootEntry per catalog image in
// catalog order, hotkeys A-Z for the first 26, a submenu of two or three
// boot modes per image plus the return entry. A duplicate hotkey can only
// come from a bug in assignment, so it fails rather than producing a
// corrupted tree.
func BuildTree(images []catalog.Image, chain discover.SearchChain, opts config.Options) (*Tree, error) {
	if err := catalog.Validate(images); err != nil {
		return nil, err
	}

	t := &Tree{Roots: make([]RootEntry, 0, len(images))}
	used := make(map[byte]bool, maxHotkeys)
	for i, img := range images {
		if img.Path == "" {
			return nil, fmt.Errorf("%w: %q has no on-media path", catalog.ErrInvalidImage, img.ID)
		}
		root := RootEntry{
			Label:   img.Name,
			Submenu: buildSubmenu(img, chain, opts),
		}
		if i < maxHotkeys {
			hotkey := byte('a' + i)
			if used[hotkey] {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateHotkey, hotkey)
			}
			used[hotkey] = true
			root.Hotkey = hotkey
			root.Label = fmt.Sprintf("[%c] %s", hotkey-'a'+'A', img.Name)
		}
		t.Roots = append(t.Roots, root)
	}
	return t, nil
}

func buildSubmenu(img catalog.Image, chain discover.SearchChain, opts config.Options) Submenu {
	label := opts.VolumeLabel
	sub := Submenu{
		Image:       img,
		ReturnLabel: "Return to main menu",
		Modes: []ModeEntry{
			{
				Label:  "Boot normally",
				Params: bootparam.Resolve(img, bootparam.ModeNormal, label),
				Search: chain,
			},
			{
				Label:  "Safe graphics mode",
				Params: bootparam.Resolve(img, bootparam.ModeSafeGraphics, label),
				Search: chain,
			},
		},
	}
	if ramload.Eligible(img, opts.RAMLoadThreshold) {
		sub.Modes = append(sub.Modes, ModeEntry{
			Label:  fmt.Sprintf("Load into RAM (%s)", ramload.Requirement(img)),
			Params: bootparam.Resolve(img, bootparam.ModeRAMLoad, label),
			Search: chain,
		})
	}
	return sub
}
