package catalog

import (
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// ScanMounted rebuilds the catalog from the images actually present on a
// mounted data partition. Images live under isos/<id>/*.iso; metadata for
// a known id is taken from known, everything under isos/custom/ becomes a
// generic entry named after its filename. When several images exist for
// one id the lexically last one wins (filenames sort chronologically for
// the distributions handled here).
func ScanMounted(dataMount string, known []Image) ([]Image, error) {
	isoDir := filepath.Join(dataMount, "isos")
	entries, err := os.ReadDir(isoDir)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*Image, len(known))
	for i := range known {
		byID[known[i].ID] = &known[i]
	}

	var images []Image
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		id := entry.Name()
		isos, err := filepath.Glob(filepath.Join(isoDir, id, "*.iso"))
		if err != nil {
			return nil, err
		}
		sort.Strings(isos)
		if len(isos) == 0 {
			continue
		}

		if id == "custom" {
			for _, iso := range isos {
				img, err := customImage(iso)
				if err != nil {
					return nil, err
				}
				images = append(images, img)
			}
			continue
		}

		meta, ok := byID[id]
		if !ok {
			// Unknown directory, nothing to say about it in a menu.
			continue
		}
		iso := isos[len(isos)-1]
		fi, err := os.Stat(iso)
		if err != nil {
			return nil, err
		}
		img := *meta
		img.SizeBytes = uint64(fi.Size())
		img.Path = path.Join("/isos", id, filepath.Base(iso))
		images = append(images, img)
	}
	return images, nil
}

func customImage(iso string) (Image, error) {
	fi, err := os.Stat(iso)
	if err != nil {
		return Image{}, err
	}
	base := filepath.Base(iso)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return Image{
		ID:        "custom-" + stem,
		Name:      displayName(stem),
		Family:    FamilyGeneric,
		SizeBytes: uint64(fi.Size()),
		Path:      path.Join("/isos/custom", base),
	}, nil
}

// displayName turns a filename stem into a menu label: separators become
// spaces, words are capitalized.
func displayName(stem string) string {
	words := strings.FieldsFunc(stem, func(r rune) bool {
		return r == '-' || r == '_'
	})
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
