package grubcfg

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFile writes the rendered script to path with an atomic replace:
// the content goes to a temporary file in the same directory which is then
// renamed over the destination. A regeneration interrupted mid-write never
// leaves a truncated, unbootable script on the device.
func WriteFile(path string, script []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(script); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
