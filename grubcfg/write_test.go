package grubcfg

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "boot", "grub", "grub.cfg")

	if err := WriteFile(target, []byte("set timeout=30\n")); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "set timeout=30\n" {
		t.Errorf("unexpected content %q", got)
	}

	// Regeneration replaces the previous script.
	if err := WriteFile(target, []byte("set timeout=10\n")); err != nil {
		t.Fatal(err)
	}
	got, err = os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "set timeout=10\n" {
		t.Errorf("unexpected content after rewrite: %q", got)
	}

	// No temporary files may remain next to the script.
	entries, err := os.ReadDir(filepath.Dir(target))
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range entries {
		if strings.Contains(entry.Name(), ".tmp") {
			t.Errorf("leftover temporary file %s", entry.Name())
		}
	}
}
