package config

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestDefaults(t *testing.T) {
	opts := Defaults()
	if opts.RAMLoadThreshold != 2*1024*1024*1024 {
		t.Errorf("RAMLoadThreshold = %d, want 2 GiB", opts.RAMLoadThreshold)
	}
	if opts.FirmwareSystemSize != 512*1024*1024 {
		t.Errorf("FirmwareSystemSize = %d, want 512 MiB", opts.FirmwareSystemSize)
	}
	if !opts.SupportBIOS || !opts.SupportUEFI {
		t.Error("both firmware types must be supported by default")
	}
	if opts.VolumeLabel == "" {
		t.Error("no default volume label")
	}
}

func TestRegisterPflags(t *testing.T) {
	opts := Defaults()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	opts.RegisterPflags(fs)

	err := fs.Parse([]string{
		"--label=STICK",
		"--ramload_threshold_bytes=1048576",
		"--timeout=5",
		"--bios=false",
	})
	if err != nil {
		t.Fatal(err)
	}
	if opts.VolumeLabel != "STICK" {
		t.Errorf("VolumeLabel = %q, want STICK", opts.VolumeLabel)
	}
	if opts.RAMLoadThreshold != 1048576 {
		t.Errorf("RAMLoadThreshold = %d, want 1048576", opts.RAMLoadThreshold)
	}
	if opts.MenuTimeout != 5 {
		t.Errorf("MenuTimeout = %d, want 5", opts.MenuTimeout)
	}
	if opts.SupportBIOS {
		t.Error("SupportBIOS not overridden")
	}
	if !opts.SupportUEFI {
		t.Error("SupportUEFI changed without being set")
	}
}
