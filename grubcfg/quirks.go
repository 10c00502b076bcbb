package grubcfg

// Registry is the checklist of structural corrections the renderer applies
// for firmware and boot-program defects observed in the field. Each entry
// names the defect it works around; new defects are added here, not
// scattered through the renderer.
type Registry struct {
	// ScopePerEntry: variables set at submenu scope are not reliably
	// visible inside nested menu entries on all grub versions. Every
	// variable a mode entry reads must be assigned inside that entry's
	// own block, even though this duplicates lines per mode.
	ScopePerEntry bool

	// ReleaseLoopBeforeMount: the loop handle is never released between
	// menu selections within one boot session. Without an unconditional
	// release before every mount, the second image selected in a session
	// fails to boot.
	ReleaseLoopBeforeMount bool

	// UnloadTPMFirst: loading ISO images through the loop mechanism
	// while the tpm module is active hangs indefinitely on affected
	// firmware. The module is unloaded once in the global preamble,
	// before the first mount in the script, never per entry.
	UnloadTPMFirst bool

	// FontFallback: a failed font load must fall back to the plain-text
	// terminal. Without the fallback branch the menu keeps running with
	// nothing on screen.
	FontFallback bool
}

// DefaultRegistry returns the workarounds for the boot-program versions
// currently shipped. All of them are required.
func DefaultRegistry() Registry {
	return Registry{
		ScopePerEntry:          true,
		ReleaseLoopBeforeMount: true,
		UnloadTPMFirst:         true,
		FontFallback:           true,
	}
}
