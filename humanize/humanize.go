// Package humanize formats byte quantities for menu labels and log output.
package humanize

import "fmt"

func Bytes(bytes uint64) string {
	switch {
	case bytes > (1024 * 1024 * 1024):
		return fmt.Sprintf("%.1f GiB", float64(bytes)/1024/1024/1024)
	case bytes > (1024 * 1024):
		return fmt.Sprintf("%.f MiB", float64(bytes)/1024/1024)
	case bytes > 1024:
		return fmt.Sprintf("%.f KiB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// MiB returns the quantity in whole mebibytes, rounded up. Boot menus state
// RAM requirements in MiB regardless of magnitude.
func MiB(bytes uint64) string {
	mib := (bytes + 1024*1024 - 1) / (1024 * 1024)
	return fmt.Sprintf("%d MiB", mib)
}
