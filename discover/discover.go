// Package discover plans how the boot program locates the data partition
// at boot time. The partition is found by volume label; the chain of
// search attempts is fixed, only the hints vary with the planned layout.
package discover

import "fmt"

// Step is one label-search attempt. Hint is a boot-program device hint
// such as "hd0,gpt3"; an empty hint with Exhaustive set means search every
// device.
type Step struct {
	Label      string
	Hint       string
	Exhaustive bool
}

// SearchChain is the ordered fallback sequence, fastest hint first,
// hint-free exhaustive search last. Immutable once built.
type SearchChain []Step

// Chain builds the three-tier search chain for a data partition with the
// given label at the given 1-based partition index:
//
//  1. the device enumerated as the first disk (the planned layout),
//  2. the device enumerated as the second disk (USB controllers that are
//     not the first boot device),
//  3. exhaustive search with no hint.
func Chain(label string, dataIndex int) SearchChain {
	return SearchChain{
		{Label: label, Hint: fmt.Sprintf("hd0,gpt%d", dataIndex)},
		{Label: label, Hint: fmt.Sprintf("hd1,gpt%d", dataIndex)},
		{Label: label, Exhaustive: true},
	}
}
