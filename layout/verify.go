package layout

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

const sectorSize = 512

// gptEntry is one 128-byte partition entry as stored on disk.
type gptEntry struct {
	TypeGUID   [16]byte
	GUID       [16]byte
	FirstLBA   uint64
	LastLBA    uint64
	Attributes uint64
	Name       [72]byte
}

// Partition type GUIDs the provisioning tooling is expected to assign.
var roleTypeGUID = map[Role]string{
	RoleBootStub:       "21686148-6449-6E6F-744E-656564454649", // BIOS boot
	RoleFirmwareSystem: "C12A7328-F81F-11D2-BA4B-00A087C3B6CF", // EFI system
	RoleData:           "EBD0A0A2-B9E5-4433-87C0-68B6B72699C7", // basic data
}

func readEntries(r io.Reader, n int) ([]gptEntry, error) {
	// 512 bytes protective MBR, 512 bytes GPT header, then the entry
	// array.
	skip := make([]byte, 2*sectorSize)
	if _, err := io.ReadFull(r, skip); err != nil {
		return nil, err
	}
	buf := make([]byte, ((n*128+sectorSize-1)/sectorSize)*sectorSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	entries := make([]gptEntry, n)
	rd := bytes.NewReader(buf)
	for idx := range entries {
		if err := binary.Read(rd, binary.LittleEndian, &entries[idx]); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

// Verify reads the GPT from r (positioned at the start of the device) and
// checks that the first entries match the planned layout: same count, same
// extents, expected type GUIDs. It returns ErrLayoutMismatch with a
// description of the first discrepancy.
func Verify(r io.Reader, want *Layout) error {
	entries, err := readEntries(r, len(want.Partitions))
	if err != nil {
		return fmt.Errorf("reading partition entries: %w", err)
	}
	for i, p := range want.Partitions {
		e := entries[i]
		if guid := guidFromBytes(e.TypeGUID[:]); guid != roleTypeGUID[p.Role] {
			return fmt.Errorf("%w: partition %d type %s, want %s (%s)",
				ErrLayoutMismatch, i+1, guid, roleTypeGUID[p.Role], p.Role)
		}
		if start := e.FirstLBA * sectorSize; start != p.StartBytes {
			return fmt.Errorf("%w: partition %d starts at byte %d, want %d",
				ErrLayoutMismatch, i+1, start, p.StartBytes)
		}
		// LastLBA is inclusive.
		if size := (e.LastLBA - e.FirstLBA + 1) * sectorSize; size != p.SizeBytes {
			return fmt.Errorf("%w: partition %d is %d bytes, want %d",
				ErrLayoutMismatch, i+1, size, p.SizeBytes)
		}
	}
	return nil
}

// guidFromBytes returns the canonical string representation of an on-disk
// GUID (mixed-endian, see the EFI specification, Appendix A).
func guidFromBytes(b []byte) string {
	var node [6]byte
	copy(node[:], b[10:])
	return fmt.Sprintf("%08X-%04X-%04X-%02X%02X-%012X",
		binary.LittleEndian.Uint32(b[0:4]),
		binary.LittleEndian.Uint16(b[4:6]),
		binary.LittleEndian.Uint16(b[6:8]),
		b[8],
		b[9],
		node)
}
