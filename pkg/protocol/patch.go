package protocol

import "fmt"

// PatchOp identifies a server to client patch operation.
type PatchOp uint8

const (
	// PatchPush appends a history entry.
	PatchPush PatchOp = 0x01
	// PatchReplace replaces the current history entry.
	PatchReplace PatchOp = 0x02
	// PatchGo traverses the history stack by Delta entries.
	PatchGo PatchOp = 0x03
	// PatchSync updates the displayed location without touching the
	// stack. Used after pop-driven navigations.
	PatchSync PatchOp = 0x04
	// PatchScroll scrolls the viewport to the top.
	PatchScroll PatchOp = 0x05
)

func (op PatchOp) String() string {
	switch op {
	case PatchPush:
		return "Push"
	case PatchReplace:
		return "Replace"
	case PatchGo:
		return "Go"
	case PatchSync:
		return "Sync"
	case PatchScroll:
		return "Scroll"
	default:
		return "Unknown"
	}
}

// Patch is one history/location mutation the client applies verbatim.
type Patch struct {
	Op PatchOp

	// Push, Replace, Sync.
	Path   string
	Search string
	Hash   string

	// Go.
	Delta int

	// Scroll. "auto" or "smooth".
	Behavior string
}

// MaxPatchesPerFrame bounds the patch count of a single frame.
const MaxPatchesPerFrame = 256

// EncodePatches encodes a batch of patches into a Patches frame
// payload: a varint count followed by the patches.
func EncodePatches(patches []Patch) ([]byte, error) {
	if len(patches) > MaxPatchesPerFrame {
		return nil, fmt.Errorf("protocol: %d patches exceed frame limit %d", len(patches), MaxPatchesPerFrame)
	}
	e := NewEncoder()
	e.WriteUvarint(uint64(len(patches)))
	for i := range patches {
		p := &patches[i]
		e.WriteByte(byte(p.Op))
		switch p.Op {
		case PatchPush, PatchReplace, PatchSync:
			e.WriteString(p.Path)
			e.WriteString(p.Search)
			e.WriteString(p.Hash)
		case PatchGo:
			e.WriteSvarint(int64(p.Delta))
		case PatchScroll:
			e.WriteString(p.Behavior)
		default:
			return nil, fmt.Errorf("protocol: unknown patch op 0x%02x", byte(p.Op))
		}
	}
	return e.Bytes(), nil
}

// DecodePatches decodes a Patches frame payload.
func DecodePatches(payload []byte) ([]Patch, error) {
	d := NewDecoder(payload)

	count, err := d.ReadUvarint()
	if err != nil {
		return nil, fmt.Errorf("protocol: patch count: %w", err)
	}
	if count > MaxPatchesPerFrame {
		return nil, fmt.Errorf("protocol: patch count %d exceeds frame limit %d", count, MaxPatchesPerFrame)
	}

	patches := make([]Patch, 0, count)
	for i := uint64(0); i < count; i++ {
		op, err := d.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("protocol: patch %d op: %w", i, err)
		}
		p := Patch{Op: PatchOp(op)}
		switch p.Op {
		case PatchPush, PatchReplace, PatchSync:
			if p.Path, err = d.ReadString(); err != nil {
				return nil, fmt.Errorf("protocol: patch %d path: %w", i, err)
			}
			if p.Search, err = d.ReadString(); err != nil {
				return nil, fmt.Errorf("protocol: patch %d search: %w", i, err)
			}
			if p.Hash, err = d.ReadString(); err != nil {
				return nil, fmt.Errorf("protocol: patch %d hash: %w", i, err)
			}
		case PatchGo:
			delta, err := d.ReadSvarint()
			if err != nil {
				return nil, fmt.Errorf("protocol: patch %d delta: %w", i, err)
			}
			p.Delta = int(delta)
		case PatchScroll:
			if p.Behavior, err = d.ReadString(); err != nil {
				return nil, fmt.Errorf("protocol: patch %d behavior: %w", i, err)
			}
		default:
			return nil, fmt.Errorf("protocol: unknown patch op 0x%02x", op)
		}
		patches = append(patches, p)
	}
	return patches, nil
}
