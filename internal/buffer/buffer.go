package buffer

import (
	"encoding/binary"
)

// Capacity is the size of the backing store, wide enough for a YMM register.
const Capacity = 32

// Poison fills the bytes past the active width so stray reads stand out.
const Poison byte = 0xCD

type Operation struct {
	Offset  int
	OldData []byte
	NewData []byte
}

// Buffer holds the raw bytes of one register. Only the first Width bytes
// belong to the register; the rest is poisoned.
type Buffer struct {
	data      [Capacity]byte
	width     int
	undoStack []Operation
	redoStack []Operation
}

func New() *Buffer {
	b := &Buffer{}
	b.poison(0)
	return b
}

// Reset loads value as a register of the given width and drops the journal.
func (b *Buffer) Reset(width int, value []byte) {
	if width < 0 {
		width = 0
	}
	if width > Capacity {
		width = Capacity
	}
	b.width = width
	b.poison(0)
	clear(b.data[:width])
	copy(b.data[:width], value)
	b.undoStack = nil
	b.redoStack = nil
}

func (b *Buffer) poison(from int) {
	for i := from; i < Capacity; i++ {
		b.data[i] = Poison
	}
}

func (b *Buffer) Width() int {
	return b.width
}

// Bytes returns a copy of the active bytes.
func (b *Buffer) Bytes() []byte {
	out := make([]byte, b.width)
	copy(out, b.data[:b.width])
	return out
}

// GetBytes returns count bytes at offset, or nil if the range leaves the
// active width.
func (b *Buffer) GetBytes(offset, count int) []byte {
	if !b.inRange(offset, count) {
		return nil
	}
	result := make([]byte, count)
	copy(result, b.data[offset:offset+count])
	return result
}

func (b *Buffer) inRange(offset, count int) bool {
	return offset >= 0 && count > 0 && offset+count <= b.width
}

// Uint reads a little-endian unsigned integer of size 1, 2, 4 or 8.
func (b *Buffer) Uint(offset, size int) (uint64, bool) {
	if !b.inRange(offset, size) {
		return 0, false
	}
	p := b.data[offset : offset+size]
	switch size {
	case 1:
		return uint64(p[0]), true
	case 2:
		return uint64(binary.LittleEndian.Uint16(p)), true
	case 4:
		return uint64(binary.LittleEndian.Uint32(p)), true
	case 8:
		return binary.LittleEndian.Uint64(p), true
	}
	return 0, false
}

// PutUint writes v little-endian as size bytes at offset.
func (b *Buffer) PutUint(offset, size int, v uint64) bool {
	if !b.inRange(offset, size) {
		return false
	}
	p := make([]byte, size)
	switch size {
	case 1:
		p[0] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(p, uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(p, uint32(v))
	case 8:
		binary.LittleEndian.PutUint64(p, v)
	default:
		return false
	}
	return b.Write(offset, p)
}

// Write overwrites bytes at offset and records the change for undo. Writes
// that would leave the active width are refused.
func (b *Buffer) Write(offset int, data []byte) bool {
	if !b.inRange(offset, len(data)) {
		return false
	}

	op := Operation{
		Offset:  offset,
		OldData: make([]byte, len(data)),
		NewData: make([]byte, len(data)),
	}
	copy(op.OldData, b.data[offset:offset+len(data)])
	copy(op.NewData, data)
	b.undoStack = append(b.undoStack, op)
	b.redoStack = nil

	copy(b.data[offset:], data)
	return true
}

func (b *Buffer) Undo() bool {
	if len(b.undoStack) == 0 {
		return false
	}

	op := b.undoStack[len(b.undoStack)-1]
	b.undoStack = b.undoStack[:len(b.undoStack)-1]
	copy(b.data[op.Offset:], op.OldData)

	b.redoStack = append(b.redoStack, op)
	return true
}

func (b *Buffer) Redo() bool {
	if len(b.redoStack) == 0 {
		return false
	}

	op := b.redoStack[len(b.redoStack)-1]
	b.redoStack = b.redoStack[:len(b.redoStack)-1]
	copy(b.data[op.Offset:], op.NewData)

	b.undoStack = append(b.undoStack, op)
	return true
}

func (b *Buffer) CanUndo() bool {
	return len(b.undoStack) > 0
}

func (b *Buffer) CanRedo() bool {
	return len(b.redoStack) > 0
}

// IsModified reports whether any write is still applied since Reset.
func (b *Buffer) IsModified() bool {
	return len(b.undoStack) > 0
}
