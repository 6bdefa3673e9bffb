// Package objfile implements the on-disk object file format shared by
// the assembler and the VM: a storage header describing initialized
// variable space, followed by the raw instruction byte stream.
package objfile

import (
	"encoding/binary"
)

const (
	// initFlagBit is the high bit of a StorageItem's on-disk size word,
	// signalling that init_data bytes follow the offset field.
	initFlagBit uint16 = 0x8000

	// itemHeaderBytes is the fixed-size portion of a StorageItem: the
	// size_with_flag word plus the offset word.
	itemHeaderBytes = 4
)

// StorageItem is the on-disk form of one assembler variable.
type StorageItem struct {
	// Size is the variable's length in bytes, 1..=0x7FFF.
	Size uint16
	// Offset is this item's offset within the variable space, measured
	// from the variable-space origin (not yet biased by 0x8000).
	Offset uint16
	// InitData holds the variable's initial contents, or nil when the
	// variable is uninitialized. When non-nil, len(InitData) == Size.
	InitData []byte
}

// HasInitData reports whether this item carries initial data.
func (s StorageItem) HasInitData() bool {
	return s.InitData != nil
}

// Storage is the sequence of variable descriptors that precedes the
// instruction stream in an object file.
type Storage struct {
	Items []StorageItem
}

// TotalSize computes the exact byte count of the serialized item
// region: the 4-byte header per item plus the length of any init data.
func (s Storage) TotalSize() uint16 {
	var total uint32
	for _, item := range s.Items {
		total += itemHeaderBytes
		if item.HasInitData() {
			total += uint32(len(item.InitData))
		}
	}
	return uint16(total) // #nosec G115 -- bounded by total_size's own u16 wire width
}

// SmolFile is the complete parsed object file: the variable storage
// header and the raw instruction bytes that follow it.
type SmolFile struct {
	Storage      Storage
	Instructions []byte
}

// Encode serializes f into its on-disk byte representation per the
// object file format: u16 total_size, repeated StorageItems, then the
// raw instruction bytes. All multi-byte integers are little-endian.
func (f SmolFile) Encode() []byte {
	totalSize := f.Storage.TotalSize()

	out := make([]byte, 0, 2+int(totalSize)+len(f.Instructions))
	out = binary.LittleEndian.AppendUint16(out, totalSize)

	for _, item := range f.Storage.Items {
		sizeWithFlag := item.Size
		if item.HasInitData() {
			sizeWithFlag |= initFlagBit
		}
		out = binary.LittleEndian.AppendUint16(out, sizeWithFlag)
		out = binary.LittleEndian.AppendUint16(out, item.Offset)
		if item.HasInitData() {
			out = append(out, item.InitData...)
		}
	}

	out = append(out, f.Instructions...)
	return out
}

// Decode parses an on-disk object file. It rejects truncated headers,
// truncated items, zero-size items, items whose declared length would
// extend past total_size, and an empty instruction region.
func Decode(data []byte) (*SmolFile, error) {
	if len(data) < 2 {
		return nil, newDecodeError(0, "truncated header: need 2 bytes for total_size, have %d", len(data))
	}

	totalSize := binary.LittleEndian.Uint16(data[0:2])
	cursor := 2
	itemsEnd := cursor + int(totalSize)

	if itemsEnd > len(data) {
		return nil, newDecodeError(cursor, "total_size %d extends past end of file (%d bytes available)", totalSize, len(data)-cursor)
	}

	var items []StorageItem
	for cursor < itemsEnd {
		if cursor+itemHeaderBytes > itemsEnd {
			return nil, newDecodeError(cursor, "truncated storage item: need 4 bytes, have %d before total_size boundary", itemsEnd-cursor)
		}

		sizeWithFlag := binary.LittleEndian.Uint16(data[cursor : cursor+2])
		offset := binary.LittleEndian.Uint16(data[cursor+2 : cursor+4])
		cursor += itemHeaderBytes

		hasInit := sizeWithFlag&initFlagBit != 0
		size := sizeWithFlag &^ initFlagBit

		if size == 0 {
			return nil, newDecodeError(cursor-itemHeaderBytes, "storage item has size 0")
		}

		item := StorageItem{Size: size, Offset: offset}

		if hasInit {
			if cursor+int(size) > itemsEnd {
				return nil, newDecodeError(cursor, "init_data of length %d extends past total_size boundary", size)
			}
			item.InitData = append([]byte(nil), data[cursor:cursor+int(size)]...)
			cursor += int(size)
		}

		items = append(items, item)
	}

	instructions := data[itemsEnd:]
	if len(instructions) == 0 {
		return nil, newDecodeError(itemsEnd, "instruction region is empty")
	}

	return &SmolFile{
		Storage:      Storage{Items: items},
		Instructions: append([]byte(nil), instructions...),
	}, nil
}
