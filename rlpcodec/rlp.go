package rlpcodec

import "errors"

// Kind classifies one RLP item.
type Kind int

const (
	Byte Kind = iota
	String
	List
)

// Split decodes the outermost RLP item of b, returning its kind, its
// content (the payload, without the length header), and the remaining
// bytes after it. Mirrors the SplitString/SplitList/CountValues/Split
// vocabulary a decoder built on go-ethereum's rlp package would use.
func Split(b []byte) (kind Kind, content, rest []byte, err error) {
	if len(b) == 0 {
		return 0, nil, nil, errors.New("rlp: value too short")
	}
	switch {
	case b[0] < 0x80:
		return Byte, b[0:1], b[1:], nil
	case b[0] < 0xB8:
		size := int(b[0] - 0x80)
		if len(b) < 1+size {
			return 0, nil, nil, errors.New("rlp: string shorter than declared size")
		}
		return String, b[1 : 1+size], b[1+size:], nil
	case b[0] < 0xC0:
		lenOfLen := int(b[0] - 0xB7)
		if len(b) < 1+lenOfLen {
			return 0, nil, nil, errors.New("rlp: string length prefix truncated")
		}
		size := int(beUint(b[1 : 1+lenOfLen]))
		if len(b) < 1+lenOfLen+size {
			return 0, nil, nil, errors.New("rlp: string shorter than declared size")
		}
		return String, b[1+lenOfLen : 1+lenOfLen+size], b[1+lenOfLen+size:], nil
	case b[0] < 0xF8:
		size := int(b[0] - 0xC0)
		if len(b) < 1+size {
			return 0, nil, nil, errors.New("rlp: list shorter than declared size")
		}
		return List, b[1 : 1+size], b[1+size:], nil
	default:
		lenOfLen := int(b[0] - 0xF7)
		if len(b) < 1+lenOfLen {
			return 0, nil, nil, errors.New("rlp: list length prefix truncated")
		}
		size := int(beUint(b[1 : 1+lenOfLen]))
		if len(b) < 1+lenOfLen+size {
			return 0, nil, nil, errors.New("rlp: list shorter than declared size")
		}
		return List, b[1+lenOfLen : 1+lenOfLen+size], b[1+lenOfLen+size:], nil
	}
}

// SplitString splits b as a string (or single byte) item.
func SplitString(b []byte) (content, rest []byte, err error) {
	kind, content, rest, err := Split(b)
	if err != nil {
		return nil, nil, err
	}
	if kind == List {
		return nil, nil, errors.New("rlp: expected string, got list")
	}
	return content, rest, nil
}

// SplitList splits b as a list item, returning its concatenated,
// still-encoded elements as content.
func SplitList(b []byte) (content, rest []byte, err error) {
	kind, content, rest, err := Split(b)
	if err != nil {
		return nil, nil, err
	}
	if kind != List {
		return nil, nil, errors.New("rlp: expected list, got string")
	}
	return content, rest, nil
}

// CountValues reports how many top-level items are encoded in b (the
// content of a list, not the list itself).
func CountValues(b []byte) (int, error) {
	count := 0
	for len(b) > 0 {
		_, _, rest, err := Split(b)
		if err != nil {
			return 0, err
		}
		b = rest
		count++
	}
	return count, nil
}

// EncodeString encodes data as an RLP string, using the single-byte
// shorthand when data is exactly one byte below 0x80.
func EncodeString(data []byte) []byte {
	if len(data) == 1 && data[0] < 0x80 {
		return []byte{data[0]}
	}
	return append(header(0x80, 0xB7, len(data)), data...)
}

// EncodeList encodes the already-RLP-encoded items as a single RLP list.
func EncodeList(items ...[]byte) []byte {
	var content []byte
	for _, it := range items {
		content = append(content, it...)
	}
	return append(header(0xC0, 0xF7, len(content)), content...)
}

func header(shortBase, longBase byte, size int) []byte {
	if size < 56 {
		return []byte{shortBase + byte(size)}
	}
	sizeBytes := beBytes(size)
	return append([]byte{longBase + byte(len(sizeBytes))}, sizeBytes...)
}

func beUint(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v
}

func beBytes(n int) []byte {
	var b []byte
	for n > 0 {
		b = append([]byte{byte(n & 0xff)}, b...)
		n >>= 8
	}
	return b
}
