// Package nibble implements the 4-bit path arithmetic shared by every node
// variant: owned paths (Path) and borrowed views over them (Slice).
//
// Internally a path is kept as one nibble value (0-15) per slice element,
// the same "hex key" shape go-ethereum's trie package uses internally
// (keybytesToHex/hexToKeybytes), rather than bit-packed two-per-byte. That
// keeps Push/Pop/Append/DropLasts plain slice operations; packing only
// happens at the edges, in AsPrefix, where a byte-aligned key is needed to
// address a backing store.
package nibble

// Nibble is a single path element in 0..15.
type Nibble = byte

// Path is an owned, growable nibble path.
type Path struct {
	n []byte
}

// FromBytes expands raw key bytes into their nibble form, high nibble first,
// with no terminator appended (that belongs to the wire codec, not here).
func FromBytes(key []byte) Path {
	n := make([]byte, 0, len(key)*2)
	for _, b := range key {
		n = append(n, b>>4, b&0x0f)
	}
	return Path{n: n}
}

// PartialFromPacked builds a Path from a right-aligned packed byte buffer
// plus an odd-length flag, the shape a hex-prefix decoder hands back for an
// Extension or NibbledBranch partial key. If odd is true the first nibble
// occupies the low bits of data[0] and the remaining bytes are full nibble
// pairs; if odd is false every byte of data is a full nibble pair.
func PartialFromPacked(data []byte, odd bool) Path {
	var p Path
	p.AppendPartial(data, odd)
	return p
}

// Len reports the number of nibbles in the path.
func (p Path) Len() int { return len(p.n) }

// IsEmpty reports whether the path has no nibbles.
func (p Path) IsEmpty() bool { return len(p.n) == 0 }

// At returns the nibble at position i.
func (p Path) At(i int) Nibble { return p.n[i] }

// Push appends a single nibble.
func (p *Path) Push(n Nibble) { p.n = append(p.n, n) }

// Pop removes the last nibble. It panics if the path is empty.
func (p *Path) Pop() { p.n = p.n[:len(p.n)-1] }

// DropLasts removes the last k nibbles. It panics if k exceeds Len().
func (p *Path) DropLasts(k int) {
	if k == 0 {
		return
	}
	p.n = p.n[:len(p.n)-k]
}

// Append concatenates the nibbles of s onto p.
func (p *Path) Append(s Slice) { p.n = append(p.n, s.n...) }

// AppendPartial appends nibbles decoded from a right-aligned packed byte
// buffer, preserving alignment regardless of p's current parity. See
// PartialFromPacked for the encoding of data/odd.
func (p *Path) AppendPartial(data []byte, odd bool) {
	if len(data) == 0 {
		return
	}
	if odd {
		p.n = append(p.n, data[0]&0x0f)
		data = data[1:]
	}
	for _, b := range data {
		p.n = append(p.n, b>>4, b&0x0f)
	}
}

// Slice returns a borrowed view over the whole path.
func (p Path) Slice() Slice { return Slice{n: p.n} }

// Mid returns a borrowed view skipping the first k nibbles.
func (p Path) Mid(k int) Slice { return Slice{n: p.n[k:]} }

// StartsWith reports whether p begins with every nibble of other.
func (p Path) StartsWith(other Slice) bool { return p.Slice().StartsWith(other) }

// Compare returns -1, 0 or 1 comparing p and other nibble by nibble, with a
// shorter path ordering before a longer one that shares its prefix.
func (p Path) Compare(other Path) int { return compare(p.n, other.n) }

// Clone returns an independent copy of p.
func (p Path) Clone() Path {
	n := make([]byte, len(p.n))
	copy(n, p.n)
	return Path{n: n}
}

// AsPrefix packs the path into a byte-aligned buffer suitable for keying a
// backing store, plus a flag reporting whether the last nibble is a trailing
// half (occupying only the high bits of the final byte).
func (p Path) AsPrefix() (packed []byte, oddLen bool) {
	return packNibbles(p.n)
}

// Raw exposes the underlying one-nibble-per-byte slice. Callers must not
// retain it across a subsequent mutation of p.
func (p Path) Raw() []byte { return p.n }

// String renders the path as a hex string, one character per nibble (so a
// path of nibbles [0,1,2,3] prints as "0123", not the 8-digit byte-wise hex
// dump fmt's default %x verb would produce for a []byte of those values).
func (p Path) String() string {
	const digits = "0123456789abcdef"
	buf := make([]byte, len(p.n))
	for i, v := range p.n {
		buf[i] = digits[v]
	}
	return string(buf)
}

// Slice is a non-owning view over a Path or a raw nibble buffer.
type Slice struct {
	n []byte
}

// SliceOf wraps an already-unpacked nibble buffer as a Slice.
func SliceOf(n []byte) Slice { return Slice{n: n} }

// Len reports the number of nibbles in the slice.
func (s Slice) Len() int { return len(s.n) }

// IsEmpty reports whether the slice has no nibbles.
func (s Slice) IsEmpty() bool { return len(s.n) == 0 }

// At returns the nibble at position i.
func (s Slice) At(i int) Nibble { return s.n[i] }

// Mid returns the subslice starting at nibble k.
func (s Slice) Mid(k int) Slice { return Slice{n: s.n[k:]} }

// StartsWith reports whether s begins with every nibble of other.
func (s Slice) StartsWith(other Slice) bool {
	if len(other.n) > len(s.n) {
		return false
	}
	for i, v := range other.n {
		if s.n[i] != v {
			return false
		}
	}
	return true
}

// Compare returns -1, 0 or 1 comparing s and other nibble by nibble, with a
// shorter slice ordering before a longer one that shares its prefix.
func (s Slice) Compare(other Slice) int { return compare(s.n, other.n) }

// AsPrefix packs the slice into a byte-aligned buffer, same contract as
// Path.AsPrefix.
func (s Slice) AsPrefix() (packed []byte, oddLen bool) {
	return packNibbles(s.n)
}

// Raw exposes the underlying one-nibble-per-byte slice.
func (s Slice) Raw() []byte { return s.n }

func compare(a, b []byte) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

func packNibbles(n []byte) (packed []byte, oddLen bool) {
	oddLen = len(n)%2 == 1
	packed = make([]byte, (len(n)+1)/2)
	full := len(n)
	if oddLen {
		full--
	}
	for i := 0; i < full; i += 2 {
		packed[i/2] = n[i]<<4 | n[i+1]
	}
	if oddLen {
		packed[len(n)/2] = n[len(n)-1] << 4
	}
	return packed, oddLen
}
