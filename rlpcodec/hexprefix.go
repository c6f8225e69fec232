package rlpcodec

import (
	"errors"

	"github.com/jaiminpan/triewalk/nibble"
)

// decodeCompactKey parses a hex-prefix encoded partial key: the high nibble
// of the first byte carries two flag bits (odd-length, has-terminator) and,
// when the length is odd, the key's first nibble; every following byte is a
// full nibble pair.
func decodeCompactKey(b []byte) (partial nibble.Path, hasTerm bool, err error) {
	if len(b) == 0 {
		return nibble.Path{}, false, errors.New("rlpcodec: empty compact key")
	}
	flags := b[0] >> 4
	odd := flags&0x1 != 0
	hasTerm = flags&0x2 != 0
	if odd {
		partial.AppendPartial(b, true)
	} else {
		partial.AppendPartial(b[1:], false)
	}
	return partial, hasTerm, nil
}

// encodeCompactKey is the inverse of decodeCompactKey, used by the builder.
func encodeCompactKey(p nibble.Slice, hasTerm bool) []byte {
	n := p.Raw()
	odd := len(n)%2 == 1
	flags := byte(0)
	if hasTerm {
		flags |= 0x2
	}
	if odd {
		flags |= 0x1
	}
	var buf []byte
	if odd {
		buf = append(buf, flags<<4|n[0])
		n = n[1:]
	} else {
		buf = append(buf, flags<<4)
	}
	for i := 0; i+1 < len(n); i += 2 {
		buf = append(buf, n[i]<<4|n[i+1])
	}
	return buf
}
