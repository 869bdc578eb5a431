package compiler

import (
	"encoding/binary"
	"fmt"
)

// ErrTruncatedContainer is returned by DecodeContainer when the input
// length is not a multiple of 8 bytes. Silently dropping trailing bytes
// would mask a truncated or corrupt container, so this is a hard error.
var ErrTruncatedContainer = fmt.Errorf("compiler: container length is not a multiple of 8 bytes")

// EncodeContainer serializes a word sequence as the concatenation of each
// word's big-endian 8-byte encoding, most-significant byte first.
func EncodeContainer(words []Word) []byte {
	out := make([]byte, 0, len(words)*8)
	var buf [8]byte
	for _, w := range words {
		binary.BigEndian.PutUint64(buf[:], uint64(w))
		out = append(out, buf[:]...)
	}
	return out
}

// DecodeContainer deserializes a byte stream produced by EncodeContainer.
func DecodeContainer(b []byte) ([]Word, error) {
	if len(b)%8 != 0 {
		return nil, ErrTruncatedContainer
	}
	words := make([]Word, 0, len(b)/8)
	for i := 0; i < len(b); i += 8 {
		words = append(words, Word(binary.BigEndian.Uint64(b[i:i+8])))
	}
	return words, nil
}
