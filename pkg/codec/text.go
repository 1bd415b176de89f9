package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"unicode/utf8"
)

// LengthSize is the size in bytes of every length prefix and dimension field.
const LengthSize = 4

// ErrMalformedInput is wrapped by every decode error in the cardazim codecs.
var ErrMalformedInput = errors.New("malformed input")

// EncodeText serializes s as a length-prefixed text field
// Format: [Length(4)][Bytes]
func EncodeText(s string) []byte {
	return AppendText(make([]byte, 0, TextSize(s)), s)
}

// AppendText appends the length-prefixed encoding of s to dst
func AppendText(dst []byte, s string) []byte {
	if uint64(len(s)) > math.MaxUint32 {
		panic("codec: text too large")
	}
	dst = AppendUint32(dst, uint32(len(s)))
	return append(dst, s...)
}

// TextSize returns the encoded size of s
func TextSize(s string) int {
	return LengthSize + len(s)
}

// DecodeText reads a length-prefixed text field starting at offset and
// returns the text together with the offset of the next field.
func DecodeText(buf []byte, offset int) (string, int, error) {
	length, next, err := ReadUint32(buf, offset)
	if err != nil {
		return "", offset, fmt.Errorf("text length: %w", err)
	}

	end := uint64(next) + uint64(length)
	if end > uint64(len(buf)) {
		return "", offset, fmt.Errorf("%w: text needs %d bytes at offset %d, %d available",
			ErrMalformedInput, length, next, len(buf)-next)
	}

	raw := buf[next:int(end)]
	if !utf8.Valid(raw) {
		return "", offset, fmt.Errorf("%w: text at offset %d is not valid UTF-8", ErrMalformedInput, next)
	}

	return string(raw), int(end), nil
}

// AppendUint32 appends v to dst in wire byte order
func AppendUint32(dst []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(dst, v)
}

// ReadUint32 reads a wire-order uint32 at offset and returns it with the
// offset of the following byte.
func ReadUint32(buf []byte, offset int) (uint32, int, error) {
	if offset < 0 || offset > len(buf) || len(buf)-offset < LengthSize {
		return 0, offset, fmt.Errorf("%w: need %d bytes at offset %d, buffer is %d bytes",
			ErrMalformedInput, LengthSize, offset, len(buf))
	}
	return binary.LittleEndian.Uint32(buf[offset:]), offset + LengthSize, nil
}
