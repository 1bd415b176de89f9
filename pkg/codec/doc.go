// Package codec provides the primitive binary encoding shared by every
// cardazim record.
//
// The codec package implements the length-prefixed text field and the
// fixed-width integer helpers that the image and card codecs are built
// from. It is the foundation for cardazim's wire format.
//
// # Text Field Format
//
// A text field is serialized as:
//
//	[Length(4)][Bytes]
//
// Fields:
//   - Length: 32-bit unsigned integer, the byte length of the UTF-8 text (little-endian)
//   - Bytes: exactly Length bytes of UTF-8, no padding and no terminator
//
// The total field size is: 4 bytes + len(text)
//
// # Byte Order
//
// Every integer in the cardazim stack (text lengths, image dimensions and
// the transport frame length) is an unsigned 32-bit little-endian value.
// There is one width and one byte order; nothing is padded or aligned.
//
// # Usage
//
// Encoding appends to a caller-owned buffer:
//
//	buf := codec.AppendText(nil, "cardoz")
//	buf = codec.AppendText(buf, "lidor")
//
// Decoding walks the buffer with an explicit offset:
//
//	name, next, err := codec.DecodeText(buf, 0)
//	if err != nil {
//	    return err
//	}
//	creator, next, err := codec.DecodeText(buf, next)
//
// # Error Handling
//
// Every decode failure (buffer shorter than a declared length, an offset
// outside the buffer, text that is not valid UTF-8) wraps
// [ErrMalformedInput]. Callers test for it with errors.Is and reject the
// whole record; malformed input is never a panic.
//
// # Thread Safety
//
// All functions are pure and keep no state. They are safe for concurrent
// use as long as callers do not share a buffer that is being appended to.
package codec
