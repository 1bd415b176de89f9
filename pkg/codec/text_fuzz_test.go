//go:build fuzz
// +build fuzz

package codec

import (
	"errors"
	"testing"
	"unicode/utf8"
)

// FuzzText_RoundTrip tests encode/decode round-trip with random inputs
func FuzzText_RoundTrip(f *testing.F) {
	f.Add("")
	f.Add("cardoz")
	f.Add("coming here a lot?")
	f.Add("🔑 unicode")

	f.Fuzz(func(t *testing.T, text string) {
		if !utf8.ValidString(text) {
			t.Skip("only valid UTF-8 is encodable")
		}

		encoded := EncodeText(text)
		decoded, next, err := DecodeText(encoded, 0)
		if err != nil {
			t.Fatalf("DecodeText failed for %q: %v", text, err)
		}
		if decoded != text {
			t.Errorf("text mismatch: got %q, want %q", decoded, text)
		}
		if next != len(encoded) {
			t.Errorf("next offset mismatch: got %d, want %d", next, len(encoded))
		}
	})
}

// FuzzDecodeText_NoPanic feeds arbitrary bytes to the decoder
func FuzzDecodeText_NoPanic(f *testing.F) {
	f.Add([]byte{}, 0)
	f.Add([]byte{0x01, 0x00, 0x00, 0x00, 'a'}, 0)
	f.Add([]byte{0xFF, 0xFF, 0xFF, 0xFF}, 0)

	f.Fuzz(func(t *testing.T, data []byte, offset int) {
		text, next, err := DecodeText(data, offset)
		if err != nil {
			if !errors.Is(err, ErrMalformedInput) {
				t.Fatalf("unexpected error type: %v", err)
			}
			return
		}
		if next > len(data) {
			t.Fatalf("next offset %d beyond buffer of %d", next, len(data))
		}
		if !utf8.ValidString(text) {
			t.Fatalf("decoded invalid UTF-8: %q", text)
		}
	})
}
