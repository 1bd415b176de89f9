package codec_test

import (
	"fmt"
	"log"

	"github.com/cardazim/cardazim/pkg/codec"
)

// ExampleAppendText demonstrates encoding consecutive text fields and
// walking them back with offsets
func ExampleAppendText() {
	buf := codec.AppendText(nil, "cardoz")
	buf = codec.AppendText(buf, "lidor")

	fmt.Printf("Encoded %d bytes\n", len(buf))

	name, next, err := codec.DecodeText(buf, 0)
	if err != nil {
		log.Fatal(err)
	}
	creator, next, err := codec.DecodeText(buf, next)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Name: %s\n", name)
	fmt.Printf("Creator: %s\n", creator)
	fmt.Printf("Consumed: %d\n", next)

	// Output:
	// Encoded 19 bytes
	// Name: cardoz
	// Creator: lidor
	// Consumed: 19
}

// ExampleEncodeText demonstrates the raw layout of a text field
func ExampleEncodeText() {
	fmt.Printf("%x\n", codec.EncodeText("hi"))

	// Output:
	// 020000006869
}

// ExampleDecodeText_errorHandling demonstrates error handling
func ExampleDecodeText_errorHandling() {
	malformed := []byte{0x05, 0x00, 0x00, 0x00, 'a'} // declares 5 bytes, has 1

	_, _, err := codec.DecodeText(malformed, 0)
	if err != nil {
		fmt.Printf("Decode error: %v\n", err)
	}

	// Output:
	// Decode error: malformed input: text needs 5 bytes at offset 4, 1 available
}
