package card

import (
	"errors"
	"fmt"

	"github.com/cardazim/cardazim/pkg/codec"
	"github.com/cardazim/cardazim/pkg/cryptimage"
)

// Size returns the encoded size of the card. A card without an image
// counts an empty image block.
func (c *Card) Size() int {
	image := cryptimage.EmptyBlockSize
	if c.Image != nil {
		image = c.Image.Size()
	}
	return codec.TextSize(c.Name) + codec.TextSize(c.Creator) + image + codec.TextSize(c.Riddle)
}

// Serialize encodes the card. The solution is left out.
// Format: [Name][Creator][ImageBlock][Riddle]
func (c *Card) Serialize() ([]byte, error) {
	if c.Image == nil {
		return nil, errors.New("card has no image")
	}

	buf := make([]byte, 0, c.Size())
	buf = codec.AppendText(buf, c.Name)
	buf = codec.AppendText(buf, c.Creator)

	buf, err := c.Image.AppendSerialized(buf)
	if err != nil {
		return nil, fmt.Errorf("card image: %w", err)
	}

	return codec.AppendText(buf, c.Riddle), nil
}

// Deserialize decodes a card. Each field consumes exactly the bytes it
// declares; bytes left over after the riddle are rejected. The returned
// card has no solution.
func Deserialize(data []byte) (*Card, error) {
	name, offset, err := codec.DecodeText(data, 0)
	if err != nil {
		return nil, fmt.Errorf("card name: %w", err)
	}

	creator, offset, err := codec.DecodeText(data, offset)
	if err != nil {
		return nil, fmt.Errorf("card creator: %w", err)
	}

	image, consumed, err := cryptimage.Deserialize(data[offset:])
	if err != nil {
		return nil, fmt.Errorf("card image: %w", err)
	}
	offset += consumed

	riddle, offset, err := codec.DecodeText(data, offset)
	if err != nil {
		return nil, fmt.Errorf("card riddle: %w", err)
	}

	if offset != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes after riddle", codec.ErrMalformedInput, len(data)-offset)
	}

	return New(name, creator, image, riddle, ""), nil
}
