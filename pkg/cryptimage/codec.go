package cryptimage

import (
	"fmt"

	"github.com/cardazim/cardazim/pkg/codec"
	"github.com/cardazim/cardazim/pkg/crypt"
)

// headerSize covers the height and width fields.
const headerSize = 2 * codec.LengthSize

// EmptyBlockSize is the encoded size of a 0x0 image block.
const EmptyBlockSize = headerSize + crypt.FingerprintSize

// Size returns the encoded size of the image block.
func (e *EncryptedImage) Size() int {
	return headerSize + len(e.Image.Pixels) + crypt.FingerprintSize
}

// Serialize encodes the image block
// Format: [Height(4)][Width(4)][Pixels][Fingerprint(32)]
func (e *EncryptedImage) Serialize() ([]byte, error) {
	return e.AppendSerialized(make([]byte, 0, e.Size()))
}

// AppendSerialized appends the encoded image block to dst. dst is
// returned unchanged when the pixel buffer does not match the dimensions.
func (e *EncryptedImage) AppendSerialized(dst []byte) ([]byte, error) {
	if err := e.Image.Validate(); err != nil {
		return dst, err
	}

	dst = codec.AppendUint32(dst, e.Image.Height)
	dst = codec.AppendUint32(dst, e.Image.Width)
	dst = append(dst, e.Image.Pixels...)
	dst = append(dst, e.Fingerprint[:]...)
	return dst, nil
}

// Deserialize decodes an image block from the start of buf and returns it
// with the number of bytes consumed, so the caller can find the next field.
// The image owns a copy of the pixel bytes.
func Deserialize(buf []byte) (*EncryptedImage, int, error) {
	height, offset, err := codec.ReadUint32(buf, 0)
	if err != nil {
		return nil, 0, fmt.Errorf("image height: %w", err)
	}
	width, offset, err := codec.ReadUint32(buf, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("image width: %w", err)
	}

	pixelSize, err := PixelSize(width, height)
	if err != nil {
		return nil, 0, err
	}
	if len(buf)-offset < pixelSize || len(buf)-offset-pixelSize < crypt.FingerprintSize {
		return nil, 0, fmt.Errorf("%w: %dx%d image needs %d bytes, %d available",
			codec.ErrMalformedInput, width, height, pixelSize+crypt.FingerprintSize, len(buf)-offset)
	}

	e := &EncryptedImage{
		Image: RawImage{
			Width:  width,
			Height: height,
			Pixels: append([]byte(nil), buf[offset:offset+pixelSize]...),
		},
	}
	offset += pixelSize
	copy(e.Fingerprint[:], buf[offset:offset+crypt.FingerprintSize])
	offset += crypt.FingerprintSize

	return e, offset, nil
}
