package cryptimage

import (
	"fmt"
	"math"

	"github.com/cardazim/cardazim/pkg/codec"
	"github.com/cardazim/cardazim/pkg/crypt"
)

// BytesPerPixel is the size of one interleaved RGB pixel.
const BytesPerPixel = 3

// RawImage is an interleaved RGB pixel buffer with its dimensions.
type RawImage struct {
	Width  uint32
	Height uint32
	Pixels []byte // exactly Width*Height*3 bytes, row-major
}

// NewRawImage creates a raw image, checking that pixels holds exactly
// width*height*3 bytes. The image takes ownership of pixels.
func NewRawImage(width, height uint32, pixels []byte) (*RawImage, error) {
	r := &RawImage{Width: width, Height: height, Pixels: pixels}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// PixelSize returns width*height*3, or an error when that does not fit in
// an int.
func PixelSize(width, height uint32) (int, error) {
	size := uint64(width) * uint64(height)
	if size > math.MaxInt/BytesPerPixel {
		return 0, fmt.Errorf("%w: image %dx%d is too large", codec.ErrMalformedInput, width, height)
	}
	return int(size) * BytesPerPixel, nil
}

// Validate checks the pixel buffer length against the dimensions.
func (r *RawImage) Validate() error {
	want, err := PixelSize(r.Width, r.Height)
	if err != nil {
		return err
	}
	if len(r.Pixels) != want {
		return fmt.Errorf("%w: %dx%d image needs %d pixel bytes, has %d",
			codec.ErrMalformedInput, r.Width, r.Height, want, len(r.Pixels))
	}
	return nil
}

// EncryptedImage is a raw image together with the fingerprint of the
// passphrase it was encrypted with.
type EncryptedImage struct {
	Image       RawImage
	Fingerprint crypt.Fingerprint // zero until Encrypt is called
}

// New wraps an unencrypted raw image. The returned image owns raw's pixels.
func New(raw *RawImage) *EncryptedImage {
	return &EncryptedImage{Image: *raw}
}

// IsEncrypted reports whether a fingerprint has been set.
func (e *EncryptedImage) IsEncrypted() bool {
	return !e.Fingerprint.IsZero()
}

// Encrypt derives the fingerprint of passphrase and scrambles the pixels
// in place. Encrypting an encrypted image layers a second keystream and
// replaces the stored fingerprint.
func (e *EncryptedImage) Encrypt(passphrase string) {
	e.Fingerprint = crypt.DeriveKey(passphrase)
	crypt.TransformInPlace(e.Image.Pixels, e.Fingerprint, crypt.FixedNonce)
}

// Decrypt restores the pixels in place if passphrase derives the stored
// fingerprint. On mismatch it returns false and leaves the image untouched.
func (e *EncryptedImage) Decrypt(passphrase string) bool {
	candidate := crypt.DeriveKey(passphrase)
	if !candidate.Equal(e.Fingerprint) {
		return false
	}
	crypt.TransformInPlace(e.Image.Pixels, e.Fingerprint, crypt.FixedNonce)
	return true
}

// Clone returns a deep copy of the image.
func (e *EncryptedImage) Clone() *EncryptedImage {
	clone := *e
	clone.Image.Pixels = append([]byte(nil), e.Image.Pixels...)
	return &clone
}
