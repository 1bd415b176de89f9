package cryptimage

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif" // register GIF decoding
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"  // register BMP decoding
	_ "golang.org/x/image/tiff" // register TIFF decoding
	_ "golang.org/x/image/webp" // register WebP decoding
)

// jpegQuality is used when saving .jpg/.jpeg files.
const jpegQuality = 95

// LoadRawImage decodes the image file at path and flattens it to RGB.
func LoadRawImage(path string) (*RawImage, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening image %s: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decoding image %s: %w", path, err)
	}

	return FromImage(img)
}

// NewFromPath loads an unencrypted image from a file.
func NewFromPath(path string) (*EncryptedImage, error) {
	raw, err := LoadRawImage(path)
	if err != nil {
		return nil, err
	}
	return New(raw), nil
}

// FromImage converts any image to interleaved RGB. Alpha is discarded.
func FromImage(img image.Image) (*RawImage, error) {
	bounds := img.Bounds()
	if uint64(bounds.Dx()) > math.MaxUint32 || uint64(bounds.Dy()) > math.MaxUint32 {
		return nil, fmt.Errorf("image %dx%d exceeds 32-bit dimensions", bounds.Dx(), bounds.Dy())
	}

	width, height := uint32(bounds.Dx()), uint32(bounds.Dy())
	size, err := PixelSize(width, height)
	if err != nil {
		return nil, err
	}

	pixels := make([]byte, 0, size)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			pixels = append(pixels, c.R, c.G, c.B)
		}
	}

	return &RawImage{Width: width, Height: height, Pixels: pixels}, nil
}

// ToImage converts the pixel buffer to an opaque NRGBA image.
func (r *RawImage) ToImage() (*image.NRGBA, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	img := image.NewNRGBA(image.Rect(0, 0, int(r.Width), int(r.Height)))
	for i, j := 0, 0; i < len(r.Pixels); i, j = i+BytesPerPixel, j+4 {
		img.Pix[j] = r.Pixels[i]
		img.Pix[j+1] = r.Pixels[i+1]
		img.Pix[j+2] = r.Pixels[i+2]
		img.Pix[j+3] = 0xFF
	}
	return img, nil
}

// EncodePNG writes the image to w as PNG.
func (r *RawImage) EncodePNG(w io.Writer) error {
	img, err := r.ToImage()
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// SaveRawImage writes r to path as JPEG for .jpg/.jpeg and PNG otherwise.
func SaveRawImage(path string, r *RawImage) error {
	img, err := r.ToImage()
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(file, img, &jpeg.Options{Quality: jpegQuality})
	default:
		err = png.Encode(file, img)
	}
	if err != nil {
		file.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	return file.Close()
}
