//go:build bench
// +build bench

package card

import (
	"testing"

	"github.com/cardazim/cardazim/pkg/cryptimage"
)

func benchmarkCard(width, height uint32) *Card {
	pixels := make([]byte, int(width*height*cryptimage.BytesPerPixel))
	image := cryptimage.New(&cryptimage.RawImage{Width: width, Height: height, Pixels: pixels})
	image.Encrypt("yes!")
	return New("cardoz", "lidor", image, "coming here a lot?", "yes!")
}

func BenchmarkCard_Serialize(b *testing.B) {
	benchmarks := []struct {
		name          string
		width, height uint32
	}{
		{name: "thumbnail", width: 64, height: 64},
		{name: "photo", width: 1024, height: 768},
	}

	for _, bm := range benchmarks {
		c := benchmarkCard(bm.width, bm.height)
		b.Run(bm.name, func(b *testing.B) {
			b.SetBytes(int64(c.Size()))
			for i := 0; i < b.N; i++ {
				if _, err := c.Serialize(); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkDeserialize(b *testing.B) {
	c := benchmarkCard(1024, 768)
	data, err := c.Serialize()
	if err != nil {
		b.Fatal(err)
	}

	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Deserialize(data); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEncrypt(b *testing.B) {
	c := benchmarkCard(1024, 768)

	b.SetBytes(int64(len(c.Image.Image.Pixels)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Image.Encrypt("yes!")
	}
}
