// Package cryptimage holds a card's picture: raw RGB pixels plus the
// fingerprint of the passphrase that scrambled them.
//
// # Image Block Format
//
//	[Height(4)][Width(4)][Pixels(Height*Width*3)][Fingerprint(32)]
//
// Height and width are 32-bit little-endian. Pixels are interleaved RGB,
// row-major, with no padding, copied verbatim in whatever encryption
// state they are in. The fingerprint is 32 zero bytes while the image is
// not encrypted. The block has no length prefix: its size follows from
// the two dimensions, so [Deserialize] reports how many bytes it consumed.
//
// # Encryption
//
// [EncryptedImage.Encrypt] and [EncryptedImage.Decrypt] mutate the pixel
// buffer in place. Decrypt only checks that the passphrase derives the
// stored fingerprint; a bit-flipped ciphertext still decrypts and yields
// flipped pixels. Clone the image first to keep the pre-transform buffer.
//
// # Files
//
// [LoadRawImage] reads PNG, JPEG, GIF, BMP, TIFF and WebP files and flattens
// them to opaque RGB. [SaveRawImage] writes PNG, or JPEG for .jpg/.jpeg paths.
package cryptimage
