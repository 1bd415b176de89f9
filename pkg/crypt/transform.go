package crypt

import (
	"crypto/aes"
	"crypto/cipher"

	"github.com/ProtonMail/go-crypto/eax"
)

// FixedNonce is the nonce used for every card, so one passphrase always
// yields one keystream. Cards already in circulation depend on it.
var FixedNonce = []byte("arazim")

// Transform returns buf XORed with the EAX keystream for key and nonce.
// buf is not modified and nonce must not be empty. Applying Transform
// twice with the same key and nonce returns the original bytes.
func Transform(buf []byte, key Fingerprint, nonce []byte) []byte {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		// A 32 byte key is always a valid AES-256 key.
		panic("crypt: " + err.Error())
	}
	return eaxEncrypt(block, nonce, buf)
}

// TransformInPlace is Transform writing its result back into buf.
func TransformInPlace(buf []byte, key Fingerprint, nonce []byte) {
	copy(buf, Transform(buf, key, nonce))
}

// eaxEncrypt seals buf with EAX and drops the tag, leaving the CTR stage
// output. Nothing ever verifies a card's tag.
func eaxEncrypt(block cipher.Block, nonce, buf []byte) []byte {
	aead, err := eax.NewEAXWithNonceAndTagSize(block, len(nonce), block.BlockSize())
	if err != nil {
		panic("crypt: " + err.Error())
	}
	sealed := aead.Seal(make([]byte, 0, len(buf)+aead.Overhead()), nonce, buf, nil)
	return sealed[:len(buf)]
}
