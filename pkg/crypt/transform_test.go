package crypt

import (
	"bytes"
	"crypto/aes"
	"encoding/hex"
	"testing"

	"github.com/ProtonMail/go-crypto/eax"
	"pgregory.net/rapid"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex %q: %v", s, err)
	}
	return b
}

// Ciphertext halves of the EAX paper test vectors (the tag is never used).
func TestEAXEncrypt_Vectors(t *testing.T) {
	testCases := []struct {
		name       string
		key        string
		nonce      string
		plaintext  string
		ciphertext string
	}{
		{
			name:       "empty",
			key:        "233952dee4d5ed5f9b9c6d6ff80ff478",
			nonce:      "62ec67f9c3a4a407fcb2a8c49031a8b3",
			plaintext:  "",
			ciphertext: "",
		},
		{
			name:       "two bytes",
			key:        "91945d3f4dcbee0bf45ef52255f095a4",
			nonce:      "becaf043b0a23d843194ba972c66debd",
			plaintext:  "f7fb",
			ciphertext: "19dd",
		},
		{
			name:       "five bytes",
			key:        "01f74ad64077f2e704c0f60ada3c6523",
			nonce:      "70c3db4f0d26368400a10ed05d2bff5e",
			plaintext:  "1a47cb4933",
			ciphertext: "d851d5bae0",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			block, err := aes.NewCipher(mustHex(t, tc.key))
			if err != nil {
				t.Fatalf("aes.NewCipher: %v", err)
			}

			plaintext := mustHex(t, tc.plaintext)
			got := eaxEncrypt(block, mustHex(t, tc.nonce), plaintext)

			if want := mustHex(t, tc.ciphertext); !bytes.Equal(got, want) {
				t.Errorf("ciphertext mismatch: got %x, want %x", got, want)
			}
		})
	}
}

func TestTransform_Involution(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		buf := rapid.SliceOf(rapid.Byte()).Draw(t, "buf")
		passphrase := rapid.String().Draw(t, "passphrase")
		key := DeriveKey(passphrase)

		once := Transform(buf, key, FixedNonce)
		twice := Transform(once, key, FixedNonce)

		if !bytes.Equal(twice, buf) {
			t.Fatalf("transform is not an involution for %d bytes", len(buf))
		}
	})
}

func TestTransform_DoesNotModifyInput(t *testing.T) {
	buf := []byte{10, 20, 30, 40, 50, 60}
	original := append([]byte(nil), buf...)

	out := Transform(buf, DeriveKey("yes!"), FixedNonce)

	if !bytes.Equal(buf, original) {
		t.Errorf("input modified: got %v, want %v", buf, original)
	}
	if bytes.Equal(out, original) {
		t.Error("expected transformed output to differ from input")
	}
}

func TestTransformInPlace_MatchesTransform(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		buf := rapid.SliceOfN(rapid.Byte(), 1, 4096).Draw(t, "buf")
		key := DeriveKey(rapid.String().Draw(t, "passphrase"))

		want := Transform(buf, key, FixedNonce)
		TransformInPlace(buf, key, FixedNonce)

		if !bytes.Equal(buf, want) {
			t.Fatal("in-place transform differs from copying transform")
		}
	})
}

func TestTransform_KeyAndNonceMatter(t *testing.T) {
	buf := bytes.Repeat([]byte{0x00}, 64)

	base := Transform(buf, DeriveKey("secret"), FixedNonce)
	otherKey := Transform(buf, DeriveKey("wrong"), FixedNonce)
	otherNonce := Transform(buf, DeriveKey("secret"), []byte("other"))

	if bytes.Equal(base, otherKey) {
		t.Error("different keys produced the same keystream")
	}
	if bytes.Equal(base, otherNonce) {
		t.Error("different nonces produced the same keystream")
	}
}

func TestTransform_KeystreamReuse(t *testing.T) {
	// Same passphrase and fixed nonce: XOR of two ciphertexts equals XOR of
	// the plaintexts.
	key := DeriveKey("secret")
	a := []byte("first image pixels")
	b := []byte("other image pixels")

	ca := Transform(a, key, FixedNonce)
	cb := Transform(b, key, FixedNonce)

	for i := range a {
		if ca[i]^cb[i] != a[i]^b[i] {
			t.Fatalf("byte %d: keystream is not shared between images", i)
		}
	}
}

func TestTransform_PrefixStable(t *testing.T) {
	buf := bytes.Repeat([]byte{0xAB}, 100)
	key := DeriveKey("yes!")

	full := Transform(buf, key, FixedNonce)
	prefix := Transform(buf[:37], key, FixedNonce)

	if !bytes.Equal(full[:37], prefix) {
		t.Error("keystream depends on buffer length")
	}
}

func TestTransform_Empty(t *testing.T) {
	out := Transform(nil, DeriveKey("secret"), FixedNonce)
	if len(out) != 0 {
		t.Errorf("expected empty output, got %d bytes", len(out))
	}
}

func TestTransform_MatchesSealedPrefix(t *testing.T) {
	key := DeriveKey("yes!")
	block, err := aes.NewCipher(key[:])
	if err != nil {
		t.Fatalf("aes.NewCipher: %v", err)
	}
	aead, err := eax.NewEAXWithNonceAndTagSize(block, len(FixedNonce), aes.BlockSize)
	if err != nil {
		t.Fatalf("eax: %v", err)
	}

	for _, n := range []int{0, 1, 6, 16, 17, 1000} {
		buf := bytes.Repeat([]byte{0x5A}, n)
		sealed := aead.Seal(nil, FixedNonce, buf, nil)

		if got := Transform(buf, key, FixedNonce); !bytes.Equal(got, sealed[:n]) {
			t.Errorf("%d bytes: transform differs from the EAX ciphertext", n)
		}
	}
}
