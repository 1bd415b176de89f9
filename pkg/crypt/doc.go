// Package crypt derives card keys from passphrases and applies the
// keystream transform used to scramble an image's pixels.
//
// # Key Derivation
//
// A passphrase becomes a 32-byte [Fingerprint] by hashing its UTF-8
// bytes with SHA-256 and hashing the digest again:
//
//	Fingerprint = SHA256(SHA256(passphrase))
//
// The fingerprint is both the AES-256 key and the value carried on the
// wire next to the pixels. A collector authorizes a decryption attempt by
// comparing fingerprints; there is nothing else.
//
// # Keystream Transform
//
// [Transform] XORs a buffer with the counter-mode keystream of EAX mode
// (Bellare, Rogaway, Wagner): the initial counter block is the OMAC of
// the nonce tagged with 0, and the counter is a 128-bit big-endian
// integer. The output is the EAX ciphertext with its tag cut off. No
// header is authenticated and no tag is ever verified, so a flipped
// ciphertext bit "decrypts" to a flipped plaintext bit without any error.
//
// Every card uses [FixedNonce]. Two images encrypted under the same
// passphrase therefore share a keystream and XOR of their ciphertexts
// reveals the XOR of their pixels. This is kept so that cards produced by
// existing senders stay readable.
//
// The transform is its own inverse: Transform(Transform(p, k, n), k, n) == p.
package crypt
