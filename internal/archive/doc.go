// Package archive implements the keystore archive format.
//
// File layout, all integer fields are zero-padded ASCII decimal:
//
//	offset 0..2      "NN"     block count (00-99)
//	repeated NN times:
//	  +0..64         digest   SHA-256 hex of the plaintext
//	  +64..69        length   ciphertext length (00000-99999)
//	  +69..69+L      data     XOR-transformed plaintext
//
// Header and length fields stay human-diffable while the payload is opaque.
// The decoder is strict: every short read reports the block index and the
// field (digest, size or data) that ran out of bytes.
package archive
