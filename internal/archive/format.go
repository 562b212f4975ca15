package archive

import (
	"bytes"
	"fmt"
)

const (
	HeaderSize    = 2     // Block count digits
	DigestSize    = 64    // Hex SHA-256 digits
	SizeFieldSize = 5     // Ciphertext length digits
	MaxBlocks     = 99    // Largest count the header can hold
	MaxBlockSize  = 99999 // Largest ciphertext the length field can hold
)

// Block is one framed (digest, ciphertext) unit
type Block struct {
	Digest string
	Data   []byte
}

// EncodedSize returns the number of bytes the block occupies in an archive
func (b Block) EncodedSize() int {
	return DigestSize + SizeFieldSize + len(b.Data)
}

// EncodeHeader encodes the block count as two ASCII digits
func EncodeHeader(count int) ([]byte, error) {
	if count < 0 || count > MaxBlocks {
		return nil, fmt.Errorf("%w: %d (max %d)", ErrTooManyBlocks, count, MaxBlocks)
	}
	return []byte(fmt.Sprintf("%0*d", HeaderSize, count)), nil
}

// EncodeBlock frames a digest and ciphertext
func EncodeBlock(digest string, ciphertext []byte) ([]byte, error) {
	if len(digest) != DigestSize {
		return nil, fmt.Errorf("invalid digest length %d (expected %d)", len(digest), DigestSize)
	}
	if len(ciphertext) > MaxBlockSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrBlockTooLarge, len(ciphertext), MaxBlockSize)
	}

	buf := make([]byte, 0, DigestSize+SizeFieldSize+len(ciphertext))
	buf = append(buf, digest...)
	buf = append(buf, fmt.Sprintf("%0*d", SizeFieldSize, len(ciphertext))...)
	buf = append(buf, ciphertext...)
	return buf, nil
}

// Encode builds a complete archive from blocks in order
func Encode(blocks []Block) ([]byte, error) {
	header, err := EncodeHeader(len(blocks))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Write(header)
	for i, b := range blocks {
		data, err := EncodeBlock(b.Digest, b.Data)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		buf.Write(data)
	}
	return buf.Bytes(), nil
}
