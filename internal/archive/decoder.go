package archive

import "fmt"

// Decoder reads an archive held in memory.
// ReadHeader must be called once before Next.
type Decoder struct {
	buf    []byte
	cursor int
	count  int
	next   int
	header bool
}

// NewDecoder creates a decoder over buf
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf, count: -1}
}

// ReadHeader decodes the block count
func (d *Decoder) ReadHeader() (int, error) {
	if d.header {
		return d.count, nil
	}
	if len(d.buf) < HeaderSize {
		return 0, &FormatError{
			Block:   -1,
			Field:   FieldHeader,
			Message: fmt.Sprintf("archive too small (%d bytes)", len(d.buf)),
		}
	}

	count, ok := parseDigits(d.buf[:HeaderSize])
	if !ok {
		return 0, &FormatError{
			Block:   -1,
			Field:   FieldHeader,
			Message: fmt.Sprintf("invalid block count %q", d.buf[:HeaderSize]),
		}
	}

	d.cursor = HeaderSize
	d.count = count
	d.header = true
	return count, nil
}

// Next decodes the next block
func (d *Decoder) Next() (Block, error) {
	if !d.header {
		return Block{}, fmt.Errorf("archive header not read")
	}
	if d.next >= d.count {
		return Block{}, fmt.Errorf("all %d blocks already read", d.count)
	}
	i := d.next

	digest, err := d.take(i, FieldDigest, DigestSize)
	if err != nil {
		return Block{}, err
	}

	sizeStart := d.cursor
	sizeField, err := d.take(i, FieldSize, SizeFieldSize)
	if err != nil {
		return Block{}, err
	}
	size, ok := parseDigits(sizeField)
	if !ok {
		return Block{}, &FormatError{
			Block:   i,
			Field:   FieldSize,
			Offset:  sizeStart,
			Message: fmt.Sprintf("invalid size field %q", sizeField),
		}
	}

	data, err := d.take(i, FieldData, size)
	if err != nil {
		return Block{}, err
	}

	d.next++
	return Block{
		Digest: string(digest),
		Data:   append([]byte(nil), data...),
	}, nil
}

// Offset returns the current cursor position
func (d *Decoder) Offset() int {
	return d.cursor
}

// Remaining returns the number of unread bytes
func (d *Decoder) Remaining() int {
	return len(d.buf) - d.cursor
}

// Decode parses a whole archive
func Decode(buf []byte) ([]Block, error) {
	d := NewDecoder(buf)
	count, err := d.ReadHeader()
	if err != nil {
		return nil, err
	}

	blocks := make([]Block, 0, count)
	for i := 0; i < count; i++ {
		b, err := d.Next()
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

// take consumes exactly n bytes or reports which field ran short
func (d *Decoder) take(block int, field string, n int) ([]byte, error) {
	if d.cursor+n > len(d.buf) {
		return nil, &FormatError{
			Block:   block,
			Field:   field,
			Offset:  d.cursor,
			Message: fmt.Sprintf("need %d bytes, %d left", n, len(d.buf)-d.cursor),
		}
	}
	b := d.buf[d.cursor : d.cursor+n]
	d.cursor += n
	return b, nil
}

// parseDigits parses a fixed-width ASCII decimal field.
// Signs, spaces and other non-digits are rejected.
func parseDigits(b []byte) (int, bool) {
	if len(b) == 0 {
		return 0, false
	}
	n := 0
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
