package streaming

import (
	"bufio"
	"errors"
	"io"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// gzipMagic is the two-byte header of a gzip stream
var gzipMagic = [2]byte{0x1f, 0x8b}

// Input is the decoded document stream of one save file
type Input struct {
	io.Reader
	Compressed bool

	gz *gzip.Reader
}

// Close releases the decompressor, if any. The underlying reader is not closed.
func (in *Input) Close() error {
	if in.gz != nil {
		return in.gz.Close()
	}
	return nil
}

// OpenInput detects gzip compression by its magic bytes and returns a reader
// yielding the document as UTF-8 with any byte order mark removed
func OpenInput(r io.Reader) (*Input, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	in := &Input{}

	head, err := br.Peek(2)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, transportError(err)
	}

	var src io.Reader = br
	if len(head) == 2 && head[0] == gzipMagic[0] && head[1] == gzipMagic[1] {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, transportError(err)
		}
		in.gz = gz
		in.Compressed = true
		src = gz
	}

	in.Reader = transform.NewReader(src, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	return in, nil
}

// countingReader counts the bytes read through it
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
