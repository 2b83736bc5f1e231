package codec

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zstd"
)

// CompressedExt is appended to file names of compressed outputs.
const CompressedExt = ".zst"

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Shared stateless coders for EncodeAll/DecodeAll; both are safe for concurrent use.
var (
	zEncoder, _ = zstd.NewWriter(nil)
	zDecoder, _ = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(MaxMessageSize))
)

// Compress returns the zstd frame of b.
func Compress(b []byte) []byte {
	return zEncoder.EncodeAll(b, make([]byte, 0, len(b)/2))
}

// Decompress reverses Compress.
func Decompress(b []byte) ([]byte, error) {
	return zDecoder.DecodeAll(b, nil)
}

// IsCompressed reports whether b starts with a zstd frame header.
func IsCompressed(b []byte) bool {
	return bytes.HasPrefix(b, zstdMagic)
}

// NewCompressWriter wraps w so everything written is zstd-compressed.
// Close flushes the last frame; it does not close w.
func NewCompressWriter(w io.Writer) (io.WriteCloser, error) {
	return zstd.NewWriter(w)
}

// NewDecompressReader wraps a zstd-compressed stream.
func NewDecompressReader(r io.Reader) (io.ReadCloser, error) {
	d, err := zstd.NewReader(r, zstd.WithDecoderMaxMemory(MaxMessageSize))
	if err != nil {
		return nil, err
	}
	return d.IOReadCloser(), nil
}
