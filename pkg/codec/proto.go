package codec

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/cnftree/pkg/domain"
	"google.golang.org/protobuf/encoding/protowire"
)

// Wire layout of a tree, compatible with
//
//	message Node {
//	  string value = 1;
//	  repeated Node child = 2;
//	}
const (
	fieldValue protowire.Number = 1
	fieldChild protowire.Number = 2
)

const (
	// MaxMessageSize bounds a single framed message read from a stream.
	MaxMessageSize = 64 << 20
	// MaxDepth bounds the nesting accepted when decoding.
	MaxDepth = 10000
)

// ErrMessageTooLarge is returned for a framed message over MaxMessageSize.
var ErrMessageTooLarge = errors.New("codec: message too large")

// MarshalProto encodes one tree in protobuf wire format, without framing.
func MarshalProto(n *domain.Node) []byte {
	return appendNode(make([]byte, 0, sizeNode(n)), n)
}

func sizeNode(n *domain.Node) int {
	size := 0
	if n.Label != "" {
		size += protowire.SizeTag(fieldValue) + protowire.SizeBytes(len(n.Label))
	}
	for _, c := range n.Children {
		size += protowire.SizeTag(fieldChild) + protowire.SizeBytes(sizeNode(c))
	}
	return size
}

func appendNode(b []byte, n *domain.Node) []byte {
	if n.Label != "" {
		b = protowire.AppendTag(b, fieldValue, protowire.BytesType)
		b = protowire.AppendString(b, n.Label)
	}
	for _, c := range n.Children {
		b = protowire.AppendTag(b, fieldChild, protowire.BytesType)
		b = protowire.AppendVarint(b, uint64(sizeNode(c)))
		b = appendNode(b, c)
	}
	return b
}

// UnmarshalProto decodes one unframed tree. Unknown fields are skipped.
func UnmarshalProto(b []byte) (*domain.Node, error) {
	return unmarshalNode(b, 0)
}

func unmarshalNode(b []byte, depth int) (*domain.Node, error) {
	if depth > MaxDepth {
		return nil, fmt.Errorf("codec: tree nested deeper than %d", MaxDepth)
	}
	n := &domain.Node{}
	for len(b) > 0 {
		num, typ, l := protowire.ConsumeTag(b)
		if l < 0 {
			return nil, fmt.Errorf("codec: %w", protowire.ParseError(l))
		}
		b = b[l:]
		switch {
		case num == fieldValue && typ == protowire.BytesType:
			v, l := protowire.ConsumeString(b)
			if l < 0 {
				return nil, fmt.Errorf("codec: value: %w", protowire.ParseError(l))
			}
			n.Label = v
			b = b[l:]
		case num == fieldChild && typ == protowire.BytesType:
			v, l := protowire.ConsumeBytes(b)
			if l < 0 {
				return nil, fmt.Errorf("codec: child: %w", protowire.ParseError(l))
			}
			child, err := unmarshalNode(v, depth+1)
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, child)
			b = b[l:]
		default:
			l := protowire.ConsumeFieldValue(num, typ, b)
			if l < 0 {
				return nil, fmt.Errorf("codec: field %d: %w", num, protowire.ParseError(l))
			}
			b = b[l:]
		}
	}
	return n, nil
}

// protoEncoder writes varint length-delimited messages.
type protoEncoder struct {
	w   io.Writer
	buf []byte
}

func (e *protoEncoder) Encode(n *domain.Node) error {
	size := sizeNode(n)
	e.buf = protowire.AppendVarint(e.buf[:0], uint64(size))
	e.buf = appendNode(e.buf, n)
	_, err := e.w.Write(e.buf)
	return err
}

// protoDecoder reads varint length-delimited messages.
type protoDecoder struct {
	r *bufio.Reader
}

func (d *protoDecoder) Decode() (*domain.Node, error) {
	size, err := binary.ReadUvarint(d.r)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("codec: reading frame length: %w", err)
	}
	if size > MaxMessageSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrMessageTooLarge, size)
	}
	msg := make([]byte, size)
	if _, err := io.ReadFull(d.r, msg); err != nil {
		return nil, fmt.Errorf("codec: reading frame: %w", io.ErrUnexpectedEOF)
	}
	return UnmarshalProto(msg)
}
