package codec

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/cnftree/pkg/domain"
)

// Format names an output encoding.
type Format string

const (
	FormatProto Format = "proto"
	FormatJSON  Format = "json"
	FormatSExpr Format = "sexpr"
)

// Formats lists the supported formats.
var Formats = []Format{FormatProto, FormatJSON, FormatSExpr}

// ParseFormat accepts a format name or a common alias (pb, protobuf, sexp).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "proto", "pb", "protobuf":
		return FormatProto, nil
	case "json", "ndjson":
		return FormatJSON, nil
	case "sexpr", "sexp", "lisp":
		return FormatSExpr, nil
	}
	return "", fmt.Errorf("unknown format %q (want one of proto, json, sexpr)", s)
}

// Ext is the file extension used for one tree in this format, without the dot.
func (f Format) Ext() string {
	switch f {
	case FormatProto:
		return "pb"
	case FormatSExpr:
		return "sexpr"
	}
	return "json"
}

// ContentType is the media type used on the wire.
func (f Format) ContentType() string {
	switch f {
	case FormatProto:
		return "application/x-protobuf"
	case FormatSExpr:
		return "text/plain; charset=utf-8"
	}
	return "application/json"
}

// Encoder writes a stream of framed trees.
type Encoder interface {
	Encode(n *domain.Node) error
}

// Decoder reads a stream of framed trees. It returns io.EOF after the last one.
type Decoder interface {
	Decode() (*domain.Node, error)
}

// NewEncoder returns a framing encoder: varint length prefixes for proto,
// one tree per line for json and sexpr.
func NewEncoder(f Format, w io.Writer) (Encoder, error) {
	switch f {
	case FormatProto:
		return &protoEncoder{w: w}, nil
	case FormatJSON:
		return &jsonEncoder{enc: json.NewEncoder(w)}, nil
	case FormatSExpr:
		return &sexprEncoder{w: w}, nil
	}
	return nil, fmt.Errorf("unknown format %q", f)
}

// NewDecoder returns the decoder matching NewEncoder.
func NewDecoder(f Format, r io.Reader) (Decoder, error) {
	switch f {
	case FormatProto:
		return &protoDecoder{r: bufio.NewReader(r)}, nil
	case FormatJSON:
		return &jsonDecoder{dec: json.NewDecoder(r)}, nil
	case FormatSExpr:
		s := bufio.NewScanner(r)
		s.Buffer(make([]byte, 0, 64*1024), MaxMessageSize)
		return &sexprDecoder{s: s}, nil
	}
	return nil, fmt.Errorf("unknown format %q", f)
}

// Marshal encodes a single tree without framing.
func Marshal(f Format, n *domain.Node) ([]byte, error) {
	switch f {
	case FormatProto:
		return MarshalProto(n), nil
	case FormatJSON:
		return MarshalJSON(n)
	case FormatSExpr:
		return MarshalSExpr(n), nil
	}
	return nil, fmt.Errorf("unknown format %q", f)
}

// Unmarshal decodes a single unframed tree.
func Unmarshal(f Format, data []byte) (*domain.Node, error) {
	switch f {
	case FormatProto:
		return UnmarshalProto(data)
	case FormatJSON:
		return UnmarshalJSON(data)
	case FormatSExpr:
		return UnmarshalSExpr(data)
	}
	return nil, fmt.Errorf("unknown format %q", f)
}
