package codec

import (
	"encoding/json"
	"io"

	"github.com/aretw0/cnftree/pkg/domain"
)

// MarshalJSON encodes one tree as {"label": ..., "children": [...]}.
func MarshalJSON(n *domain.Node) ([]byte, error) {
	return json.Marshal(n)
}

// UnmarshalJSON decodes one tree.
func UnmarshalJSON(data []byte) (*domain.Node, error) {
	var n domain.Node
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// jsonEncoder writes newline-delimited JSON.
type jsonEncoder struct {
	enc *json.Encoder
}

func (e *jsonEncoder) Encode(n *domain.Node) error {
	return e.enc.Encode(n)
}

type jsonDecoder struct {
	dec *json.Decoder
}

func (d *jsonDecoder) Decode() (*domain.Node, error) {
	var n domain.Node
	if err := d.dec.Decode(&n); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, err
	}
	return &n, nil
}
