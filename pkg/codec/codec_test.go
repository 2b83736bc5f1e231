package codec

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/aretw0/cnftree/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

// (? p f g (& (! X Y Z (| (~ (p (f X (g Y Z)))) (= X Y) $false))))
func example() *domain.Node {
	leaf, node := domain.Leaf, domain.NewNode
	return node(domain.Exists, leaf("p"), leaf("f"), leaf("g"),
		node(domain.And,
			node(domain.ForAll, leaf("X"), leaf("Y"), leaf("Z"),
				node(domain.Or,
					node(domain.Not, node("p", node("f", leaf("X"), node("g", leaf("Y"), leaf("Z"))))),
					node("=", leaf("X"), leaf("Y")),
					leaf("$false"),
				),
			),
		),
	)
}

func TestMarshalProto_WireLayout(t *testing.T) {
	got := MarshalProto(domain.NewNode("~", domain.Leaf("p")))
	want := []byte{
		0x0a, 0x01, '~', // value = "~"
		0x12, 0x03, // child, 3 bytes
		0x0a, 0x01, 'p', // value = "p"
	}
	assert.Equal(t, want, got)
	assert.Empty(t, MarshalProto(&domain.Node{}))
}

func TestUnmarshalProto_SkipsUnknownFields(t *testing.T) {
	var b []byte
	b = protowire.AppendTag(b, 7, protowire.VarintType)
	b = protowire.AppendVarint(b, 42)
	b = protowire.AppendTag(b, fieldValue, protowire.BytesType)
	b = protowire.AppendString(b, "p")

	n, err := UnmarshalProto(b)
	require.NoError(t, err)
	assert.Equal(t, "p", n.Label)
}

func TestUnmarshalProto_Truncated(t *testing.T) {
	b := MarshalProto(example())
	_, err := UnmarshalProto(b[:len(b)-3])
	assert.Error(t, err)
}

func TestStreams(t *testing.T) {
	trees := []*domain.Node{example(), domain.NewNode(domain.Exists, domain.Leaf(domain.And)), domain.Leaf("'a b'")}

	for _, f := range Formats {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			enc, err := NewEncoder(f, &buf)
			require.NoError(t, err)
			for _, tree := range trees {
				require.NoError(t, enc.Encode(tree))
			}

			dec, err := NewDecoder(f, &buf)
			require.NoError(t, err)
			for i, want := range trees {
				got, err := dec.Decode()
				require.NoError(t, err, "tree %d", i)
				assert.True(t, want.Equal(got), "tree %d: got %s, want %s", i, got, want)
			}
			_, err = dec.Decode()
			assert.Equal(t, io.EOF, err)
		})
	}
}

func TestProtoDecoder_Errors(t *testing.T) {
	var buf bytes.Buffer
	enc, _ := NewEncoder(FormatProto, &buf)
	require.NoError(t, enc.Encode(example()))

	truncated := buf.Bytes()[:buf.Len()-1]
	dec, _ := NewDecoder(FormatProto, bytes.NewReader(truncated))
	_, err := dec.Decode()
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	huge := protowire.AppendVarint(nil, MaxMessageSize+1)
	dec, _ = NewDecoder(FormatProto, bytes.NewReader(huge))
	_, err = dec.Decode()
	assert.True(t, errors.Is(err, ErrMessageTooLarge))
}

func TestMarshalSExpr(t *testing.T) {
	assert.Equal(t, "(? p f g (& (! X Y Z (| (~ (p (f X (g Y Z)))) (= X Y) $false))))", string(MarshalSExpr(example())))

	quoted := domain.NewNode("'Big p'", domain.Leaf(`"Apple"`), domain.Leaf(""))
	out := MarshalSExpr(quoted)
	assert.Equal(t, `("'Big p'" "\"Apple\"" "")`, string(out))

	back, err := UnmarshalSExpr(out)
	require.NoError(t, err)
	assert.True(t, quoted.Equal(back))
}

func TestUnmarshalSExpr_Errors(t *testing.T) {
	for _, in := range []string{"", "(", "(a b", "()", "(a) b", `("unterminated)`} {
		_, err := UnmarshalSExpr([]byte(in))
		assert.Error(t, err, in)
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"pb": FormatProto, "JSON": FormatJSON, "sexp": FormatSExpr} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)

	assert.Equal(t, "pb", FormatProto.Ext())
	assert.Equal(t, "application/x-protobuf", FormatProto.ContentType())
	assert.Equal(t, "application/json", FormatJSON.ContentType())
}

func TestUnmarshal_JSON(t *testing.T) {
	n, err := Unmarshal(FormatJSON, []byte(`{"label":"?","children":[{"label":"&"}]}`))
	require.NoError(t, err)
	assert.Equal(t, "(? &)", n.String())

	b, err := Marshal(FormatJSON, n)
	require.NoError(t, err)
	assert.JSONEq(t, `{"label":"?","children":[{"label":"&"}]}`, string(b))
}

func TestZstd(t *testing.T) {
	raw := MarshalProto(example())

	packed := Compress(raw)
	assert.True(t, IsCompressed(packed))
	assert.False(t, IsCompressed(raw))

	unpacked, err := Decompress(packed)
	require.NoError(t, err)
	assert.Equal(t, raw, unpacked)

	var buf bytes.Buffer
	w, err := NewCompressWriter(&buf)
	require.NoError(t, err)
	enc, _ := NewEncoder(FormatSExpr, w)
	require.NoError(t, enc.Encode(example()))
	require.NoError(t, w.Close())

	r, err := NewDecompressReader(&buf)
	require.NoError(t, err)
	defer r.Close()
	dec, _ := NewDecoder(FormatSExpr, r)
	got, err := dec.Decode()
	require.NoError(t, err)
	assert.True(t, example().Equal(got))
}
