/*
Package codec encodes labeled trees for storage and transport.

Three formats are supported:

  - proto: the protobuf wire form of message Node { string value = 1; repeated Node child = 2; }.
    Streams of trees are framed with varint length prefixes, so a batch file can be read
    with any parseDelimitedFrom-style reader.
  - json: {"label": ..., "children": [...]}, one tree per line in streams.
  - sexpr: (label child ...), one tree per line in streams.

Any stream can additionally be zstd-compressed (see NewCompressWriter).
*/
package codec
