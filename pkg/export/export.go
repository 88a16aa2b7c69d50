// Package export serializes the provider graph and its attribute table
// for durable storage. The format is a snappy-compressed JSON document in
// a checksummed frame; node identity (npi) and edge weights survive a
// round trip, which is the only contract the pipeline depends on.
package export

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/golang/snappy"

	"github.com/dd0wney/cluso-collabnet/pkg/attributes"
	"github.com/dd0wney/cluso-collabnet/pkg/collab"
)

// Frame layout: [magic:5][version:1][payload_len:4][payload:N][crc32:4]
// where payload is snappy-compressed JSON.
const (
	magic   = "CNET\x01"
	version = byte(1)
)

// Document is the serialized form of a graph plus its aligned attribute
// table. Node order is preserved so the alignment invariant survives the
// round trip.
type Document struct {
	Nodes      []string         `json:"nodes"`
	Edges      []collab.Edge    `json:"edges"`
	Attributes []attributes.Row `json:"attributes"`
	SavedAt    time.Time        `json:"saved_at"`
}

// Write serializes the graph and table into w.
func Write(w io.Writer, g *collab.Graph, table *attributes.Table) error {
	doc := Document{
		Nodes:      g.Nodes(),
		Edges:      g.Edges(),
		Attributes: table.Rows,
		SavedAt:    time.Now().UTC(),
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal graph document: %w", err)
	}

	payload := snappy.Encode(nil, raw)

	if _, err := w.Write([]byte(magic)); err != nil {
		return err
	}
	if _, err := w.Write([]byte{version}); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, uint32(len(payload))); err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	return binary.Write(w, binary.BigEndian, crc32.ChecksumIEEE(payload))
}

// Read deserializes a graph document written by Write, verifying the
// frame checksum before decoding.
func Read(r io.Reader) (*collab.Graph, *attributes.Table, error) {
	head := make([]byte, len(magic)+1)
	if _, err := io.ReadFull(r, head); err != nil {
		return nil, nil, fmt.Errorf("read frame header: %w", err)
	}
	if string(head[:len(magic)]) != magic {
		return nil, nil, fmt.Errorf("not a collabnet graph file")
	}
	if head[len(magic)] != version {
		return nil, nil, fmt.Errorf("unsupported graph file version %d", head[len(magic)])
	}

	var payloadLen uint32
	if err := binary.Read(r, binary.BigEndian, &payloadLen); err != nil {
		return nil, nil, fmt.Errorf("read payload length: %w", err)
	}
	payload := make([]byte, payloadLen)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, nil, fmt.Errorf("read payload: %w", err)
	}
	var checksum uint32
	if err := binary.Read(r, binary.BigEndian, &checksum); err != nil {
		return nil, nil, fmt.Errorf("read checksum: %w", err)
	}
	if crc32.ChecksumIEEE(payload) != checksum {
		return nil, nil, fmt.Errorf("graph file checksum mismatch")
	}

	raw, err := snappy.Decode(nil, payload)
	if err != nil {
		return nil, nil, fmt.Errorf("decompress payload: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, nil, fmt.Errorf("decode graph document: %w", err)
	}

	g := collab.NewGraph()
	for _, id := range doc.Nodes {
		g.AddNode(id)
	}
	for _, e := range doc.Edges {
		if err := g.SetEdge(e.From, e.To, e.Weight); err != nil {
			return nil, nil, fmt.Errorf("restore edge: %w", err)
		}
	}

	table := attributes.NewTable(doc.Attributes)
	if err := table.Verify(g); err != nil {
		return nil, nil, err
	}
	return g, table, nil
}

// WriteFile writes the framed document to path.
func WriteFile(path string, g *collab.Graph, table *attributes.Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(f, g, table)
}

// ReadFile reads a framed document from path.
func ReadFile(path string) (*collab.Graph, *attributes.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}
