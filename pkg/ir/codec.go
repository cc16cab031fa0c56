package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Document is the interchange envelope for a serialized IR tree.
type Document struct {
	Version int           `json:"version"`
	File    string        `json:"file,omitempty"`
	Tree    []*ActionNode `json:"tree"`
}

// DocumentVersion is the interchange version this codec reads and writes.
const DocumentVersion = 1

// EncodeTree serializes a tree to the interchange format.
func EncodeTree(file string, tree []*ActionNode) ([]byte, error) {
	doc := Document{Version: DocumentVersion, File: file, Tree: tree}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode ir tree: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeTree parses an interchange document. A bare top-level array is
// accepted as a version-1 tree for compatibility with adapters that emit
// nodes without the envelope.
func DecodeTree(data []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var tree []*ActionNode
		if err := json.Unmarshal(trimmed, &tree); err != nil {
			return nil, fmt.Errorf("decode ir tree: %w", err)
		}
		return &Document{Version: DocumentVersion, Tree: tree}, nil
	}
	var doc Document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("decode ir document: %w", err)
	}
	if doc.Version != DocumentVersion {
		return nil, fmt.Errorf("unsupported ir document version %d", doc.Version)
	}
	return &doc, nil
}
