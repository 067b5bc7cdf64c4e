package tree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/poiesic/htsfinder/core"
)

// document is the object form of a tree file.
type document struct {
	Children []*core.TreeNode `json:"children"`
}

// Load reads a tree document: either a JSON array of nodes or an object with
// a "children" array. Failures wrap core.ErrTreeLoad.
func Load(r io.Reader) (*Tree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrTreeLoad, err)
	}

	roots, err := decodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrTreeLoad, err)
	}
	return New(roots), nil
}

// LoadFile reads a tree document from path.
func LoadFile(path string) (*Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrTreeLoad, err)
	}
	defer f.Close()
	return Load(f)
}

func decodeDocument(data []byte) ([]*core.TreeNode, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("empty document")
	}

	switch data[0] {
	case '[':
		var roots []*core.TreeNode
		if err := json.Unmarshal(data, &roots); err != nil {
			return nil, err
		}
		return roots, nil
	case '{':
		var doc document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		if doc.Children == nil {
			return nil, errors.New("invalid structure: expected an array or an object with 'children'")
		}
		return doc.Children, nil
	default:
		return nil, errors.New("invalid structure: expected an array or an object with 'children'")
	}
}
