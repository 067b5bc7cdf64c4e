package tree

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/poiesic/htsfinder/core"
)

// Record is one row of a flat classification export.
type Record struct {
	Code        string      `json:"htsno"`
	Description string      `json:"description"`
	Indent      core.Indent `json:"indent"`
}

// DecodeRecords reads a JSON array of flat export records.
func DecodeRecords(r io.Reader) ([]Record, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return records, nil
}

// Build turns flat records into a forest. Each record becomes a child of the
// nearest preceding record with a smaller indent, or a root when there is
// none. Record order is preserved among siblings.
func Build(records []Record) []*core.TreeNode {
	roots := make([]*core.TreeNode, 0)
	stack := make([]*core.TreeNode, 0, 16)

	for _, rec := range records {
		depth := int(rec.Indent)
		for len(stack) > 0 && stack[len(stack)-1].Indent >= depth {
			stack = stack[:len(stack)-1]
		}

		node := &core.TreeNode{
			Code:        rec.Code,
			Description: rec.Description,
			Indent:      depth,
			Children:    []*core.TreeNode{},
		}
		if len(stack) > 0 {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, node)
		} else {
			roots = append(roots, node)
		}
		stack = append(stack, node)
	}

	return roots
}
