package search

import (
	"fmt"

	"github.com/poiesic/htsfinder/core"
	"github.com/poiesic/htsfinder/tree"
)

// scenarioTree is 01 Live animals > 0101 Horses.
func scenarioTree() *tree.Tree {
	return tree.New([]*core.TreeNode{
		{
			Code:        "01",
			Description: "Live animals",
			Children: []*core.TreeNode{
				{Code: "0101", Description: "Horses", Children: []*core.TreeNode{}},
			},
		},
	})
}

// animalTree has a group node and a second chapter.
func animalTree() *tree.Tree {
	return tree.New([]*core.TreeNode{
		{
			Code:        "01",
			Description: "Live animals",
			Children: []*core.TreeNode{
				{
					Code:        "0101",
					Description: "Live horses, asses, mules and hinnies",
					Children: []*core.TreeNode{
						{Code: "0101.21", Description: "Purebred breeding animals"},
						{
							Description: "Other:",
							Children: []*core.TreeNode{
								{Code: "0101.29", Description: "Other"},
							},
						},
					},
				},
				{Code: "0102", Description: "Live bovine animals"},
			},
		},
		{
			Code:        "87",
			Description: "Vehicles other than railway",
			Children: []*core.TreeNode{
				{Code: "8701", Description: "Tractors, engine horsepower over 50"},
			},
		},
	})
}

// wideTree has n leaf lines under one heading.
func wideTree(n int) *tree.Tree {
	children := make([]*core.TreeNode, n)
	for i := range children {
		desc := "Plain article"
		if i%7 == 0 {
			desc = "Steel bolt"
		}
		children[i] = &core.TreeNode{Code: fmt.Sprintf("7318.%04d", i), Description: desc}
	}
	return tree.New([]*core.TreeNode{
		{Code: "7318", Description: "Screws and bolts", Children: children},
	})
}

func candidateCodes(cs []core.Candidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Code
	}
	return out
}

func resultCodes(rs []core.RankedResult) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Code
	}
	return out
}
