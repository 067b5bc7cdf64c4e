package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/poiesic/htsfinder/core"
	"github.com/poiesic/htsfinder/tree"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

// printResults lists ranked results, numbered from 1.
func printResults(w io.Writer, results []core.RankedResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "no results")
		return
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "#\tCODE\tSCORE\tDESCRIPTION\tWHY")
	for i, r := range results {
		fmt.Fprintf(tw, "%d\t%s\t%.0f\t%s\t%s\n", i+1, r.Code, r.Score, tree.PlainText(r.Description), r.Explanation)
	}
	tw.Flush()
}

// printChildren lists the children of view, numbered from 1. Nodes that can
// be entered are marked with a trailing slash.
func printChildren(w io.Writer, view *core.TreeNode) {
	if len(view.Children) == 0 {
		fmt.Fprintln(w, "no entries")
		return
	}

	tw := newTable(w)
	for i, child := range view.Children {
		marker := ""
		if child.HasChildren() {
			marker = "/"
		}
		code := child.Code
		if code == "" {
			code = "-"
		}
		fmt.Fprintf(tw, "%d\t%s%s\t%s\n", i+1, code, marker, tree.PlainText(child.Description))
	}
	tw.Flush()
}

// printHistory lists recorded searches, newest first.
func printHistory(w io.Writer, entries []*core.HistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "no searches yet")
		return
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tWHEN\tRESULTS\tQUERY")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", e.Id, humanize.Time(e.CreatedAt), len(e.Results), e.Query)
	}
	tw.Flush()
}
