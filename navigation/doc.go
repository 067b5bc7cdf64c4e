// Package navigation tracks where a user is in the classification tree.
//
// A Navigator holds the focus path: the chain of nodes from a top-level
// heading down to the node whose children are on display. An empty path shows
// a synthetic root whose children are the top-level headings. Focus pushes,
// Back pops and SelectResult jumps to the parent of a search hit so the hit
// is visible among its siblings.
//
// A Navigator is not safe for concurrent use; htsfinder.Session serializes
// access to it.
package navigation
