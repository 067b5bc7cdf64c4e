// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package tree holds the in-memory classification tree and the traversal
// algorithms the search pipeline and navigation depend on.
//
// # Ownership
//
// A tree is a forest of *core.TreeNode roots. Parents own their children and
// no node stores a reference to its parent, so ancestor paths are recomputed
// by searching from the roots. Nothing in this package mutates a tree after
// it has been loaded, which makes a Tree safe for concurrent readers.
//
// # Traversal
//
//   - Flatten: pre-order iteration over every node, groups included
//   - FindPathToCode: root-to-node path of the first node carrying a code
//   - FullDescription: the path rendered one line per ancestor, indented by depth
//
// All traversals use an explicit stack rather than recursion.
//
// # Sources
//
// Trees are read from a JSON document that is either an array of nodes or an
// object with a "children" array (Load, LoadFile). Flat exports carrying an
// indent per record can be turned into a tree with Build.
package tree
