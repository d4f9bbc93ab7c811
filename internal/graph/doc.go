// Package graph is the append-only node arena behind every projected cell.
//
// A node is either a leaf holding a number or a binary operation over two
// nodes that already exist. Because AddBinary rejects unknown operands, a node
// can only reference nodes created before it and the graph is acyclic by
// construction. Nodes are never mutated or removed.
package graph
