package graph

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/roach88/fsproj/internal/ir"
)

// ErrNotFound is returned when a node id is not in the store.
var ErrNotFound = errors.New("graph: node not found")

// NodeID indexes the node arena. Ids start at 0 and are never reused.
type NodeID int

// Kind tags a node as a leaf or a binary operation.
type Kind uint8

const (
	KindLeaf Kind = iota
	KindBinary
)

// Op is a binary operator. Subtraction is ADD of a MUL(x, -1) term.
type Op uint8

const (
	OpAdd Op = iota + 1
	OpMul
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "ADD"
	case OpMul:
		return "MUL"
	default:
		return "Op(" + strconv.Itoa(int(o)) + ")"
	}
}

// Provenance records which cell a node was built for.
type Provenance struct {
	AccountID string `json:"account_id"`
	Year      int    `json:"year"`
	Label     string `json:"label,omitempty"`
}

// Node is one arena entry.
type Node struct {
	ID    NodeID
	Kind  Kind
	Value float64 // leaves only
	Left  NodeID  // binary only
	Right NodeID  // binary only
	Op    Op      // binary only
	Label string

	// Key is a StableID derived from the label and id, used for export and
	// tracing.
	Key        string
	Provenance *Provenance
}

// Store is the node arena. The zero value is ready to use.
type Store struct {
	nodes []Node
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

func (s *Store) append(n Node) NodeID {
	n.ID = NodeID(len(s.nodes))
	n.Key = ir.StableID(ir.DomainNode, n.Label, strconv.Itoa(int(n.ID)))
	s.nodes = append(s.nodes, n)
	return n.ID
}

// AddLeaf appends a constant node.
func (s *Store) AddLeaf(value float64, label string, prov *Provenance) NodeID {
	return s.append(Node{Kind: KindLeaf, Value: value, Label: label, Provenance: prov})
}

// AddBinary appends an operation over two existing nodes.
func (s *Store) AddBinary(left, right NodeID, op Op, label string, prov *Provenance) (NodeID, error) {
	if !s.has(left) {
		return 0, fmt.Errorf("%w: left operand %d of %q", ErrNotFound, left, label)
	}
	if !s.has(right) {
		return 0, fmt.Errorf("%w: right operand %d of %q", ErrNotFound, right, label)
	}
	if op != OpAdd && op != OpMul {
		return 0, fmt.Errorf("graph: unsupported operator %s for %q", op, label)
	}
	return s.append(Node{Kind: KindBinary, Left: left, Right: right, Op: op, Label: label, Provenance: prov}), nil
}

// Get returns the node with the given id.
func (s *Store) Get(id NodeID) (Node, error) {
	if !s.has(id) {
		return Node{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return s.nodes[id], nil
}

// Len returns the number of nodes in the store.
func (s *Store) Len() int {
	return len(s.nodes)
}

func (s *Store) has(id NodeID) bool {
	return id >= 0 && int(id) < len(s.nodes)
}
