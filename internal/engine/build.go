package engine

import (
	"github.com/roach88/fsproj/internal/graph"
	"github.com/roach88/fsproj/internal/ir"
)

// cellBuilder compiles one account's rule into graph nodes for one year.
// Every reference is resolved through ensureCell, so upstream cells are
// built first and memoized.
type cellBuilder struct {
	p    *Projection
	year int
	self string
	kind ir.RuleKind
	node graph.NodeID
}

var _ ir.RuleVisitor = (*cellBuilder)(nil)

func (b *cellBuilder) prov() *graph.Provenance {
	return &graph.Provenance{AccountID: b.self, Year: b.year, Label: string(b.kind)}
}

func (b *cellBuilder) label() string {
	return string(b.kind) + " " + cellKey{b.year, b.self}.String()
}

func (b *cellBuilder) leaf(v float64) graph.NodeID {
	return b.p.nodes.AddLeaf(v, b.label(), b.prov())
}

func (b *cellBuilder) ref(r ir.Ref) (graph.NodeID, error) {
	return b.p.ensureCell(r.Period.Resolve(b.year), r.Account)
}

func (b *cellBuilder) scale(id graph.NodeID, factor float64) (graph.NodeID, error) {
	return b.p.binary(id, b.leaf(factor), graph.OpMul, b.label(), b.prov())
}

func (b *cellBuilder) sum(l, r graph.NodeID) (graph.NodeID, error) {
	return b.p.binary(l, r, graph.OpAdd, b.label(), b.prov())
}

func (b *cellBuilder) missingRef() error {
	return &Error{Code: ErrCodeUnresolvedReference, Message: string(b.kind) + " rule has no reference", AccountID: b.self, Year: b.year}
}

func (b *cellBuilder) VisitInput(r ir.InputRule) error {
	b.node = b.leaf(r.Value)
	return nil
}

func (b *cellBuilder) VisitFixedValue(r ir.FixedValueRule) error {
	b.node = b.leaf(r.Value)
	return nil
}

func (b *cellBuilder) VisitReference(r ir.ReferenceRule) error {
	id, err := b.ref(r.Ref)
	if err != nil {
		return err
	}
	b.node = id
	return nil
}

func (b *cellBuilder) VisitGrowthRate(r ir.GrowthRateRule) error {
	if len(r.Refs) == 0 {
		return b.missingRef()
	}
	base, err := b.ref(r.Refs[0])
	if err != nil {
		return err
	}
	b.node, err = b.scale(base, 1+r.Rate)
	return err
}

func (b *cellBuilder) VisitPercentage(r ir.PercentageRule) error {
	if r.Ref == nil {
		return b.missingRef()
	}
	base, err := b.ref(*r.Ref)
	if err != nil {
		return err
	}
	b.node, err = b.scale(base, r.Rate)
	return err
}

func (b *cellBuilder) VisitProportionate(r ir.ProportionateRule) error {
	base, err := b.ref(r.BaseRef(b.self))
	if err != nil {
		return err
	}
	// FIXME: ratio is a literal 1 pending a product definition; only coeff
	// changes the result.
	node, err := b.scale(base, 1)
	if err != nil {
		return err
	}
	if r.Coeff != nil {
		node, err = b.scale(node, *r.Coeff)
		if err != nil {
			return err
		}
	}
	b.node = node
	return nil
}

func (b *cellBuilder) VisitChildrenSum(ir.ChildrenSumRule) error {
	children := b.p.children[b.self]
	if len(children) == 0 {
		b.node = b.leaf(0)
		return nil
	}
	acc, err := b.p.ensureCell(b.year, children[0])
	if err != nil {
		return err
	}
	for _, child := range children[1:] {
		id, err := b.p.ensureCell(b.year, child)
		if err != nil {
			return err
		}
		if acc, err = b.sum(acc, id); err != nil {
			return err
		}
	}
	b.node = acc
	return nil
}

func (b *cellBuilder) VisitCalculation(r ir.CalculationRule) error {
	if len(r.Terms) == 0 {
		return b.missingRef()
	}
	var acc graph.NodeID
	for i, t := range r.Terms {
		id, err := b.ref(t.Ref)
		if err != nil {
			return err
		}
		if t.Sign == ir.SignMinus {
			if id, err = b.scale(id, -1); err != nil {
				return err
			}
		}
		if i == 0 {
			acc = id
			continue
		}
		if acc, err = b.sum(acc, id); err != nil {
			return err
		}
	}
	b.node = acc
	return nil
}
