package brackets

import (
	"fmt"

	"github.com/dominikbraun/graph"
)

func matchRefHash(r MatchRef) string {
	return r.String()
}

// FeederGraph returns the directed graph of the bracket in which an edge
// points from a match to every match its winner can advance into.
func FeederGraph(b *Bracket) (graph.Graph[string, MatchRef], error) {
	g := graph.New(matchRefHash, graph.Directed(), graph.PreventCycles())

	refs := make([]MatchRef, 0, len(b.Playins)+len(b.QFs)+len(b.SFs)+1)
	for i := range b.Playins {
		refs = append(refs, MatchRef{Stage: StagePlayins, Index: i})
	}
	for i := range b.QFs {
		refs = append(refs, MatchRef{Stage: StageQuarterfinals, Index: i})
	}
	for i := range b.SFs {
		refs = append(refs, MatchRef{Stage: StageSemifinals, Index: i})
	}
	refs = append(refs, MatchRef{Stage: StageFinal})

	for _, r := range refs {
		if err := g.AddVertex(r); err != nil {
			return nil, fmt.Errorf("add match %s: %w", r, err)
		}
	}

	for _, e := range feederEdges(b) {
		if err := g.AddEdge(matchRefHash(e[0]), matchRefHash(e[1])); err != nil {
			return nil, fmt.Errorf("link %s -> %s: %w", e[0], e[1], err)
		}
	}

	return g, nil
}

// feederEdges mirrors the routing done by UpdateKnockoutProgress.
func feederEdges(b *Bracket) [][2]MatchRef {
	p := func(i int) MatchRef { return MatchRef{Stage: StagePlayins, Index: i} }
	q := func(i int) MatchRef { return MatchRef{Stage: StageQuarterfinals, Index: i} }
	s := func(i int) MatchRef { return MatchRef{Stage: StageSemifinals, Index: i} }
	final := MatchRef{Stage: StageFinal}

	var edges [][2]MatchRef
	switch b.Shape() {
	case 5:
		edges = append(edges, [2]MatchRef{p(0), s(0)})
	case 7:
		for i := range 3 {
			edges = append(edges, [2]MatchRef{q(i), s(0)}, [2]MatchRef{q(i), s(1)})
		}
	case 10:
		edges = append(edges, [2]MatchRef{p(1), q(0)}, [2]MatchRef{p(0), q(1)})
	case 12:
		edges = append(edges,
			[2]MatchRef{p(2), q(0)},
			[2]MatchRef{p(1), q(1)},
			[2]MatchRef{p(0), q(2)},
			[2]MatchRef{p(3), q(3)},
		)
	}
	if b.Shape() >= 8 {
		edges = append(edges,
			[2]MatchRef{q(0), s(0)},
			[2]MatchRef{q(3), s(0)},
			[2]MatchRef{q(1), s(1)},
			[2]MatchRef{q(2), s(1)},
		)
	}
	for i := range b.SFs {
		edges = append(edges, [2]MatchRef{s(i), final})
	}
	return edges
}

// Downstream lists the matches whose participants depend on ref, nearest first.
func (b *Bracket) Downstream(ref MatchRef) ([]MatchRef, error) {
	if _, err := b.Match(ref); err != nil {
		return nil, err
	}
	g, err := FeederGraph(b)
	if err != nil {
		return nil, err
	}

	start := matchRefHash(ref)
	var out []MatchRef
	err = graph.BFS(g, start, func(hash string) bool {
		if hash == start {
			return false
		}
		r, vErr := g.Vertex(hash)
		if vErr == nil {
			out = append(out, r)
		}
		return false
	})
	if err != nil {
		return nil, fmt.Errorf("walk feeders from %s: %w", ref, err)
	}
	return out, nil
}
