package triplestore

import (
	"context"
	"strings"

	"github.com/sidereusnuntius/filecat/internal/graph"
)

// match evaluates a basic graph pattern against graph g and returns every solution.
func match(ctx context.Context, q querier, g string, pattern []graph.Triple) ([]graph.Binding, error) {
	solutions := []graph.Binding{{}}
	for _, t := range order(pattern) {
		var next []graph.Binding
		for _, b := range solutions {
			rows, err := lookup(ctx, q, g, substitute(t, b))
			if err != nil {
				return nil, err
			}
			for _, row := range rows {
				if extended, ok := extend(b, t, row); ok {
					next = append(next, extended)
				}
			}
		}
		if len(next) == 0 {
			return nil, nil
		}
		solutions = next
	}
	return solutions, nil
}

// order evaluates the most selective triple patterns first: those with the fewest variables that are not
// bound by an earlier pattern.
func order(pattern []graph.Triple) []graph.Triple {
	remaining := append([]graph.Triple(nil), pattern...)
	ordered := make([]graph.Triple, 0, len(pattern))
	bound := map[string]bool{}

	free := func(t graph.Triple) int {
		n := 0
		for _, term := range [...]graph.Term{t.S, t.P, t.O} {
			if term.IsVar() && !bound[term.Value] {
				n++
			}
		}
		return n
	}

	for len(remaining) > 0 {
		best := 0
		for i := 1; i < len(remaining); i++ {
			if free(remaining[i]) < free(remaining[best]) {
				best = i
			}
		}
		t := remaining[best]
		for _, term := range [...]graph.Term{t.S, t.P, t.O} {
			if term.IsVar() {
				bound[term.Value] = true
			}
		}
		ordered = append(ordered, t)
		remaining = append(remaining[:best], remaining[best+1:]...)
	}
	return ordered
}

func substitute(t graph.Triple, b graph.Binding) graph.Triple {
	sub := func(term graph.Term) graph.Term {
		if term.IsVar() {
			if v, ok := b[term.Value]; ok {
				return v
			}
		}
		return term
	}
	return graph.Triple{S: sub(t.S), P: sub(t.P), O: sub(t.O)}
}

func extend(b graph.Binding, pattern, row graph.Triple) (graph.Binding, bool) {
	out := make(graph.Binding, len(b)+3)
	for k, v := range b {
		out[k] = v
	}
	pairs := [...][2]graph.Term{{pattern.S, row.S}, {pattern.P, row.P}, {pattern.O, row.O}}
	for _, p := range pairs {
		if !p[0].IsVar() {
			continue
		}
		if prev, ok := out[p[0].Value]; ok && !prev.Equal(p[1]) {
			return nil, false
		}
		out[p[0].Value] = p[1]
	}
	return out, true
}

func lookup(ctx context.Context, q querier, g string, t graph.Triple) ([]graph.Triple, error) {
	var where strings.Builder
	args := []any{g}
	where.WriteString("graph = ?")
	if !t.S.IsVar() {
		where.WriteString(" AND subject = ?")
		args = append(args, t.S.Value)
	}
	if !t.P.IsVar() {
		where.WriteString(" AND predicate = ?")
		args = append(args, t.P.Value)
	}
	if !t.O.IsVar() {
		where.WriteString(" AND object = ? AND object_kind = ? AND datatype = ?")
		args = append(args, t.O.Value, t.O.Kind, datatype(t.O))
	}

	rows, err := q.QueryContext(ctx,
		"SELECT subject, predicate, object, object_kind, datatype FROM quads WHERE "+where.String(), args...)
	if err != nil {
		return nil, classify("query", err)
	}
	defer rows.Close()

	var result []graph.Triple
	for rows.Next() {
		var s, p, o, dt string
		var kind graph.TermKind
		if err = rows.Scan(&s, &p, &o, &kind, &dt); err != nil {
			return nil, classify("query", err)
		}
		result = append(result, graph.Triple{
			S: graph.IRI(s),
			P: graph.IRI(p),
			O: graph.Term{Kind: kind, Value: o, Datatype: dt},
		})
	}
	return result, classify("query", rows.Err())
}
