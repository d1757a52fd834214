package graph

import (
	"errors"
	"fmt"
	"strings"
)

var ErrVariableInData = errors.New("variables are not allowed in INSERT DATA")

var literalEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
	"\b", `\b`,
	"\f", `\f`,
)

func validIRI(v string) bool {
	if v == "" {
		return false
	}
	for _, r := range v {
		if r <= 0x20 || strings.ContainsRune(`<>"{}|^`+"`\\", r) {
			return false
		}
	}
	return true
}

func validVar(v string) bool {
	if v == "" {
		return false
	}
	for _, r := range v {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

// SPARQL renders the term in SPARQL syntax, escaping literals and rejecting IRIs and variable names
// that cannot be written safely.
func (t Term) SPARQL() (string, error) {
	switch t.Kind {
	case KindIRI:
		if !validIRI(t.Value) {
			return "", fmt.Errorf("%w: IRI %q", ErrInvalidTerm, t.Value)
		}
		return "<" + t.Value + ">", nil
	case KindVariable:
		if !validVar(t.Value) {
			return "", fmt.Errorf("%w: variable %q", ErrInvalidTerm, t.Value)
		}
		return "?" + t.Value, nil
	case KindLiteral:
		lit := `"` + literalEscaper.Replace(t.Value) + `"`
		if t.Datatype == "" {
			return lit, nil
		}
		if !validIRI(t.Datatype) {
			return "", fmt.Errorf("%w: datatype %q", ErrInvalidTerm, t.Datatype)
		}
		return lit + "^^<" + t.Datatype + ">", nil
	}
	return "", fmt.Errorf("%w: unknown kind %d", ErrInvalidTerm, t.Kind)
}

func writeTriples(b *strings.Builder, triples []Triple, allowVars bool) error {
	for _, tr := range triples {
		for _, term := range [...]Term{tr.S, tr.P, tr.O} {
			if term.IsVar() && !allowVars {
				return ErrVariableInData
			}
			s, err := term.SPARQL()
			if err != nil {
				return err
			}
			b.WriteString(s)
			b.WriteByte(' ')
		}
		b.WriteString(".\n")
	}
	return nil
}

func graphIRI(g string) (string, error) {
	return IRI(g).SPARQL()
}

// SPARQL renders the batch as one SPARQL 1.1 update request.
func (u *Update) SPARQL() (string, error) {
	if len(u.Ops) == 0 {
		return "", errors.New("empty update")
	}
	g, err := graphIRI(u.Graph)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for i, op := range u.Ops {
		if i > 0 {
			b.WriteString(";\n")
		}
		switch op.Kind {
		case InsertData:
			b.WriteString("INSERT DATA {\n  GRAPH " + g + " {\n")
			err = writeTriples(&b, op.Triples, false)
		case DeleteWhere:
			b.WriteString("DELETE WHERE {\n  GRAPH " + g + " {\n")
			err = writeTriples(&b, op.Triples, true)
		default:
			err = fmt.Errorf("unknown operation %d", op.Kind)
		}
		if err != nil {
			return "", err
		}
		b.WriteString("  }\n}")
	}
	return b.String(), nil
}

// SPARQL renders the query as a SELECT over the named graph.
func (q *Select) SPARQL() (string, error) {
	g, err := graphIRI(q.Graph)
	if err != nil {
		return "", err
	}
	if len(q.Vars) == 0 {
		return "", errors.New("select without variables")
	}

	var b strings.Builder
	b.WriteString("SELECT")
	for _, v := range q.Vars {
		s, err := Var(v).SPARQL()
		if err != nil {
			return "", err
		}
		b.WriteString(" " + s)
	}
	b.WriteString(" WHERE {\n  GRAPH " + g + " {\n")
	if err = writeTriples(&b, q.Where, true); err != nil {
		return "", err
	}
	b.WriteString("  }\n}")
	if q.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", q.Limit)
	}
	return b.String(), nil
}
