// Package graph models the statements exchanged with the metadata catalog: RDF terms, triple patterns,
// update batches and select queries. Values only ever enter a statement as typed terms, and the renderer
// escapes every term it writes out.
package graph

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

var ErrInvalidTerm = errors.New("invalid term")

type TermKind uint8

const (
	KindIRI TermKind = iota + 1
	KindLiteral
	KindVariable
)

const (
	XSDString   = "http://www.w3.org/2001/XMLSchema#string"
	XSDInteger  = "http://www.w3.org/2001/XMLSchema#integer"
	XSDDateTime = "http://www.w3.org/2001/XMLSchema#dateTime"
)

type Term struct {
	Kind  TermKind
	Value string
	// Datatype is the datatype IRI of a literal; empty means a plain string.
	Datatype string
}

func IRI(v string) Term {
	return Term{Kind: KindIRI, Value: v}
}

func String(v string) Term {
	return Term{Kind: KindLiteral, Value: v}
}

func Integer(n int64) Term {
	return Term{Kind: KindLiteral, Value: strconv.FormatInt(n, 10), Datatype: XSDInteger}
}

func DateTime(t time.Time) Term {
	return Term{Kind: KindLiteral, Value: t.UTC().Format(time.RFC3339Nano), Datatype: XSDDateTime}
}

func Var(name string) Term {
	return Term{Kind: KindVariable, Value: name}
}

func (t Term) IsVar() bool {
	return t.Kind == KindVariable
}

// Equal compares terms by value, treating plain and xsd:string literals as the same.
func (t Term) Equal(o Term) bool {
	return t.Kind == o.Kind && t.Value == o.Value && normalDatatype(t.Datatype) == normalDatatype(o.Datatype)
}

func normalDatatype(dt string) string {
	if dt == XSDString {
		return ""
	}
	return dt
}

func (t Term) Int() (int64, error) {
	if t.Kind != KindLiteral {
		return 0, fmt.Errorf("%w: %q is not a literal", ErrInvalidTerm, t.Value)
	}
	return strconv.ParseInt(t.Value, 10, 64)
}

func (t Term) Time() (time.Time, error) {
	if t.Kind != KindLiteral {
		return time.Time{}, fmt.Errorf("%w: %q is not a literal", ErrInvalidTerm, t.Value)
	}
	ts, err := time.Parse(time.RFC3339Nano, t.Value)
	if err != nil {
		// xsd:dateTime allows omitting the zone; such values are read as UTC.
		if local, lerr := time.Parse(localDateTime, t.Value); lerr == nil {
			return local, nil
		}
	}
	return ts, err
}

const localDateTime = "2006-01-02T15:04:05.999999999"

func (t Term) String() string {
	switch t.Kind {
	case KindIRI:
		return "<" + t.Value + ">"
	case KindVariable:
		return "?" + t.Value
	default:
		if t.Datatype == "" {
			return strconv.Quote(t.Value)
		}
		return strconv.Quote(t.Value) + "^^<" + t.Datatype + ">"
	}
}

type Triple struct {
	S, P, O Term
}

func T(s, p, o Term) Triple {
	return Triple{S: s, P: p, O: o}
}

// Binding maps variable names to the terms they matched.
type Binding map[string]Term

type OpKind uint8

const (
	InsertData OpKind = iota + 1
	// DeleteWhere removes every triple matching the pattern; variables are allowed.
	DeleteWhere
)

type Operation struct {
	Kind    OpKind
	Triples []Triple
}

// Update is a batch of operations on one named graph, sent to the catalog as a single request.
type Update struct {
	Graph string
	Ops   []Operation
}

func NewUpdate(g string) *Update {
	return &Update{Graph: g}
}

func (u *Update) Insert(triples ...Triple) *Update {
	u.Ops = append(u.Ops, Operation{Kind: InsertData, Triples: triples})
	return u
}

func (u *Update) DeleteWhere(triples ...Triple) *Update {
	u.Ops = append(u.Ops, Operation{Kind: DeleteWhere, Triples: triples})
	return u
}

// Select is a basic graph pattern query on one named graph.
type Select struct {
	Graph string
	Vars  []string
	Where []Triple
	Limit int
}
