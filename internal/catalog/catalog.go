// Package catalog defines the metadata catalog adapter: a graph store that applies update batches
// atomically, one request at a time, and answers basic graph pattern queries.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/sidereusnuntius/filecat/internal/graph"
)

type Catalog interface {
	// Update applies every operation of the batch or none of them. Nothing is guaranteed across calls.
	Update(ctx context.Context, u *graph.Update) error
	// Query returns the bindings of every match. No match is an empty result, not an error.
	Query(ctx context.Context, q *graph.Select) ([]graph.Binding, error)
}

type Kind uint8

const (
	// Malformed errors are caller bugs; repeating the request cannot succeed.
	Malformed Kind = iota + 1
	// Transient errors come from the network or the server; the request may be retried.
	Transient
)

func (k Kind) String() string {
	switch k {
	case Malformed:
		return "malformed"
	case Transient:
		return "transient"
	}
	return "unknown"
}

type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("catalog %s: %s: %s", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func kindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func IsMalformed(err error) bool {
	return kindOf(err) == Malformed
}

func IsTransient(err error) bool {
	return kindOf(err) == Transient
}
