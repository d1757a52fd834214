// Package triplestore is an embedded catalog that keeps quads in SQLite. Each update batch runs in one
// SQL transaction; queries evaluate basic graph patterns one triple pattern at a time.
package triplestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/filecat/internal/catalog"
	"github.com/sidereusnuntius/filecat/internal/graph"
)

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// classify maps a database error to a catalog error kind.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return catalog.NewError(catalog.Transient, op, err)
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code {
		case sqlite3.ErrBusy, sqlite3.ErrLocked, sqlite3.ErrIoErr, sqlite3.ErrFull, sqlite3.ErrCantOpen:
			return catalog.NewError(catalog.Transient, op, err)
		}
	}
	return catalog.NewError(catalog.Malformed, op, err)
}

func (s *Store) withTx(ctx context.Context, f func(tx *sql.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classify("update", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		} else if err != nil {
			_ = tx.Rollback()
		} else {
			err = classify("update", tx.Commit())
		}
	}()

	err = f(tx)
	return
}

func (s *Store) Update(ctx context.Context, u *graph.Update) error {
	if u.Graph == "" || len(u.Ops) == 0 {
		return catalog.NewError(catalog.Malformed, "update", errors.New("empty update"))
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, op := range u.Ops {
			var err error
			switch op.Kind {
			case graph.InsertData:
				err = insert(ctx, tx, u.Graph, op.Triples)
			case graph.DeleteWhere:
				err = deleteWhere(ctx, tx, u.Graph, op.Triples)
			default:
				err = catalog.NewError(catalog.Malformed, "update", fmt.Errorf("unknown operation %d", op.Kind))
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func insert(ctx context.Context, q querier, g string, triples []graph.Triple) error {
	for _, t := range triples {
		if err := checkData(t); err != nil {
			return err
		}
		_, err := q.ExecContext(ctx,
			`INSERT OR IGNORE INTO quads (graph, subject, predicate, object, object_kind, datatype)
			VALUES (?, ?, ?, ?, ?, ?)`,
			g, t.S.Value, t.P.Value, t.O.Value, t.O.Kind, datatype(t.O))
		if err != nil {
			return classify("update", err)
		}
	}
	return nil
}

func deleteWhere(ctx context.Context, q querier, g string, pattern []graph.Triple) error {
	bindings, err := match(ctx, q, g, pattern)
	if err != nil {
		return err
	}

	for _, b := range bindings {
		for _, t := range pattern {
			t = substitute(t, b)
			_, err = q.ExecContext(ctx,
				`DELETE FROM quads
				WHERE graph = ? AND subject = ? AND predicate = ? AND object = ? AND object_kind = ? AND datatype = ?`,
				g, t.S.Value, t.P.Value, t.O.Value, t.O.Kind, datatype(t.O))
			if err != nil {
				return classify("update", err)
			}
		}
	}
	return nil
}

func (s *Store) Query(ctx context.Context, q *graph.Select) ([]graph.Binding, error) {
	if q.Graph == "" || len(q.Where) == 0 {
		return nil, catalog.NewError(catalog.Malformed, "query", errors.New("empty query"))
	}

	bindings, err := match(ctx, s.db, q.Graph, q.Where)
	if err != nil {
		return nil, err
	}

	result := make([]graph.Binding, 0, len(bindings))
	for _, b := range bindings {
		if q.Limit > 0 && len(result) == q.Limit {
			break
		}
		projected := make(graph.Binding, len(q.Vars))
		for _, v := range q.Vars {
			if term, ok := b[v]; ok {
				projected[v] = term
			}
		}
		result = append(result, projected)
	}
	log.Debug().Int("matches", len(result)).Msg("catalog query")
	return result, nil
}

func datatype(t graph.Term) string {
	if t.Kind != graph.KindLiteral || t.Datatype == graph.XSDString {
		return ""
	}
	return t.Datatype
}

func checkData(t graph.Triple) error {
	if t.S.Kind != graph.KindIRI || t.P.Kind != graph.KindIRI || t.O.IsVar() || t.O.Kind == 0 {
		return catalog.NewError(catalog.Malformed, "update", fmt.Errorf("%w: %v %v %v",
			graph.ErrVariableInData, t.S, t.P, t.O))
	}
	return nil
}
