package triplestore

import (
	"context"
	"fmt"
	"os"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sidereusnuntius/filecat/internal/catalog"
	"github.com/sidereusnuntius/filecat/internal/graph"
	"github.com/sidereusnuntius/filecat/internal/initialization"
)

var store *Store
var ctx = context.Background()

const g = "http://mu.semte.ch/application"

func TestMain(m *testing.M) {
	d, err := initialization.OpenDB("file:triplestore?mode=memory&cache=shared")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open connection: %s", err)
		os.Exit(1)
	}

	if err = initialization.Migrate(d, "../../../migrations", "triplestore"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to run migrations: %s", err)
		os.Exit(1)
	}

	store = New(d)
	code := m.Run()
	d.Close()
	os.Exit(code)
}

func file(id string) []graph.Triple {
	s := graph.IRI("share://" + id)
	return []graph.Triple{
		graph.T(s, graph.Type, graph.FileDataObject),
		graph.T(s, graph.UUID, graph.String(id)),
		graph.T(s, graph.FileSize, graph.Integer(3)),
	}
}

func selectByID(id string) *graph.Select {
	return &graph.Select{
		Graph: g,
		Vars:  []string{"uri", "size"},
		Where: []graph.Triple{
			graph.T(graph.Var("uri"), graph.UUID, graph.String(id)),
			graph.T(graph.Var("uri"), graph.FileSize, graph.Var("size")),
		},
	}
}

func TestInsertAndQuery(t *testing.T) {
	if err := store.Update(ctx, graph.NewUpdate(g).Insert(file("q1")...)); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	bindings, err := store.Query(ctx, selectByID("q1"))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	want := []graph.Binding{{"uri": graph.IRI("share://q1"), "size": graph.Integer(3)}}
	if diff := cmp.Diff(want, bindings); diff != "" {
		t.Errorf("unexpected bindings (-want +got):\n%s", diff)
	}

	bindings, err = store.Query(ctx, selectByID("absent"))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(bindings) != 0 {
		t.Errorf("expected no match, got %v", bindings)
	}
}

func TestGraphsAreSeparate(t *testing.T) {
	if err := store.Update(ctx, graph.NewUpdate("http://other").Insert(file("other1")...)); err != nil {
		t.Fatal(err)
	}
	bindings, err := store.Query(ctx, selectByID("other1"))
	if err != nil {
		t.Fatal(err)
	}
	if len(bindings) != 0 {
		t.Errorf("query leaked across graphs: %v", bindings)
	}
}

func TestJoin(t *testing.T) {
	upload := graph.IRI("http://files/u1")
	physical := graph.IRI("share://f1.pdf")
	err := store.Update(ctx, graph.NewUpdate(g).Insert(
		graph.T(upload, graph.UUID, graph.String("u1")),
		graph.T(physical, graph.DataSource, upload),
		graph.T(physical, graph.FileName, graph.String("f1.pdf")),
	))
	if err != nil {
		t.Fatal(err)
	}

	bindings, err := store.Query(ctx, &graph.Select{
		Graph: g,
		Vars:  []string{"file", "name"},
		Where: []graph.Triple{
			graph.T(graph.Var("uri"), graph.UUID, graph.String("u1")),
			graph.T(graph.Var("file"), graph.DataSource, graph.Var("uri")),
			graph.T(graph.Var("file"), graph.FileName, graph.Var("name")),
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []graph.Binding{{"file": physical, "name": graph.String("f1.pdf")}}
	if diff := cmp.Diff(want, bindings); diff != "" {
		t.Errorf("unexpected bindings (-want +got):\n%s", diff)
	}
}

func TestDeleteWhere(t *testing.T) {
	if err := store.Update(ctx, graph.NewUpdate(g).Insert(file("d1")...)); err != nil {
		t.Fatal(err)
	}

	s := graph.IRI("share://d1")
	err := store.Update(ctx, graph.NewUpdate(g).DeleteWhere(
		graph.T(s, graph.Type, graph.FileDataObject),
		graph.T(s, graph.UUID, graph.Var("id")),
		graph.T(s, graph.FileSize, graph.Var("size")),
	))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	bindings, _ := store.Query(ctx, selectByID("d1"))
	if len(bindings) != 0 {
		t.Errorf("record survived deletion: %v", bindings)
	}

	// A pattern that no longer matches deletes nothing and is not an error.
	err = store.Update(ctx, graph.NewUpdate(g).DeleteWhere(
		graph.T(s, graph.UUID, graph.Var("id")),
	))
	if err != nil {
		t.Errorf("unexpected error: %s", err)
	}
}

func TestDeleteWherePartialMatch(t *testing.T) {
	s := graph.IRI("share://p1")
	if err := store.Update(ctx, graph.NewUpdate(g).Insert(
		graph.T(s, graph.UUID, graph.String("p1")),
	)); err != nil {
		t.Fatal(err)
	}

	// The size triple is missing, so the whole pattern has no solution and nothing is removed.
	err := store.Update(ctx, graph.NewUpdate(g).DeleteWhere(
		graph.T(s, graph.UUID, graph.Var("id")),
		graph.T(s, graph.FileSize, graph.Var("size")),
	))
	if err != nil {
		t.Fatal(err)
	}
	bindings, _ := store.Query(ctx, &graph.Select{
		Graph: g,
		Vars:  []string{"id"},
		Where: []graph.Triple{graph.T(s, graph.UUID, graph.Var("id"))},
	})
	if len(bindings) != 1 {
		t.Errorf("expected the record to survive, got %v", bindings)
	}
}

func TestUpdateIsAtomic(t *testing.T) {
	err := store.Update(ctx, graph.NewUpdate(g).
		Insert(file("atomic")...).
		Insert(graph.T(graph.Var("bad"), graph.Type, graph.FileDataObject)))
	if !catalog.IsMalformed(err) {
		t.Fatalf("expected a malformed error, got %v", err)
	}

	bindings, err := store.Query(ctx, selectByID("atomic"))
	if err != nil {
		t.Fatal(err)
	}
	if len(bindings) != 0 {
		t.Errorf("first operation of a failed batch was applied: %v", bindings)
	}
}

func TestQueryLimitAndMultipleMatches(t *testing.T) {
	for _, id := range []string{"m1", "m2", "m3"} {
		s := graph.IRI("http://multi/" + id)
		if err := store.Update(ctx, graph.NewUpdate(g).Insert(
			graph.T(s, graph.Format, graph.String("text/multi")),
		)); err != nil {
			t.Fatal(err)
		}
	}

	q := &graph.Select{
		Graph: g,
		Vars:  []string{"s"},
		Where: []graph.Triple{graph.T(graph.Var("s"), graph.Format, graph.String("text/multi"))},
	}
	bindings, err := store.Query(ctx, q)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, b := range bindings {
		got = append(got, b["s"].Value)
	}
	sort.Strings(got)
	if diff := cmp.Diff([]string{"http://multi/m1", "http://multi/m2", "http://multi/m3"}, got); diff != "" {
		t.Errorf("unexpected matches (-want +got):\n%s", diff)
	}

	q.Limit = 2
	bindings, _ = store.Query(ctx, q)
	if len(bindings) != 2 {
		t.Errorf("expected 2 matches, got %d", len(bindings))
	}
}
