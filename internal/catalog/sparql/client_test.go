package sparql

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sidereusnuntius/filecat/internal/catalog"
	"github.com/sidereusnuntius/filecat/internal/graph"
)

var ctx = context.Background()

const g = "http://mu.semte.ch/application"

func TestQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Error(err)
		}
		if q := r.PostForm.Get("query"); !strings.HasPrefix(q, "SELECT ?uri ?size") {
			t.Errorf("unexpected query %q", q)
		}
		if r.Header.Get("mu-session-id") != "session" || r.Header.Get("mu-call-id") != "call" {
			t.Error("mu headers were not forwarded")
		}
		w.Header().Set("Content-Type", resultsJSON)
		w.Write([]byte(`{"head":{"vars":["uri","size"]},"results":{"bindings":[
			{"uri":{"type":"uri","value":"share://a.pdf"},
			 "size":{"type":"typed-literal","value":"3","datatype":"http://www.w3.org/2001/XMLSchema#integer"}}
		]}}`))
	}))
	defer server.Close()

	c := New(server.Client(), server.URL)
	bindings, err := c.Query(WithMuHeaders(ctx, "session", "call"), &graph.Select{
		Graph: g,
		Vars:  []string{"uri", "size"},
		Where: []graph.Triple{graph.T(graph.Var("uri"), graph.FileSize, graph.Var("size"))},
	})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	want := []graph.Binding{{
		"uri":  graph.IRI("share://a.pdf"),
		"size": graph.Integer(3),
	}}
	if diff := cmp.Diff(want, bindings); diff != "" {
		t.Errorf("unexpected bindings (-want +got):\n%s", diff)
	}
}

func TestQueryEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"head":{"vars":["uri"]},"results":{"bindings":[]}}`))
	}))
	defer server.Close()

	bindings, err := New(server.Client(), server.URL).Query(ctx, &graph.Select{
		Graph: g,
		Vars:  []string{"uri"},
		Where: []graph.Triple{graph.T(graph.Var("uri"), graph.UUID, graph.String("x"))},
	})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(bindings) != 0 {
		t.Errorf("expected no bindings, got %v", bindings)
	}
}

func TestUpdateErrors(t *testing.T) {
	cases := []struct {
		name      string
		status    int
		malformed bool
		transient bool
	}{
		{"ok", http.StatusNoContent, false, false},
		{"bad request", http.StatusBadRequest, true, false},
		{"forbidden", http.StatusForbidden, true, false},
		{"server error", http.StatusInternalServerError, false, true},
		{"unavailable", http.StatusServiceUnavailable, false, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				r.ParseForm()
				if !strings.HasPrefix(r.PostForm.Get("update"), "INSERT DATA") {
					t.Errorf("unexpected update %q", r.PostForm.Get("update"))
				}
				w.WriteHeader(c.status)
			}))
			defer server.Close()

			s := graph.IRI("http://example.com/1")
			err := New(server.Client(), server.URL).Update(ctx,
				graph.NewUpdate(g).Insert(graph.T(s, graph.Type, graph.FileDataObject)))

			if catalog.IsMalformed(err) != c.malformed || catalog.IsTransient(err) != c.transient {
				t.Errorf("unexpected classification of %v", err)
			}
			if !c.malformed && !c.transient && err != nil {
				t.Errorf("unexpected error: %s", err)
			}
		})
	}
}

func TestUnreachableEndpointIsTransient(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := New(http.DefaultClient, url).Query(ctx, &graph.Select{
		Graph: g,
		Vars:  []string{"uri"},
		Where: []graph.Triple{graph.T(graph.Var("uri"), graph.Type, graph.FileDataObject)},
	})
	if !catalog.IsTransient(err) {
		t.Errorf("expected a transient error, got %v", err)
	}
}

func TestRenderErrorIsMalformed(t *testing.T) {
	err := New(http.DefaultClient, "http://unused").Update(ctx,
		graph.NewUpdate(g).Insert(graph.T(graph.IRI("bad iri"), graph.Type, graph.FileDataObject)))
	if !catalog.IsMalformed(err) {
		t.Errorf("expected a malformed error, got %v", err)
	}
}
