// Package sparql talks to a SPARQL 1.1 endpoint over the SPARQL protocol.
package sparql

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/filecat/internal/catalog"
	"github.com/sidereusnuntius/filecat/internal/graph"
)

const resultsJSON = "application/sparql-results+json"

type muHeadersKey struct{}

type muHeaders struct {
	session, call string
}

// WithMuHeaders records the session and call ids of the inbound request, which the client forwards to
// the endpoint so that authorization layers in front of it can scope the query.
func WithMuHeaders(ctx context.Context, sessionID, callID string) context.Context {
	return context.WithValue(ctx, muHeadersKey{}, muHeaders{session: sessionID, call: callID})
}

type Client struct {
	client   *http.Client
	endpoint string
}

func New(client *http.Client, endpoint string) *Client {
	return &Client{
		client:   client,
		endpoint: endpoint,
	}
}

func (c *Client) Update(ctx context.Context, u *graph.Update) error {
	text, err := u.SPARQL()
	if err != nil {
		return catalog.NewError(catalog.Malformed, "update", err)
	}
	log.Debug().Str("update", text).Msg("sending update")

	res, err := c.post(ctx, "update", text, "*/*")
	if err != nil {
		return err
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)
	return nil
}

type result struct {
	Results struct {
		Bindings []map[string]struct {
			Type     string `json:"type"`
			Value    string `json:"value"`
			Datatype string `json:"datatype"`
		} `json:"bindings"`
	} `json:"results"`
}

func (c *Client) Query(ctx context.Context, q *graph.Select) ([]graph.Binding, error) {
	text, err := q.SPARQL()
	if err != nil {
		return nil, catalog.NewError(catalog.Malformed, "query", err)
	}
	log.Debug().Str("query", text).Msg("sending query")

	res, err := c.post(ctx, "query", text, resultsJSON)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var r result
	if err = json.NewDecoder(res.Body).Decode(&r); err != nil {
		log.Error().Err(err).Msg("response body unmarshaling error")
		return nil, catalog.NewError(catalog.Transient, "query", err)
	}

	bindings := make([]graph.Binding, 0, len(r.Results.Bindings))
	for _, row := range r.Results.Bindings {
		b := make(graph.Binding, len(row))
		for name, v := range row {
			switch v.Type {
			case "uri":
				b[name] = graph.IRI(v.Value)
			case "literal", "typed-literal":
				b[name] = graph.Term{Kind: graph.KindLiteral, Value: v.Value, Datatype: v.Datatype}
			default:
				// Blank nodes never identify file records.
				continue
			}
		}
		bindings = append(bindings, b)
	}
	return bindings, nil
}

func (c *Client) post(ctx context.Context, field, text, accept string) (*http.Response, error) {
	form := url.Values{field: {text}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, catalog.NewError(catalog.Malformed, field, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", accept)
	if h, ok := ctx.Value(muHeadersKey{}).(muHeaders); ok {
		if h.session != "" {
			req.Header.Set("mu-session-id", h.session)
		}
		if h.call != "" {
			req.Header.Set("mu-call-id", h.call)
		}
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, catalog.NewError(catalog.Transient, field, err)
	}

	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return res, nil
	}

	body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
	res.Body.Close()
	err = fmt.Errorf("endpoint returned %s: %s", res.Status, strings.TrimSpace(string(body)))
	log.Warn().Int("status", res.StatusCode).Str("op", field).Msg("catalog request failed")

	switch {
	case res.StatusCode >= 500, res.StatusCode == http.StatusRequestTimeout, res.StatusCode == http.StatusTooManyRequests:
		return nil, catalog.NewError(catalog.Transient, field, err)
	default:
		return nil, catalog.NewError(catalog.Malformed, field, err)
	}
}
