package supabase

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

const restPrefix = "/rest/v1/"

// query is a small PostgREST request builder covering equality filters,
// IN filters, column selection and ordering.
type query struct {
	c      *Client
	table  string
	params url.Values
}

func (c *Client) from(table string) *query {
	return &query{c: c, table: table, params: url.Values{}}
}

func (q *query) sel(cols string) *query {
	q.params.Set("select", cols)
	return q
}

func (q *query) eq(col, val string) *query {
	q.params.Add(col, "eq."+val)
	return q
}

func (q *query) in(col string, vals []string) *query {
	quoted := make([]string, len(vals))
	for i, v := range vals {
		quoted[i] = `"` + strings.ReplaceAll(v, `"`, `\"`) + `"`
	}
	q.params.Add(col, "in.("+strings.Join(quoted, ",")+")")
	return q
}

func (q *query) orderDesc(col string) *query {
	q.params.Set("order", col+".desc")
	return q
}

func (q *query) path() string { return restPrefix + q.table }

func (q *query) get(ctx context.Context, out any) error {
	return q.c.do(ctx, request{method: http.MethodGet, path: q.path(), query: q.params}, out)
}

func (q *query) insert(ctx context.Context, row, out any) error {
	return q.c.do(ctx, request{
		method:   http.MethodPost,
		path:     q.path(),
		query:    q.params,
		jsonBody: row,
		headers:  map[string]string{"Prefer": "return=representation"},
	}, out)
}

func (q *query) update(ctx context.Context, patch, out any) error {
	return q.c.do(ctx, request{
		method:   http.MethodPatch,
		path:     q.path(),
		query:    q.params,
		jsonBody: patch,
		headers:  map[string]string{"Prefer": "return=representation"},
	}, out)
}

func (q *query) delete(ctx context.Context, out any) error {
	r := request{method: http.MethodDelete, path: q.path(), query: q.params}
	if out != nil {
		r.headers = map[string]string{"Prefer": "return=representation"}
	}
	return q.c.do(ctx, r, out)
}
