package testkit

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Request describes one call made through Do.
type Request struct {
	Method string
	Path   string
	Token  string // sent as "Authorization: Bearer <Token>" when set
	Body   any    // JSON-encoded unless it is already an io.Reader
	// ContentType overrides the default application/json.
	ContentType string
}

// Response is a recorded reply with the decoded envelope.
type Response struct {
	Code   int         `json:"-"`
	Header http.Header `json:"-"`
	Raw    []byte      `json:"-"`

	Status  int               `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

// Do serves req through h and decodes the envelope when the body is JSON.
func Do(t testing.TB, h http.Handler, req Request) *Response {
	t.Helper()

	var body io.Reader
	switch b := req.Body.(type) {
	case nil:
	case io.Reader:
		body = b
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err, "testkit: encode body")
		body = bytes.NewReader(data)
	}

	r := httptest.NewRequest(req.Method, req.Path, body)
	switch {
	case req.ContentType != "":
		r.Header.Set("Content-Type", req.ContentType)
	case body != nil:
		r.Header.Set("Content-Type", "application/json")
	}
	if req.Token != "" {
		r.Header.Set("Authorization", "Bearer "+req.Token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	resp := &Response{Code: rec.Code, Header: rec.Header(), Raw: rec.Body.Bytes()}
	if json.Valid(resp.Raw) {
		_ = json.Unmarshal(resp.Raw, resp)
	}
	return resp
}

// Decode unmarshals the envelope's data into dest.
func (r *Response) Decode(t testing.TB, dest any) {
	t.Helper()
	require.NotEmpty(t, r.Data, "testkit: response has no data\nbody: %s", r.Raw)
	require.NoError(t, json.Unmarshal(r.Data, dest), "testkit: decode data\nbody: %s", r.Raw)
}

// AssertStatus checks the HTTP code and that the envelope repeats it.
func (r *Response) AssertStatus(t testing.TB, want int) bool {
	t.Helper()
	ok := assert.Equal(t, want, r.Code, "unexpected HTTP status\nbody: %s", r.Raw)
	if len(r.Raw) > 0 && json.Valid(r.Raw) {
		ok = assert.Equal(t, want, r.Status, "envelope status disagrees with HTTP status") && ok
	}
	return ok
}

// AssertJSONEqual compares two JSON documents ignoring key order and spacing.
func AssertJSONEqual(t testing.TB, expected, actual []byte) bool {
	t.Helper()

	var exp, act any
	require.NoError(t, json.Unmarshal(expected, &exp), "expected value is not valid JSON")
	if !assert.NoError(t, json.Unmarshal(actual, &act), "actual value is not valid JSON\nbody: %s", actual) {
		return false
	}
	return assert.Equal(t, exp, act)
}
