package core

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// Params carries operation arguments into Protocol.BuildRequest.
type Params map[string]any

// Query is an insertion-ordered set of request parameters.
// Encode produces the same bytes every time for the same sequence of Set calls,
// which makes it safe to sign.
type Query struct {
	keys   []string
	values map[string]string
}

// NewQuery returns an empty Query.
func NewQuery() *Query {
	return &Query{values: make(map[string]string)}
}

// Set stores value under key. Re-setting an existing key keeps its position.
func (q *Query) Set(key string, value any) *Query {
	if q.values == nil {
		q.values = make(map[string]string)
	}
	if _, ok := q.values[key]; !ok {
		q.keys = append(q.keys, key)
	}
	q.values[key] = FormatValue(value)
	return q
}

// Get returns the string form of the value stored under key.
func (q *Query) Get(key string) (string, bool) {
	if q == nil {
		return "", false
	}
	v, ok := q.values[key]
	return v, ok
}

// Del removes key, if present.
func (q *Query) Del(key string) *Query {
	if _, ok := q.values[key]; !ok {
		return q
	}
	delete(q.values, key)
	for i, k := range q.keys {
		if k == key {
			q.keys = append(q.keys[:i], q.keys[i+1:]...)
			break
		}
	}
	return q
}

// Len returns the number of parameters.
func (q *Query) Len() int {
	if q == nil {
		return 0
	}
	return len(q.keys)
}

// Keys returns the parameter names in insertion order.
func (q *Query) Keys() []string {
	if q == nil {
		return nil
	}
	keys := make([]string, len(q.keys))
	copy(keys, q.keys)
	return keys
}

// Clone returns an independent copy of q.
func (q *Query) Clone() *Query {
	c := NewQuery()
	if q == nil {
		return c
	}
	for _, k := range q.keys {
		c.keys = append(c.keys, k)
		c.values[k] = q.values[k]
	}
	return c
}

// Map returns the parameters as a plain map. Ordering is lost.
func (q *Query) Map() map[string]string {
	m := make(map[string]string, q.Len())
	if q == nil {
		return m
	}
	for _, k := range q.keys {
		m[k] = q.values[k]
	}
	return m
}

// Encode returns the form-urlencoded representation of q in insertion order.
func (q *Query) Encode() string {
	if q.Len() == 0 {
		return ""
	}
	var sb strings.Builder
	for i, k := range q.keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(k))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(q.values[k]))
	}
	return sb.String()
}

// FormatValue renders a parameter value the way the exchange expects it.
// Decimals are always written in plain notation, never with an exponent.
func FormatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case *apd.Decimal:
		return val.Text('f')
	case apd.Decimal:
		return val.Text('f')
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}

// Request is an exchange-agnostic description of one HTTP call.
type Request struct {
	Method      string            `json:"method"`
	Path        string            `json:"path"`
	Query       *Query            `json:"-"`
	Form        *Query            `json:"-"`
	Headers     map[string]string `json:"headers,omitempty"`
	RequireAuth bool              `json:"require_auth"`
}

func NewRequest(method, path string) *Request {
	return &Request{
		Method:  method,
		Path:    path,
		Query:   NewQuery(),
		Headers: make(map[string]string),
	}
}

func (r *Request) SetQuery(key string, value any) *Request {
	if r.Query == nil {
		r.Query = NewQuery()
	}
	r.Query.Set(key, value)
	return r
}

func (r *Request) SetForm(key string, value any) *Request {
	if r.Form == nil {
		r.Form = NewQuery()
	}
	r.Form.Set(key, value)
	return r
}

func (r *Request) SetHeader(key, value string) *Request {
	if r.Headers == nil {
		r.Headers = make(map[string]string)
	}
	r.Headers[key] = value
	return r
}

func (r *Request) SetRequireAuth(require bool) *Request {
	r.RequireAuth = require
	return r
}

// URL returns the path with the encoded query appended.
func (r *Request) URL() string {
	if q := r.Query.Encode(); q != "" {
		return r.Path + "?" + q
	}
	return r.Path
}
