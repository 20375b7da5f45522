package crossref

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Reserved query parameter keys that use the colon/comma encoding.
const (
	paramFilter = "filter"
	paramFacet  = "facet"
)

// EncodeParams converts a generic parameter mapping into url.Values.
//
// Values under the reserved keys "filter" and "facet" that are themselves
// mappings are flattened into the API's flat form: each (name, value) pair
// becomes "name:value", multi-valued entries emit one pair per element,
// booleans render as "true"/"false", and the pairs are joined with commas.
// Mapping keys are encoded in sorted order so the result is deterministic.
//
// Any other value under those keys (for example a pre-encoded string) and
// every other key are passed through unchanged.
func EncodeParams(params map[string]interface{}) url.Values {
	values := url.Values{}

	for key, value := range params {
		if (key == paramFilter || key == paramFacet) && isStringMap(value) {
			values.Set(key, encodeNamedPairs(toStringMap(value)))

			continue
		}

		switch v := value.(type) {
		case []string:
			for _, item := range v {
				values.Add(key, item)
			}
		case []interface{}:
			for _, item := range v {
				values.Add(key, stringifyValue(item))
			}
		default:
			values.Set(key, stringifyValue(value))
		}
	}

	return values
}

// encodeNamedPairs flattens a filter/facet mapping into "a:1,b:true,b:false".
func encodeNamedPairs(pairs map[string]interface{}) string {
	names := make([]string, 0, len(pairs))
	for name := range pairs {
		names = append(names, name)
	}

	sort.Strings(names)

	parts := make([]string, 0, len(pairs))

	for _, name := range names {
		for _, element := range normalizeToSlice(pairs[name]) {
			parts = append(parts, name+":"+stringifyValue(element))
		}
	}

	return strings.Join(parts, ",")
}

// normalizeToSlice wraps scalar values as a single-element slice.
func normalizeToSlice(value interface{}) []interface{} {
	switch v := value.(type) {
	case []interface{}:
		return v
	case []string:
		out := make([]interface{}, len(v))
		for i, s := range v {
			out[i] = s
		}

		return out
	case []bool:
		out := make([]interface{}, len(v))
		for i, b := range v {
			out[i] = b
		}

		return out
	case []int:
		out := make([]interface{}, len(v))
		for i, n := range v {
			out[i] = n
		}

		return out
	default:
		return []interface{}{value}
	}
}

// stringifyValue renders a scalar the way the API expects it.
func stringifyValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		// JSON numbers decode as float64; keep integral values unadorned.
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}

		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func isStringMap(value interface{}) bool {
	if value == nil {
		return false
	}

	kind := reflect.TypeOf(value).Kind()
	if kind != reflect.Map {
		return false
	}

	return reflect.TypeOf(value).Key().Kind() == reflect.String
}

func toStringMap(value interface{}) map[string]interface{} {
	if m, ok := value.(map[string]interface{}); ok {
		return m
	}

	out := make(map[string]interface{})

	rv := reflect.ValueOf(value)
	for _, key := range rv.MapKeys() {
		out[key.String()] = rv.MapIndex(key).Interface()
	}

	return out
}

// namedValues is an insertion-ordered multimap used for filters and facets,
// where all pairs collapse into a single comma-joined query value.
type namedValues struct {
	names  []string
	values map[string][]string
}

func (n *namedValues) add(name string, values ...string) {
	if n.values == nil {
		n.values = make(map[string][]string)
	}

	if _, seen := n.values[name]; !seen {
		n.names = append(n.names, name)
	}

	n.values[name] = append(n.values[name], values...)
}

func (n *namedValues) encode() string {
	parts := make([]string, 0, len(n.names))

	for _, name := range n.names {
		for _, value := range n.values[name] {
			parts = append(parts, name+":"+value)
		}
	}

	return strings.Join(parts, ",")
}

func (n *namedValues) empty() bool {
	return n == nil || len(n.names) == 0
}

// QueryParams represents common query options for list endpoints.
type QueryParams struct {
	Query   string
	Rows    int
	Offset  int
	Sample  int
	Sort    string
	Order   string
	Cursor  string
	Mailto  string
	Select  []string
	filters *namedValues
	facets  *namedValues
}

// NewQueryParams creates an empty QueryParams.
func NewQueryParams() *QueryParams {
	return &QueryParams{}
}

// WithQuery sets the free-text query.
func (q *QueryParams) WithQuery(query string) *QueryParams {
	q.Query = query

	return q
}

// WithRows sets the page size.
func (q *QueryParams) WithRows(rows int) *QueryParams {
	q.Rows = rows

	return q
}

// WithOffset sets the result offset.
func (q *QueryParams) WithOffset(offset int) *QueryParams {
	q.Offset = offset

	return q
}

// WithSample requests a random sample of the given size.
func (q *QueryParams) WithSample(size int) *QueryParams {
	q.Sample = size

	return q
}

// WithSort sets the sort field.
func (q *QueryParams) WithSort(field string) *QueryParams {
	q.Sort = field

	return q
}

// WithOrder sets the sort direction ("asc" or "desc").
func (q *QueryParams) WithOrder(order string) *QueryParams {
	q.Order = order

	return q
}

// WithCursor sets the deep-paging cursor. Use "*" to start a cursor walk.
func (q *QueryParams) WithCursor(cursor string) *QueryParams {
	q.Cursor = cursor

	return q
}

// WithMailto sets the polite-pool contact address.
func (q *QueryParams) WithMailto(mailto string) *QueryParams {
	q.Mailto = mailto

	return q
}

// WithSelect limits the returned fields.
func (q *QueryParams) WithSelect(fields ...string) *QueryParams {
	q.Select = append(q.Select, fields...)

	return q
}

// WithFilter appends values for a filter name. Filters encode in the order
// they were first added.
func (q *QueryParams) WithFilter(name string, values ...string) *QueryParams {
	if q.filters == nil {
		q.filters = &namedValues{}
	}

	q.filters.add(name, values...)

	return q
}

// WithFacet appends a facet request such as ("type-name", "*") or
// ("license", "20").
func (q *QueryParams) WithFacet(name string, values ...string) *QueryParams {
	if q.facets == nil {
		q.facets = &namedValues{}
	}

	q.facets.add(name, values...)

	return q
}

// ToValues converts the parameters to url.Values.
func (q *QueryParams) ToValues() url.Values {
	values := url.Values{}

	if q == nil {
		return values
	}

	if q.Query != "" {
		values.Set("query", q.Query)
	}

	if q.Rows > 0 {
		values.Set("rows", strconv.Itoa(q.Rows))
	}

	if q.Offset > 0 {
		values.Set("offset", strconv.Itoa(q.Offset))
	}

	if q.Sample > 0 {
		values.Set("sample", strconv.Itoa(q.Sample))
	}

	if q.Sort != "" {
		values.Set("sort", q.Sort)
	}

	if q.Order != "" {
		values.Set("order", q.Order)
	}

	if q.Cursor != "" {
		values.Set("cursor", q.Cursor)
	}

	if q.Mailto != "" {
		values.Set("mailto", q.Mailto)
	}

	if len(q.Select) > 0 {
		values.Set("select", strings.Join(q.Select, ","))
	}

	if !q.filters.empty() {
		values.Set(paramFilter, q.filters.encode())
	}

	if !q.facets.empty() {
		values.Set(paramFacet, q.facets.encode())
	}

	return values
}
