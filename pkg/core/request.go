package core

import (
	"fmt"
	"maps"
	"strconv"
)

// Params holds request parameters before they are rendered to strings.
type Params map[string]any

// Strings renders every value to its wire form.
func (p Params) Strings() map[string]string {
	result := make(map[string]string, len(p))
	for k, v := range p {
		switch val := v.(type) {
		case string:
			result[k] = val
		case int:
			result[k] = strconv.Itoa(val)
		case int64:
			result[k] = strconv.FormatInt(val, 10)
		case float64:
			result[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			// The v1 API expects True/False.
			if val {
				result[k] = "True"
			} else {
				result[k] = "False"
			}
		case fmt.Stringer:
			result[k] = val.String()
		default:
			result[k] = fmt.Sprintf("%v", val)
		}
	}
	return result
}

// Request describes one outbound call before it is handed to the transport.
type Request struct {
	Operation Operation `json:"operation"`
	Method    string    `json:"method"`
	Path      string    `json:"path"`
	Query     Params    `json:"query,omitempty"`
	Form      Params    `json:"form,omitempty"`
}

// NewRequest creates a request for the given endpoint.
func NewRequest(op Operation, method, path string) *Request {
	return &Request{
		Operation: op,
		Method:    method,
		Path:      path,
		Query:     make(Params),
		Form:      make(Params),
	}
}

func (r *Request) SetQuery(key string, value any) *Request {
	if r.Query == nil {
		r.Query = make(Params)
	}
	r.Query[key] = value
	return r
}

func (r *Request) SetQueryParams(params Params) *Request {
	if r.Query == nil {
		r.Query = make(Params)
	}
	maps.Copy(r.Query, params)
	return r
}

func (r *Request) SetForm(key string, value any) *Request {
	if r.Form == nil {
		r.Form = make(Params)
	}
	r.Form[key] = value
	return r
}

// SetFormParams merges params into the form body. Existing keys are overwritten.
func (r *Request) SetFormParams(params Params) *Request {
	if r.Form == nil {
		r.Form = make(Params)
	}
	maps.Copy(r.Form, params)
	return r
}
