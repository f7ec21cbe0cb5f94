package dto

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/jsamuelsen11/rapidcontext/internal/domain/procedure"
)

// Form field names used by the procedure call endpoint.
const (
	FormArgPrefix = "arg"
	FormTrace     = "system:trace"
)

// maxArgs bounds the number of positional arguments in one call.
const maxArgs = 256

// CallRequest represents the arguments of a procedure call, sent either as a
// JSON body or as form fields.
type CallRequest struct {
	Args  []any `json:"args"`
	Trace bool  `json:"trace,omitempty"`
}

// Validate checks the argument count. Returns an error wrapping
// procedure.ErrArgument if the request is too large.
func (r *CallRequest) Validate() error {
	if len(r.Args) > maxArgs {
		return procedure.Errorf(procedure.ErrArgument,
			"too many arguments: %d (max %d)", len(r.Args), maxArgs)
	}
	return nil
}

// CallRequestFromForm builds a CallRequest from form fields arg0, arg1, ...
// up to the first missing index. Values that parse as JSON are decoded;
// anything else is passed on as a string.
func CallRequestFromForm(form url.Values) (*CallRequest, error) {
	req := &CallRequest{Args: []any{}}
	for i := 0; ; i++ {
		vals, ok := form[FormArgPrefix+strconv.Itoa(i)]
		if !ok {
			break
		}
		if i >= maxArgs {
			return nil, procedure.Errorf(procedure.ErrArgument,
				"too many arguments (max %d)", maxArgs)
		}
		var v string
		if len(vals) > 0 {
			v = vals[0]
		}
		req.Args = append(req.Args, decodeFormValue(v))
	}
	if t := form.Get(FormTrace); t != "" {
		on, err := strconv.ParseBool(t)
		if err != nil {
			return nil, procedure.Errorf(procedure.ErrArgument,
				"invalid %s value %q", FormTrace, t)
		}
		req.Trace = on
	}
	return req, nil
}

// decodeFormValue returns the JSON value of s, or s itself when it is not
// valid JSON.
func decodeFormValue(s string) any {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return s
	}
	var v any
	if err := json.Unmarshal([]byte(trimmed), &v); err != nil {
		return s
	}
	return v
}
