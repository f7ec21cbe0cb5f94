// Package httpproc implements procedures that send one HTTP request through
// an httppool connection.
//
// Data bindings:
//
//	url      request URL template, relative to the pool base URL
//	method   HTTP method (default GET)
//	headers  request header template, one "Name: value" per line
//	data     request body template
//	flags    space separated options: "json" decodes the response as JSON,
//	         "jsondata" sends data as JSON, "status" returns status,
//	         headers and body instead of the body alone
//
// The connection binding named "connection" selects the pool. Arguments
// are substituted into url with URL encoding, into headers verbatim and
// into data with URL or JSON encoding.
package httpproc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/jsamuelsen11/rapidcontext/internal/adapters/pool/httppool"
	"github.com/jsamuelsen11/rapidcontext/internal/domain/procedure"
)

// Type is the procedure type name.
const Type = "http"

// Binding names.
const (
	BindingConnection = "connection"
	BindingURL        = "url"
	BindingMethod     = "method"
	BindingHeaders    = "headers"
	BindingData       = "data"
	BindingFlags      = "flags"
)

// Procedure is an HTTP request procedure.
type Procedure struct {
	procedure.Base
}

// New builds a procedure from its stored definition. It implements
// library.Factory.
func New(def *procedure.Definition) (procedure.Procedure, error) {
	base, err := procedure.BaseFromDefinition(def)
	if err != nil {
		return nil, err
	}
	b := base.Bindings()
	if typ, err := b.Type(BindingURL); err != nil || typ != procedure.TypeData {
		return nil, procedure.Errorf(procedure.ErrBinding, "missing %q data binding", BindingURL)
	}
	if typ, err := b.Type(BindingConnection); err != nil || typ != procedure.TypeConnection {
		return nil, procedure.Errorf(procedure.ErrBinding, "missing %q connection binding", BindingConnection)
	}
	return &Procedure{Base: base}, nil
}

// Call implements procedure.Procedure.
func (p *Procedure) Call(cx procedure.CallContext, args *procedure.Bindings) (any, error) {
	conn, ok := args.ValueOr(BindingConnection, nil).(*httppool.Conn)
	if !ok {
		return nil, procedure.Errorf(procedure.ErrReservation, "no HTTP connection bound to %q", BindingConnection)
	}
	flags := parseFlags(args.StringOr(BindingFlags, ""))

	req := &httppool.Request{
		Method:  strings.ToUpper(strings.TrimSpace(args.StringOr(BindingMethod, http.MethodGet))),
		URL:     strings.TrimSpace(args.ProcessTemplate(args.StringOr(BindingURL, ""), procedure.EncodingURL)),
		Headers: parseHeaders(args.ProcessTemplate(args.StringOr(BindingHeaders, ""), procedure.EncodingNone)),
	}
	if data := args.StringOr(BindingData, ""); data != "" {
		enc := procedure.EncodingURL
		if flags["jsondata"] {
			enc = procedure.EncodingJSON
			setDefault(req.Headers, "Content-Type", "application/json")
		} else {
			setDefault(req.Headers, "Content-Type", "application/x-www-form-urlencoded")
		}
		req.Body = []byte(strings.TrimSpace(args.ProcessTemplate(data, enc)))
	}

	if cx.IsTracing() {
		cx.Log(fmt.Sprintf("HTTP %s %s", req.Method, req.URL))
	}
	resp, err := conn.Do(cx, req)
	if err != nil {
		return nil, err
	}
	if cx.IsTracing() {
		cx.Log(fmt.Sprintf("HTTP %d, %d bytes", resp.Status, len(resp.Body)))
	}

	body, err := decodeBody(resp, flags["json"])
	if err != nil {
		return nil, err
	}
	if flags["status"] {
		headers := make(map[string]string, len(resp.Headers))
		for k := range resp.Headers {
			headers[k] = resp.Headers.Get(k)
		}
		return map[string]any{"status": resp.Status, "headers": headers, "body": body}, nil
	}
	return body, nil
}

// decodeBody returns the response body as text, or as a decoded JSON value
// when asJSON is set or the response declares a JSON media type.
func decodeBody(resp *httppool.Response, asJSON bool) (any, error) {
	if !asJSON {
		mt, _, _ := mime.ParseMediaType(resp.Headers.Get("Content-Type"))
		asJSON = mt == "application/json" || strings.HasSuffix(mt, "+json")
	}
	if !asJSON {
		return string(resp.Body), nil
	}
	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(resp.Body, &v); err != nil {
		return nil, &procedure.Error{Kind: procedure.ErrExecution, Msg: "invalid JSON response", Err: err}
	}
	return v, nil
}

func parseFlags(s string) map[string]bool {
	flags := make(map[string]bool)
	for _, f := range strings.Fields(strings.ToLower(s)) {
		flags[f] = true
	}
	return flags
}

// parseHeaders reads one "Name: value" header per line. Lines without a
// colon are ignored.
func parseHeaders(s string) map[string]string {
	headers := make(map[string]string)
	for line := range strings.Lines(s) {
		name, value, ok := strings.Cut(line, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			continue
		}
		headers[http.CanonicalHeaderKey(name)] = strings.TrimSpace(value)
	}
	return headers
}

func setDefault(headers map[string]string, name, value string) {
	if _, ok := headers[name]; !ok {
		headers[name] = value
	}
}
