package httppool

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jsamuelsen11/rapidcontext/internal/domain/procedure"
)

// maxErrorBodySize limits how much of an error response body we read.
const maxErrorBodySize = 1 << 20 // 1 MB

// problemDetail represents an RFC 7807 Problem Details response.
type problemDetail struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// StatusError is the cause of a translated HTTP error response.
type StatusError struct {
	Status int
	Detail string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Detail)
}

// TranslateHTTPError maps an HTTP error response to a procedure error. A
// 404 becomes procedure.ErrNotFound, a 503 procedure.ErrReservation and
// everything else procedure.ErrExecution. The message uses the RFC 7807
// detail when the body is application/problem+json, otherwise a short
// excerpt of the body.
func TranslateHTTPError(resp *http.Response) error {
	detail := readDetail(resp)
	if detail == "" {
		detail = http.StatusText(resp.StatusCode)
	}
	cause := &StatusError{Status: resp.StatusCode, Detail: detail}

	kind := procedure.ErrExecution
	switch resp.StatusCode {
	case http.StatusNotFound:
		kind = procedure.ErrNotFound
	case http.StatusServiceUnavailable:
		kind = procedure.ErrReservation
	}
	msg := "request failed"
	if resp.Request != nil {
		msg = fmt.Sprintf("%s %s failed", resp.Request.Method, resp.Request.URL.Path)
	}
	return &procedure.Error{Kind: kind, Msg: msg, Err: cause}
}

// readDetail extracts a human readable error detail from the body.
func readDetail(resp *http.Response) string {
	if resp.Body == nil {
		return ""
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if err != nil {
		return ""
	}

	ct := resp.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/problem+json") {
		var pd problemDetail
		if err := json.Unmarshal(body, &pd); err == nil {
			if pd.Detail != "" {
				return pd.Detail
			}
			return pd.Title
		}
	}

	text := strings.TrimSpace(string(body))
	const maxExcerpt = 200
	if len(text) > maxExcerpt {
		text = text[:maxExcerpt] + "..."
	}
	return text
}
