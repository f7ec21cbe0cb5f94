package procedure

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"net/url"
	"strings"
)

// Encoding selects how ":name" template placeholders are escaped.
type Encoding string

const (
	EncodingNone Encoding = "none"
	EncodingURL  Encoding = "url"
	EncodingJSON Encoding = "json"
	EncodingXML  Encoding = "xml"
	EncodingSQL  Encoding = "sql"
)

// Encode escapes s for the encoding. Unknown encodings return s unchanged.
func (e Encoding) Encode(s string) string {
	switch e {
	case EncodingURL:
		return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
	case EncodingJSON:
		bs, err := json.Marshal(s)
		if err != nil {
			return s
		}
		return string(bs[1 : len(bs)-1])
	case EncodingXML:
		var buf bytes.Buffer
		_ = xml.EscapeText(&buf, []byte(s))
		return buf.String()
	case EncodingSQL:
		return "'" + strings.ReplaceAll(s, "'", "''") + "'"
	default:
		return s
	}
}

// ProcessTemplate substitutes local argument bindings into tpl. For each
// argument, "@name" is replaced by the raw value and ":name" by the value
// escaped with enc. Replacement is plain text search in binding order.
func (b *Bindings) ProcessTemplate(tpl string, enc Encoding) string {
	for _, e := range b.local {
		if e.Type != TypeArgument {
			continue
		}
		s := e.String()
		tpl = strings.ReplaceAll(tpl, "@"+e.Name, s)
		tpl = strings.ReplaceAll(tpl, ":"+e.Name, enc.Encode(s))
	}
	return tpl
}
