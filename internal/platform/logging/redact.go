package logging

import (
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"github.com/m-mizutani/masq"
)

// sensitiveHeaders are HTTP headers carrying credentials, lower case.
var sensitiveHeaders = []string{
	"authorization",
	"proxy-authorization",
	"cookie",
	"x-api-key",
}

// sensitiveFields are attribute keys redacted wherever they appear. The
// binding names of connection pools (password, dsn) are included since
// pool configuration is logged at startup.
var sensitiveFields = []string{"password", "secret", "token", "dsn"}

var (
	bearerPattern = regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9\-._~+/]+=*`)
	// Three base64url segments of at least 10 characters, so version
	// strings and dotted procedure names do not match.
	jwtPattern    = regexp.MustCompile(`[a-zA-Z0-9\-_]{10,}\.[a-zA-Z0-9\-_]{10,}\.[a-zA-Z0-9\-_]{10,}`)
	apiKeyPattern = regexp.MustCompile(`(?i)(api[_\-]?key|apikey)\s*[:=]\s*\S+`)
	// URL userinfo ("postgres://user:pw@host") or key/value ("password=pw").
	dsnPattern = regexp.MustCompile(`(?i)(://[^:/@\s]+:[^@\s]+@|password\s*=\s*[^;\s&]+)`)
)

// IsSensitiveHeader reports whether the HTTP header name carries
// credentials.
func IsSensitiveHeader(name string) bool {
	return slices.Contains(sensitiveHeaders, strings.ToLower(name))
}

// redactor returns the ReplaceAttr hook masking sensitive keys and values.
func redactor() func([]string, slog.Attr) slog.Attr {
	opts := make([]masq.Option, 0, len(sensitiveHeaders)+len(sensitiveFields)+6)
	for _, name := range slices.Concat(sensitiveHeaders, sensitiveFields) {
		opts = append(opts, masq.WithFieldName(name))
	}
	opts = append(opts,
		masq.WithFieldPrefix("secret_"),
		masq.WithFieldPrefix("api_key"),
		masq.WithRegex(bearerPattern),
		masq.WithRegex(jwtPattern),
		masq.WithRegex(apiKeyPattern),
		masq.WithRegex(dsnPattern),
	)
	return masq.New(opts...)
}
