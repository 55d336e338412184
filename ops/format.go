package ops

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Format controls the response rendering format.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

func normalizeFormat(f Format) Format {
	if f != FormatText && f != FormatJSON {
		return FormatText
	}
	return f
}

func formatFromRequest(r *http.Request, def Format) Format {
	if r == nil || r.URL == nil {
		return def
	}
	switch r.URL.Query().Get("format") {
	case "json":
		return FormatJSON
	case "text":
		return FormatText
	default:
		return def
	}
}

// reply is implemented by every response body. text renders the success
// shape; failures are rendered from errMsg.
type reply interface {
	ok() bool
	errMsg() string
	text() string
}

type baseReply struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func (b baseReply) ok() bool       { return b.OK }
func (b baseReply) errMsg() string { return b.Error }

func failed(msg string) baseReply { return baseReply{OK: false, Error: msg} }

// write renders resp with status code. Bodies are omitted for HEAD.
func write(w http.ResponseWriter, r *http.Request, f Format, code int, resp reply) {
	w.Header().Set("Cache-Control", "no-store")
	head := r.Method == http.MethodHead
	switch f {
	case FormatJSON:
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(code)
		if head {
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	default:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(code)
		if head {
			return
		}
		if !resp.ok() {
			msg := resp.errMsg()
			if msg == "" {
				msg = "error"
			}
			_, _ = w.Write([]byte(msg + "\n"))
			return
		}
		_, _ = w.Write([]byte(resp.text()))
	}
}

func allowRead(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set("Allow", "GET, HEAD")
	return false
}

func allowWrite(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodPost {
		return true
	}
	w.Header().Set("Allow", "POST")
	return false
}

// queryValue returns the first value of name, distinguishing "absent" from "empty".
func queryValue(r *http.Request, name string) (string, bool) {
	if r == nil || r.URL == nil {
		return "", false
	}
	vs, ok := r.URL.Query()[name]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// lineWriter emits "<section>\t<key>\t<field>\t<value>\n" lines.
type lineWriter struct {
	b       strings.Builder
	section string
}

func (lw *lineWriter) line(key, field, value string) {
	lw.b.WriteString(lw.section)
	lw.b.WriteByte('\t')
	if key != "" {
		lw.b.WriteString(key)
		lw.b.WriteByte('\t')
	}
	lw.b.WriteString(field)
	lw.b.WriteByte('\t')
	lw.b.WriteString(escapeTextField(value))
	lw.b.WriteByte('\n')
}

func (lw *lineWriter) String() string { return lw.b.String() }

// escapeTextField escapes control characters so a value cannot break the
// line/tab structure of text outputs.
func escapeTextField(s string) string {
	need := false
	for i := 0; i < len(s); i++ {
		if c := s[i]; c == '\\' || c < 0x20 {
			need = true
			break
		}
	}
	if !need {
		return s
	}
	const hex = "0123456789abcdef"
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			b.WriteString(`\\`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\n':
			b.WriteString(`\n`)
		default:
			if c < 0x20 {
				b.WriteString(`\u00`)
				b.WriteByte(hex[c>>4])
				b.WriteByte(hex[c&0x0f])
			} else {
				b.WriteByte(c)
			}
		}
	}
	return b.String()
}
