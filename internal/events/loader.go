// Package events loads the events document served by the web interface.
//
// The document is opaque: it is read from disk on every call, decoded to
// UTF-8 text, parsed as a single JSON value and handed back untouched.
package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	ErrNotFound   = errors.New("events document not found")
	ErrUnreadable = errors.New("events document unreadable")
	ErrMalformed  = errors.New("events document is not valid JSON")
)

// decoder keeps numbers as their literal text so values survive the
// parse/serialize round trip exactly
var decoder = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()

// Document is one parsed events document
type Document struct {
	value any
	json  []byte
}

// Value returns the parsed JSON value: nil, bool, json.Number, string,
// []any or map[string]any
func (d *Document) Value() any {
	return d.value
}

// JSON returns the document serialized for a response body
func (d *Document) JSON() []byte {
	return d.json
}

// Loader reads the events document from a fixed path
type Loader struct {
	path     string
	charset  string
	encoding encoding.Encoding
	strict   bool // raw bytes must already be valid UTF-8
}

// NewLoader returns a Loader for path whose text is encoded in charset
func NewLoader(path, charset string) (*Loader, error) {
	enc, err := lookupCharset(charset)
	if err != nil {
		return nil, err
	}
	return &Loader{path: path, charset: charset, encoding: enc, strict: enc == unicode.UTF8BOM}, nil
}

// Path returns the file the loader reads
func (l *Loader) Path() string {
	return l.path
}

// Charset returns the configured text encoding name
func (l *Loader) Charset() string {
	return l.charset
}

// Load reads and parses the events document.
// Errors wrap ErrNotFound, ErrUnreadable or ErrMalformed.
func (l *Loader) Load(ctx context.Context) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	text, err := l.readText()
	if err != nil {
		return nil, err
	}
	return Parse(text)
}

// readText returns the file contents decoded to UTF-8
func (l *Loader) readText() ([]byte, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		// reading a directory fails here, not on open
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, l.path, err)
	}
	// the UTF-8 decoder swaps bad bytes for U+FFFD, check before it runs
	if l.strict && !utf8.Valid(raw) {
		return nil, fmt.Errorf("%w: %s: invalid UTF-8 text", ErrMalformed, l.path)
	}
	text, _, err := transform.Bytes(l.encoding.NewDecoder(), raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, l.path, err)
	}
	return text, nil
}

// Parse parses exactly one JSON value from text. Surrounding whitespace is
// allowed, anything else after the value is not.
func Parse(text []byte) (*Document, error) {
	if len(bytes.TrimSpace(text)) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrMalformed)
	}
	if !utf8.Valid(text) {
		return nil, fmt.Errorf("%w: invalid UTF-8 text", ErrMalformed)
	}
	var v any
	if err := decoder.Unmarshal(text, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := checkSurrogates(text); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	// jsoniter keeps number literals like 01 or 1. unchecked,
	// encoding them here rejects what no response could carry
	out, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return &Document{value: v, json: out}, nil
}

// checkSurrogates rejects \u escapes naming one half of a UTF-16
// surrogate pair without the other. text must already parse as JSON.
func checkSurrogates(text []byte) error {
	inString := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if !inString {
			inString = c == '"'
			continue
		}
		switch c {
		case '"':
			inString = false
		case '\\':
			if text[i+1] != 'u' {
				i++
				continue
			}
			r, _ := hexRune(text, i+2)
			if !utf16.IsSurrogate(r) {
				i += 5
				continue
			}
			lo, ok := rune(0), false
			if i+7 < len(text) && text[i+6] == '\\' && text[i+7] == 'u' {
				lo, ok = hexRune(text, i+8)
			}
			if !ok || utf16.DecodeRune(r, lo) == utf8.RuneError {
				return fmt.Errorf("unpaired surrogate \\u%s at offset %d", text[i+2:i+6], i)
			}
			i += 11
		}
	}
	return nil
}

func hexRune(text []byte, at int) (rune, bool) {
	if at+4 > len(text) {
		return 0, false
	}
	n, err := strconv.ParseUint(string(text[at:at+4]), 16, 16)
	if err != nil {
		return 0, false
	}
	return rune(n), true
}

// ValidateCharset reports whether charset names a known text encoding
func ValidateCharset(charset string) error {
	_, err := lookupCharset(charset)
	return err
}

func lookupCharset(charset string) (encoding.Encoding, error) {
	name := strings.ToLower(strings.TrimSpace(charset))
	switch name {
	case "", "utf-8", "utf8":
		// tolerate a leading byte order mark written by some editors
		return unicode.UTF8BOM, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset: %s", charset)
	}
	return enc, nil
}
