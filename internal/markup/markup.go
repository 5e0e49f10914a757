// Package markup decides whether notification text can be rendered as
// Pango markup or has to be shown literally.
package markup

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// allowedTags is the Pango markup subset popups render. Notification
// bodies may also carry hyperlinks.
var allowedTags = map[string]bool{
	"b":     true,
	"i":     true,
	"u":     true,
	"s":     true,
	"tt":    true,
	"big":   true,
	"small": true,
	"sub":   true,
	"sup":   true,
	"span":  true,
	"a":     true,
}

// Check returns nil if s is well-formed markup using only supported tags.
func Check(s string) error {
	if !strings.ContainsAny(s, "<&") {
		return nil
	}

	dec := newDecoder(s)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("invalid markup: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == rootElement && t.Name.Space == "" {
				continue
			}
			if t.Name.Space != "" || !allowedTags[t.Name.Local] {
				return fmt.Errorf("invalid markup: unsupported tag <%s>", t.Name.Local)
			}
		case xml.ProcInst, xml.Directive:
			return errors.New("invalid markup: unexpected declaration")
		}
	}
}

// Valid reports whether s can be passed to the toolkit as markup.
func Valid(s string) bool {
	return Check(s) == nil
}

// Strip returns the text content of well-formed markup with all tags
// removed and entities resolved. Text that is not valid markup is
// returned unchanged.
func Strip(s string) string {
	if Check(s) != nil {
		return s
	}

	var b strings.Builder
	dec := newDecoder(s)
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		if cd, ok := tok.(xml.CharData); ok {
			b.Write(cd)
		}
	}
	return b.String()
}

const rootElement = "markup"

func newDecoder(s string) *xml.Decoder {
	dec := xml.NewDecoder(strings.NewReader("<" + rootElement + ">" + s + "</" + rootElement + ">"))
	dec.Strict = true
	return dec
}
