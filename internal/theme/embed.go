package theme

import (
	_ "embed"
	"strings"

	"github.com/skalanux/ktm/internal/model"
)

// DefaultCSS is the built-in popup stylesheet.
//
//go:embed default.css
var DefaultCSS string

// Popup CSS classes set by the renderer.
const (
	ClassPopup   = "ktm-popup"
	ClassContent = "ktm-content"
	ClassIcon    = "ktm-icon"
	ClassSummary = "ktm-summary"
	ClassBody    = "ktm-body"
	ClassAppName = "ktm-appname"
	ClassHasIcon = "has-icon"
	ClassHasBody = "has-body"
)

// UrgencyClass returns the CSS class for an urgency level.
func UrgencyClass(urgency int) string {
	switch urgency {
	case model.UrgencyLow:
		return "urgency-low"
	case model.UrgencyCritical:
		return "urgency-critical"
	default:
		return "urgency-normal"
	}
}

// AppClass returns the per-application CSS class, or "" when the name
// has no usable characters.
func AppClass(appName string) string {
	name := SanitizeClassName(appName)
	if name == "" {
		return ""
	}
	return "app-" + name
}

// SanitizeClassName lowercases name and turns separators into single
// hyphens. Other characters are dropped.
func SanitizeClassName(name string) string {
	var b strings.Builder
	prevHyphen := false

	for _, r := range strings.ToLower(name) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			prevHyphen = false
		case r == '-' || r == '_' || r == ' ' || r == '.' || r == '/':
			if !prevHyphen && b.Len() > 0 {
				b.WriteRune('-')
				prevHyphen = true
			}
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}
