// Package icon resolves notification icon sources and decodes raw pixmaps.
package icon

import (
	"errors"
	"fmt"
	"image"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// Kind identifies where an icon comes from.
type Kind int

const (
	// KindNone means the popup has no icon.
	KindNone Kind = iota
	// KindPixmap is raw image data sent with the notification.
	KindPixmap
	// KindPath is an image file on disk.
	KindPath
	// KindName is a themed icon name, resolved by the toolkit.
	KindName
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindPixmap:
		return "pixmap"
	case KindPath:
		return "path"
	case KindName:
		return "name"
	default:
		return "unknown"
	}
}

// Source is a resolved icon source. Exactly one of Pixmap or Name is
// meaningful, depending on Kind.
type Source struct {
	Kind   Kind
	Name   string // File path for KindPath, icon name for KindName
	Pixmap *Pixmap
}

// None returns the empty source.
func None() Source {
	return Source{Kind: KindNone}
}

// FromPixmap wraps a decoded pixmap.
func FromPixmap(p *Pixmap) Source {
	if p == nil {
		return None()
	}
	return Source{Kind: KindPixmap, Pixmap: p}
}

// FromString classifies an icon string: file URIs, absolute paths and
// paths below ~ are files, anything else is a themed icon name.
func FromString(s string) Source {
	s = strings.TrimSpace(s)
	if s == "" {
		return None()
	}
	p := expandHome(PathFromURI(s))
	if filepath.IsAbs(p) {
		return Source{Kind: KindPath, Name: p}
	}
	return Source{Kind: KindName, Name: s}
}

func expandHome(p string) string {
	if !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[2:])
}

// IsZero reports whether the source carries no icon.
func (s Source) IsZero() bool {
	return s.Kind == KindNone
}

// PathFromURI strips a file:// scheme and unescapes the path.
// Strings that are not file URIs are returned unchanged.
func PathFromURI(s string) string {
	if !strings.HasPrefix(s, "file://") {
		return s
	}
	u, err := url.Parse(s)
	if err != nil || u.Path == "" {
		return strings.TrimPrefix(s, "file://")
	}
	return u.Path
}

// ErrUnsupportedSource is returned when a source cannot be turned into an image.
var ErrUnsupportedSource = errors.New("icon source has no image data")

// Load returns the image for pixmap and file sources, scaled to fit a
// size x size square. Themed names return ErrUnsupportedSource.
func Load(src Source, size int) (*image.NRGBA, error) {
	var img image.Image
	switch src.Kind {
	case KindPixmap:
		decoded, err := src.Pixmap.Image()
		if err != nil {
			return nil, err
		}
		img = decoded
	case KindPath:
		opened, err := imaging.Open(src.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to open icon %s: %w", src.Name, err)
		}
		img = opened
	default:
		return nil, ErrUnsupportedSource
	}
	return Fit(img, size), nil
}

// Fit scales img down so it fits in a size x size square, keeping the
// aspect ratio. Smaller images are only converted, never enlarged.
func Fit(img image.Image, size int) *image.NRGBA {
	b := img.Bounds()
	if size <= 0 || (b.Dx() <= size && b.Dy() <= size) {
		return imaging.Clone(img)
	}
	return imaging.Fit(img, size, size, imaging.Lanczos)
}
