package theme

import (
	"os"
	"path/filepath"
	"regexp"
)

// importRegex matches @import "file.css"; or @import 'file.css'; or @import url("file.css");
var importRegex = regexp.MustCompile(`@import\s+(?:url\s*\(\s*)?["']([^"']+)["']\s*\)?;?`)

// Stylesheet is a user CSS file with its imports inlined.
type Stylesheet struct {
	Path string
	CSS  string
}

// LoadStylesheet reads the CSS file at path.
func LoadStylesheet(path string) (*Stylesheet, error) {
	css, err := readProcessed(path)
	if err != nil {
		return nil, err
	}
	return &Stylesheet{Path: path, CSS: css}, nil
}

// Reload re-reads the file and its imports. It reports whether the
// resulting CSS differs from what was loaded before.
func (s *Stylesheet) Reload() (bool, error) {
	css, err := readProcessed(s.Path)
	if err != nil {
		return false, err
	}
	if css == s.CSS {
		return false, nil
	}
	s.CSS = css
	return true, nil
}

func readProcessed(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return ProcessImports(string(raw), filepath.Dir(path), nil), nil
}

// ProcessImports inlines @import statements, resolving relative paths
// against baseDir. seen guards against import cycles.
func ProcessImports(css string, baseDir string, seen map[string]bool) string {
	if seen == nil {
		seen = make(map[string]bool)
	}

	return importRegex.ReplaceAllStringFunc(css, func(match string) string {
		sub := importRegex.FindStringSubmatch(match)
		if len(sub) < 2 {
			return match
		}

		importPath := sub[1]
		fullPath := importPath
		if !filepath.IsAbs(importPath) {
			fullPath = filepath.Join(baseDir, importPath)
		}

		if seen[fullPath] {
			return "/* circular import skipped: " + importPath + " */"
		}
		seen[fullPath] = true

		imported, err := os.ReadFile(fullPath)
		if err != nil {
			return "/* import failed: " + importPath + " - " + err.Error() + " */"
		}

		return "/* imported: " + importPath + " */\n" +
			ProcessImports(string(imported), filepath.Dir(fullPath), seen)
	})
}
