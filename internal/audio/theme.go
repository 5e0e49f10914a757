package audio

import (
	"os"
	"path/filepath"
	"strings"
)

// soundExtensions are tried in order for each themed sound name.
var soundExtensions = []string{".oga", ".ogg", ".wav", ".mp3"}

// ResolveSoundName finds a sound from the freedesktop sound theme in the
// XDG data directories. Names are tried from most to least specific, so
// "message-new-email" falls back to "message-new" and "message".
func ResolveSoundName(name string) string {
	return resolveSoundName(name, soundDirs())
}

func resolveSoundName(name string, dirs []string) string {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return ""
	}
	for candidate := name; candidate != ""; candidate = parentName(candidate) {
		for _, dir := range dirs {
			for _, ext := range soundExtensions {
				p := filepath.Join(dir, candidate+ext)
				if info, err := os.Stat(p); err == nil && !info.IsDir() {
					return p
				}
			}
		}
	}
	return ""
}

func parentName(name string) string {
	i := strings.LastIndexByte(name, '-')
	if i <= 0 {
		return ""
	}
	return name[:i]
}

// soundDirs lists the freedesktop theme directories, user data first.
func soundDirs() []string {
	var roots []string
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		roots = append(roots, dataHome)
	} else if home, err := os.UserHomeDir(); err == nil {
		roots = append(roots, filepath.Join(home, ".local", "share"))
	}

	dataDirs := os.Getenv("XDG_DATA_DIRS")
	if dataDirs == "" {
		dataDirs = "/usr/local/share:/usr/share"
	}
	roots = append(roots, filepath.SplitList(dataDirs)...)

	dirs := make([]string, 0, len(roots))
	for _, r := range roots {
		dirs = append(dirs, filepath.Join(r, "sounds", "freedesktop", "stereo"))
	}
	return dirs
}
