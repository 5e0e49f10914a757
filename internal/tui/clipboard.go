package tui

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// copyText pipes text into the clipboard command. An empty command is
// auto-detected.
func copyText(text, command string) error {
	cmd := detectClipboardCommand(command, exec.LookPath)
	if cmd == "" {
		return fmt.Errorf("no clipboard command available")
	}

	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return fmt.Errorf("invalid clipboard command")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := exec.CommandContext(ctx, parts[0], parts[1:]...)
	c.Stdin = strings.NewReader(text)

	return c.Run()
}

// detectClipboardCommand returns the clipboard command to use. Wayland's
// wl-copy is preferred over the X11 tools.
func detectClipboardCommand(configured string, lookPath func(string) (string, error)) string {
	if configured != "" {
		return configured
	}

	candidates := []struct {
		bin string
		cmd string
	}{
		{"wl-copy", "wl-copy"},
		{"xclip", "xclip -selection clipboard"},
		{"xsel", "xsel --clipboard --input"},
	}
	for _, c := range candidates {
		if _, err := lookPath(c.bin); err == nil {
			return c.cmd
		}
	}
	return ""
}
