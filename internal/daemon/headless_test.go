package daemon

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skalanux/ktm/internal/layout"
)

func TestLogRenderer_WindowSize(t *testing.T) {
	r := NewLogRenderer(layout.Size{Width: 1920, Height: 1080}, 300, testLogger())

	w, err := r.NewWindow(Content{Summary: "hi"}, nil)
	require.NoError(t, err)
	width, height := w.Size()
	assert.Equal(t, 300, width)
	assert.Equal(t, 36, height)

	w, err = r.NewWindow(Content{Summary: "hi", Body: "one\ntwo"}, nil)
	require.NoError(t, err)
	_, height = w.Size()
	assert.Equal(t, 76, height)

	assert.Equal(t, layout.Size{Width: 1920, Height: 1080}, r.ScreenSize())
}

func TestLogRenderer_ShowLogsPlacement(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	r := NewLogRenderer(layout.Size{Width: 800, Height: 600}, 200, logger)

	w, err := r.NewWindow(Content{Summary: "<b>Build</b> done", Body: "all green"}, nil)
	require.NoError(t, err)
	w.Move(600, 10)
	w.Show()

	out := buf.String()
	assert.Contains(t, out, `summary="Build done"`)
	assert.Contains(t, out, "x=600")
	assert.Contains(t, out, "y=10")
}

func TestLogRenderer_DrivesController(t *testing.T) {
	r := NewLogRenderer(layout.Size{Width: 800, Height: 600}, 200, testLogger())
	h := newHarness(t, func(o *ControllerOptions) { o.Renderer = r })

	id := h.ctrl.Notify(note("a", 0))
	h.ctrl.CloseNotification(id)

	assert.Len(t, h.emitter.signals, 1)
}
