package display

import (
	"image"
	"log/slog"

	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	glibv2 "github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/skalanux/ktm/internal/daemon"
	"github.com/skalanux/ktm/internal/icon"
	"github.com/skalanux/ktm/internal/markup"
	"github.com/skalanux/ktm/internal/theme"
)

// layerNamespace identifies popups to the compositor.
const layerNamespace = "ktm"

// Popup is a notification window placed with layer-shell. It implements
// daemon.Window; all methods run on the GTK main thread.
type Popup struct {
	window *gtk.Window
	logger *slog.Logger
	width  int

	destroyed bool
}

func newPopup(app *gtk.Application, display *gdk.Display, monitor *gdk.Monitor, c daemon.Content, width, iconSize int, onClick func(), logger *slog.Logger) *Popup {
	p := &Popup{
		window: gtk.NewWindow(),
		logger: logger,
		width:  width,
	}

	p.window.SetApplication(app)
	p.window.SetDecorated(false)
	p.window.SetResizable(false)
	p.window.SetDefaultSize(width, -1)
	p.window.SetSizeRequest(width, -1)

	layershell.InitForWindow(p.window)
	layershell.SetLayer(p.window, layershell.LayerShellLayerOverlay)
	layershell.SetExclusiveZone(p.window, 0)
	layershell.SetKeyboardMode(p.window, layershell.LayerShellKeyboardModeNone)
	layershell.SetNamespace(p.window, layerNamespace)
	if monitor != nil {
		layershell.SetMonitor(p.window, monitor)
	}
	// Positions are absolute offsets from the top left corner.
	layershell.SetAnchor(p.window, layershell.LayerShellEdgeTop, true)
	layershell.SetAnchor(p.window, layershell.LayerShellEdgeLeft, true)

	p.window.SetChild(p.build(display, c, iconSize))

	click := gtk.NewGestureClick()
	click.SetButton(0)
	click.ConnectReleased(func(nPress int, x, y float64) {
		if onClick != nil {
			// Destroying the window inside its own gesture handler is unsafe.
			glib.IdleAdd(onClick)
		}
	})
	p.window.AddController(click)

	return p
}

func (p *Popup) build(display *gdk.Display, c daemon.Content, iconSize int) gtk.Widgetter {
	frame := gtk.NewFrame("")
	frame.AddCSSClass(theme.ClassPopup)
	frame.AddCSSClass(theme.UrgencyClass(c.Urgency))
	if cls := theme.AppClass(c.AppName); cls != "" {
		frame.AddCSSClass(cls)
	}

	row := gtk.NewBox(gtk.OrientationHorizontal, 0)
	row.AddCSSClass(theme.ClassContent)

	if img := p.buildIcon(display, c.Icon, iconSize); img != nil {
		frame.AddCSSClass(theme.ClassHasIcon)
		row.Append(img)
	}

	text := gtk.NewBox(gtk.OrientationVertical, 2)
	text.SetHExpand(true)
	text.Append(newTextLabel(c.Summary, theme.ClassSummary, false))
	if c.Body != "" {
		frame.AddCSSClass(theme.ClassHasBody)
		text.Append(newTextLabel(c.Body, theme.ClassBody, true))
	}
	row.Append(text)

	frame.SetChild(row)
	return frame
}

// newTextLabel shows s as markup when it is well formed, literally otherwise.
func newTextLabel(s, class string, wrap bool) *gtk.Label {
	lbl := gtk.NewLabel("")
	lbl.AddCSSClass(class)
	lbl.SetXAlign(0)
	if wrap {
		lbl.SetWrap(true)
		lbl.SetWrapMode(2) // PANGO_WRAP_WORD_CHAR
	} else {
		lbl.SetEllipsize(3) // PANGO_ELLIPSIZE_END
	}
	if markup.Valid(s) {
		lbl.SetMarkup(s)
	} else {
		lbl.SetText(s)
	}
	return lbl
}

func (p *Popup) buildIcon(display *gdk.Display, src icon.Source, size int) *gtk.Image {
	var img *gtk.Image

	switch src.Kind {
	case icon.KindNone:
		return nil
	case icon.KindName:
		if display != nil && !gtk.IconThemeGetForDisplay(display).HasIcon(src.Name) {
			p.logger.Warn("icon is neither a file nor a themed icon name, ignoring", "icon", src.Name)
			return nil
		}
		img = gtk.NewImageFromIconName(src.Name)
	default:
		decoded, err := icon.Load(src, size)
		if err != nil {
			p.logger.Warn("failed to load icon, ignoring", "kind", src.Kind.String(), "error", err)
			return nil
		}
		img = gtk.NewImageFromPaintable(textureFromImage(decoded))
	}

	img.AddCSSClass(theme.ClassIcon)
	img.SetPixelSize(size)
	img.SetVAlign(gtk.AlignStart)
	return img
}

func textureFromImage(img *image.NRGBA) *gdk.MemoryTexture {
	b := img.Bounds()
	return gdk.NewMemoryTexture(
		b.Dx(), b.Dy(),
		gdk.MemoryR8G8B8A8,
		glibv2.NewBytes(img.Pix),
		uint(img.Stride),
	)
}

// Size returns the width the popup was created with and the natural
// height of its content at that width.
func (p *Popup) Size() (int, int) {
	_, natW, _, _ := p.window.Measure(gtk.OrientationHorizontal, -1)
	w := max(p.width, natW)
	_, natH, _, _ := p.window.Measure(gtk.OrientationVertical, w)
	return w, natH
}

// Move places the popup's top left corner at x, y.
func (p *Popup) Move(x, y int) {
	layershell.SetMargin(p.window, layershell.LayerShellEdgeLeft, x)
	layershell.SetMargin(p.window, layershell.LayerShellEdgeTop, y)
}

// Show presents the popup.
func (p *Popup) Show() {
	p.window.Present()
}

// Hide unmaps the popup.
func (p *Popup) Hide() {
	if p.destroyed {
		return
	}
	p.window.SetVisible(false)
}

// Destroy releases the window.
func (p *Popup) Destroy() {
	if p.destroyed {
		return
	}
	p.destroyed = true
	p.window.Destroy()
}
