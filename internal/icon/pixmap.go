package icon

import (
	"fmt"
	"image"
)

// Pixmap is the (iiibiiay) image structure carried by the image-data and
// icon_data hints.
type Pixmap struct {
	Width         int
	Height        int
	Rowstride     int
	HasAlpha      bool
	BitsPerSample int
	Channels      int
	Data          []byte
}

// ParsePixmap converts a decoded D-Bus struct value into a Pixmap.
// godbus delivers structs inside variants as []interface{}.
func ParsePixmap(v any) (*Pixmap, error) {
	fields, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("image data: expected struct, got %T", v)
	}
	if len(fields) != 7 {
		return nil, fmt.Errorf("image data: expected 7 fields, got %d", len(fields))
	}

	ints := make([]int, 0, 5)
	for _, idx := range []int{0, 1, 2, 4, 5} {
		n, ok := fields[idx].(int32)
		if !ok {
			return nil, fmt.Errorf("image data: field %d: expected int32, got %T", idx, fields[idx])
		}
		ints = append(ints, int(n))
	}
	alpha, ok := fields[3].(bool)
	if !ok {
		return nil, fmt.Errorf("image data: field 3: expected bool, got %T", fields[3])
	}
	data, ok := fields[6].([]byte)
	if !ok {
		return nil, fmt.Errorf("image data: field 6: expected bytes, got %T", fields[6])
	}

	p := &Pixmap{
		Width:         ints[0],
		Height:        ints[1],
		Rowstride:     ints[2],
		HasAlpha:      alpha,
		BitsPerSample: ints[3],
		Channels:      ints[4],
		Data:          data,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks that the header is consistent with the data.
func (p *Pixmap) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("image data: invalid dimensions %dx%d", p.Width, p.Height)
	}
	if p.BitsPerSample != 8 {
		return fmt.Errorf("image data: unsupported bits per sample %d", p.BitsPerSample)
	}
	want := 3
	if p.HasAlpha {
		want = 4
	}
	if p.Channels != want {
		return fmt.Errorf("image data: %d channels with alpha=%t", p.Channels, p.HasAlpha)
	}
	if p.Rowstride < p.Width*p.Channels {
		return fmt.Errorf("image data: rowstride %d shorter than row", p.Rowstride)
	}
	// The last row does not need its padding.
	need := (p.Height-1)*p.Rowstride + p.Width*p.Channels
	if len(p.Data) < need {
		return fmt.Errorf("image data: %d bytes, need %d", len(p.Data), need)
	}
	return nil
}

// Image converts the pixmap to an NRGBA image.
func (p *Pixmap) Image() (*image.NRGBA, error) {
	if p == nil {
		return nil, ErrUnsupportedSource
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	img := image.NewNRGBA(image.Rect(0, 0, p.Width, p.Height))
	for y := 0; y < p.Height; y++ {
		src := p.Data[y*p.Rowstride:]
		dst := img.Pix[y*img.Stride:]
		for x := 0; x < p.Width; x++ {
			s := src[x*p.Channels:]
			d := dst[x*4:]
			d[0], d[1], d[2] = s[0], s[1], s[2]
			if p.HasAlpha {
				d[3] = s[3]
			} else {
				d[3] = 0xff
			}
		}
	}
	return img, nil
}
