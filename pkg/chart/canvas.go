package chart

import (
	"io"
	"math"

	"github.com/golang/freetype/truetype"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// coordinates beyond this are clamped before they reach the rasterizer
const maxDeviceCoord = 1 << 20

type Point struct {
	X, Y float64
}

// Pen describes a stroke in logical pixels.
type Pen struct {
	Color drawing.Color
	Width float64
	Dash  []float64
}

type TextAlign int

const (
	AlignLeft TextAlign = iota
	AlignCenter
	AlignRight
)

type TextStyle struct {
	Color drawing.Color
	Size  float64
	Align TextAlign
}

// Canvas is a raster drawing surface addressed in logical pixels.
// Every call converts logical coordinates with the device pixel ratio,
// the underlying renderer never carries a scale transform.
type Canvas struct {
	renderer gochart.Renderer
	font     *truetype.Font

	width, height float64
	ratio         float64
}

func NewCanvas(width, height, ratio float64) (*Canvas, error) {
	if ratio <= 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		ratio = 1.0
	}

	r, err := gochart.PNG(int(math.Ceil(width*ratio)), int(math.Ceil(height*ratio)))
	if err != nil {
		return nil, err
	}

	font, err := gochart.GetDefaultFont()
	if err != nil {
		return nil, err
	}

	// 72 dpi makes font points equal to device pixels
	r.SetDPI(72)
	r.SetFont(font)

	return &Canvas{
		renderer: r,
		font:     font,
		width:    width,
		height:   height,
		ratio:    ratio,
	}, nil
}

func (c *Canvas) Width() float64 {
	return c.width
}

func (c *Canvas) Height() float64 {
	return c.height
}

func (c *Canvas) Ratio() float64 {
	return c.ratio
}

func (c *Canvas) px(v float64) int {
	d := math.Round(v * c.ratio)
	if math.IsNaN(d) {
		return 0
	}
	if d > maxDeviceCoord {
		return maxDeviceCoord
	} else if d < -maxDeviceCoord {
		return -maxDeviceCoord
	}
	return int(d)
}

func (c *Canvas) dash(d []float64) []float64 {
	if len(d) == 0 {
		return nil
	}
	out := make([]float64, len(d))
	for i, v := range d {
		out[i] = v * c.ratio
	}
	return out
}

func (c *Canvas) applyPen(p Pen) {
	width := p.Width
	if width <= 0 {
		width = 1
	}
	c.renderer.SetStrokeColor(p.Color)
	c.renderer.SetStrokeWidth(width * c.ratio)
	c.renderer.SetStrokeDashArray(c.dash(p.Dash))
}

// Clear paints the whole surface with the background color.
func (c *Canvas) Clear(bg drawing.Color) {
	c.FillRect(Rect{Left: 0, Top: 0, Width: c.width, Height: c.height}, bg)
}

func (c *Canvas) Line(x1, y1, x2, y2 float64, p Pen) {
	c.Polyline([]Point{{X: x1, Y: y1}, {X: x2, Y: y2}}, p)
}

func (c *Canvas) Polyline(points []Point, p Pen) {
	if len(points) < 2 {
		return
	}

	c.renderer.ResetStyle()
	c.applyPen(p)
	c.renderer.MoveTo(c.px(points[0].X), c.px(points[0].Y))
	for _, pt := range points[1:] {
		c.renderer.LineTo(c.px(pt.X), c.px(pt.Y))
	}
	c.renderer.Stroke()
}

func (c *Canvas) FillRect(r Rect, fill drawing.Color) {
	left, top := c.px(r.Left), c.px(r.Top)
	right, bottom := c.px(r.Right()), c.px(r.Bottom())
	if right <= left || bottom <= top {
		return
	}

	c.renderer.ResetStyle()
	c.renderer.SetFillColor(fill)
	c.renderer.MoveTo(left, top)
	c.renderer.LineTo(right, top)
	c.renderer.LineTo(right, bottom)
	c.renderer.LineTo(left, bottom)
	c.renderer.Close()
	c.renderer.Fill()
}

func (c *Canvas) StrokeRect(r Rect, p Pen) {
	c.Polyline([]Point{
		{X: r.Left, Y: r.Top},
		{X: r.Right(), Y: r.Top},
		{X: r.Right(), Y: r.Bottom()},
		{X: r.Left, Y: r.Bottom()},
		{X: r.Left, Y: r.Top},
	}, p)
}

func (c *Canvas) FillPolygon(points []Point, fill drawing.Color) {
	if len(points) < 3 {
		return
	}

	c.renderer.ResetStyle()
	c.renderer.SetFillColor(fill)
	c.renderer.MoveTo(c.px(points[0].X), c.px(points[0].Y))
	for _, pt := range points[1:] {
		c.renderer.LineTo(c.px(pt.X), c.px(pt.Y))
	}
	c.renderer.Close()
	c.renderer.Fill()
}

func (c *Canvas) FillCircle(x, y, radius float64, fill drawing.Color) {
	c.renderer.ResetStyle()
	c.renderer.SetFillColor(fill)
	c.renderer.Circle(radius*c.ratio, c.px(x), c.px(y))
	c.renderer.Fill()
}

func (c *Canvas) StrokeCircle(x, y, radius float64, p Pen) {
	c.renderer.ResetStyle()
	c.applyPen(p)
	c.renderer.Circle(radius*c.ratio, c.px(x), c.px(y))
	c.renderer.Stroke()
}

// MeasureText returns the text extent in logical pixels.
func (c *Canvas) MeasureText(body string, size float64) (width, height float64) {
	c.renderer.ResetStyle()
	c.renderer.SetFont(c.font)
	c.renderer.SetFontSize(size * c.ratio)
	box := c.renderer.MeasureText(body)
	return float64(box.Width()) / c.ratio, float64(box.Height()) / c.ratio
}

// Text draws body with its baseline at y.
func (c *Canvas) Text(body string, x, y float64, style TextStyle) {
	if body == "" {
		return
	}

	switch style.Align {
	case AlignCenter, AlignRight:
		w, _ := c.MeasureText(body, style.Size)
		if style.Align == AlignCenter {
			x -= w / 2
		} else {
			x -= w
		}
	}

	c.renderer.ResetStyle()
	c.renderer.SetFont(c.font)
	c.renderer.SetFontSize(style.Size * c.ratio)
	c.renderer.SetFontColor(style.Color)
	c.renderer.Text(body, c.px(x), c.px(y))
}

// Save encodes the surface as PNG.
func (c *Canvas) Save(w io.Writer) error {
	return c.renderer.Save(w)
}
