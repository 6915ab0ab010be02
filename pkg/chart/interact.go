package chart

import (
	"math"
)

// NoIndex marks a cursor that hovers no candle.
const NoIndex = -1

type PointerState int

const (
	StateIdle PointerState = iota
	StateHovering
	StateDragging
)

func (s PointerState) String() string {
	switch s {
	case StateHovering:
		return "hovering"
	case StateDragging:
		return "dragging"
	}
	return "idle"
}

// Cursor is derived from every pointer event and never persisted.
type Cursor struct {
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	HoveredIndex int     `json:"hoveredIndex"`
	IsOver       bool    `json:"isOver"`
}

func NoCursor() Cursor {
	return Cursor{HoveredIndex: NoIndex}
}

func (c Cursor) HasHovered() bool {
	return c.IsOver && c.HoveredIndex != NoIndex
}

// HitTest returns the candle index under pixel x using the same spacing as
// the series geometry, clamped to the visible window.
func HitTest(m Mapper, w Window, x float64) int {
	if w.IsEmpty() {
		return NoIndex
	}

	index := int(math.Floor((x - m.Plot.Left - m.Viewport.PanX) / m.Spacing()))
	if index < w.Start {
		return w.Start
	} else if index >= w.End {
		return w.End - 1
	}
	return index
}

// Controller owns the viewport and cursor of one chart instance and applies
// pointer and wheel events to them synchronously.
//
//	Idle -> Hovering (enter) -> Dragging (down) -> Idle (up or leave)
type Controller struct {
	viewport Viewport
	cursor   Cursor
	state    PointerState

	lastX, lastY float64
}

func NewController(viewport Viewport) *Controller {
	return &Controller{
		viewport: viewport.Normalize(),
		cursor:   NoCursor(),
	}
}

func (c *Controller) Viewport() Viewport {
	return c.viewport
}

func (c *Controller) SetViewport(v Viewport) {
	c.viewport = v.Normalize()
}

func (c *Controller) Cursor() Cursor {
	return c.cursor
}

func (c *Controller) State() PointerState {
	return c.state
}

// Reset restores the default viewport. It is never called implicitly.
func (c *Controller) Reset() {
	c.viewport = DefaultViewport()
}

func (c *Controller) PointerEnter(x, y float64) {
	c.state = StateHovering
	c.moveCursor(x, y)
}

// PointerMove tracks the cursor and, while dragging, accumulates the pointer
// delta into the pan offset.
func (c *Controller) PointerMove(x, y float64) {
	if c.state == StateIdle {
		c.state = StateHovering
	}

	if c.state == StateDragging {
		c.viewport = c.viewport.Pan(x-c.lastX, y-c.lastY)
		c.lastX, c.lastY = x, y
	}

	c.moveCursor(x, y)
}

func (c *Controller) PointerDown(x, y float64) {
	c.state = StateDragging
	c.lastX, c.lastY = x, y
	c.moveCursor(x, y)
}

// PointerUp ends a drag. The accumulated pan is kept.
func (c *Controller) PointerUp(x, y float64) {
	c.state = StateIdle
	c.moveCursor(x, y)
}

func (c *Controller) PointerLeave() {
	c.state = StateIdle
	c.cursor = NoCursor()
}

func (c *Controller) Wheel(deltaY float64) {
	c.viewport = c.viewport.Wheel(deltaY)
}

func (c *Controller) moveCursor(x, y float64) {
	c.cursor = Cursor{X: x, Y: y, IsOver: true, HoveredIndex: NoIndex}
}

// SetHovered records the index resolved by hit-testing.
func (c *Controller) SetHovered(index int) {
	c.cursor.HoveredIndex = index
}
