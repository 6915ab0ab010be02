package server

import (
	"fmt"

	"github.com/c9s/smcchart/pkg/chart"
)

type EventType string

const (
	EventEnter EventType = "enter"
	EventMove  EventType = "move"
	EventDown  EventType = "down"
	EventUp    EventType = "up"
	EventLeave EventType = "leave"
	EventWheel EventType = "wheel"
)

// PointerEvent is a pointer or wheel event in logical surface coordinates.
type PointerEvent struct {
	Type   EventType `json:"type"`
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	DeltaY float64   `json:"deltaY"`
}

// Dispatch forwards the event to the chart's interaction layer.
func (e PointerEvent) Dispatch(c *chart.Chart) error {
	switch e.Type {
	case EventEnter:
		c.PointerEnter(e.X, e.Y)
	case EventMove:
		c.PointerMove(e.X, e.Y)
	case EventDown:
		c.PointerDown(e.X, e.Y)
	case EventUp:
		c.PointerUp(e.X, e.Y)
	case EventLeave:
		c.PointerLeave()
	case EventWheel:
		c.Wheel(e.DeltaY)
	default:
		return fmt.Errorf("unknown event type %q", e.Type)
	}
	return nil
}
