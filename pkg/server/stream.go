package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/c9s/smcchart/pkg/chart"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// streamChart upgrades to a websocket. Every text message is a PointerEvent,
// every reply is the redrawn frame as a binary PNG message.
func (s *Server) streamChart(c *gin.Context) {
	instance, ok := s.instance(c)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Error("websocket upgrade error")
		return
	}
	defer conn.Close()

	if err := s.writeFrame(conn, instance); err != nil {
		return
	}

	for {
		var event PointerEvent
		if err := conn.ReadJSON(&event); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.WithError(err).Warnf("chart %s stream closed", instance.ID)
			}
			return
		}

		if !instance.Allow() {
			pointerEventsMetrics.WithLabelValues(string(event.Type), "throttled").Inc()
			if err := conn.WriteJSON(gin.H{"error": errTooManyEvents}); err != nil {
				return
			}
			continue
		}

		err := instance.Do(func(c *chart.Chart) error {
			return event.Dispatch(c)
		})
		if err != nil {
			pointerEventsMetrics.WithLabelValues(string(event.Type), "invalid").Inc()
			if err := conn.WriteJSON(gin.H{"error": err.Error()}); err != nil {
				return
			}
			continue
		}
		pointerEventsMetrics.WithLabelValues(string(event.Type), "ok").Inc()

		if err := s.writeFrame(conn, instance); err != nil {
			return
		}
	}
}

func (s *Server) writeFrame(conn *websocket.Conn, instance *ChartInstance) error {
	data, _, err := instance.RenderPNG()
	if err != nil {
		return conn.WriteJSON(gin.H{"error": err.Error()})
	}
	return conn.WriteMessage(websocket.BinaryMessage, data)
}
