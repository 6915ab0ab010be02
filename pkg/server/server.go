package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/c9s/smcchart/pkg/chart"
	"github.com/c9s/smcchart/pkg/datasource/overlaysource"
	"github.com/c9s/smcchart/pkg/types"
)

var log = logrus.WithField("component", "server")

const errTooManyEvents = "too many events"

type Options struct {
	// RateLimit bounds the pointer events of one chart, empty means unlimited.
	RateLimit string

	SnapshotSchedule string
	SnapshotDir      string

	// DataDir is the root of the source files a request may reference,
	// the working directory when empty.
	DataDir string
}

type Server struct {
	Registry *Registry

	loader  DataLoader
	options Options
}

func New(loader DataLoader, options Options) (*Server, error) {
	if loader == nil {
		loader = FileLoader{}
	}

	if options.RateLimit != "" {
		if _, err := ParseRateLimit(options.RateLimit); err != nil {
			return nil, err
		}
	}

	return &Server{
		Registry: NewRegistry(),
		loader:   loader,
		options:  options,
	}, nil
}

type CreateChartRequest struct {
	Symbol           string          `json:"symbol"`
	Interval         types.Interval  `json:"interval"`
	Width            float64         `json:"width"`
	Height           float64         `json:"height"`
	DevicePixelRatio float64         `json:"devicePixelRatio"`
	Settings         *chart.Settings `json:"settings,omitempty"`
	Viewport         *chart.Viewport `json:"viewport,omitempty"`

	Candles  types.Series         `json:"candles,omitempty"`
	Overlays *types.OverlayBundle `json:"overlays,omitempty"`
	Source   *Source              `json:"source,omitempty"`
}

type UpdateSeriesRequest struct {
	Candles       types.Series         `json:"candles,omitempty"`
	Overlays      *types.OverlayBundle `json:"overlays,omitempty"`
	Source        *Source              `json:"source,omitempty"`
	ResetViewport bool                 `json:"resetViewport"`
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowWebSockets:  true,
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/api/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/api/charts", s.createChart)
	r.GET("/api/charts/:id", s.getChart)
	r.DELETE("/api/charts/:id", s.deleteChart)
	r.PUT("/api/charts/:id/series", s.updateSeries)
	r.PATCH("/api/charts/:id/settings", s.patchSettings)
	r.POST("/api/charts/:id/events", s.dispatchEvent)
	r.POST("/api/charts/:id/reset", s.resetViewport)
	r.GET("/api/charts/:id/cursor", s.getCursor)
	r.GET("/api/charts/:id/frame.png", s.getFrame)
	r.GET("/api/charts/:id/export", s.exportFrame)
	r.GET("/api/charts/:id/stream", s.streamChart)
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, bind string) error {
	if s.options.SnapshotSchedule != "" {
		snapshotter, err := NewSnapshotter(s.Registry, s.options.SnapshotSchedule, s.options.SnapshotDir)
		if err != nil {
			return errors.Wrapf(err, "invalid snapshot schedule %q", s.options.SnapshotSchedule)
		}
		snapshotter.Start()
		defer snapshotter.Stop()
	}

	srv := &http.Server{
		Addr:    bind,
		Handler: s.Router(),
	}

	errC := make(chan error, 1)
	go func() {
		log.Infof("chart preview server listening on %s", bind)
		errC <- srv.ListenAndServe()
	}()

	select {
	case err := <-errC:
		return err

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) instance(c *gin.Context) (*ChartInstance, bool) {
	instance, ok := s.Registry.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "chart not found"})
		return nil, false
	}
	return instance, true
}

// resolveData prefers inline candles and overlays, and falls back to the source files.
func (s *Server) resolveData(ctx context.Context, candles types.Series, overlays *types.OverlayBundle, src *Source) (types.Series, *types.OverlayBundle, error) {
	if err := overlaysource.Validate(overlays); err != nil {
		return nil, nil, err
	}

	if src == nil {
		return candles, overlays, nil
	}

	resolved, err := src.Within(s.options.DataDir)
	if err != nil {
		return nil, nil, err
	}

	loadedCandles, loadedOverlays, err := LoadSource(ctx, s.loader, resolved)
	if err != nil {
		return nil, nil, err
	}

	if len(candles) == 0 {
		candles = loadedCandles
	}
	if overlays == nil {
		overlays = loadedOverlays
	}
	return candles, overlays, nil
}

func sourceErrorStatus(err error) int {
	if errors.Is(err, ErrForbiddenPath) {
		return http.StatusForbidden
	}
	return http.StatusUnprocessableEntity
}

func (s *Server) createChart(c *gin.Context) {
	var req CreateChartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing symbol"})
		return
	}

	if req.Interval == "" {
		req.Interval = types.Interval1h
	} else if !req.Interval.IsSupported() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported interval " + req.Interval.String()})
		return
	}

	candles, overlays, err := s.resolveData(c.Request.Context(), req.Candles, req.Overlays, req.Source)
	if err != nil {
		c.JSON(sourceErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	ch := chart.New(req.Symbol, req.Interval)
	if req.DevicePixelRatio <= 0 {
		req.DevicePixelRatio = 1.0
	}
	if req.Width > 0 && req.Height > 0 {
		ch.Resize(req.Width, req.Height, req.DevicePixelRatio)
	}
	if req.Settings != nil {
		ch.Settings = *req.Settings
	}
	if req.Viewport != nil {
		ch.Controller().SetViewport(*req.Viewport)
	}
	ch.SetData(candles, overlays)

	limiter, err := s.newLimiter()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	instance := NewChartInstance(ch, limiter)
	s.Registry.Add(instance)

	log.Infof("chart %s created: %s %s with %d candles", instance.ID, req.Symbol, req.Interval, len(candles))
	c.JSON(http.StatusCreated, instance.State())
}

func (s *Server) newLimiter() (*rate.Limiter, error) {
	if s.options.RateLimit == "" {
		return nil, nil
	}
	return ParseRateLimit(s.options.RateLimit)
}

func (s *Server) getChart(c *gin.Context) {
	instance, ok := s.instance(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, instance.State())
}

func (s *Server) deleteChart(c *gin.Context) {
	if !s.Registry.Remove(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "chart not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) updateSeries(c *gin.Context) {
	instance, ok := s.instance(c)
	if !ok {
		return
	}

	var req UpdateSeriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	candles, overlays, err := s.resolveData(c.Request.Context(), req.Candles, req.Overlays, req.Source)
	if err != nil {
		c.JSON(sourceErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	_ = instance.Do(func(ch *chart.Chart) error {
		ch.SetData(candles, overlays)
		if req.ResetViewport {
			ch.Controller().Reset()
		}
		return nil
	})

	c.JSON(http.StatusOK, instance.State())
}

// patchSettings applies a JSON merge patch to the chart settings.
func (s *Server) patchSettings(c *gin.Context) {
	instance, ok := s.instance(c)
	if !ok {
		return
	}

	patch, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = instance.Do(func(ch *chart.Chart) error {
		original, err := json.Marshal(ch.Settings)
		if err != nil {
			return err
		}

		merged, err := jsonpatch.MergePatch(original, patch)
		if err != nil {
			return err
		}

		settings := ch.Settings
		if err := json.Unmarshal(merged, &settings); err != nil {
			return err
		}

		ch.Settings = settings
		return nil
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, instance.State())
}

func (s *Server) dispatchEvent(c *gin.Context) {
	instance, ok := s.instance(c)
	if !ok {
		return
	}

	var event PointerEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !instance.Allow() {
		pointerEventsMetrics.WithLabelValues(string(event.Type), "throttled").Inc()
		c.JSON(http.StatusTooManyRequests, gin.H{"error": errTooManyEvents})
		return
	}

	if err := instance.Do(event.Dispatch); err != nil {
		pointerEventsMetrics.WithLabelValues(string(event.Type), "invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pointerEventsMetrics.WithLabelValues(string(event.Type), "ok").Inc()
	c.JSON(http.StatusOK, instance.State())
}

func (s *Server) resetViewport(c *gin.Context) {
	instance, ok := s.instance(c)
	if !ok {
		return
	}

	_ = instance.Do(func(ch *chart.Chart) error {
		ch.Controller().Reset()
		return nil
	})
	c.JSON(http.StatusOK, instance.State())
}

func (s *Server) getCursor(c *gin.Context) {
	instance, ok := s.instance(c)
	if !ok {
		return
	}

	var (
		readout Readout
		found   bool
	)
	_ = instance.Do(func(ch *chart.Chart) error {
		readout.Cursor = ch.Cursor()
		candle, ok := ch.HoveredCandle()
		if !ok {
			return nil
		}

		found = true
		readout.Index = readout.Cursor.HoveredIndex
		readout.Candle = candle
		readout.Time = candle.Time().UTC()
		readout.Change = candle.GetChangePercentage()
		return nil
	})

	if !found {
		c.JSON(http.StatusOK, gin.H{"cursor": readout.Cursor, "hovered": false})
		return
	}
	c.JSON(http.StatusOK, readout)
}

func (s *Server) getFrame(c *gin.Context) {
	s.writePNG(c, false)
}

func (s *Server) exportFrame(c *gin.Context) {
	s.writePNG(c, true)
}

func (s *Server) writePNG(c *gin.Context, attachment bool) {
	instance, ok := s.instance(c)
	if !ok {
		return
	}

	data, fileName, err := instance.RenderPNG()
	if err != nil {
		if errors.Is(err, chart.ErrNoFrame) {
			c.JSON(http.StatusConflict, gin.H{"error": "surface unavailable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if attachment {
		c.Header("Content-Disposition", "attachment; filename="+strconv.Quote(fileName))
	}
	c.Data(http.StatusOK, "image/png", data)
}
