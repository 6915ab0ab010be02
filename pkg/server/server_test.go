package server

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/c9s/smcchart/pkg/chart"
	"github.com/c9s/smcchart/pkg/datasource/csvsource"
	"github.com/c9s/smcchart/pkg/server/mocks"
	"github.com/c9s/smcchart/pkg/types"
)

const minute = int64(60 * 1000)

func testCandles() types.Series {
	return types.Series{
		{Timestamp: 0 * minute, Open: 100, High: 110, Low: 95, Close: 105, Volume: 10},
		{Timestamp: 1 * minute, Open: 105, High: 115, Low: 100, Close: 110, Volume: 12},
		{Timestamp: 2 * minute, Open: 110, High: 120, Low: 105, Close: 115, Volume: 8},
		{Timestamp: 3 * minute, Open: 115, High: 125, Low: 110, Close: 120, Volume: 15},
		{Timestamp: 4 * minute, Open: 120, High: 130, Low: 115, Close: 125, Volume: 9},
	}
}

func newTestServer(t *testing.T, loader DataLoader, options Options) (*Server, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	s, err := New(loader, options)
	require.NoError(t, err)
	return s, s.Router()
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}

	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeState(t *testing.T, w *httptest.ResponseRecorder) State {
	var state State
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state), w.Body.String())
	return state
}

func createTestChart(t *testing.T, r http.Handler) State {
	w := doJSON(t, r, http.MethodPost, "/api/charts", CreateChartRequest{
		Symbol:   "ETHUSDT",
		Interval: types.Interval15m,
		Width:    800,
		Height:   400,
		Candles:  testCandles(),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeState(t, w)
}

// mapperOf returns the coordinate mapper the instance currently renders with.
func mapperOf(t *testing.T, s *Server, id string) chart.Mapper {
	instance, ok := s.Registry.Get(id)
	require.True(t, ok)

	var m chart.Mapper
	_ = instance.Do(func(c *chart.Chart) error {
		var ok bool
		m, _, ok = chart.NewEngine().Mapper(c.Snapshot())
		require.True(t, ok)
		return nil
	})
	return m
}

func TestServer_Ping(t *testing.T) {
	_, r := newTestServer(t, nil, Options{})
	w := doJSON(t, r, http.MethodGet, "/api/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pong")
}

func TestServer_ChartLifecycle(t *testing.T) {
	s, r := newTestServer(t, nil, Options{})
	state := createTestChart(t, r)
	assert.NotEmpty(t, state.ID)
	assert.Equal(t, 5, state.Candles)
	assert.Equal(t, chart.DefaultViewport(), state.Viewport)
	assert.Equal(t, 1, s.Registry.Len())

	base := "/api/charts/" + state.ID

	// hover the third candle
	m := mapperOf(t, s, state.ID)
	w := doJSON(t, r, http.MethodPost, base+"/events", PointerEvent{Type: EventEnter, X: m.XOf(2), Y: m.YOf(112)})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	state = decodeState(t, w)
	assert.Equal(t, 2, state.Cursor.HoveredIndex)
	assert.Equal(t, "hovering", state.State)

	w = doJSON(t, r, http.MethodGet, base+"/cursor", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var readout Readout
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &readout))
	assert.Equal(t, 2, readout.Index)
	assert.Equal(t, 115.0, readout.Candle.Close)

	// drag to the left
	for _, event := range []PointerEvent{
		{Type: EventDown, X: 300, Y: 200},
		{Type: EventMove, X: 250, Y: 200},
		{Type: EventUp, X: 250, Y: 200},
	} {
		w = doJSON(t, r, http.MethodPost, base+"/events", event)
		require.Equal(t, http.StatusOK, w.Code)
	}
	state = decodeState(t, w)
	assert.Equal(t, -50.0, state.Viewport.PanX)
	assert.Equal(t, "idle", state.State)

	w = doJSON(t, r, http.MethodPost, base+"/events", PointerEvent{Type: EventWheel, DeltaY: -100})
	assert.InDelta(t, 1.1, decodeState(t, w).Viewport.Zoom, 1e-9)

	// new data keeps the viewport unless asked otherwise
	w = doJSON(t, r, http.MethodPut, base+"/series", UpdateSeriesRequest{Candles: testCandles()[:4]})
	require.Equal(t, http.StatusOK, w.Code)
	state = decodeState(t, w)
	assert.Equal(t, 4, state.Candles)
	assert.Equal(t, -50.0, state.Viewport.PanX)

	w = doJSON(t, r, http.MethodPut, base+"/series", UpdateSeriesRequest{Candles: testCandles(), ResetViewport: true})
	assert.Equal(t, chart.DefaultViewport(), decodeState(t, w).Viewport)

	w = doJSON(t, r, http.MethodPost, base+"/events", PointerEvent{Type: EventWheel, DeltaY: 100})
	assert.InDelta(t, 0.9, decodeState(t, w).Viewport.Zoom, 1e-9)
	w = doJSON(t, r, http.MethodPost, base+"/reset", nil)
	assert.Equal(t, chart.DefaultViewport(), decodeState(t, w).Viewport)

	w = doJSON(t, r, http.MethodPost, base+"/events", PointerEvent{Type: EventLeave})
	assert.Equal(t, chart.NoCursor(), decodeState(t, w).Cursor)

	w = doJSON(t, r, http.MethodGet, base+"/cursor", nil)
	assert.Contains(t, w.Body.String(), `"hovered":false`)

	w = doJSON(t, r, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Zero(t, s.Registry.Len())
}

func TestServer_Frame(t *testing.T) {
	_, r := newTestServer(t, nil, Options{})
	state := createTestChart(t, r)

	w := doJSON(t, r, http.MethodGet, "/api/charts/"+state.ID+"/frame.png", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	img, err := png.Decode(w.Body)
	require.NoError(t, err)
	assert.Equal(t, 800, img.Bounds().Dx())
	assert.Equal(t, 400, img.Bounds().Dy())

	w = doJSON(t, r, http.MethodGet, "/api/charts/"+state.ID+"/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="ETHUSDT_15m_advanced_chart.png"`, w.Header().Get("Content-Disposition"))
}

func TestServer_FrameSurfaceUnavailable(t *testing.T) {
	_, r := newTestServer(t, nil, Options{})
	w := doJSON(t, r, http.MethodPost, "/api/charts", CreateChartRequest{
		Symbol:  "ETHUSDT",
		Width:   40,
		Height:  30,
		Candles: testCandles(),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/charts/"+decodeState(t, w).ID+"/frame.png", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestServer_PatchSettings(t *testing.T) {
	_, r := newTestServer(t, nil, Options{})
	state := createTestChart(t, r)

	req := httptest.NewRequest(http.MethodPatch, "/api/charts/"+state.ID+"/settings",
		strings.NewReader(`{"mode": "heikin-ashi", "showGrid": false}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	settings := decodeState(t, w).Settings
	assert.Equal(t, chart.ModeHeikinAshi, settings.Mode)
	assert.False(t, settings.ShowGrid)
	assert.True(t, settings.ShowVolume)

	req = httptest.NewRequest(http.MethodPatch, "/api/charts/"+state.ID+"/settings", strings.NewReader(`{"mode": "renko"}`))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_BadRequests(t *testing.T) {
	_, r := newTestServer(t, nil, Options{})

	w := doJSON(t, r, http.MethodPost, "/api/charts", CreateChartRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/charts", CreateChartRequest{Symbol: "BTCUSDT", Interval: "7m"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	state := createTestChart(t, r)
	w = doJSON(t, r, http.MethodPost, "/api/charts/"+state.ID+"/events", PointerEvent{Type: "tap"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/charts/unknown/events", PointerEvent{Type: EventMove})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_CreateFromSource(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	overlays := &types.OverlayBundle{
		LiquidityZones: []types.LiquidityZone{{Price: 112, Strength: 1, Kind: types.ZoneKindSupport}},
	}

	loader := mocks.NewMockDataLoader(mockCtrl)
	loader.EXPECT().LoadCandles([]string{filepath.Join("shared", "data", "ETHUSDT.csv")}, csvsource.FormatMetaTrader).Return(testCandles(), nil)
	loader.EXPECT().LoadOverlays(filepath.Join("shared", "data", "overlays.yaml")).Return(overlays, nil)

	s, r := newTestServer(t, loader, Options{DataDir: "shared"})
	w := doJSON(t, r, http.MethodPost, "/api/charts", CreateChartRequest{
		Symbol: "ETHUSDT",
		Source: &Source{
			Candles:   []string{"data/ETHUSDT.csv"},
			CSVFormat: csvsource.FormatMetaTrader,
			Overlays:  "data/overlays.yaml",
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	state := decodeState(t, w)
	assert.Equal(t, 5, state.Candles)

	instance, ok := s.Registry.Get(state.ID)
	require.True(t, ok)
	_ = instance.Do(func(c *chart.Chart) error {
		assert.Same(t, overlays, c.Overlays())
		return nil
	})
}

func TestServer_SourceError(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	loader := mocks.NewMockDataLoader(mockCtrl)
	loader.EXPECT().LoadCandles(gomock.Any(), gomock.Any()).Return(nil, csvsource.ErrInvalidPriceFormat)

	_, r := newTestServer(t, loader, Options{})
	w := doJSON(t, r, http.MethodPost, "/api/charts", CreateChartRequest{
		Symbol: "ETHUSDT",
		Source: &Source{Candles: []string{"broken.csv"}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "load candles")
}

func TestServer_InvalidInlineOverlays(t *testing.T) {
	_, r := newTestServer(t, nil, Options{})
	w := doJSON(t, r, http.MethodPost, "/api/charts", map[string]interface{}{
		"symbol":  "ETHUSDT",
		"candles": testCandles(),
		"overlays": map[string]interface{}{
			"liquidityZones": []map[string]interface{}{{"price": 110, "strength": 1}},
		},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "missing or invalid kind")
}

func TestServer_SourceOutsideDataDir(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	// nothing is loaded
	loader := mocks.NewMockDataLoader(mockCtrl)

	_, r := newTestServer(t, loader, Options{DataDir: t.TempDir()})
	state := createTestChart(t, r)

	sources := []Source{
		{Candles: []string{"/etc/passwd"}},
		{Candles: []string{"../secret.csv"}},
		{Candles: []string{"ok.csv"}, Overlays: "nested/../../overlays.json"},
	}
	for _, src := range sources {
		src := src
		w := doJSON(t, r, http.MethodPost, "/api/charts", CreateChartRequest{Symbol: "ETHUSDT", Source: &src})
		assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())

		w = doJSON(t, r, http.MethodPut, "/api/charts/"+state.ID+"/series", UpdateSeriesRequest{Source: &src})
		assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
	}
}

func TestServer_RateLimit(t *testing.T) {
	_, r := newTestServer(t, nil, Options{RateLimit: "1+1/1h"})
	state := createTestChart(t, r)

	event := PointerEvent{Type: EventMove, X: 100, Y: 100}
	w := doJSON(t, r, http.MethodPost, "/api/charts/"+state.ID+"/events", event)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/charts/"+state.ID+"/events", event)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestNew_InvalidRateLimit(t *testing.T) {
	_, err := New(nil, Options{RateLimit: "often"})
	assert.Error(t, err)
}

func TestServer_Stream(t *testing.T) {
	_, r := newTestServer(t, nil, Options{})
	state := createTestChart(t, r)

	ts := httptest.NewServer(r)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/charts/" + state.ID + "/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	messageType, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.BinaryMessage, messageType)
	_, err = png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	require.NoError(t, conn.WriteJSON(PointerEvent{Type: EventEnter, X: 300, Y: 200}))
	messageType, data, err = conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.BinaryMessage, messageType)
	assert.NotEmpty(t, data)

	require.NoError(t, conn.WriteJSON(PointerEvent{Type: "tap"}))
	messageType, data, err = conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.TextMessage, messageType)
	assert.Contains(t, string(data), "unknown event type")
}

func TestServer_StreamThrottled(t *testing.T) {
	_, r := newTestServer(t, nil, Options{RateLimit: "1+1/1h"})
	state := createTestChart(t, r)

	ts := httptest.NewServer(r)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/charts/" + state.ID + "/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// initial frame
	_, _, err = conn.ReadMessage()
	require.NoError(t, err)

	require.NoError(t, conn.WriteJSON(PointerEvent{Type: EventMove, X: 300, Y: 200}))
	messageType, _, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.BinaryMessage, messageType)

	require.NoError(t, conn.WriteJSON(PointerEvent{Type: EventMove, X: 310, Y: 200}))
	messageType, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.TextMessage, messageType)
	assert.JSONEq(t, `{"error":"too many events"}`, string(data))
}

func TestSnapshotter(t *testing.T) {
	s, r := newTestServer(t, nil, Options{})
	state := createTestChart(t, r)

	dir := t.TempDir()
	snapshotter, err := NewSnapshotter(s.Registry, "@every 1h", dir)
	require.NoError(t, err)
	snapshotter.SnapshotAll()

	info, err := os.Stat(filepath.Join(dir, state.ID, "ETHUSDT_15m_advanced_chart.png"))
	require.NoError(t, err)
	assert.NotZero(t, info.Size())

	_, err = NewSnapshotter(s.Registry, "every tuesday", dir)
	assert.Error(t, err)
}
