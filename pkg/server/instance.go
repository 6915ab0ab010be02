package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/c9s/smcchart/pkg/chart"
	"github.com/c9s/smcchart/pkg/types"
)

// ChartInstance is one chart held by the server. The engine is single
// threaded, every access goes through mu.
type ChartInstance struct {
	ID        string
	CreatedAt time.Time

	mu      sync.Mutex
	chart   *chart.Chart
	limiter *rate.Limiter
}

func NewChartInstance(c *chart.Chart, limiter *rate.Limiter) *ChartInstance {
	return &ChartInstance{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		chart:     c,
		limiter:   limiter,
	}
}

// State is the JSON view of an instance.
type State struct {
	ID       string         `json:"id"`
	Symbol   string         `json:"symbol"`
	Interval types.Interval `json:"interval"`
	Width    float64        `json:"width"`
	Height   float64        `json:"height"`
	Candles  int            `json:"candles"`
	Settings chart.Settings `json:"settings"`
	Viewport chart.Viewport `json:"viewport"`
	Cursor   chart.Cursor   `json:"cursor"`
	State    string         `json:"state"`
}

// Readout is the hovered candle as shown in the info panel.
type Readout struct {
	Index  int          `json:"index"`
	Time   time.Time    `json:"time"`
	Candle types.Candle `json:"candle"`
	Change float64      `json:"changePercentage"`
	Cursor chart.Cursor `json:"cursor"`
}

// Do runs fn with exclusive access to the chart.
func (i *ChartInstance) Do(fn func(c *chart.Chart) error) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return fn(i.chart)
}

// Allow reports whether one more pointer event may be processed now.
func (i *ChartInstance) Allow() bool {
	return i.limiter == nil || i.limiter.Allow()
}

func (i *ChartInstance) State() (s State) {
	_ = i.Do(func(c *chart.Chart) error {
		s = i.stateLocked(c)
		return nil
	})
	return s
}

func (i *ChartInstance) stateLocked(c *chart.Chart) State {
	return State{
		ID:       i.ID,
		Symbol:   c.Symbol,
		Interval: c.Interval,
		Width:    c.Width,
		Height:   c.Height,
		Candles:  len(c.Series()),
		Settings: c.Settings,
		Viewport: c.Viewport(),
		Cursor:   c.Cursor(),
		State:    c.Controller().State().String(),
	}
}

// RenderPNG renders the current frame and encodes it.
func (i *ChartInstance) RenderPNG() (data []byte, fileName string, err error) {
	err = i.Do(func(c *chart.Chart) error {
		fileName = c.ExportFileName()
		data, err = c.Render().Bytes()
		return err
	})
	return data, fileName, err
}

// Registry maps instance IDs to charts.
type Registry struct {
	mu     sync.RWMutex
	charts map[string]*ChartInstance
}

func NewRegistry() *Registry {
	return &Registry{charts: make(map[string]*ChartInstance)}
}

func (r *Registry) Add(i *ChartInstance) {
	r.mu.Lock()
	r.charts[i.ID] = i
	n := len(r.charts)
	r.mu.Unlock()

	chartInstancesMetrics.Set(float64(n))
}

func (r *Registry) Get(id string) (*ChartInstance, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.charts[id]
	return i, ok
}

func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	_, ok := r.charts[id]
	delete(r.charts, id)
	n := len(r.charts)
	r.mu.Unlock()

	chartInstancesMetrics.Set(float64(n))
	return ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.charts)
}

// Instances returns a copy of the registered instances.
func (r *Registry) Instances() []*ChartInstance {
	r.mu.RLock()
	defer r.mu.RUnlock()

	instances := make([]*ChartInstance, 0, len(r.charts))
	for _, i := range r.charts {
		instances = append(instances, i)
	}
	return instances
}
