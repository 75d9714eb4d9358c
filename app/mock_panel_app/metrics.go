package mock_panel_app

import (
	"strconv"
	"sync"

	"go_mock_panel/utils"

	"github.com/go-chassis/go-chassis/v2/pkg/metrics"
)

const requestCounter = "panel_request_counter"

// Recorder counts handled panel requests.
type Recorder interface {
	Request(method, route string, status int)
}

type chassisRecorder struct {
	once sync.Once
	ok   bool
}

// NewChassisRecorder reports through the go-chassis metrics registry. It
// must be created after chassis.Init.
func NewChassisRecorder() Recorder {
	return &chassisRecorder{}
}

func (r *chassisRecorder) Request(method, route string, status int) {
	r.once.Do(func() {
		err := metrics.CreateCounter(metrics.CounterOpts{
			Name:   requestCounter,
			Help:   "panel requests by method, route and status",
			Labels: []string{"method", "route", "status"},
		})
		if err != nil {
			utils.GetLogger().Warnf("create request counter: %v", err)
			return
		}
		r.ok = true
	})
	if !r.ok {
		return
	}
	if err := metrics.CounterAdd(requestCounter, 1, map[string]string{
		"method": method,
		"route":  route,
		"status": strconv.Itoa(status),
	}); err != nil {
		utils.GetLogger().Debugf("count request: %v", err)
	}
}

type nopRecorder struct{}

func NewNopRecorder() Recorder { return nopRecorder{} }

func (nopRecorder) Request(string, string, int) {}
