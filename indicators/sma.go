package indicators

import (
	"fmt"

	"github.com/rustyeddy/backsim/market"
)

// SMA is a streaming simple moving average over close prices.
type SMA struct {
	period int
	closes []float64
	sum    float64
}

// NewSMA creates a simple moving average indicator with the given period.
func NewSMA(period int) (*SMA, error) {
	if period <= 0 {
		return nil, fmt.Errorf("indicators: period must be positive, got %d", period)
	}
	return &SMA{
		period: period,
		closes: make([]float64, 0, period),
	}, nil
}

func (m *SMA) Name() string {
	return fmt.Sprintf("SMA(%d)", m.period)
}

func (m *SMA) Warmup() int {
	return m.period
}

func (m *SMA) Reset() {
	m.closes = m.closes[:0]
	m.sum = 0
}

func (m *SMA) Update(b market.Bar) {
	m.sum += b.Close
	m.closes = append(m.closes, b.Close)
	// Keep only the last 'period' closes
	if len(m.closes) > m.period {
		m.sum -= m.closes[0]
		m.closes = m.closes[1:]
	}
}

func (m *SMA) Ready() bool {
	return len(m.closes) >= m.period
}

func (m *SMA) Value() float64 {
	if !m.Ready() {
		return 0
	}
	return m.sum / float64(len(m.closes))
}
