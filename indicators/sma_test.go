package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/backsim/market"
)

func TestSMA(t *testing.T) {
	m, err := NewSMA(3)
	require.NoError(t, err)
	assert.Equal(t, "SMA(3)", m.Name())
	assert.Equal(t, 3, m.Warmup())

	closes := []float64{102, 105, 106, 108, 110}

	m.Update(market.Bar{Close: closes[0]})
	m.Update(market.Bar{Close: closes[1]})
	assert.False(t, m.Ready())
	assert.Equal(t, 0.0, m.Value())

	m.Update(market.Bar{Close: closes[2]})
	assert.True(t, m.Ready())
	// (102+105+106)/3
	assert.InDelta(t, 104.333333, m.Value(), 0.001)

	m.Update(market.Bar{Close: closes[3]})
	// Window slides: (105+106+108)/3
	assert.InDelta(t, 106.333333, m.Value(), 0.001)

	m.Update(market.Bar{Close: closes[4]})
	// (106+108+110)/3
	assert.InDelta(t, 108.0, m.Value(), 0.001)
}

func TestSMAReset(t *testing.T) {
	m, err := NewSMA(2)
	require.NoError(t, err)
	m.Update(market.Bar{Close: 10})
	m.Update(market.Bar{Close: 20})
	assert.True(t, m.Ready())

	m.Reset()
	assert.False(t, m.Ready())
	assert.Equal(t, 0.0, m.Value())

	m.Update(market.Bar{Close: 30})
	m.Update(market.Bar{Close: 50})
	assert.InDelta(t, 40, m.Value(), 1e-9)
}

func TestSMAInvalidPeriod(t *testing.T) {
	for _, period := range []int{0, -1} {
		_, err := NewSMA(period)
		assert.Error(t, err, "period %d", period)
	}
}
