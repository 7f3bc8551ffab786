package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"zero value", Config{}, true},
		{"typical", Config{Commission: 2.5, InitialDeposit: 10000, PeriodicDeposit: 500, DepositInterval: 30, Inflation: 2.5}, true},
		{"negative commission", Config{Commission: -0.1}, false},
		{"negative initial", Config{InitialDeposit: -1}, false},
		{"negative periodic", Config{PeriodicDeposit: -1}, false},
		{"periodic without interval", Config{PeriodicDeposit: 500}, false},
		{"negative interval", Config{DepositInterval: -1}, false},
		{"deflation past floor", Config{Inflation: -100}, false},
		{"mild deflation", Config{Inflation: -2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestPositionBorrowed(t *testing.T) {
	long := Position{Quantity: 100, EntryPrice: 50, Debt: 2000}
	assert.Equal(t, 2000.0, long.Borrowed(60))
	assert.Equal(t, 6000.0, long.MarketValue(60))
	assert.True(t, long.Open())

	short := Position{Quantity: -40, EntryPrice: 50}
	assert.Equal(t, 2400.0, short.Borrowed(60))
	assert.Equal(t, -2400.0, short.MarketValue(60))

	var flat Position
	assert.False(t, flat.Open())
	assert.Equal(t, 0.0, flat.Borrowed(60))
}
