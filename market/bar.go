package market

import "time"

// Bar represents one OHLCV record for one symbol on one date.
type Bar struct {
	Date     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   float64
	Dividend float64 // per-share payout on this bar, 0 if none
}
