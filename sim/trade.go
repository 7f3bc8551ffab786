package sim

// TradeKind identifies how a position changed on a given day.
type TradeKind int

const (
	TradeNone TradeKind = iota
	TradeLong             // opened a long position
	TradeShort            // opened a short position
	TradeClose            // closed flat on signal
	TradeMarginCall       // forced flatten: borrowed capital past the hard limit
)

func (k TradeKind) String() string {
	switch k {
	case TradeLong:
		return "long"
	case TradeShort:
		return "short"
	case TradeClose:
		return "close"
	case TradeMarginCall:
		return "margin-call"
	default:
		return "none"
	}
}

// TradeOutcome reports what the execution step did with one symbol on
// one day. Margin calls are expected, recoverable outcomes, so they are
// reported here, recorded into the day's row, rather than as errors;
// the run always continues.
type TradeOutcome struct {
	Symbol   string
	Kind     TradeKind
	Price    float64
	Quantity float64 // signed quantity the action applied to
	Rejected bool    // a signalled trade was refused this day
}
