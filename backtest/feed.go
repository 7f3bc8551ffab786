package backtest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/backsim/market"
)

// CSVBarFeed reads canonical daily quote CSV rows:
//
//	date,open,high,low,close,volume[,dividend]
//
// where date is 2006-01-02 or RFC3339.
//
// It optionally filters bars to [From, To) if provided.
// Header row ("date,...") is allowed.
// Empty/short rows are skipped.
//
// This is demo-layer file I/O: the simulation engine itself consumes
// only in-memory series and never reads files.
type CSVBarFeed struct {
	f    *os.File
	r    *csv.Reader
	from time.Time
	to   time.Time

	sawFirst bool
}

func NewCSVBarFeed(path string, from, to time.Time) (*CSVBarFeed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	return &CSVBarFeed{f: f, r: r, from: from, to: to}, nil
}

func (f *CSVBarFeed) Close() error {
	if f.f != nil {
		return f.f.Close()
	}
	return nil
}

func (f *CSVBarFeed) Next() (market.Bar, bool, error) {
	for {
		row, err := f.r.Read()
		if err == io.EOF {
			return market.Bar{}, false, nil
		}
		if err != nil {
			return market.Bar{}, false, err
		}
		if len(row) == 0 {
			continue
		}

		// Allow a single header row
		if !f.sawFirst {
			f.sawFirst = true
			if strings.EqualFold(strings.TrimSpace(row[0]), "date") {
				continue
			}
		}

		b, ok, err := parseBarRow(row)
		if err != nil {
			return market.Bar{}, false, err
		}
		if !ok {
			continue
		}
		if !inRange(b.Date, f.from, f.to) {
			continue
		}
		return b, true, nil
	}
}

func parseBarRow(row []string) (market.Bar, bool, error) {
	// Need at least: date,open,high,low,close,volume
	if len(row) < 6 {
		return market.Bar{}, false, nil
	}

	ds := strings.TrimSpace(row[0])
	if ds == "" {
		return market.Bar{}, false, nil
	}
	// Accept a plain date or RFC3339.
	d, err := time.Parse("2006-01-02", ds)
	if err != nil {
		d2, err2 := time.Parse(time.RFC3339, ds)
		if err2 != nil {
			return market.Bar{}, false, fmt.Errorf("bad date %q: %w", ds, err)
		}
		d = d2
	}

	vals := make([]float64, 5)
	names := []string{"open", "high", "low", "close", "volume"}
	for i := range vals {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[i+1]), 64)
		if err != nil {
			return market.Bar{}, false, fmt.Errorf("bad %s %q: %w", names[i], row[i+1], err)
		}
		vals[i] = v
	}

	b := market.Bar{
		Date:   d,
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}

	if len(row) > 6 && strings.TrimSpace(row[6]) != "" {
		div, err := strconv.ParseFloat(strings.TrimSpace(row[6]), 64)
		if err != nil {
			return market.Bar{}, false, fmt.Errorf("bad dividend %q: %w", row[6], err)
		}
		b.Dividend = div
	}

	return b, true, nil
}

func inRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && !t.Before(to) {
		return false
	}
	return true
}

// LoadSeries reads a whole CSV quote file into a series for the given
// symbol. Per-symbol trading parameters are left at their zero values
// for the caller to fill in.
func LoadSeries(path, symbol string, from, to time.Time) (*market.Series, error) {
	feed, err := NewCSVBarFeed(path, from, to)
	if err != nil {
		return nil, err
	}
	defer feed.Close()

	s := &market.Series{Symbol: symbol}
	for {
		b, ok, err := feed.Next()
		if err != nil {
			return nil, fmt.Errorf("backtest: %s: %w", path, err)
		}
		if !ok {
			break
		}
		s.Bars = append(s.Bars, b)
	}
	if len(s.Bars) == 0 {
		return nil, fmt.Errorf("backtest: %s holds no bars in the requested range", path)
	}
	return s, nil
}
