package backtest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quotes.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCSVBarFeed(t *testing.T) {
	path := writeCSV(t, `date,open,high,low,close,volume
2020-01-01,100,102,99,101,5000
2020-01-02,101,103,100,102,6000

2020-01-03,102,104,101,103,7000
`)

	feed, err := NewCSVBarFeed(path, time.Time{}, time.Time{})
	require.NoError(t, err)
	defer feed.Close()

	b, ok, err := feed.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), b.Date)
	assert.Equal(t, 100.0, b.Open)
	assert.Equal(t, 101.0, b.Close)
	assert.Equal(t, 5000.0, b.Volume)
	assert.Equal(t, 0.0, b.Dividend)

	b, ok, err = feed.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 102.0, b.Close)

	// Blank line is skipped.
	b, ok, err = feed.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 103.0, b.Close)

	_, ok, err = feed.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCSVBarFeedDividendColumn(t *testing.T) {
	path := writeCSV(t, `2020-01-01,100,102,99,101,5000,0.25
2020-01-02,101,103,100,102,6000,
`)

	feed, err := NewCSVBarFeed(path, time.Time{}, time.Time{})
	require.NoError(t, err)
	defer feed.Close()

	b, ok, err := feed.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0.25, b.Dividend)

	b, ok, err = feed.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0.0, b.Dividend)
}

func TestCSVBarFeedRange(t *testing.T) {
	path := writeCSV(t, `2020-01-01,1,1,1,1,0
2020-01-02,2,2,2,2,0
2020-01-03,3,3,3,3,0
2020-01-04,4,4,4,4,0
`)

	from := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2020, 1, 4, 0, 0, 0, 0, time.UTC)

	s, err := LoadSeries(path, "TEST", from, to)
	require.NoError(t, err)

	// [from, to): the 2nd and 3rd only.
	require.Equal(t, 2, s.Len())
	assert.Equal(t, 2.0, s.Bars[0].Close)
	assert.Equal(t, 3.0, s.Bars[1].Close)
}

func TestCSVBarFeedBadRows(t *testing.T) {
	t.Run("bad date", func(t *testing.T) {
		path := writeCSV(t, "not-a-date,1,1,1,1,0\n")
		feed, err := NewCSVBarFeed(path, time.Time{}, time.Time{})
		require.NoError(t, err)
		defer feed.Close()

		_, _, err = feed.Next()
		assert.Error(t, err)
	})

	t.Run("bad close", func(t *testing.T) {
		path := writeCSV(t, "2020-01-01,1,1,1,oops,0\n")
		feed, err := NewCSVBarFeed(path, time.Time{}, time.Time{})
		require.NoError(t, err)
		defer feed.Close()

		_, _, err = feed.Next()
		assert.Error(t, err)
	})

	t.Run("short rows are skipped", func(t *testing.T) {
		path := writeCSV(t, "2020-01-01,1,1\n2020-01-02,1,1,1,1,0\n")
		feed, err := NewCSVBarFeed(path, time.Time{}, time.Time{})
		require.NoError(t, err)
		defer feed.Close()

		b, ok, err := feed.Next()
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), b.Date)
	})
}

func TestLoadSeriesEmpty(t *testing.T) {
	path := writeCSV(t, "date,open,high,low,close,volume\n")
	_, err := LoadSeries(path, "TEST", time.Time{}, time.Time{})
	assert.Error(t, err)
}

func TestLoadSeriesMissingFile(t *testing.T) {
	_, err := LoadSeries(filepath.Join(t.TempDir(), "nope.csv"), "TEST", time.Time{}, time.Time{})
	assert.Error(t, err)
}
