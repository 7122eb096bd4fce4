package week

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christopherklint97/daybook/internal/daydata"
	"github.com/christopherklint97/daybook/internal/store"
)

// 2026-02-27 is a Friday in ISO week 9.
var friday = time.Date(2026, 2, 27, 10, 30, 0, 0, time.UTC)

func TestStartOf(t *testing.T) {
	tests := []struct {
		first time.Weekday
		want  time.Time
	}{
		{time.Monday, time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC)},
		{time.Sunday, time.Date(2026, 2, 22, 0, 0, 0, 0, time.UTC)},
		{time.Friday, time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)},
		{time.Saturday, time.Date(2026, 2, 21, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got := StartOf(friday, tt.first)
		assert.True(t, got.Equal(tt.want), "StartOf(%s) = %v, want %v", tt.first, got, tt.want)
	}
}

func TestDays_SevenConsecutive(t *testing.T) {
	start := time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC)
	days := Days(start)

	assert.True(t, days[0].Equal(start))
	for i := 1; i < len(days); i++ {
		assert.Equal(t, 24*time.Hour, days[i].Sub(days[i-1]))
	}
	assert.Equal(t, "2026-03-01", daydata.DateKey(days[6]))
}

func TestIndicators(t *testing.T) {
	s := daydata.New(store.NewMemoryKV(), nil)
	start := StartOf(friday, time.Monday)

	tue := start.AddDate(0, 0, 1)
	thu := start.AddDate(0, 0, 3)
	_, err := s.AddEntry(tue, daydata.EntryInput{
		StartTime: tue.Add(9 * time.Hour),
		EndTime:   tue.Add(10 * time.Hour),
		Category:  daydata.CategoryWork,
	})
	require.NoError(t, err)
	require.NoError(t, s.SetSleepTime(thu, thu.Add(23*time.Hour)))

	ind := Indicators(s, start)
	require.Len(t, ind, 7)

	assert.Equal(t, "2026-02-24", ind[1].Key)
	assert.True(t, ind[1].HasEntries)
	assert.False(t, ind[1].HasWakeOrSleep)

	assert.Equal(t, "2026-02-26", ind[3].Key)
	assert.False(t, ind[3].HasEntries)
	assert.True(t, ind[3].HasWakeOrSleep)

	for _, i := range []int{0, 2, 4, 5, 6} {
		assert.False(t, ind[i].HasEntries, "day %d", i)
		assert.False(t, ind[i].HasWakeOrSleep, "day %d", i)
	}
}

func TestNavigationAndLabels(t *testing.T) {
	start := StartOf(friday, time.Monday)

	assert.Equal(t, "2026-W09", Label(start))
	assert.Equal(t, "2026-W10", Label(Next(start)))
	assert.Equal(t, "2026-W08", Label(Prev(start)))
	assert.Equal(t, "Feb 23 – Mar 1", RangeLabel(start))
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)
	assert.True(t, SameDay(a, friday))
	assert.False(t, SameDay(a, a.AddDate(0, 0, 1)))
}

func TestParseWeekday(t *testing.T) {
	d, err := ParseWeekday("Sunday")
	require.NoError(t, err)
	assert.Equal(t, time.Sunday, d)

	d, err = ParseWeekday("mon")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, d)

	_, err = ParseWeekday("funday")
	assert.Error(t, err)
}
