package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWindowForDay(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	window, err := WindowForDay("2025-03-14", loc)
	require.NoError(t, err)
	require.Equal(t, "2025-03-14", window.Day())
	require.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, loc), window.From)
	require.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, loc), window.To)
}

func TestWindowForDayEmptySelectsToday(t *testing.T) {
	window, err := WindowForDay("", time.UTC)
	require.NoError(t, err)
	require.Equal(t, time.Now().UTC().Format(DayFormat), window.Day())
	require.Equal(t, 24*time.Hour, window.To.Sub(window.From))
}

func TestWindowForDayRejectsBadFormat(t *testing.T) {
	_, err := WindowForDay("14-03-2025", time.UTC)
	require.Error(t, err)
	_, err = WindowForDay("2025-3-14", time.UTC)
	require.Error(t, err)
}

func TestContainsIsHalfOpen(t *testing.T) {
	window, err := WindowForDay("2025-03-14", time.UTC)
	require.NoError(t, err)

	require.True(t, window.Contains(window.From), "midnight belongs to the day")
	require.True(t, window.Contains(window.From.Add(23*time.Hour+59*time.Minute)))
	require.False(t, window.Contains(window.To), "next midnight belongs to the next day")
	require.False(t, window.Contains(window.From.Add(-time.Nanosecond)))
}
