package toll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupIntoWindows(t *testing.T) {
	windows := GroupIntoWindows([]time.Time{
		at("2013-03-11", "07:31"),
		at("2013-03-11", "06:30"),
		at("2013-03-11", "07:00"),
		at("2013-03-11", "08:20"),
		at("2013-03-11", "15:00"),
	}, time.Hour)

	require.Len(t, windows, 3)
	assert.Equal(t, at("2013-03-11", "06:30"), windows[0].Start)
	assert.Equal(t, []time.Time{at("2013-03-11", "07:00")}, windows[0].Members)

	// 08:20 is within an hour of 07:31 but not of 06:30; it joins the second window.
	assert.Equal(t, at("2013-03-11", "07:31"), windows[1].Start)
	assert.Equal(t, []time.Time{at("2013-03-11", "08:20")}, windows[1].Members)

	assert.Equal(t, at("2013-03-11", "15:00"), windows[2].Start)
	assert.Empty(t, windows[2].Members)
}

func TestGroupIntoWindows_NoBacktracking(t *testing.T) {
	// 07:15 is ten minutes after 07:05, but the window is measured from 06:10.
	windows := GroupIntoWindows([]time.Time{
		at("2013-03-11", "06:10"),
		at("2013-03-11", "07:05"),
		at("2013-03-11", "07:15"),
	}, time.Hour)

	require.Len(t, windows, 2)
	assert.Len(t, windows[0].Members, 1)
	assert.Equal(t, at("2013-03-11", "07:15"), windows[1].Start)
}

func TestGroupIntoWindows_EveryPassageOnce(t *testing.T) {
	input := []time.Time{
		at("2013-03-11", "06:00"),
		at("2013-03-11", "06:00"),
		at("2013-03-11", "06:59"),
		at("2013-03-11", "07:00"),
		at("2013-03-11", "07:01"),
		at("2013-03-11", "09:00"),
	}
	windows := GroupIntoWindows(input, time.Hour)

	count := 0
	for i, w := range windows {
		for _, m := range w.Members {
			assert.False(t, m.Before(w.Start))
			assert.LessOrEqual(t, m.Sub(w.Start), time.Hour)
		}
		if i > 0 {
			prev := windows[i-1].Passages()
			assert.True(t, w.Start.After(prev[len(prev)-1]))
		}
		count += len(w.Passages())
	}
	assert.Equal(t, len(input), count)
}

func TestGroupIntoWindows_DoesNotMutateInput(t *testing.T) {
	input := []time.Time{at("2013-03-11", "09:00"), at("2013-03-11", "06:00")}
	_ = GroupIntoWindows(input, time.Hour)
	assert.Equal(t, at("2013-03-11", "09:00"), input[0])
}

func TestGroupIntoWindows_Empty(t *testing.T) {
	assert.Nil(t, GroupIntoWindows(nil, time.Hour))
}

func TestService_FeePerWindow(t *testing.T) {
	svc := newTestService(t)

	single := Window{Start: at("2013-03-11", "15:00")}
	assert.Equal(t, 13, svc.FeePerWindow(car, single))

	mixed := Window{
		Start:   at("2013-03-11", "06:10"),
		Members: []time.Time{at("2013-03-11", "06:40"), at("2013-03-11", "07:09")},
	}
	assert.Equal(t, 18, svc.FeePerWindow(car, mixed))
}
