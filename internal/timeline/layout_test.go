package timeline

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/Domenick1991/roundtrip/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

func ptr(t time.Time) *time.Time { return &t }

func trip(price int, od, oa, rd, ra time.Time, outStops, retStops int) domain.Itinerary {
	return domain.Itinerary{
		Outbound:   domain.Leg{Airline: "Out", DepartureAt: ptr(od), ArrivalAt: ptr(oa), Stops: outStops},
		Return:     domain.Leg{Airline: "Ret", DepartureAt: ptr(rd), ArrivalAt: ptr(ra), Stops: retStops},
		TotalPrice: price,
		DestHours:  rd.Sub(oa).Hours(),
	}
}

func TestBuild_Zones(t *testing.T) {
	d := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	h := func(n float64) time.Time { return d.Add(time.Duration(n * float64(time.Hour))) }

	its := []domain.Itinerary{
		trip(450, h(6), h(12), h(100), h(104), 1, 0),
		trip(500, h(8), h(16), h(98), h(106), 0, 0),
	}

	layout := Build(its, []int{0, 1})
	require.Len(t, layout.Rows, 2)

	// Outbound zone 6h-16h (10h), return zone 98h-106h (8h).
	assert.InDelta(t, 10.0/18*100, layout.OutboundFlex, tolerance)
	assert.InDelta(t, 8.0/18*100, layout.ReturnFlex, tolerance)
	assert.Equal(t, h(6), layout.OutboundStart)
	assert.Equal(t, h(106), layout.ReturnEnd)

	r0 := layout.Rows[0]
	assert.Equal(t, 0, r0.Index)
	assert.InDelta(t, 0, r0.Outbound.Pre, tolerance)
	assert.InDelta(t, 60, r0.Outbound.Width, tolerance)
	assert.InDelta(t, 40, r0.Outbound.Post, tolerance)
	assert.InDelta(t, 25, r0.Return.Pre, tolerance)
	assert.InDelta(t, 50, r0.Return.Width, tolerance)
	assert.InDelta(t, 25, r0.Return.Post, tolerance)
	assert.Equal(t, "s1", r0.Outbound.Severity)
	assert.Equal(t, "s0", r0.Return.Severity)
	assert.Equal(t, "6a", r0.Outbound.DepartLabel)
	assert.Equal(t, "12p", r0.Outbound.ArriveLabel)

	r1 := layout.Rows[1]
	assert.InDelta(t, 20, r1.Outbound.Pre, tolerance)
	assert.InDelta(t, 80, r1.Outbound.Width, tolerance)
	assert.InDelta(t, 0, r1.Outbound.Post, tolerance)
}

func TestBuild_CrossTimezoneUsesAbsoluteTime(t *testing.T) {
	la, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// Both legs leave SFO at the same instant but are written in different zones.
	dep1 := time.Date(2026, time.March, 10, 8, 0, 0, 0, la)
	dep2 := time.Date(2026, time.March, 10, 11, 0, 0, 0, ny)
	arr := time.Date(2026, time.March, 10, 16, 30, 0, 0, ny)
	rd := time.Date(2026, time.March, 14, 9, 0, 0, 0, ny)
	ra := time.Date(2026, time.March, 14, 12, 0, 0, 0, la)

	layout := Build([]domain.Itinerary{
		trip(400, dep1, arr, rd, ra, 0, 0),
		trip(410, dep2, arr, rd, ra, 0, 0),
	}, []int{0, 1})

	require.Len(t, layout.Rows, 2)
	assert.InDelta(t, 0, layout.Rows[0].Outbound.Pre, tolerance)
	assert.InDelta(t, 0, layout.Rows[1].Outbound.Pre, tolerance)
	assert.InDelta(t, 100, layout.Rows[1].Outbound.Width, tolerance)
	// Labels keep each leg's local wall clock.
	assert.Equal(t, "8a", layout.Rows[0].Outbound.DepartLabel)
	assert.Equal(t, "11a", layout.Rows[1].Outbound.DepartLabel)
	assert.Equal(t, "4:30p", layout.Rows[0].Outbound.ArriveLabel)
}

func TestBuild_DegenerateZone(t *testing.T) {
	d := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	it := trip(300, d, d, d.Add(time.Hour), d.Add(time.Hour), 0, 0)

	layout := Build([]domain.Itinerary{it, it}, []int{0, 1})

	require.Len(t, layout.Rows, 2)
	for _, r := range layout.Rows {
		for _, v := range []float64{r.Outbound.Pre, r.Outbound.Width, r.Outbound.Post, r.Return.Pre, r.Return.Width, r.Return.Post} {
			assert.False(t, math.IsNaN(v))
			assert.False(t, math.IsInf(v, 0))
		}
	}
	assert.InDelta(t, 50, layout.OutboundFlex, tolerance)
	assert.InDelta(t, 50, layout.ReturnFlex, tolerance)
}

func TestBuild_SkipsUntimedAndOutOfRange(t *testing.T) {
	d := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	good := trip(300, d, d.Add(5*time.Hour), d.Add(48*time.Hour), d.Add(53*time.Hour), 0, 0)
	bad := good
	bad.Return.ArrivalAt = nil

	layout := Build([]domain.Itinerary{good, bad}, []int{1, 0, 7, -1})
	require.Len(t, layout.Rows, 1)
	assert.Equal(t, 0, layout.Rows[0].Index)

	assert.Empty(t, Build(nil, nil).Rows)
	assert.Empty(t, Build([]domain.Itinerary{bad}, []int{0}).Rows)
}

func TestBuild_ProportionsSumToHundred(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	d := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	at := func(minutes int) time.Time { return d.Add(time.Duration(minutes) * time.Minute) }

	for round := 0; round < 25; round++ {
		var its []domain.Itinerary
		var idx []int
		for i := 0; i < 12; i++ {
			od := rng.Intn(2 * 24 * 60)
			oa := od + 60 + rng.Intn(12*60)
			rd := oa + 60 + rng.Intn(5*24*60)
			ra := rd + 60 + rng.Intn(12*60)
			its = append(its, trip(100+i, at(od), at(oa), at(rd), at(ra), rng.Intn(4), rng.Intn(4)))
			idx = append(idx, i)
		}

		layout := Build(its, idx)
		require.Len(t, layout.Rows, len(its))
		assert.InDelta(t, 100, layout.OutboundFlex+layout.ReturnFlex, 1e-6)
		for _, r := range layout.Rows {
			assert.InDelta(t, 100, r.Outbound.Pre+r.Outbound.Width+r.Outbound.Post, 1e-6)
			assert.InDelta(t, 100, r.Return.Pre+r.Return.Width+r.Return.Post, 1e-6)
			assert.GreaterOrEqual(t, r.Outbound.Pre, -1e-9)
			assert.GreaterOrEqual(t, r.Return.Post, -1e-9)
		}
	}
}

func TestShortTime(t *testing.T) {
	testCases := []struct {
		h, m int
		want string
	}{
		{0, 0, "12a"},
		{0, 5, "12:05a"},
		{9, 30, "9:30a"},
		{12, 0, "12p"},
		{13, 15, "1:15p"},
		{22, 0, "10p"},
		{23, 59, "11:59p"},
	}
	for _, tc := range testCases {
		got := ShortTime(time.Date(2026, time.March, 10, tc.h, tc.m, 0, 0, time.UTC))
		assert.Equal(t, tc.want, got)
	}
}

func TestSeverity(t *testing.T) {
	assert.Equal(t, "s0", Severity(0))
	assert.Equal(t, "s1", Severity(1))
	assert.Equal(t, "s2", Severity(2))
	assert.Equal(t, "s3", Severity(3))
	assert.Equal(t, "s3", Severity(7))
}

func TestScatter(t *testing.T) {
	d := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	its := []domain.Itinerary{
		trip(450, d, d.Add(6*time.Hour), d.Add(30*time.Hour), d.Add(36*time.Hour), 1, 0),
		trip(500, d, d.Add(5*time.Hour), d.Add(40*time.Hour), d.Add(46*time.Hour), 0, 0),
	}

	chart := Scatter(its, []int{0, 1, 9})

	require.Len(t, chart.Points, 2)
	assert.Equal(t, "$450 Out/Ret", chart.Points[0].Label)
	assert.Equal(t, "s1", chart.Points[0].Severity)
	assert.Equal(t, "s0", chart.Points[1].Severity)
	assert.Equal(t, 24.0, chart.Points[0].DestHours)
	require.Len(t, chart.Frontier, 2)
	assert.Equal(t, 1, chart.Frontier[1].Index)
}
