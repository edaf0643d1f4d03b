package usecase

import "math"

const (
	trendUp   = "up"
	trendDown = "down"
	trendFlat = "flat"
)

type forecast struct {
	Next       float64
	Regression float64
	Growth     float64
	Direction  string
}

// forecastNext projects the next weekly total from up to the last four
// weeks: half least-squares line, half last*(1+mean week-over-week growth).
func forecastNext(weekly []int64) forecast {
	if len(weekly) > 4 {
		weekly = weekly[len(weekly)-4:]
	}
	if len(weekly) == 0 {
		return forecast{Direction: trendFlat}
	}

	last := float64(weekly[len(weekly)-1])
	reg := linearProjection(weekly)
	growth := last * (1 + meanGrowth(weekly))

	next := math.Max(0, 0.5*reg+0.5*growth)
	return forecast{
		Next:       round2(next),
		Regression: round2(reg),
		Growth:     round2(growth),
		Direction:  direction(last, next),
	}
}

// linearProjection fits y = a + b*x over x = 1..n and evaluates at n+1.
func linearProjection(ys []int64) float64 {
	n := float64(len(ys))
	if len(ys) == 1 {
		return float64(ys[0])
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range ys {
		x := float64(i + 1)
		sumX += x
		sumY += float64(y)
		sumXY += x * float64(y)
		sumXX += x * x
	}

	slope := (n*sumXY - sumX*sumY) / (n*sumXX - sumX*sumX)
	intercept := (sumY - slope*sumX) / n
	return intercept + slope*(n+1)
}

// meanGrowth averages (y[i]-y[i-1])/y[i-1], skipping zero bases.
func meanGrowth(ys []int64) float64 {
	var sum float64
	count := 0
	for i := 1; i < len(ys); i++ {
		if ys[i-1] == 0 {
			continue
		}
		sum += float64(ys[i]-ys[i-1]) / float64(ys[i-1])
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func direction(last, next float64) string {
	tolerance := math.Max(1, 0.01*last)
	switch {
	case next > last+tolerance:
		return trendUp
	case next < last-tolerance:
		return trendDown
	}
	return trendFlat
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
