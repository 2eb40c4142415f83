// Package charts provides the demo instrument series and the routine that
// merges them into a total.
package charts

import (
	"hash/fnv"
	"math"
	"math/rand/v2"
	"time"
)

// TotalName is the name of the series produced by Merge.
const TotalName = "Total"

// DefaultInstruments are the instruments shown on the charts page.
var DefaultInstruments = []string{"Equities", "Bonds", "Commodities"}

// Point is a single observation.
type Point struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// Series is a named sequence of points.
type Series struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// Values returns the point values in order.
func (s Series) Values() []float64 {
	values := make([]float64, len(s.Points))
	for i, p := range s.Points {
		values[i] = p.Value
	}
	return values
}

// Merge sums series index-wise into a single series named Total. Zero or
// one series are returned unchanged. Time stamps come from the longest
// series; shorter series contribute nothing past their end.
func Merge(series []Series) []Series {
	if len(series) < 2 {
		return series
	}

	longest := series[0]
	for _, s := range series[1:] {
		if len(s.Points) > len(longest.Points) {
			longest = s
		}
	}

	total := Series{Name: TotalName, Points: make([]Point, len(longest.Points))}
	for i, p := range longest.Points {
		total.Points[i].Time = p.Time
	}
	for _, s := range series {
		for i, p := range s.Points {
			total.Points[i].Value += p.Value
		}
	}

	return []Series{total}
}

// DemoSeries generates count points per instrument, one per step starting
// at start. Output depends only on the arguments.
func DemoSeries(instruments []string, count int, start time.Time, step time.Duration) []Series {
	out := make([]Series, 0, len(instruments))
	for _, name := range instruments {
		h := fnv.New64a()
		_, _ = h.Write([]byte(name))
		rng := rand.New(rand.NewPCG(h.Sum64(), uint64(count)))

		base := 50 + rng.Float64()*100
		value := base
		points := make([]Point, count)
		for i := range points {
			value += (rng.Float64() - 0.5) * base * 0.05
			value = math.Max(value, 0)
			points[i] = Point{
				Time:  start.Add(time.Duration(i) * step),
				Value: math.Round(value*100) / 100,
			}
		}
		out = append(out, Series{Name: name, Points: points})
	}
	return out
}
