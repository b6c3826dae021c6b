package domain

// RatingStats is the review aggregate of a single hotel.
type RatingStats struct {
	Sum   int `db:"sum"`
	Count int `db:"count"`
}

// Average returns the mean star rating rounded half away from zero to one
// decimal, or 0 when there are no reviews. The rounding is done on integers
// so equal inputs always give equal outputs.
func (s RatingStats) Average() float64 {
	if s.Count <= 0 {
		return 0
	}
	tenths := (20*s.Sum + s.Count) / (2 * s.Count)
	return float64(tenths) / 10
}

func StatsOf(stars []int) RatingStats {
	st := RatingStats{Count: len(stars)}
	for _, s := range stars {
		st.Sum += s
	}
	return st
}

func AverageRating(stars []int) float64 { return StatsOf(stars).Average() }
