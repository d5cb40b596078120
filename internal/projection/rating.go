package projection

import "fmt"

// RatingSummary is a hostel's review aggregate. Average 0 means "no rating",
// never a zero-star score.
type RatingSummary struct {
	AverageRating float64 `json:"average_rating"`
	TotalReviews  int     `json:"total_reviews"`
}

// Rating is the arithmetic mean of ratings. Rounding is left to Label.
func Rating(ratings []int) RatingSummary {
	if len(ratings) == 0 {
		return RatingSummary{}
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return RatingSummary{
		AverageRating: float64(sum) / float64(len(ratings)),
		TotalReviews:  len(ratings),
	}
}

func (s RatingSummary) IsRated() bool {
	return s.TotalReviews > 0 && s.AverageRating > 0
}

// Label is "New" for unrated hostels, otherwise the average to one place.
func (s RatingSummary) Label() string {
	if !s.IsRated() {
		return "New"
	}
	return fmt.Sprintf("%.1f", s.AverageRating)
}
