package projection

import "github.com/hostelhub/hostel-api/internal/model"

// HostelSummary is the card-level view of a hostel with every derived field
// resolved from its rooms and reviews.
type HostelSummary struct {
	*model.Hostel
	RoomStats
	EffectiveStatus model.EffectiveStatus `json:"effective_status"`
	PriceRange      string                `json:"price_range"`
	RatingLabel     string                `json:"rating_label"`
	PrimaryImage    string                `json:"primary_image,omitempty"`
}

func Summarize(h *model.Hostel, rooms []*model.Room) HostelSummary {
	rating := RatingSummary{AverageRating: h.AverageRating, TotalReviews: h.TotalReviews}
	s := HostelSummary{
		Hostel:          h,
		RoomStats:       Rooms(rooms),
		EffectiveStatus: h.EffectiveStatus(),
		PriceRange:      PriceRange(h.MinPrice, h.MaxPrice),
		RatingLabel:     rating.Label(),
	}
	if img, ok := h.PrimaryImage(); ok {
		s.PrimaryImage = img.URL
	}
	return s
}

// SummarizeAll pairs each hostel with its rooms.
func SummarizeAll(hostels []*model.Hostel, rooms []*model.Room) []HostelSummary {
	byHostel := GroupRooms(rooms)
	out := make([]HostelSummary, 0, len(hostels))
	for _, h := range hostels {
		out = append(out, Summarize(h, byHostel[h.ID]))
	}
	return out
}
