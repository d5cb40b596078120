package model

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Review is unique per (StudentID, HostelID).
type Review struct {
	ID        int64     `json:"id"`
	HostelID  int64     `json:"hostel_id"`
	StudentID int64     `json:"student_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
