package model

import "time"

// SavedHostel is a student's bookmark. It carries no state beyond existing.
type SavedHostel struct {
	StudentID int64     `json:"student_id"`
	HostelID  int64     `json:"hostel_id"`
	CreatedAt time.Time `json:"created_at"`

	Hostel *Hostel `json:"hostel,omitempty"`
	// Available is false when the hostel is no longer publicly listed.
	Available bool `json:"available"`
}
