// Package projection holds the derived values the domain reads from entity
// collections. Every function is pure and computed on demand.
package projection

import "github.com/hostelhub/hostel-api/internal/model"

// RoomStats aggregates a hostel's rooms. Soft-deleted rooms are ignored.
type RoomStats struct {
	TotalRooms     int `json:"total_rooms"`
	AvailableRooms int `json:"available_rooms"`
	OccupiedRooms  int `json:"occupied_rooms"`
}

func Rooms(rooms []*model.Room) RoomStats {
	var st RoomStats
	for _, r := range rooms {
		if !r.IsActive {
			continue
		}
		st.TotalRooms++
		if r.IsAvailable {
			st.AvailableRooms++
		} else {
			st.OccupiedRooms++
		}
	}
	return st
}

// OccupancyRate is the rounded percentage of active rooms that are occupied.
func (s RoomStats) OccupancyRate() int {
	return Percent(s.OccupiedRooms, s.TotalRooms)
}

// GroupRooms buckets rooms by hostel id.
func GroupRooms(rooms []*model.Room) map[int64][]*model.Room {
	out := make(map[int64][]*model.Room)
	for _, r := range rooms {
		out[r.HostelID] = append(out[r.HostelID], r)
	}
	return out
}
