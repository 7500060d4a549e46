package projection

import (
	"time"

	"github.com/xavierca1/clientbook/internal/entity"
)

type Stats struct {
	Total     int `json:"total"`
	Today     int `json:"today"`
	Approach  int `json:"approach"`
	Confirmed int `json:"confirmed"`
	Responded int `json:"responded"`
}

func (s Stats) ByStatus(status entity.ClientStatus) int {
	if entity.ParseStatus(string(status)) == entity.StatusConfirmed {
		return s.Confirmed
	}
	return s.Approach
}

// ComputeStats is recomputed from scratch on every snapshot. "Today" is the
// calendar day of now in now's location.
func ComputeStats(clients []entity.Client, now time.Time) Stats {
	stats := Stats{Total: len(clients)}
	for _, c := range clients {
		if c.CreatedAt != nil && sameDay(*c.CreatedAt, now) {
			stats.Today++
		}
		if entity.ParseStatus(string(c.Status)) == entity.StatusConfirmed {
			stats.Confirmed++
		} else {
			stats.Approach++
		}
		if c.ClientResponse.Responded() {
			stats.Responded++
		}
	}
	return stats
}

func sameDay(t, now time.Time) bool {
	t = t.In(now.Location())
	y1, m1, d1 := t.Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
