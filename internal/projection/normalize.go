package projection

import (
	"sort"

	"github.com/xavierca1/clientbook/internal/entity"
	"github.com/xavierca1/clientbook/internal/repository"
)

// Normalize decodes a raw snapshot and sorts it newest first.
func Normalize(raw entity.RawCollection) []entity.Client {
	clients := repository.DecodeCollection(raw)

	// map order is random; ids give a deterministic base order before the stable date sort
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].ID < clients[j].ID
	})
	SortNewestFirst(clients)
	return clients
}

// SortNewestFirst orders by CreatedAt descending. Records without a date go
// last and keep their relative order.
func SortNewestFirst(clients []entity.Client) {
	sort.SliceStable(clients, func(i, j int) bool {
		a, b := clients[i].CreatedAt, clients[j].CreatedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
}
