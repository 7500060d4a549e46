package projection

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/clientbook/internal/entity"
)

func TestNormalizeInjectsIDsAndSortsNewestFirst(t *testing.T) {
	raw := entity.RawCollection{
		"old":    {"name": "Old", "date": "2023-01-01T00:00:00Z"},
		"new":    {"name": "New", "date": "2024-06-01T00:00:00Z"},
		"broken": {"name": "Broken", "date": "not a date"},
		"mid":    {"name": "Mid", "date": "2024-01-01T00:00:00Z"},
		"none":   {"name": "None"},
	}

	clients := Normalize(raw)

	require.Len(t, clients, 5)
	assert.Equal(t, []string{"new", "mid", "old", "broken", "none"}, ids(clients))
	assert.Equal(t, "New", clients[0].Name)
}

func TestNormalizeIsDescending(t *testing.T) {
	raw := entity.RawCollection{}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 30; i++ {
		id := string(rune('a' + i%26))
		if i >= 26 {
			id += "x"
		}
		f := entity.Fields{"name": id}
		if i%4 != 0 {
			f["date"] = base.Add(time.Duration((i*37)%30) * time.Hour).Format(time.RFC3339)
		}
		raw[id] = f
	}

	clients := Normalize(raw)

	seenUndated := false
	for i := 1; i < len(clients); i++ {
		a, b := clients[i-1].CreatedAt, clients[i].CreatedAt
		if a == nil {
			seenUndated = true
			assert.Nil(t, b, "dated record after an undated one at %d", i)
			continue
		}
		assert.False(t, seenUndated)
		if b != nil {
			assert.False(t, a.Before(*b), "not descending at %d", i)
		}
	}
}

func TestNormalizeKeepsMalformedRecords(t *testing.T) {
	raw := entity.RawCollection{
		"c1": {"name": []any{"weird"}, "status": 12.0, "payments": "nope"},
		"c2": {},
	}

	clients := Normalize(raw)

	require.Len(t, clients, 2)
	assert.Equal(t, entity.StatusApproach, clients[0].Status)
}

func TestRemainingAmount(t *testing.T) {
	total := decimal.NewFromInt(1000)
	c := entity.Client{
		TotalAmount: &total,
		Payments: []entity.Payment{
			{Amount: decimal.NewFromInt(400)},
			{Amount: decimal.NewFromInt(300)},
		},
	}

	assert.True(t, c.RemainingAmount().Equal(decimal.NewFromInt(300)))
}
