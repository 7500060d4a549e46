package projection

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/xavierca1/clientbook/internal/entity"
)

type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusApproach  StatusFilter = "approach"
	StatusConfirmed StatusFilter = "confirmed"
)

type ResponseFilter string

const (
	ResponseAll          ResponseFilter = "all"
	ResponseResponded    ResponseFilter = "responded"
	ResponseNotResponded ResponseFilter = "not-responded"
)

type DateFilter string

const (
	DateAll       DateFilter = "all"
	DateToday     DateFilter = "today"
	DateYesterday DateFilter = "yesterday"
	DateWeek      DateFilter = "week"
)

// Criteria combines every filter with AND. The zero value keeps everything.
type Criteria struct {
	Status   StatusFilter   `json:"status"`
	Response ResponseFilter `json:"response"`
	Date     DateFilter     `json:"date"`
	Search   string         `json:"search"`
}

func (c Criteria) Active() bool {
	return (c.Status != "" && c.Status != StatusAll) ||
		(c.Response != "" && c.Response != ResponseAll) ||
		(c.Date != "" && c.Date != DateAll) ||
		strings.TrimSpace(c.Search) != ""
}

// ParseCriteria reads status, response, date and search query parameters.
func ParseCriteria(q url.Values) (Criteria, error) {
	c := Criteria{
		Status:   StatusFilter(strings.ToLower(q.Get("status"))),
		Response: ResponseFilter(strings.ToLower(q.Get("response"))),
		Date:     DateFilter(strings.ToLower(q.Get("date"))),
		Search:   q.Get("search"),
	}

	switch c.Status {
	case "", StatusAll, StatusApproach, StatusConfirmed:
	default:
		return Criteria{}, fmt.Errorf("invalid status filter %q", c.Status)
	}
	switch c.Response {
	case "", ResponseAll, ResponseResponded, ResponseNotResponded:
	default:
		return Criteria{}, fmt.Errorf("invalid response filter %q", c.Response)
	}
	switch c.Date {
	case "", DateAll, DateToday, DateYesterday, DateWeek:
	default:
		return Criteria{}, fmt.Errorf("invalid date filter %q", c.Date)
	}
	return c, nil
}

type predicate func(entity.Client) bool

// Project filters clients without touching the input slice. The result keeps
// the input order. now fixes both the instant and the local calendar.
func Project(clients []entity.Client, c Criteria, now time.Time) []entity.Client {
	preds := c.predicates(now)

	out := make([]entity.Client, 0, len(clients))
	for _, client := range clients {
		if matchAll(preds, client) {
			out = append(out, client)
		}
	}
	return out
}

func matchAll(preds []predicate, c entity.Client) bool {
	for _, p := range preds {
		if !p(c) {
			return false
		}
	}
	return true
}

func (c Criteria) predicates(now time.Time) []predicate {
	var preds []predicate

	switch c.Status {
	case StatusApproach, StatusConfirmed:
		want := entity.ClientStatus(c.Status)
		preds = append(preds, func(cl entity.Client) bool {
			return entity.ParseStatus(string(cl.Status)) == want
		})
	}

	switch c.Response {
	case ResponseResponded:
		preds = append(preds, func(cl entity.Client) bool { return cl.ClientResponse.Responded() })
	case ResponseNotResponded:
		preds = append(preds, func(cl entity.Client) bool { return !cl.ClientResponse.Responded() })
	}

	if p := datePredicate(c.Date, now); p != nil {
		preds = append(preds, p)
	}

	if term := strings.ToLower(strings.TrimSpace(c.Search)); term != "" {
		preds = append(preds, func(cl entity.Client) bool { return matchesSearch(cl, term) })
	}

	return preds
}

func datePredicate(f DateFilter, now time.Time) predicate {
	switch f {
	case DateToday:
		return func(cl entity.Client) bool {
			return cl.CreatedAt != nil && sameDay(*cl.CreatedAt, now)
		}
	case DateYesterday:
		y := now.AddDate(0, 0, -1)
		return func(cl entity.Client) bool {
			return cl.CreatedAt != nil && sameDay(*cl.CreatedAt, y)
		}
	case DateWeek:
		from := now.Add(-7 * 24 * time.Hour)
		return func(cl entity.Client) bool {
			return cl.CreatedAt != nil && !cl.CreatedAt.Before(from)
		}
	}
	return nil
}

func matchesSearch(c entity.Client, term string) bool {
	for _, v := range []string{c.Name, c.Mobile, c.Email, c.Product, c.ResponseText()} {
		if strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}
	return false
}
