package repository

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xavierca1/clientbook/internal/entity"
)

// Wire keys of the clients collection.
const (
	FieldName             = "name"
	FieldMobile           = "mobile"
	FieldEmail            = "email"
	FieldInstagramHandle  = "instagramHandle"
	FieldLocation         = "location"
	FieldBusinessType     = "businessType"
	FieldProduct          = "product"
	FieldStatus           = "status"
	FieldClientResponse   = "clientResponse"
	FieldFindClientSource = "findClientSource"
	FieldFirstApproach    = "firstApproach"
	FieldPaymentOption    = "paymentOption"
	FieldTotalAmount      = "totalAmount"
	FieldPayments         = "payments"
	FieldNotes            = "notes"
	FieldDate             = "date"
)

// older screens wrote these keys
var legacyAliases = map[string][]string{
	FieldInstagramHandle: {"instagramId", "instagram"},
	FieldClientResponse:  {"response"},
	FieldFirstApproach:   {"firstTimeApproach"},
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// DecodeCollection turns a raw snapshot into clients. Order is unspecified.
func DecodeCollection(raw entity.RawCollection) []entity.Client {
	clients := make([]entity.Client, 0, len(raw))
	for id, fields := range raw {
		clients = append(clients, DecodeClient(id, fields))
	}
	return clients
}

// DecodeClient never fails: bad or missing fields come back empty or defaulted.
func DecodeClient(id string, f entity.Fields) entity.Client {
	c := entity.Client{
		ID:               id,
		Name:             stringField(f, FieldName),
		Mobile:           stringField(f, FieldMobile),
		Email:            stringField(f, FieldEmail),
		InstagramHandle:  stringField(f, FieldInstagramHandle),
		Location:         stringField(f, FieldLocation),
		BusinessType:     stringField(f, FieldBusinessType),
		Product:          stringField(f, FieldProduct),
		Status:           entity.ParseStatus(stringField(f, FieldStatus)),
		ClientResponse:   decodeResponse(f),
		FindClientSource: stringField(f, FieldFindClientSource),
		FirstApproach:    stringField(f, FieldFirstApproach),
		PaymentOption:    stringField(f, FieldPaymentOption),
		Notes:            stringField(f, FieldNotes),
		Payments:         decodePayments(f[FieldPayments]),
	}

	if v, ok := lookup(f, FieldTotalAmount); ok {
		if d, ok := toDecimal(v); ok {
			c.TotalAmount = &d
		}
	}
	if v, ok := lookup(f, FieldDate); ok {
		if t, ok := ParseTime(v); ok {
			c.CreatedAt = &t
		}
	}

	return c
}

func decodeResponse(f entity.Fields) entity.ClientResponse {
	v, ok := lookup(f, FieldClientResponse)
	if !ok {
		return entity.ResponseNone
	}

	// checkbox variant stored a list; the first recognised value wins
	if list, ok := v.([]any); ok {
		var first entity.ClientResponse
		for _, item := range list {
			r := normalizeResponse(asString(item))
			if r.Known() {
				return r
			}
			if first == entity.ResponseNone {
				first = r
			}
		}
		return first
	}

	return normalizeResponse(asString(v))
}

func normalizeResponse(s string) entity.ClientResponse {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, entity.NoResponseYet) {
		return entity.ResponseNone
	}
	return entity.ClientResponse(s)
}

func decodePayments(v any) []entity.Payment {
	var items []any
	switch t := v.(type) {
	case []any:
		items = t
	case map[string]any:
		// pushed lists come back keyed by push id; push ids sort in insertion order
		keys := make([]string, 0, len(t))
		for key := range t {
			keys = append(keys, key)
		}
		slices.Sort(keys)
		for _, key := range keys {
			items = append(items, t[key])
		}
	default:
		return nil
	}

	payments := make([]entity.Payment, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		p := entity.Payment{Note: asString(m["note"])}
		if d, ok := toDecimal(m["amount"]); ok {
			p.Amount = d
		}
		if t, ok := ParseTime(m["date"]); ok {
			p.Date = t
		}
		payments = append(payments, p)
	}
	return payments
}

// EncodeClient produces the wire form for a new record. The id is never written.
func EncodeClient(c entity.Client) entity.Fields {
	f := entity.Fields{
		FieldName:    c.Name,
		FieldMobile:  c.Mobile,
		FieldProduct: c.Product,
		FieldStatus:  string(entity.ParseStatus(string(c.Status))),
	}
	putString(f, FieldEmail, c.Email)
	putString(f, FieldInstagramHandle, c.InstagramHandle)
	putString(f, FieldLocation, c.Location)
	putString(f, FieldBusinessType, c.BusinessType)
	putString(f, FieldClientResponse, string(c.ClientResponse))
	putString(f, FieldFindClientSource, c.FindClientSource)
	putString(f, FieldFirstApproach, c.FirstApproach)
	putString(f, FieldPaymentOption, c.PaymentOption)
	putString(f, FieldNotes, c.Notes)

	if c.TotalAmount != nil {
		f[FieldTotalAmount] = c.TotalAmount.InexactFloat64()
	}
	if len(c.Payments) > 0 {
		f[FieldPayments] = EncodePayments(c.Payments)
	}
	if c.CreatedAt != nil {
		f[FieldDate] = FormatTime(*c.CreatedAt)
	}
	return f
}

// EncodePatch only carries the fields set on p. Empty strings clear optional fields.
func EncodePatch(p entity.ClientPatch) entity.Fields {
	f := entity.Fields{}
	patchString(f, FieldName, p.Name)
	patchString(f, FieldMobile, p.Mobile)
	patchString(f, FieldEmail, p.Email)
	patchString(f, FieldInstagramHandle, p.InstagramHandle)
	patchString(f, FieldLocation, p.Location)
	patchString(f, FieldBusinessType, p.BusinessType)
	patchString(f, FieldProduct, p.Product)
	patchString(f, FieldFindClientSource, p.FindClientSource)
	patchString(f, FieldFirstApproach, p.FirstApproach)
	patchString(f, FieldPaymentOption, p.PaymentOption)
	patchString(f, FieldNotes, p.Notes)

	if p.Status != nil {
		f[FieldStatus] = string(entity.ParseStatus(string(*p.Status)))
	}
	if p.ClientResponse != nil {
		s := string(*p.ClientResponse)
		patchString(f, FieldClientResponse, &s)
	}
	if p.TotalAmount != nil {
		f[FieldTotalAmount] = p.TotalAmount.InexactFloat64()
	}

	// a rewritten field must not be shadowed by its legacy key on the next read
	for key, aliases := range legacyAliases {
		if _, ok := f[key]; !ok {
			continue
		}
		for _, alias := range aliases {
			f[alias] = nil
		}
	}
	return f
}

func EncodePayments(payments []entity.Payment) []any {
	out := make([]any, 0, len(payments))
	for _, p := range payments {
		item := map[string]any{
			"amount": p.Amount.InexactFloat64(),
			"note":   p.Note,
		}
		if !p.Date.IsZero() {
			item["date"] = FormatTime(p.Date)
		}
		out = append(out, item)
	}
	return out
}

func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseTime accepts ISO strings (date only or full) and epoch milliseconds.
// Strings without a zone are read in local time.
func ParseTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range timeLayouts {
			if parsed, err := time.ParseInLocation(layout, s, time.Local); err == nil {
				return parsed, true
			}
		}
	case float64:
		return time.UnixMilli(int64(t)).UTC(), true
	case json.Number:
		if ms, err := t.Int64(); err == nil {
			return time.UnixMilli(ms).UTC(), true
		}
	case time.Time:
		return t, !t.IsZero()
	}
	return time.Time{}, false
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case float64:
		return decimal.NewFromFloat(t), true
	case int:
		return decimal.NewFromInt(int64(t)), true
	case int64:
		return decimal.NewFromInt(t), true
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(t))
		return d, err == nil
	case decimal.Decimal:
		return t, true
	}
	return decimal.Decimal{}, false
}

func lookup(f entity.Fields, key string) (any, bool) {
	if v, ok := f[key]; ok && v != nil {
		return v, true
	}
	for _, alias := range legacyAliases[key] {
		if v, ok := f[alias]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func stringField(f entity.Fields, key string) string {
	v, ok := lookup(f, key)
	if !ok {
		return ""
	}
	if list, ok := v.([]any); ok {
		if len(list) == 0 {
			return ""
		}
		v = list[0]
	}
	return asString(v)
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return decimal.NewFromFloat(t).String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprint(t)
	}
}

func putString(f entity.Fields, key, v string) {
	if v != "" {
		f[key] = v
	}
}

func patchString(f entity.Fields, key string, v *string) {
	if v == nil {
		return
	}
	if *v == "" {
		f[key] = nil
		return
	}
	f[key] = *v
}
