// Package message renders outbound message copy from templates and builds the
// channel deep links that open it.
package message

import (
	"regexp"
	"strings"

	"github.com/xavierca1/clientbook/internal/entity"
)

var (
	// ${client.name} and the {{name}} shorthand
	placeholderRe = regexp.MustCompile(`\$\{([^}\n]*)\}|\{\{([^}\n]*)\}\}`)
	// an opening "${" that never closes on the same line
	unterminatedRe = regexp.MustCompile(`\$\{[^}\n]*$`)
)

// Render substitutes client fields into body. Absent fields, unknown names and
// malformed placeholders all render as "".
func Render(body string, c entity.Client) string {
	out := placeholderRe.ReplaceAllStringFunc(body, func(match string) string {
		groups := placeholderRe.FindStringSubmatch(match)
		name := groups[1]
		if groups[2] != "" || strings.HasPrefix(match, "{{") {
			name = groups[2]
		} else {
			var ok bool
			name, ok = strings.CutPrefix(strings.TrimSpace(name), "client.")
			if !ok {
				return ""
			}
		}
		v, _ := FieldValue(c, strings.TrimSpace(name))
		return v
	})

	lines := strings.Split(out, "\n")
	for i, line := range lines {
		lines[i] = unterminatedRe.ReplaceAllString(line, "")
	}
	return strings.Join(lines, "\n")
}

// FieldValue returns the string form of a client field by its wire name.
func FieldValue(c entity.Client, name string) (string, bool) {
	switch name {
	case "id":
		return c.ID, true
	case "name":
		return c.Name, true
	case "mobile":
		return c.Mobile, true
	case "email":
		return c.Email, true
	case "instagramHandle", "instagram", "instagramId":
		return c.InstagramHandle, true
	case "location":
		return c.Location, true
	case "businessType":
		return c.BusinessType, true
	case "product":
		return c.Product, true
	case "status":
		return string(c.Status), true
	case "clientResponse", "response":
		if !c.ClientResponse.Responded() {
			return "", true
		}
		return c.ClientResponse.Label(), true
	case "findClientSource":
		return c.FindClientSource, true
	case "firstApproach":
		return c.FirstApproach, true
	case "paymentOption":
		return c.PaymentOption, true
	case "notes":
		return c.Notes, true
	case "totalAmount":
		if c.TotalAmount == nil {
			return "", true
		}
		return c.TotalAmount.StringFixedBank(2), true
	case "paidAmount":
		return c.PaidAmount().StringFixedBank(2), true
	case "remainingAmount":
		return c.RemainingAmount().StringFixedBank(2), true
	case "date":
		if c.CreatedAt == nil {
			return "", true
		}
		return c.CreatedAt.Format("02 Jan 2006"), true
	}
	return "", false
}
