// Package export writes the filtered client list as a spreadsheet-friendly CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/xavierca1/clientbook/internal/entity"
)

var Header = []string{"Name", "Mobile", "Email", "Product", "Status", "Response", "Date"}

const dateLayout = "02 Jan 2006"

// WriteCSV writes clients in the given order. Dates are shown in loc.
func WriteCSV(w io.Writer, clients []entity.Client, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, c := range clients {
		date := ""
		if c.CreatedAt != nil {
			date = c.CreatedAt.In(loc).Format(dateLayout)
		}
		row := []string{
			c.Name,
			c.Mobile,
			c.Email,
			c.Product,
			string(entity.ParseStatus(string(c.Status))),
			c.ClientResponse.Label(),
			date,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %s: %w", c.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// FileName is the attachment name used for downloads.
func FileName(now time.Time) string {
	return fmt.Sprintf("clients_export_%s.csv", now.Format("20060102"))
}
