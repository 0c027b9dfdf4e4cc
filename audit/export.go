// audit/export.go
package audit

import (
	"encoding/csv"
	"fmt"
	"io"
	"iter"
	"time"

	"github.com/dev-mohitbeniwal/accessledger/model"
)

var csvHeader = []string{"Data zmiany", "Użytkownik/Grupa", "Typ zmiany", "Uprawnienie", "Zmienione przez"}

var polishMonths = [...]string{"sty", "lut", "mar", "kwi", "maj", "cze", "lip", "sie", "wrz", "paź", "lis", "gru"}

// FormatChangeDate renders t as "02 sty 2006, 15:04" in loc.
func FormatChangeDate(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return fmt.Sprintf("%02d %s %d, %02d:%02d", t.Day(), polishMonths[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}

// CSVRow returns the export columns of one record.
func CSVRow(rec *model.ChangeRecord, loc *time.Location) []string {
	return []string{
		FormatChangeDate(rec.ChangedAt, loc),
		rec.PrincipalName,
		rec.ChangeType.Label(),
		model.PermissionLabel(rec.PermissionType),
		rec.ChangedBy,
	}
}

// WriteCSV writes the header and one row per record. Fields are quoted where
// needed, so names containing commas, quotes or line breaks stay intact.
func WriteCSV(w io.Writer, records iter.Seq2[*model.ChangeRecord, error], loc *time.Location) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for rec, err := range records {
		if err != nil {
			return err
		}
		if err := cw.Write(CSVRow(rec, loc)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportFileName names the CSV download after the resource whose history it
// holds.
func ExportFileName(resourceName string) string {
	if resourceName == "" {
		resourceName = "dokumentu"
	}
	return "historia_uprawnien_" + resourceName + ".csv"
}
