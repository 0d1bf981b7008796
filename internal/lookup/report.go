package lookup

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/tbckr/vantage/internal/output"
	"github.com/tbckr/vantage/internal/services"
)

// SelfTarget labels reports of self-lookups.
const SelfTarget = "self"

// Report is the sorted batch produced for one target.
type Report struct {
	Target  string            `json:"target"`
	Results []services.Result `json:"results"`
}

// Reports holds the reports of a run, one per target, in input order.
type Reports []Report

// WriteTable renders all reports in a single table grouped by target.
func (r Reports) WriteTable(w io.Writer) error {
	var rows [][]string
	for _, rep := range r {
		for _, res := range rep.Results {
			rows = append(rows, []string{
				rep.Target,
				res.Provider,
				addressCell(res),
				asCell(res.AS),
				regionCell(res.Region),
				riskCell(res.Risk),
				elapsedCell(res.Elapsed),
			})
		}
	}
	return output.Table{
		Header:      []string{"Target", "Provider", "IP", "AS", "Region", "Risk", "Time"},
		Rows:        rows,
		MinColWidth: 16,
		Overhead:    60,
		Grouped:     true,
	}.Render(w)
}

// WritePlain writes one line per record, prefixed with the target.
func (r Reports) WritePlain(w io.Writer) error {
	for _, rep := range r {
		for _, res := range rep.Results {
			if _, err := fmt.Fprintf(w, "%s\t%s\n", rep.Target, res); err != nil {
				return err
			}
		}
	}
	return nil
}

func addressCell(r services.Result) string {
	switch {
	case !r.Success:
		return "error: " + r.Error.String()
	case !r.IP.IsValid():
		return "-"
	default:
		return r.IP.String()
	}
}

func asCell(as *services.AS) string {
	if as == nil {
		return ""
	}
	if as.Name == "" {
		return "AS" + strconv.FormatUint(uint64(as.Number), 10)
	}
	return fmt.Sprintf("AS%d %s", as.Number, as.Name)
}

func regionCell(r *services.Region) string {
	if r == nil {
		return ""
	}
	var parts []string
	for _, s := range []string{r.City, r.Region, r.Country} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	line := strings.Join(parts, ", ")
	if r.Coordinates != nil {
		line = strings.TrimSpace(line + " (" + r.Coordinates.Lat + ", " + r.Coordinates.Lon + ")")
	}
	if r.TimeZone != "" {
		line = strings.TrimSpace(line + " " + r.TimeZone)
	}
	return line
}

func riskCell(r *services.Risk) string {
	if r == nil {
		return ""
	}
	parts := make([]string, 0, len(r.Tags)+1)
	if r.Score != nil {
		parts = append(parts, "score "+strconv.Itoa(int(*r.Score)))
	}
	for _, t := range r.Tags {
		if label, ok := t.Other(); ok {
			parts = append(parts, label)
			continue
		}
		parts = append(parts, string(t))
	}
	return strings.Join(parts, ", ")
}

func elapsedCell(d time.Duration) string {
	if d == 0 {
		return ""
	}
	return d.Round(time.Millisecond).String()
}
