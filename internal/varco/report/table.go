package report

import (
	"strconv"

	"github.com/varcoaccess/varco/internal/varco/types"
)

// noDataMessage is the placeholder emitted instead of an empty table.
const noDataMessage = "No data available"

// column is one table column with the width (mm) the PDF renderer uses.
type column struct {
	name  string
	width float64
}

// table is the format-neutral report model consumed by the CSV and PDF
// renderers.
type table struct {
	title   string
	columns []column
	rows    [][]string
}

func gateTable(rows []types.GateReportRow) table {
	t := table{
		title: "Gate transit report",
		columns: []column{
			{name: "Gate ID", width: 80},
			{name: "Authorized", width: 30},
			{name: "Unauthorized", width: 35},
			{name: "DPI violations", width: 35},
		},
	}
	for _, r := range rows {
		t.rows = append(t.rows, []string{
			r.GateID,
			strconv.Itoa(r.Authorized),
			strconv.Itoa(r.Unauthorized),
			strconv.Itoa(r.DPIViolations),
		})
	}
	return t
}

func badgeTable(rows []types.BadgeReportRow) table {
	t := table{
		title: "Badge transit report",
		columns: []column{
			{name: "Badge ID", width: 80},
			{name: "Authorized", width: 30},
			{name: "Unauthorized", width: 35},
			{name: "Status", width: 35},
		},
	}
	for _, r := range rows {
		t.rows = append(t.rows, []string{
			r.BadgeID,
			strconv.Itoa(r.Authorized),
			strconv.Itoa(r.Unauthorized),
			string(r.Status),
		})
	}
	return t
}
