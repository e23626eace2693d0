package httpapi

import (
	"net/http"
	"time"

	"github.com/varcoaccess/varco/internal/varco/report"
)

func (s *Server) handleGateReport(w http.ResponseWriter, r *http.Request) {
	s.serveReport(w, r, "gate_report", func(start, end time.Time, format report.Format) (report.Output, error) {
		rows, err := s.stats.GateReport(r.Context(), start, end)
		if err != nil {
			return report.Output{}, err
		}
		return report.Gates(rows, format)
	})
}

func (s *Server) handleBadgeReport(w http.ResponseWriter, r *http.Request) {
	s.serveReport(w, r, "badge_report", func(start, end time.Time, format report.Format) (report.Output, error) {
		rows, err := s.stats.BadgeReport(r.Context(), start, end)
		if err != nil {
			return report.Output{}, err
		}
		return report.Badges(rows, format)
	})
}

func (s *Server) serveReport(w http.ResponseWriter, r *http.Request, name string,
	render func(start, end time.Time, format report.Format) (report.Output, error)) {

	q := r.URL.Query()
	start, err := parseTimeParam(q.Get("start"), false)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	end, err := parseTimeParam(q.Get("end"), true)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	format, err := report.ParseFormat(q.Get("format"))
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	out, err := render(start, end, format)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	switch out.Format {
	case report.FormatCSV:
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`.csv"`)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(out.CSV))
	case report.FormatPDF:
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`.pdf"`)
		w.WriteHeader(http.StatusOK)
		w.Write(out.PDF)
	default:
		writeJSON(w, http.StatusOK, out.JSON)
	}
}
