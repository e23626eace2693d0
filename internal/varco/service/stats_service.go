package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/varcoaccess/varco/internal/varco/apperr"
	"github.com/varcoaccess/varco/internal/varco/store"
	"github.com/varcoaccess/varco/internal/varco/types"
)

// StatsService aggregates transit history into per-badge statistics and
// fleet-wide report rows.
//
// Status policy (applied uniformly, see DESIGN.md): only the two known
// statuses land in the authorized/unauthorized buckets.  A transit whose
// stored status is anything else is a data-quality anomaly: it is logged
// at WARN and kept out of both buckets, but per-badge totals still count
// it.
type StatsService struct {
	gates    store.GateStore
	badges   store.BadgeStore
	transits store.TransitStore
	logger   *slog.Logger
}

func NewStatsService(st store.Stores, logger *slog.Logger) *StatsService {
	return &StatsService{
		gates:    st.Gates,
		badges:   st.Badges,
		transits: st.Transits,
		logger:   logger,
	}
}

func validateRange(start, end time.Time) error {
	if !start.IsZero() && !end.IsZero() && start.After(end) {
		return apperr.New(apperr.BadRequest, "start date is after end date")
	}
	return nil
}

// TransitStats aggregates one badge's transits into per-gate buckets.
// gateID narrows to one gate when non-empty; zero times leave the window
// open on that side.  GateStats entries appear in first-occurrence order.
func (s *StatsService) TransitStats(ctx context.Context, badgeID, gateID string, start, end time.Time) (types.TransitStats, error) {
	if badgeID == "" {
		return types.TransitStats{}, apperr.New(apperr.BadRequest, "badge_id is required")
	}
	if _, err := s.badges.Get(ctx, badgeID); err != nil {
		return types.TransitStats{}, err
	}
	if gateID != "" {
		if _, err := s.gates.Get(ctx, gateID); err != nil {
			return types.TransitStats{}, err
		}
	}
	if err := validateRange(start, end); err != nil {
		return types.TransitStats{}, err
	}

	transits, err := s.transits.FindByBadge(ctx, badgeID, gateID, start, end)
	if err != nil {
		return types.TransitStats{}, err
	}

	stats := types.TransitStats{
		BadgeID:   badgeID,
		GateStats: make([]types.GateStat, 0),
	}
	index := make(map[string]int)

	for _, t := range transits {
		stats.TotalAccess++
		if t.DPIViolation {
			stats.TotalDPIViolation++
		}

		i, ok := index[t.GateID]
		if !ok {
			i = len(stats.GateStats)
			index[t.GateID] = i
			stats.GateStats = append(stats.GateStats, types.GateStat{GateID: t.GateID})
		}

		switch t.Status {
		case types.TransitAuthorized:
			stats.GateStats[i].AuthorizedAccess++
		case types.TransitUnauthorized:
			stats.GateStats[i].UnauthorizedAccess++
		default:
			s.logger.Warn("transit with unrecognized status skipped from gate buckets",
				"transit_id", t.ID, "status", string(t.Status))
		}
		if t.DPIViolation {
			stats.GateStats[i].DPIViolation++
		}
	}

	return stats, nil
}

// GateReport aggregates every transit in [start, end] into one row per
// gate, in first-occurrence order.
func (s *StatsService) GateReport(ctx context.Context, start, end time.Time) ([]types.GateReportRow, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}

	transits, err := s.transits.FindAllInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	rows := make([]types.GateReportRow, 0)
	index := make(map[string]int)

	for _, t := range transits {
		i, ok := index[t.GateID]
		if !ok {
			i = len(rows)
			index[t.GateID] = i
			rows = append(rows, types.GateReportRow{GateID: t.GateID})
		}

		switch t.Status {
		case types.TransitAuthorized:
			rows[i].Authorized++
		case types.TransitUnauthorized:
			rows[i].Unauthorized++
		default:
			s.logger.Warn("transit with unrecognized status skipped from report buckets",
				"transit_id", t.ID, "status", string(t.Status))
		}
		if t.DPIViolation {
			rows[i].DPIViolations++
		}
	}

	return rows, nil
}

// BadgeReport aggregates every transit in [start, end] into one row per
// badge, annotated with the badge's lifecycle status at report time.
func (s *StatsService) BadgeReport(ctx context.Context, start, end time.Time) ([]types.BadgeReportRow, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}

	transits, err := s.transits.FindAllInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	rows := make([]types.BadgeReportRow, 0)
	index := make(map[string]int)

	for _, t := range transits {
		i, ok := index[t.BadgeID]
		if !ok {
			i = len(rows)
			index[t.BadgeID] = i
			rows = append(rows, types.BadgeReportRow{BadgeID: t.BadgeID})
		}

		switch t.Status {
		case types.TransitAuthorized:
			rows[i].Authorized++
		case types.TransitUnauthorized:
			rows[i].Unauthorized++
		default:
			s.logger.Warn("transit with unrecognized status skipped from report buckets",
				"transit_id", t.ID, "status", string(t.Status))
		}
	}

	for i := range rows {
		b, err := s.badges.Get(ctx, rows[i].BadgeID)
		if err != nil {
			// A missing badge must not sink the whole report.
			s.logger.Warn("badge status unavailable for report row",
				"badge_id", rows[i].BadgeID, "err", err)
			continue
		}
		rows[i].Status = b.Status
	}

	return rows, nil
}
