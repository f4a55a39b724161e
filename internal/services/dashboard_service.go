package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"mcainsights/internal/dataset"
	"mcainsights/internal/exporter"
	"mcainsights/internal/infrastructure"
	"mcainsights/internal/insights"
	"mcainsights/pkg/contracts/domain"
)

// Dashboard titles and messages
const (
	DashboardTitle    = "MCA Insights Engine Dashboard"
	MsgNoMatches      = "No companies match your filters."
	MsgNoDetail       = "No companies match the selected filters."
	countMessage      = "Displaying %d of %d companies."
	exportBaseName    = "mca_companies_filtered"
	defaultPageNumber = 1
)

// SnapshotSource provides the shared dataset snapshot.
type SnapshotSource interface {
	Get(ctx context.Context) (*dataset.Snapshot, error)
}

// DashboardQuery is the dashboard's state as carried in the query string.
// Page stays a string so a non-numeric value falls back to page 1 instead
// of failing the request.
type DashboardQuery struct {
	Search string `query:"q" validate:"max=200,nocontrol"`
	Region string `query:"region" validate:"max=100,nocontrol"`
	Status string `query:"status" validate:"max=100,nocontrol"`
	Page   string `query:"page" validate:"max=12"`
	CIN    string `query:"cin" validate:"max=64,nocontrol"`
}

// PageNumber parses Page; anything that is not an integer means page 1.
// Out-of-range values are clamped later by pagination.
func (q DashboardQuery) PageNumber() int {
	n, err := strconv.Atoi(q.Page)
	if err != nil {
		return defaultPageNumber
	}
	return n
}

// Table is a header plus rows of cells.
type Table struct {
	Columns []string
	Rows    [][]string
}

// DashboardView is everything the dashboard page renders.
type DashboardView struct {
	Title        string
	Query        DashboardQuery
	Options      insights.Options
	Page         insights.Page
	Companies    Table
	Matched      int
	Total        int
	CountMessage string
	EmptyMessage string

	// DetailMessage replaces the detail panel when nothing matched.
	DetailMessage string

	Identifiers []string
	Selected    string
	Enriched    domain.EnrichedDetail
	History     domain.ChangeHistory
	HistoryRows Table
}

// DashboardService answers dashboard and export requests from the cached
// snapshot.
type DashboardService struct {
	source   SnapshotSource
	pageSize int
	metrics  *infrastructure.DashboardMetrics
	logger   *slog.Logger
	now      func() time.Time
}

// NewDashboardService creates a dashboard service. metrics may be nil.
func NewDashboardService(source SnapshotSource, pageSize int, metrics *infrastructure.DashboardMetrics, logger *slog.Logger) *DashboardService {
	if pageSize <= 0 {
		pageSize = insights.DefaultPageSize
	}
	return &DashboardService{
		source:   source,
		pageSize: pageSize,
		metrics:  metrics,
		logger:   infrastructure.WithComponent(logger, "dashboard_service"),
		now:      time.Now,
	}
}

func (s *DashboardService) snapshot(ctx context.Context) (*dataset.Snapshot, error) {
	snap, err := s.source.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}
	return snap, nil
}

// criteria resolves the filter inputs against the snapshot. A hidden
// dropdown always means All.
func criteria(q DashboardQuery, opts insights.Options) insights.Criteria {
	c := insights.Criteria{Search: q.Search, Region: q.Region, Status: q.Status}
	if c.Region == "" || opts.Regions == nil {
		c.Region = insights.All
	}
	if c.Status == "" || opts.Statuses == nil {
		c.Status = insights.All
	}
	return c
}

func (s *DashboardService) filter(ctx context.Context, snap *dataset.Snapshot, c insights.Criteria) insights.Result {
	start := time.Now()
	res := insights.Filter(snap, c)
	s.metrics.RecordFilter(ctx, res.Matched, time.Since(start))
	return res
}

// Dashboard builds the full page view for q.
func (s *DashboardService) Dashboard(ctx context.Context, q DashboardQuery) (*DashboardView, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	opts := insights.FilterOptions(snap)
	c := criteria(q, opts)
	res := s.filter(ctx, snap, c)
	page := insights.Paginate(res, q.PageNumber(), s.pageSize)

	q.Region, q.Status = c.Region, c.Status
	view := &DashboardView{
		Title:   DashboardTitle,
		Query:   q,
		Options: opts,
		Page:    page,
		Companies: Table{
			Columns: snap.Master.Columns,
			Rows:    snap.Master.Select(page.Rows),
		},
		Matched: res.Matched,
		Total:   res.Total,
	}
	if res.Empty() {
		view.EmptyMessage = MsgNoMatches
		view.DetailMessage = MsgNoDetail
		s.logger.DebugContext(ctx, "no companies matched",
			slog.String("search", c.Search),
			slog.String("region", c.Region),
			slog.String("status", c.Status))
		return view, nil
	}
	view.CountMessage = fmt.Sprintf(countMessage, res.Matched, res.Total)

	view.Identifiers = insights.Identifiers(snap, res)
	view.Selected = insights.Select(view.Identifiers, q.CIN)
	view.Query.CIN = view.Selected
	if view.Selected == "" {
		return view, nil
	}

	view.Enriched = insights.LookupEnriched(snap, view.Selected)
	view.History = insights.LookupHistory(snap, view.Selected, s.now())
	view.HistoryRows = historyTable(snap, view.History)
	s.metrics.RecordDetailLookup(ctx, view.Enriched.Found, len(view.History.Events) > 0)

	s.logger.DebugContext(ctx, "dashboard built",
		slog.Int("matched", res.Matched),
		slog.Int("page", page.Number),
		slog.String("cin", view.Selected),
		slog.Int("history_rows", len(view.History.Rows)))
	return view, nil
}

// historyTable renders the change-log rows of a company. A missing
// change_type or date column is appended with its display default.
func historyTable(snap *dataset.Snapshot, h domain.ChangeHistory) Table {
	log := snap.ChangeLog
	addType := !log.Has(dataset.ColumnChangeType)
	addDate := !log.Has(dataset.ColumnDate)

	columns := append([]string(nil), log.Columns...)
	if addType {
		columns = append(columns, dataset.ColumnChangeType)
	}
	if addDate {
		columns = append(columns, dataset.ColumnDate)
	}

	rows := log.Select(h.Rows)
	for i, e := range h.Events {
		if addType {
			rows[i] = append(rows[i], e.ChangeType)
		}
		if addDate {
			rows[i] = append(rows[i], e.Date.Format(time.DateTime))
		}
	}
	return Table{Columns: columns, Rows: rows}
}

// Export is a prepared download of the filtered view.
type Export struct {
	Format   exporter.Format
	Filename string
	Table    Table
}

// PrepareExport filters the full master view (not paginated) for download.
func (s *DashboardService) PrepareExport(ctx context.Context, q DashboardQuery, format string) (*Export, error) {
	f, ok := exporter.Lookup(format)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported export format %q", ErrInvalidQuery, format)
	}
	snap, err := s.snapshot(ctx)
	if err != nil {
		s.metrics.RecordExport(ctx, format, err)
		return nil, err
	}

	res := s.filter(ctx, snap, criteria(q, insights.FilterOptions(snap)))
	return &Export{
		Format:   f,
		Filename: f.Filename(exportBaseName),
		Table: Table{
			Columns: snap.Master.Columns,
			Rows:    snap.Master.Select(res.Rows),
		},
	}, nil
}

// WriteExport streams a prepared export to w.
func (s *DashboardService) WriteExport(ctx context.Context, exp *Export, w io.Writer) error {
	err := exp.Format.Write(w, exp.Table.Columns, exp.Table.Rows)
	s.metrics.RecordExport(ctx, exp.Format.Name, err)
	if err != nil {
		s.logger.ErrorContext(ctx, "export failed",
			slog.String("format", exp.Format.Name),
			slog.String("error", err.Error()))
		return fmt.Errorf("write %s export: %w", exp.Format.Name, err)
	}
	s.logger.InfoContext(ctx, "export written",
		slog.String("format", exp.Format.Name),
		slog.Int("rows", len(exp.Table.Rows)))
	return nil
}
