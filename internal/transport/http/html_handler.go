package http

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/render"

	apierrors "mcainsights/internal/errors"
	"mcainsights/internal/dataset"
	"mcainsights/internal/exporter"
	"mcainsights/internal/middleware"
	"mcainsights/internal/services"
)

const (
	dashboardTagline = "An interactive interface to search, filter, and visualize corporate data."
	errorPageTitle   = "MCA Insights Engine"
)

// DashboardHandler serves the server-rendered dashboard page
type DashboardHandler struct {
	service      DashboardServiceInterface
	validator    *middleware.QueryValidator
	templates    *template.Template
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service DashboardServiceInterface, validator *middleware.QueryValidator, templates *template.Template, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		validator:    validator,
		templates:    templates,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

type exportLink struct {
	Label string
	URL   string
}

type dashboardPage struct {
	*services.DashboardView
	Tagline  string
	Timeline *timelineImage
	Exports  []exportLink
}

type errorPage struct {
	Title   string
	Message string
	Reason  string
}

// ServeDashboard handles GET /
func (h *DashboardHandler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	var q services.DashboardQuery
	if err := h.validator.Bind(r, &q); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	view, err := h.service.Dashboard(r.Context(), q)
	if err != nil {
		if errors.Is(err, services.ErrDataUnavailable) {
			h.logger.WarnContext(r.Context(), "dashboard served without data",
				slog.String("error", err.Error()))
			h.renderPage(w, r, http.StatusServiceUnavailable, "error", errorPage{
				Title:   errorPageTitle,
				Message: apierrors.ErrDataUnavailable.Message,
				Reason:  loadFailureReason(err),
			})
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}

	chart, err := renderTimeline(view.History.Timeline)
	if err != nil {
		// the page is still useful without the chart
		h.logger.WarnContext(r.Context(), "timeline chart skipped",
			slog.String("cin", view.Selected),
			slog.String("error", err.Error()))
	}
	h.renderPage(w, r, http.StatusOK, "dashboard", dashboardPage{
		DashboardView: view,
		Tagline:       dashboardTagline,
		Timeline:      chart,
		Exports:       exportLinks(view.Query),
	})
}

// renderPage executes a template into a buffer first so a template error
// still produces a clean error response.
func (h *DashboardHandler) renderPage(w http.ResponseWriter, r *http.Request, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, name, data); err != nil {
		h.logger.ErrorContext(r.Context(), "template execution failed",
			slog.String("template", name),
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, fmt.Errorf("render %s: %w", name, err))
		return
	}
	render.Status(r, status)
	render.HTML(w, r, buf.String())
}

// loadFailureReason describes a load failure for the error page.
func loadFailureReason(err error) string {
	var loadErr *dataset.LoadError
	if errors.As(err, &loadErr) && errors.Is(err, dataset.ErrSourceNotFound) {
		return fmt.Sprintf("File not found: %s", loadErr.Path)
	}
	// drop the ErrDataUnavailable marker and report the cause
	if multi, ok := err.(interface{ Unwrap() []error }); ok {
		for _, cause := range multi.Unwrap() {
			if cause != services.ErrDataUnavailable {
				err = cause
				break
			}
		}
	}
	return fmt.Sprintf("Error loading data: %v", err)
}

// exportLinks builds the download links for the current filters.
func exportLinks(q services.DashboardQuery) []exportLink {
	values := url.Values{}
	if q.Search != "" {
		values.Set("q", q.Search)
	}
	values.Set("region", q.Region)
	values.Set("status", q.Status)

	names := exporter.Names()
	links := make([]exportLink, 0, len(names))
	for _, name := range names {
		links = append(links, exportLink{
			Label: name,
			URL:   "/export/" + name + "?" + values.Encode(),
		})
	}
	return links
}
