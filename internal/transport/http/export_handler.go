package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	apierrors "mcainsights/internal/errors"
	"mcainsights/internal/exporter"
	"mcainsights/internal/middleware"
	"mcainsights/internal/services"
)

// ExportHandler streams the filtered view as a file download
type ExportHandler struct {
	service      DashboardServiceInterface
	validator    *middleware.QueryValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewExportHandler creates a new export handler
func NewExportHandler(service DashboardServiceInterface, validator *middleware.QueryValidator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ExportHandler {
	return &ExportHandler{
		service:      service,
		validator:    validator,
		logger:       logger.With(slog.String("component", "export_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the export routes
func (h *ExportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.With(h.FormatCtx).Get("/{format}", h.Export)
	return r
}

// FormatCtx validates the format URL parameter
func (h *ExportHandler) FormatCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		format := chi.URLParam(r, "format")
		tag := "required,oneof=" + strings.Join(exporter.Names(), " ")
		if err := h.validator.Var(format, tag); err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("format",
				fmt.Sprintf("format must be one of: %s", strings.Join(exporter.Names(), ", "))))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Export handles GET /export/{format}
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	var q services.DashboardQuery
	if err := h.validator.Bind(r, &q); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	exp, err := h.service.PrepareExport(r.Context(), q, chi.URLParam(r, "format"))
	if err != nil {
		h.errorHandler.HandleError(w, r, h.transformError(err))
		return
	}

	w.Header().Set("Content-Type", exp.Format.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exp.Filename))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)

	if err := h.service.WriteExport(r.Context(), exp, w); err != nil {
		// headers are already sent; the client sees a truncated file
		h.logger.ErrorContext(r.Context(), "export stream interrupted",
			slog.String("filename", exp.Filename),
			slog.String("error", err.Error()))
	}
}

// transformError maps service errors to API errors
func (h *ExportHandler) transformError(err error) error {
	switch {
	case errors.Is(err, services.ErrDataUnavailable):
		return apierrors.DataUnavailable(err)
	case errors.Is(err, services.ErrInvalidQuery):
		return apierrors.ErrValidation("format", err.Error())
	default:
		return err
	}
}
