package http

import (
	"context"
	"io"

	"mcainsights/internal/services"
)

// DashboardServiceInterface defines the operations behind the dashboard and
// export pages
type DashboardServiceInterface interface {
	Dashboard(ctx context.Context, q services.DashboardQuery) (*services.DashboardView, error)
	PrepareExport(ctx context.Context, q services.DashboardQuery, format string) (*services.Export, error)
	WriteExport(ctx context.Context, exp *services.Export, w io.Writer) error
}

// HealthServiceInterface defines the health and version operations
type HealthServiceInterface interface {
	HealthCheck(ctx context.Context) services.HealthStatus
	ReadinessCheck(ctx context.Context) services.HealthStatus
	LivenessCheck(ctx context.Context) services.HealthStatus
	Version() map[string]interface{}
}
