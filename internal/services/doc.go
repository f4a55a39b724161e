// Package services implements the business logic layer of the dashboard.
// It sits between the HTTP handlers and the dataset snapshot, so handlers
// never touch tables directly.
//
// # Available Services
//
//	- DashboardService: filtering, paging, company detail and exports
//	- HealthService: liveness, readiness and version information
//
// # Error Handling
//
// Services return sentinel errors that handlers map to HTTP responses with
// errors.Is:
//
//	- ErrDataUnavailable wraps the cached load failure (503)
//	- ErrInvalidQuery for inputs such as an unknown export format (400)
//
// # Testing
//
// The snapshot source is an interface, so tests either build a real
// snapshot from temporary files or mock the source:
//
//	src := new(MockSnapshotSource)
//	src.On("Get", mock.Anything).Return(nil, errors.New("boom"))
//	svc := NewDashboardService(src, 500, nil, logger)
package services
