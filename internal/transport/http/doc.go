// Package http implements the HTTP handlers of the dashboard. Handlers stay
// thin: they bind and validate the query string, call the service layer and
// render the result.
//
// # Pages and endpoints
//
//	GET /                  server-rendered dashboard (html/template)
//	GET /export/{format}   filtered view as csv or xlsx
//	GET /api/health*       health, readiness and liveness JSON
//	GET /api/version       build information
//	GET /static/*          embedded stylesheet
//
// All page state lives in the query string (q, region, status, page, cin),
// so every view is bookmarkable and nothing is kept per session.
//
// # Error Handling
//
// Validation failures and API errors follow RFC 7807 Problem Details:
//
//	{
//	    "type": "/errors/validation",
//	    "title": "Validation Failed",
//	    "status": 400,
//	    "instance": "/export/csv"
//	}
//
// A failed dataset load is the exception on the dashboard page itself: it
// renders the HTML error page with status 503 so a browser user sees why.
//
// # Testing
//
// Handlers are tested using httptest with mocked services.
package http
