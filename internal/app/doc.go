// Package app wires the dashboard together and manages its lifecycle.
//
// # Initialization Flow
//
//	1. Load configuration (cmd/dashboard)
//	2. Initialize logging and OpenTelemetry
//	3. Build the dataset loader and its load-once cache
//	4. Create the dashboard and health services
//	5. Set up middleware, handlers and routes on a chi router
//	6. Start the HTTP server and, when configured, preload the datasets
//
// # Usage
//
//	application, err := app.NewApplication(cfg, logger)
//	if err != nil {
//	    return err
//	}
//	return application.Run()
//
// # Graceful Shutdown
//
// Run blocks until SIGINT or SIGTERM, then lets in-flight requests finish
// within Server.ShutdownTimeout and flushes the telemetry providers.
//
// All initialization errors are returned to the caller; the package never
// calls os.Exit.
package app
