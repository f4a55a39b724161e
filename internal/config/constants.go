package config

// Application info reported by the version endpoint and telemetry resource.
const (
	AppName    = "MCA Insights Engine"
	AppVersion = "1.0.0"
)
