package logging

// Standardized attribute keys shared across components so log lines stay
// greppable.
const (
	FieldComponent = "component"
	FieldEventType = "event_type"
	FieldErrorHint = "error_hint"
	FieldArchive   = "archive"
	FieldOutput    = "output"
	FieldAttempt   = "attempt"
	FieldBackend   = "backend"
	FieldWorkspace = "workspace"
)
