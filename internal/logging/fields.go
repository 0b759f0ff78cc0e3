package logging

// Standardized attribute keys used across components.
const (
	FieldComponent = "component"
	FieldCategory  = "category"
	FieldSource    = "source"
	FieldEventType = "event_type"
	FieldErrorHint = "error_hint"
	FieldImpact    = "impact"
	FieldPath      = "path"
)
