package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"

	FieldObligationID = "obligation_id"
	FieldEntryID      = "entry_id"
	FieldCadence      = "cadence"
	FieldAmountCents  = "amount_cents"
	FieldVariance     = "variance_cents"
	FieldScore        = "score"
	FieldSeverity     = "severity"
	FieldAlertID      = "alert_id"
	FieldAlertCount   = "alert_count"
	FieldWindowStart  = "window_start"
	FieldWindowEnd    = "window_end"
)

// Components defines standard component names
const (
	ComponentApp        = "app"
	ComponentHTTP       = "http"
	ComponentStorage    = "storage"
	ComponentAMQP       = "amqp"
	ComponentWorker     = "worker"
	ComponentProjection = "projection"
	ComponentVariance   = "variance"
	ComponentHealth     = "health"
	ComponentAlerts     = "alerts"
	ComponentCache      = "cache"
)

// Operations defines standard operation names
const (
	OpExpand    = "expand"
	OpRecord    = "record"
	OpAmend     = "amend"
	OpRecompute = "recompute"
	OpScore     = "score"
	OpAnalyze   = "analyze"
	OpPublish   = "publish"
	OpShutdown  = "shutdown"
	OpStartup   = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithObligation adds obligation-related fields
func (f LogFields) WithObligation(id int64, cadence string, amountCents int64) LogFields {
	f[FieldObligationID] = id
	f[FieldCadence] = cadence
	f[FieldAmountCents] = amountCents
	return f
}

// WithAlert adds alert-related fields
func (f LogFields) WithAlert(id string, severity string) LogFields {
	f[FieldAlertID] = id
	f[FieldSeverity] = severity
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
