package config

const (
	DefaultTimeZone = "Asia/Kolkata"

	// Aggregate tolerance for header-vs-lines comparisons, in currency
	// units. Overridable at runtime via AGGREGATE_EPSILON.
	DefaultAggregateEpsilon = "0.01"

	// Upload limits
	MaxUploadBytes = 32 << 20

	// Preview sessions expire after this many minutes unless committed or
	// discarded first.
	SessionTTLMinutes = 30

	// Cron schedules for the ingestion housekeeping jobs
	SessionSweepSchedule  = "*/5 * * * *"
	UploadSummarySchedule = "0 18 * * *"

	DefaultIngestionPort = 7143
)
