package threatlog

import "time"

// Log messages - service
const (
	LogMsgThreatRejected       = "Threat log entry rejected"
	LogMsgThreatQueueFull      = "Threat log queue full, entry dropped"
	LogMsgFailedToRecordThreat = "Failed to record threat log entry"
	LogMsgThreatRecorded       = "Threat log entry recorded"
)

// Log messages - cleanup job
const (
	LogMsgCleanupJobStarting  = "Starting threat log cleanup job"
	LogMsgCleanupJobFailed    = "Threat log cleanup failed"
	LogMsgCleanupJobCompleted = "Threat log cleanup completed"
)

// Log field keys
const (
	LogFieldReason        = "reason"
	LogFieldIP            = "ip"
	LogFieldError         = "error"
	LogFieldRetentionDays = "retentionDays"
	LogFieldDuration      = "duration"
	LogFieldDeletedCount  = "deletedCount"
)

// CleanupInterval is how often the retention job runs
const CleanupInterval = 6 * time.Hour

// Maximum lengths stored for client-supplied strings
const (
	MaxUserAgentLength   = 512
	MaxFingerprintLength = 128
	MaxEndpointLength    = 256
)
