package worker

import "time"

// Log messages
const (
	LogMsgWorkerJobFailed   = "Worker job failed"
	LogMsgWorkerJobPanicked = "Worker job panicked"
	LogMsgJobDropped        = "Worker queue full, job dropped"
)

// DefaultJobTimeout bounds a single job when the pool is built without one
const DefaultJobTimeout = 30 * time.Second
