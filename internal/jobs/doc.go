// Package jobs runs asset handlers with per-job-name concurrency limits.
//
// Each registered job name owns a lane: a weighted semaphore sized to the
// lane's limit. Dispatch blocks only while its lane is full, then runs the
// handler in a new goroutine tagged with the job name and a fresh
// correlation id. Failed jobs are never retried.
package jobs
