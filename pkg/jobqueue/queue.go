// Package jobqueue provides the legacy synchronous engine job queue
package jobqueue

import (
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/google/uuid"
	"github.com/stagehand/stagehand/pkg/interfaces"
	"github.com/stagehand/stagehand/pkg/logger"
)

// ProgressCallbackArg is the reserved argument key under which the
// progress-reporting callback is injected into every job's argument set.
const ProgressCallbackArg = "progress_callback"

// ProgressFunc reports a job's absolute progress percentage. The queue
// relays the delta between successive reports to the host progress sink.
type ProgressFunc func(percent int)

// Action is the callable payload of a job
type Action func(args map[string]interface{}) error

// Job is a named unit of work. The queue owns it while queued; ownership
// transfers to the executing call frame during Drain and the job is
// discarded afterwards regardless of the result.
type Job struct {
	ID     string
	Name   string
	Action Action
	Args   map[string]interface{}
}

// JobError indicates a queued job's action failed. The queue recovers by
// logging and continuing with the next job.
type JobError struct {
	JobName string
	Err     error
}

func (e *JobError) Error() string {
	return fmt.Sprintf("job %q failed: %v", e.JobName, e.Err)
}

func (e *JobError) Unwrap() error {
	return e.Err
}

// Queue executes named jobs strictly sequentially with cooperative
// progress reporting and per-job fault isolation.
//
// Kept for backward compatibility with existing pipeline apps; new
// code should not submit work through it.
type Queue struct {
	logger   logger.Logger
	progress interfaces.ProgressSink

	mu              sync.Mutex
	jobs            []*Job
	currentProgress int
}

// New creates an empty queue reporting to the given progress sink
func New(log logger.Logger, progress interfaces.ProgressSink) *Queue {
	return &Queue{
		logger:   log.WithScope("jobqueue"),
		progress: progress,
	}
}

// Enqueue appends a job to the tail. It never deduplicates and never
// starts execution.
//
// Deprecated: the engine queue is kept only for legacy pipeline apps.
func (q *Queue) Enqueue(name string, action Action, args map[string]interface{}) {
	q.warnDeprecated()

	q.mu.Lock()
	defer q.mu.Unlock()

	q.jobs = append(q.jobs, &Job{
		ID:     uuid.New().String(),
		Name:   name,
		Action: action,
		Args:   args,
	})
}

// Drain executes all queued jobs one by one on the calling goroutine and
// returns when the queue is empty. A job failure (error or panic) is
// logged with job context and never aborts the rest of the queue. The
// progress sink's EndProgress fires exactly once per job.
//
// Deprecated: the engine queue is kept only for legacy pipeline apps.
func (q *Queue) Drain() {
	q.warnDeprecated()

	for {
		job := q.pop()
		if job == nil {
			return
		}
		q.execute(job)
	}
}

// Size returns the number of pending jobs
func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

func (q *Queue) pop() *Job {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.jobs) == 0 {
		return nil
	}
	job := q.jobs[0]
	q.jobs = q.jobs[1:]
	return job
}

func (q *Queue) execute(job *Job) {
	q.progress.BeginProgress(job.Name)
	q.currentProgress = 0

	defer q.progress.EndProgress()
	defer func() {
		if r := recover(); r != nil {
			jobErr := &JobError{JobName: job.Name, Err: fmt.Errorf("panic: %v", r)}
			q.logger.Error(jobErr.Error(),
				logger.WithField("job_id", job.ID),
				logger.WithField("stack_trace", string(debug.Stack())))
		}
	}()

	args := make(map[string]interface{}, len(job.Args)+1)
	for k, v := range job.Args {
		args[k] = v
	}
	// Injected by convention so queued actions can report progress back
	args[ProgressCallbackArg] = ProgressFunc(q.reportProgress)

	if err := job.Action(args); err != nil {
		jobErr := &JobError{JobName: job.Name, Err: err}
		q.logger.Error(jobErr.Error(), logger.WithField("job_id", job.ID))
	}
}

// reportProgress converts an absolute percentage to a delta before
// stepping the host progress indicator
func (q *Queue) reportProgress(percent int) {
	delta := percent - q.currentProgress
	q.progress.Step(delta)
	q.currentProgress = percent
}

func (q *Queue) warnDeprecated() {
	q.logger.Warn("the engine job queue is deprecated; please migrate to direct execution")
}
