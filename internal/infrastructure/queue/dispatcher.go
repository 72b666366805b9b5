package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/turfworks/greenmaster/internal/api/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// Summarizer produces a fresh AI overview for one course.
type Summarizer interface {
	SummarizeCourse(ctx context.Context, courseID string) (string, error)
}

// Applier records a generated overview on the course record.
type Applier interface {
	ApplyCourseSummary(ctx context.Context, courseID, summary string) error
}

// Job is one summary-refresh request.
type Job struct {
	CourseID string
}

// Dispatcher routes summary-refresh jobs to a fixed set of workers using
// consistent hashing on the course id, so refreshes for the same course are
// processed in order and never race each other.
type Dispatcher struct {
	workers    []chan Job
	summarizer Summarizer
	applier    Applier
	log        zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, summarizer Summarizer, applier Applier, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:    make([]chan Job, numWorkers),
		summarizer: summarizer,
		applier:    applier,
		log:        log.With().Str("component", "summary_queue").Logger(),
	}
	for i := range d.workers {
		d.workers[i] = make(chan Job, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a refresh job to the worker responsible for its course. The
// call never blocks: a job for a full shard is dropped and logged, and a
// later refresh regenerates the same course.
func (d *Dispatcher) Enqueue(job Job) {
	idx := d.shardIndex(job.CourseID)
	select {
	case d.workers[idx] <- job:
	default:
		d.log.Warn().
			Str("course_id", job.CourseID).
			Int("worker_id", idx).
			Msg("summary queue full, refresh dropped")
	}
	metrics.SummaryQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// shardIndex maps a course id deterministically to a worker index.
func (d *Dispatcher) shardIndex(courseID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(courseID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan Job) {
	worker := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			metrics.SummaryQueueDepth.WithLabelValues(worker).Set(float64(len(ch)))
			summary, err := d.summarizer.SummarizeCourse(ctx, job.CourseID)
			if err != nil {
				d.log.Error().Err(err).
					Str("course_id", job.CourseID).
					Int("worker_id", id).
					Msg("summary generation failed")
				continue
			}
			if err := d.applier.ApplyCourseSummary(ctx, job.CourseID, summary); err != nil {
				d.log.Error().Err(err).
					Str("course_id", job.CourseID).
					Int("worker_id", id).
					Msg("summary apply failed")
			}
		}
	}
}
