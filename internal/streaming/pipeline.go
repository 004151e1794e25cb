package streaming

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"x4map/internal/api"
	"x4map/internal/log"
	"x4map/internal/lookup"
	"x4map/internal/streaming/parser"
	"x4map/internal/streaming/tags"
)

// EventType tells status events from the terminal events of a parse
type EventType int

const (
	EventStatus EventType = iota
	EventComplete
	EventError
)

// Event is one message on a parse's event channel
type Event struct {
	Type    EventType
	Status  string // EventStatus: human-readable progress
	Percent int    // EventStatus: 0-100, or -1 when not a percentage

	Result  api.SectorsMap // EventComplete
	Elapsed time.Duration  // EventComplete and EventError
	Err     error          // EventError
}

// Options tunes a Pipeline
type Options struct {
	ChunkSize       int     // bytes handed to the walker per read
	MaxTagLen       int     // longest tag buffered before it is dropped as malformed
	ProgressStep    int     // minimum percentage between two progress events
	ProgressRate    float64 // maximum progress events per second, 0 for no limit
	ReadReportBytes int64   // decoded bytes between "Reading" events, 0 to disable
}

// DefaultOptions returns the settings used by the command line tools
func DefaultOptions() Options {
	return Options{
		ChunkSize:       256 * 1024,
		MaxTagLen:       tags.DefaultMaxTagLen,
		ProgressStep:    1,
		ProgressRate:    20,
		ReadReportBytes: 5 * 1024 * 1024,
	}
}

// eventBuffer leaves room for the terminal event behind dropped status events
const eventBuffer = 32

// Pipeline runs save-file parses on a worker goroutine, one at a time
type Pipeline struct {
	tables *lookup.Tables
	opts   Options
	logger *slog.Logger

	running atomic.Bool

	// Metrics
	bytesProcessed  atomic.Uint64
	parsesCompleted atomic.Uint64
}

// NewPipeline creates a pipeline resolving names through tables
func NewPipeline(tables *lookup.Tables, opts Options) *Pipeline {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultOptions().ChunkSize
	}
	if opts.MaxTagLen <= 0 {
		opts.MaxTagLen = tags.DefaultMaxTagLen
	}
	return &Pipeline{
		tables: tables,
		opts:   opts,
		logger: log.With("pipeline"),
	}
}

// Run parses r on a new worker goroutine. total is the size of r in bytes,
// or <= 0 when unknown. The returned channel carries status events followed
// by exactly one EventComplete or EventError, and is then closed.
func (p *Pipeline) Run(ctx context.Context, r io.Reader, total int64) <-chan Event {
	events := make(chan Event, eventBuffer)

	if !p.running.CompareAndSwap(false, true) {
		events <- Event{Type: EventError, Err: ErrBusy}
		close(events)
		return events
	}

	go func() {
		defer close(events)
		defer p.running.Store(false)

		// Status events are fire-and-forget; one slot always stays free for
		// the terminal event
		emit := func(ev Event) {
			if len(events) < cap(events)-1 {
				events <- ev
			}
		}

		start := time.Now()
		result, err := p.parse(ctx, r, total, emit)
		elapsed := time.Since(start)
		if err != nil {
			p.logger.Error("parse failed", "error", err, "elapsed", elapsed)
			events <- Event{Type: EventError, Err: err, Elapsed: elapsed}
			return
		}
		p.parsesCompleted.Add(1)
		p.logger.Info("parse complete", "sectors", len(result.Sectors), "objects", result.ObjectCount(), "elapsed", elapsed)
		events <- Event{Type: EventComplete, Result: result, Elapsed: elapsed}
	}()
	return events
}

// Running reports whether a parse is in flight
func (p *Pipeline) Running() bool {
	return p.running.Load()
}

// GetMetrics returns pipeline counters
func (p *Pipeline) GetMetrics() (bytesProcessed, parsesCompleted uint64) {
	return p.bytesProcessed.Load(), p.parsesCompleted.Load()
}

func (p *Pipeline) parse(ctx context.Context, r io.Reader, total int64, emit func(Event)) (result api.SectorsMap, err error) {
	ctx, span := otel.Tracer("x4map/streaming").Start(ctx, "streaming.parse")
	span.SetAttributes(attribute.Int64("input.bytes", total))
	defer func() {
		if rec := recover(); rec != nil {
			p.logger.Error("panic recovered during parse", "error", rec, "stack", string(debug.Stack()))
			err = &ParseError{Kind: KindInternal, Err: fmt.Errorf("panic: %v", rec)}
			result = api.SectorsMap{}
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	emit(Event{Type: EventStatus, Status: "Reading...", Percent: -1})

	counter := &countingReader{r: r}
	in, err := OpenInput(counter)
	if err != nil {
		return api.SectorsMap{}, err
	}
	defer in.Close()
	span.SetAttributes(attribute.Bool("input.compressed", in.Compressed))

	builder := parser.NewSaveParser(p.tables)
	walker := tags.NewWalker(builder)
	walker.MaxTagLen = p.opts.MaxTagLen
	progress := newProgressReporter(p.opts, total, emit)

	emit(Event{Type: EventStatus, Status: "Parsing...", Percent: -1})

	buf := make([]byte, p.opts.ChunkSize)
	var decoded int64
	for {
		// cooperative checkpoint, once per chunk
		if err := ctx.Err(); err != nil {
			return api.SectorsMap{}, &ParseError{Kind: KindCanceled, Err: err}
		}

		n, rerr := in.Read(buf)
		if n > 0 {
			decoded += int64(n)
			if _, err := walker.Write(buf[:n]); err != nil {
				return api.SectorsMap{}, &ParseError{Kind: KindInternal, Err: err}
			}
			progress.update(counter.n, decoded)
		}
		if errors.Is(rerr, io.EOF) {
			break
		}
		if rerr != nil {
			return api.SectorsMap{}, transportError(rerr)
		}
	}
	p.bytesProcessed.Add(uint64(counter.n))

	if err := walker.Close(); err != nil {
		return api.SectorsMap{}, &ParseError{Kind: KindStructure, Err: err}
	}
	if n := walker.AnomalyCount(); n > 0 {
		first := walker.Anomalies()[0]
		p.logger.Warn("malformed markup skipped", "anomalies", n, "first", first.String())
	}
	span.SetAttributes(
		attribute.Int("walk.elements", walker.Elements()),
		attribute.Int("walk.anomalies", walker.AnomalyCount()),
	)

	emit(Event{Type: EventStatus, Status: "Finishing...", Percent: -1})
	return builder.Finish(), nil
}
