package streaming

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"golang.org/x/time/rate"
)

// progressReporter turns byte counters into throttled status events
type progressReporter struct {
	emit    func(Event)
	total   int64
	step    int
	limiter *rate.Limiter

	lastPercent int
	quantum     int64
	nextReport  int64
}

func newProgressReporter(opts Options, total int64, emit func(Event)) *progressReporter {
	limit := rate.Inf
	if opts.ProgressRate > 0 {
		limit = rate.Limit(opts.ProgressRate)
	}
	step := opts.ProgressStep
	if step < 1 {
		step = 1
	}
	return &progressReporter{
		emit:        emit,
		total:       total,
		step:        step,
		limiter:     rate.NewLimiter(limit, 1),
		lastPercent: -1,
		quantum:     opts.ReadReportBytes,
		nextReport:  opts.ReadReportBytes,
	}
}

// update reports progress after a chunk; read counts input bytes consumed
// from the source, decoded counts document bytes handed to the walker
func (r *progressReporter) update(read, decoded int64) {
	if r.quantum > 0 && decoded >= r.nextReport {
		for r.nextReport <= decoded {
			r.nextReport += r.quantum
		}
		r.emit(Event{Type: EventStatus, Status: fmt.Sprintf("Reading %s", humanize.IBytes(uint64(decoded))), Percent: -1})
	}

	if r.total <= 0 {
		return
	}
	percent := int(read * 100 / r.total)
	if percent > 100 {
		percent = 100
	}
	if percent < r.lastPercent+r.step || !r.limiter.Allow() {
		return
	}
	r.lastPercent = percent
	r.emit(Event{Type: EventStatus, Status: fmt.Sprintf("Parsing... %d%%", percent), Percent: percent})
}
