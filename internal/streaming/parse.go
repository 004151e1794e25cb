package streaming

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"x4map/internal/api"
	"x4map/internal/lookup"
)

// Parse runs one parse synchronously and returns its result. Status events
// are passed to onStatus when it is not nil.
func Parse(ctx context.Context, r io.Reader, total int64, tables *lookup.Tables, opts Options, onStatus func(Event)) (api.SectorsMap, error) {
	return Wait(NewPipeline(tables, opts).Run(ctx, r, total), onStatus)
}

// ParseFile parses the save file at path
func ParseFile(ctx context.Context, path string, tables *lookup.Tables, opts Options, onStatus func(Event)) (api.SectorsMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return api.SectorsMap{}, transportError(err)
	}
	defer f.Close()

	var size int64 = -1
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}
	return Parse(ctx, f, size, tables, opts, onStatus)
}

// Wait drains an event channel and returns its terminal outcome
func Wait(events <-chan Event, onStatus func(Event)) (api.SectorsMap, error) {
	var (
		result api.SectorsMap
		err    error
		done   bool
	)
	for ev := range events {
		switch ev.Type {
		case EventStatus:
			if onStatus != nil {
				onStatus(ev)
			}
		case EventComplete:
			result, done = ev.Result, true
		case EventError:
			err, done = ev.Err, true
		}
	}
	if !done {
		return api.SectorsMap{}, errors.New("parse ended without a result")
	}
	if err != nil {
		return api.SectorsMap{}, fmt.Errorf("parse failed: %w", err)
	}
	return result, nil
}
