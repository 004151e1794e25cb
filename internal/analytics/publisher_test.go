package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"x4map/internal/api"
)

func startTestNATS(t *testing.T) (*natsserver.Server, *nats.Conn) {
	t.Helper()
	opts := &natsserver.Options{Port: -1}
	srv, err := natsserver.NewServer(opts)
	if err != nil {
		t.Fatal(err)
	}
	srv.Start()
	if !srv.ReadyForConnections(3 * time.Second) {
		t.Fatal("nats not ready")
	}
	nc, err := nats.Connect(srv.ClientURL())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		nc.Close()
		srv.Shutdown()
	})
	return srv, nc
}

func withTraceContext(t *testing.T) context.Context {
	t.Helper()
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x01, 0x02, 0x03},
		SpanID:     trace.SpanID{0x04, 0x05},
		TraceFlags: trace.FlagsSampled,
	})
	return trace.ContextWithSpanContext(context.Background(), sc)
}

func TestSaveProcessed(t *testing.T) {
	_, nc := startTestNATS(t)
	ctx := withTraceContext(t)

	ch := make(chan *nats.Msg, 1)
	sub, err := nc.ChanSubscribe("x4map.test", ch)
	require.NoError(t, err)
	defer sub.Unsubscribe()

	stats := &api.Stats{Sectors: 3, Stations: 7, StationsByFaction: map[string]int{"argon": 7}}
	p := NewPublisher(nc, "x4map.test")
	require.NoError(t, p.SaveProcessed(ctx, NewEvent(stats, 1024, 1500*time.Millisecond, nil)))
	require.NoError(t, p.Flush(time.Second))

	select {
	case msg := <-ch:
		var got map[string]any
		require.NoError(t, json.Unmarshal(msg.Data, &got))
		assert.Equal(t, true, got["success"])
		assert.Equal(t, float64(1500), got["processing_ms"])
		assert.Equal(t, float64(1024), got["file_bytes"])
		assert.Contains(t, got, "stats")
		assert.NotContains(t, got, "error")
		assert.NotEmpty(t, msg.Header.Get("traceparent"))
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestSubscribe_ExtractsTraceContext(t *testing.T) {
	_, nc := startTestNATS(t)
	ctx := withTraceContext(t)

	got := make(chan trace.SpanContext, 1)
	events := make(chan Event, 1)
	sub, err := Subscribe(nc, "x4map.sub", func(ctx context.Context, ev Event) {
		got <- trace.SpanContextFromContext(ctx)
		events <- ev
	})
	require.NoError(t, err)
	defer sub.Unsubscribe()
	require.NoError(t, nc.Flush())

	p := NewPublisher(nc, "x4map.sub")
	require.NoError(t, p.SaveProcessed(ctx, NewEvent(nil, 10, time.Second, errors.New("not a save file"))))

	select {
	case sc := <-got:
		assert.Equal(t, trace.SpanContextFromContext(ctx).TraceID(), sc.TraceID())
		ev := <-events
		assert.False(t, ev.Success)
		assert.Equal(t, "not a save file", ev.Error)
		assert.Nil(t, ev.Stats)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestNilPublisherIsNoop(t *testing.T) {
	var p *Publisher
	assert.NoError(t, p.SaveProcessed(context.Background(), Event{Success: true}))
	assert.NoError(t, p.Flush(time.Second))
	assert.NoError(t, p.Close())
}

func TestNewEvent_FailureDropsStats(t *testing.T) {
	ev := NewEvent(&api.Stats{Sectors: 1}, 5, 2*time.Millisecond, errors.New("boom"))
	assert.False(t, ev.Success)
	assert.Nil(t, ev.Stats)
	assert.Equal(t, int64(2), ev.ProcessingMs)
}

func TestConnect_Unreachable(t *testing.T) {
	_, err := Connect("nats://127.0.0.1:1", "x4map.test")
	assert.Error(t, err)
}
