package bus_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wareflow/internal/audit"
	"wareflow/internal/bus"
)

type stepStarted struct{ ID string }

func (e stepStarted) EventType() string { return "step_started" }

type stepFinished struct{ ID string }

func (e stepFinished) EventType() string { return "step_finished" }

// recorder appends "name:message" entries to a shared trace and can publish
// a follow-on event or fail, depending on configuration.
type recorder struct {
	name    string
	trace   *[]string
	publish func(ctx context.Context, b *bus.Bus)
	err     error
}

func (r *recorder) Handle(ctx context.Context, msg bus.Message) error {
	switch m := msg.(type) {
	case stepStarted:
		*r.trace = append(*r.trace, fmt.Sprintf("%s:started:%s", r.name, m.ID))
	case stepFinished:
		*r.trace = append(*r.trace, fmt.Sprintf("%s:finished:%s", r.name, m.ID))
	default:
		*r.trace = append(*r.trace, fmt.Sprintf("%s:other", r.name))
	}

	if r.publish != nil {
		publish := r.publish
		r.publish = nil // fire once, avoid infinite chains in tests
		publish(ctx, nil)
	}

	return r.err
}

func Test_Send_DeliversToNamedHandler(t *testing.T) {
	var trace []string
	b := bus.New(audit.Discard())
	b.Register("worker", &recorder{name: "worker", trace: &trace})

	err := b.Send(context.Background(), "worker", stepStarted{ID: "s1"})

	require.NoError(t, err)
	assert.Equal(t, []string{"worker:started:s1"}, trace)
}

func Test_Send_UnknownHandlerReturnsErrorWithoutPanic(t *testing.T) {
	b := bus.New(audit.Discard())

	err := b.Send(context.Background(), "nobody", stepStarted{ID: "s1"})

	assert.Error(t, err)
}

func Test_Send_ReturnsHandlerErrorToDirectCaller(t *testing.T) {
	var trace []string
	handlerErr := errors.New("boom")
	b := bus.New(audit.Discard())
	b.Register("worker", &recorder{name: "worker", trace: &trace, err: handlerErr})

	err := b.Send(context.Background(), "worker", stepStarted{ID: "s1"})

	assert.ErrorIs(t, err, handlerErr)
}

func Test_Register_SameNameOverwrites(t *testing.T) {
	var trace []string
	b := bus.New(audit.Discard())
	b.Register("worker", &recorder{name: "first", trace: &trace})
	b.Register("worker", &recorder{name: "second", trace: &trace})

	require.NoError(t, b.Send(context.Background(), "worker", stepStarted{ID: "s1"}))

	assert.Equal(t, []string{"second:started:s1"}, trace)
}

func Test_Publish_FansOutInSubscriptionOrder(t *testing.T) {
	var trace []string
	b := bus.New(audit.Discard())
	b.Register("one", &recorder{name: "one", trace: &trace})
	b.Register("two", &recorder{name: "two", trace: &trace})
	b.Subscribe("step_started", "one")
	b.Subscribe("step_started", "two")

	b.Publish(context.Background(), stepStarted{ID: "s1"})

	assert.Equal(t, []string{"one:started:s1", "two:started:s1"}, trace)
}

func Test_Publish_DuplicateSubscriptionInvokedOncePerRegistration(t *testing.T) {
	var trace []string
	b := bus.New(audit.Discard())
	b.Register("one", &recorder{name: "one", trace: &trace})
	b.Subscribe("step_started", "one")
	b.Subscribe("step_started", "one")

	b.Publish(context.Background(), stepStarted{ID: "s1"})

	assert.Equal(t, []string{"one:started:s1", "one:started:s1"}, trace)
}

func Test_Publish_NoSubscribersIsSilentNoop(t *testing.T) {
	b := bus.New(audit.Discard())

	assert.NotPanics(t, func() {
		b.Publish(context.Background(), stepStarted{ID: "s1"})
	})
}

func Test_Publish_UnknownSubscriberDoesNotStopRemaining(t *testing.T) {
	var trace []string
	b := bus.New(audit.Discard())
	b.Register("two", &recorder{name: "two", trace: &trace})
	b.Subscribe("step_started", "missing")
	b.Subscribe("step_started", "two")

	b.Publish(context.Background(), stepStarted{ID: "s1"})

	assert.Equal(t, []string{"two:started:s1"}, trace)
}

func Test_Publish_HandlerErrorDoesNotStopRemaining(t *testing.T) {
	var trace []string
	b := bus.New(audit.Discard())
	b.Register("one", &recorder{name: "one", trace: &trace, err: errors.New("boom")})
	b.Register("two", &recorder{name: "two", trace: &trace})
	b.Subscribe("step_started", "one")
	b.Subscribe("step_started", "two")

	assert.NotPanics(t, func() {
		b.Publish(context.Background(), stepStarted{ID: "s1"})
	})
	assert.Equal(t, []string{"one:started:s1", "two:started:s1"}, trace)
}

// A nested publish must run all of its deliveries before the outer event's
// remaining subscribers, matching depth-first call-stack recursion.
func Test_Publish_NestedPublishRunsDepthFirst(t *testing.T) {
	var trace []string
	b := bus.New(audit.Discard())

	chaining := &recorder{name: "chaining", trace: &trace}
	chaining.publish = func(ctx context.Context, _ *bus.Bus) {
		b.Publish(ctx, stepFinished{ID: "s1"})
	}

	b.Register("chaining", chaining)
	b.Register("late", &recorder{name: "late", trace: &trace})
	b.Register("sink", &recorder{name: "sink", trace: &trace})
	b.Subscribe("step_started", "chaining")
	b.Subscribe("step_started", "late")
	b.Subscribe("step_finished", "sink")

	b.Publish(context.Background(), stepStarted{ID: "s1"})

	assert.Equal(t, []string{
		"chaining:started:s1",
		"sink:finished:s1",
		"late:started:s1",
	}, trace)
}

// A handler that publishes several events in sequence must have them
// delivered in publish order, each with its full cascade, before the outer
// event's remaining subscribers run.
func Test_Publish_SequentialPublishesFromOneHandlerKeepOrder(t *testing.T) {
	var trace []string
	b := bus.New(audit.Discard())

	chaining := &recorder{name: "chaining", trace: &trace}
	chaining.publish = func(ctx context.Context, _ *bus.Bus) {
		b.Publish(ctx, stepFinished{ID: "first"})
		b.Publish(ctx, stepFinished{ID: "second"})
	}

	b.Register("chaining", chaining)
	b.Register("late", &recorder{name: "late", trace: &trace})
	b.Register("sink", &recorder{name: "sink", trace: &trace})
	b.Subscribe("step_started", "chaining")
	b.Subscribe("step_started", "late")
	b.Subscribe("step_finished", "sink")

	b.Publish(context.Background(), stepStarted{ID: "s1"})

	assert.Equal(t, []string{
		"chaining:started:s1",
		"sink:finished:first",
		"sink:finished:second",
		"late:started:s1",
	}, trace)
}

// Cascades of sequentially published events stay depth-first per event: the
// first event's whole subtree runs before the second event is delivered.
func Test_Publish_SequentialPublishCascadesStayGrouped(t *testing.T) {
	var trace []string
	b := bus.New(audit.Discard())

	chaining := &recorder{name: "chaining", trace: &trace}
	chaining.publish = func(ctx context.Context, _ *bus.Bus) {
		b.Publish(ctx, stepFinished{ID: "first"})
		b.Publish(ctx, stepFinished{ID: "second"})
	}

	// deep republishes its first step_finished, so its cascade must land
	// between the two sibling deliveries, not after them.
	deep := &recorder{name: "deep", trace: &trace}
	deep.publish = func(ctx context.Context, _ *bus.Bus) {
		b.Publish(ctx, stepStarted{ID: "nested"})
	}

	b.Register("chaining", chaining)
	b.Register("deep", deep)
	b.Register("sink", &recorder{name: "sink", trace: &trace})
	b.Subscribe("step_started", "chaining")
	b.Subscribe("step_started", "sink")
	b.Subscribe("step_finished", "deep")

	b.Publish(context.Background(), stepStarted{ID: "s1"})

	// chaining sees the nested event too but publishes only once.
	assert.Equal(t, []string{
		"chaining:started:s1",
		"deep:finished:first",
		"chaining:started:nested",
		"sink:started:nested",
		"deep:finished:second",
		"sink:started:s1",
	}, trace)
}

func Test_Publish_CompletesFullyBeforeReturning(t *testing.T) {
	var trace []string
	b := bus.New(audit.Discard())

	chaining := &recorder{name: "chaining", trace: &trace}
	chaining.publish = func(ctx context.Context, _ *bus.Bus) {
		b.Publish(ctx, stepFinished{ID: "s1"})
	}

	b.Register("chaining", chaining)
	b.Register("sink", &recorder{name: "sink", trace: &trace})
	b.Subscribe("step_started", "chaining")
	b.Subscribe("step_finished", "sink")

	b.Publish(context.Background(), stepStarted{ID: "s1"})

	// Both the direct delivery and the cascaded one happened synchronously.
	assert.Len(t, trace, 2)
}
