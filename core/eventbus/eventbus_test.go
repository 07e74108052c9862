package eventbus

import (
	"sync"
	"testing"
	"time"

	"chromabot/core/event"
	"chromabot/core/state"
)

// collect subscribes and gathers delivered events behind a mutex.
type collector struct {
	mu     sync.Mutex
	events []event.Event
}

func (c *collector) handler(e event.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *collector) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestPublishSubscribe(t *testing.T) {
	bus := New(10)
	defer bus.Close()

	c := &collector{}
	bus.Subscribe(c.handler)

	bus.Publish(event.NewRunStarted("run-1", 3, time.Minute))
	bus.Publish(event.NewRunStateChanged("run-1", state.StateIdle, state.StateRunning))

	waitFor(t, func() bool { return c.count() == 2 })
}

func TestSubscribeRunFilters(t *testing.T) {
	bus := New(10)
	defer bus.Close()

	all := &collector{}
	only1 := &collector{}
	bus.Subscribe(all.handler)
	bus.SubscribeRun("run-1", only1.handler)

	bus.Publish(event.NewRunStarted("run-1", 1, time.Minute))
	bus.Publish(event.NewRunStarted("run-2", 1, time.Minute))

	waitFor(t, func() bool { return all.count() == 2 })
	waitFor(t, func() bool { return only1.count() == 1 })

	only1.mu.Lock()
	defer only1.mu.Unlock()
	re, ok := only1.events[0].(event.RunEvent)
	if !ok || re.RunID() != "run-1" {
		t.Errorf("filtered subscriber got %+v, want run-1 event", only1.events[0])
	}
}

func TestUnsubscribe(t *testing.T) {
	bus := New(10)
	defer bus.Close()

	c := &collector{}
	id := bus.Subscribe(c.handler)

	bus.Publish(event.NewRunStarted("run-1", 1, time.Minute))
	waitFor(t, func() bool { return c.count() == 1 })

	bus.Unsubscribe(id)
	bus.Publish(event.NewRunStarted("run-1", 1, time.Minute))

	// Give dispatch a chance to (incorrectly) deliver.
	time.Sleep(50 * time.Millisecond)
	if c.count() != 1 {
		t.Errorf("count after unsubscribe = %d, want 1", c.count())
	}
}

func TestPublishAfterCloseIsNoop(t *testing.T) {
	bus := New(10)
	c := &collector{}
	bus.Subscribe(c.handler)

	bus.Close()
	bus.Publish(event.NewRunStarted("run-1", 1, time.Minute))

	time.Sleep(20 * time.Millisecond)
	if c.count() != 0 {
		t.Errorf("count after close = %d, want 0", c.count())
	}
}

func TestPublishConcurrentWithClose(t *testing.T) {
	// Publishers racing Close must never send on the closed channel.
	// Run under -race to exercise the lock pairing.
	for i := 0; i < 20; i++ {
		bus := New(4)

		var wg sync.WaitGroup
		for p := 0; p < 4; p++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					bus.Publish(event.NewRunStarted("run-1", 1, time.Minute))
				}
			}()
		}

		bus.Close()
		wg.Wait()
	}
}

func TestPanickingHandlerDoesNotStopDispatch(t *testing.T) {
	bus := New(10)
	defer bus.Close()

	c := &collector{}
	bus.Subscribe(func(e event.Event) { panic("handler bug") })
	bus.Subscribe(c.handler)

	bus.Publish(event.NewRunStarted("run-1", 1, time.Minute))
	bus.Publish(event.NewRunStarted("run-1", 1, time.Minute))

	waitFor(t, func() bool { return c.count() == 2 })
}
