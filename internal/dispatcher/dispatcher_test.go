package dispatcher

import (
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/corsair-bot/corsair/internal/hex"
	"github.com/corsair-bot/corsair/pkg/core"
)

type logEntry struct {
	level string
	msg   string
	kv    []any
}

// recordingLogger keeps every entry so tests can inspect levels and fields.
type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) add(level, msg string, kv []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: msg, kv: kv})
}

func (l *recordingLogger) Debug(msg string, keysAndValues ...any) { l.add("DEBUG", msg, keysAndValues) }
func (l *recordingLogger) Info(msg string, keysAndValues ...any) { l.add("INFO", msg, keysAndValues) }
func (l *recordingLogger) Error(msg string, keysAndValues ...any) { l.add("ERROR", msg, keysAndValues) }

func (l *recordingLogger) find(level, msg string) []logEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []logEntry
	for _, e := range l.entries {
		if e.level == level && e.msg == msg {
			out = append(out, e)
		}
	}
	return out
}

// field returns the value logged for key, or nil.
func (e logEntry) field(key string) any {
	for i := 0; i+1 < len(e.kv); i += 2 {
		if e.kv[i] == key {
			return e.kv[i+1]
		}
	}
	return nil
}

func newTurnDispatcher(t *testing.T) (*Dispatcher, *recordingLogger) {
	t.Helper()
	logger := &recordingLogger{}
	d, err := New(logger)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d, logger
}

func TestMatchEndHandledInline(t *testing.T) {
	d, _ := newTurnDispatcher(t)
	defer d.Close()

	d.Register(CommandMatchEnd, func(e Event) (any, error) {
		res, ok := e.Payload.(core.MatchResult)
		if !ok {
			return nil, errors.New("wrong payload")
		}
		if e.Timestamp.IsZero() {
			return nil, errors.New("timestamp not stamped")
		}
		return res.Turns, nil
	})

	got, err := d.Dispatch(Event{Command: CommandMatchEnd, Turn: 42, Payload: core.MatchResult{Turns: 42, Reason: core.EndMaxTurns}})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if got != 42 {
		t.Errorf("expected handler result 42, got %v", got)
	}
}

func TestDispatchWithoutHandler(t *testing.T) {
	d, _ := newTurnDispatcher(t)
	defer d.Close()

	d.Register(CommandTurn, func(Event) (any, error) { return nil, nil })

	tests := []struct {
		command string
		want    bool
	}{
		{CommandTurn, true},
		{CommandCommands, false},
		{CommandMatchEnd, false},
	}
	for _, tt := range tests {
		if got := d.HasHandler(tt.command); got != tt.want {
			t.Errorf("HasHandler(%s) = %v, want %v", tt.command, got, tt.want)
		}
		_, err := d.Dispatch(Event{Command: tt.command})
		if tt.want && err != nil {
			t.Errorf("Dispatch(%s): unexpected error %v", tt.command, err)
		}
		if !tt.want && err == nil {
			t.Errorf("Dispatch(%s): expected error", tt.command)
		}
	}
}

func TestTurnRecordsKeepOrder(t *testing.T) {
	d, _ := newTurnDispatcher(t)

	var mu sync.Mutex
	var seen []int
	d.Register(CommandTurn, func(e Event) (any, error) {
		rec := e.Payload.(core.TurnRecord)
		mu.Lock()
		seen = append(seen, rec.Turn)
		mu.Unlock()
		return nil, nil
	}, Buffered(8), Blocking())

	for turn := 1; turn <= 20; turn++ {
		got, err := d.Dispatch(Event{Command: CommandTurn, Turn: turn, Payload: core.TurnRecord{Turn: turn}})
		if err != nil {
			t.Fatalf("turn %d: %v", turn, err)
		}
		if got != "queued" {
			t.Fatalf("turn %d: expected queued, got %v", turn, got)
		}
	}
	d.Close()

	want := make([]int, 20)
	for i := range want {
		want[i] = i + 1
	}
	if !slices.Equal(seen, want) {
		t.Errorf("expected turns in order %v, got %v", want, seen)
	}

	if _, err := d.Dispatch(Event{Command: CommandTurn, Turn: 21, Payload: core.TurnRecord{Turn: 21}}); err == nil {
		t.Error("expected error after Close")
	}
	d.Close()
}

func TestFullCommandQueueDrops(t *testing.T) {
	d, _ := newTurnDispatcher(t)

	release := make(chan struct{})
	d.Register(CommandCommands, func(Event) (any, error) {
		<-release
		return nil, nil
	}, Buffered(1))

	batch := []core.CommandRecord{{Turn: 1, Command: core.Move(hex.Offset{X: 3, Y: 7})}}
	// one batch held by the worker and one queued is the most that fits
	var dropped int
	for i := 0; i < 3; i++ {
		if _, err := d.Dispatch(Event{Command: CommandCommands, Turn: 1, Payload: batch}); err != nil {
			dropped++
		}
	}
	if dropped == 0 {
		t.Error("expected at least one batch to be dropped")
	}

	close(release)
	d.Close()
}

func TestBlockingTurnQueueWaits(t *testing.T) {
	d, _ := newTurnDispatcher(t)

	release := make(chan struct{})
	d.Register(CommandTurn, func(Event) (any, error) {
		<-release
		return nil, nil
	}, Buffered(1), Blocking())

	d.Dispatch(Event{Command: CommandTurn, Turn: 1, Payload: core.TurnRecord{Turn: 1}})
	d.Dispatch(Event{Command: CommandTurn, Turn: 2, Payload: core.TurnRecord{Turn: 2}})

	done := make(chan struct{})
	go func() {
		d.Dispatch(Event{Command: CommandTurn, Turn: 3, Payload: core.TurnRecord{Turn: 3}})
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("turn 3 should wait for room in the queue")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	<-done
	d.Close()
}

func TestLoggedCommandsFailure(t *testing.T) {
	d, logger := newTurnDispatcher(t)
	defer d.Close()

	d.Register(CommandCommands, func(Event) (any, error) {
		return nil, errors.New("disk full")
	}, Logged())

	batch := []core.CommandRecord{{Turn: 7, Command: core.Fire(hex.Offset{X: 3, Y: 7})}}
	if _, err := d.Dispatch(Event{Command: CommandCommands, Turn: 7, Payload: batch}); err == nil {
		t.Fatal("expected handler error")
	}

	if n := len(logger.find("DEBUG", "handling event")); n != 1 {
		t.Errorf("expected 1 start entry, got %d", n)
	}
	failed := logger.find("ERROR", "event failed")
	if len(failed) != 1 {
		t.Fatalf("expected 1 failure entry, got %d", len(failed))
	}
	if failed[0].field("turn") != 7 || failed[0].field("command") != CommandCommands {
		t.Errorf("unexpected fields: %v", failed[0].kv)
	}
}

func TestBufferedTurnFailureLoggedOnce(t *testing.T) {
	d, logger := newTurnDispatcher(t)

	d.Register(CommandTurn, func(Event) (any, error) {
		return nil, errors.New("disk full")
	}, Buffered(4), Blocking(), Logged())

	if _, err := d.Dispatch(Event{Command: CommandTurn, Turn: 2, Payload: core.TurnRecord{Turn: 2}}); err != nil {
		t.Fatalf("enqueue should succeed: %v", err)
	}
	d.Close()

	failed := logger.find("ERROR", "buffered handler failed")
	if len(failed) != 1 {
		t.Fatalf("expected 1 buffered failure entry, got %d", len(failed))
	}
	if failed[0].field("turn") != 2 {
		t.Errorf("expected turn 2, got %v", failed[0].field("turn"))
	}
	if n := len(logger.find("DEBUG", "event complete")); n != 1 {
		t.Errorf("expected enqueue to be logged as complete, got %d", n)
	}
}
