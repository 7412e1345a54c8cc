// Package gormstorage records matches through GORM with internal queues and a
// background writer goroutine. The SQLite and Postgres backends wrap it.
package gormstorage

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/corsair-bot/corsair/internal/database"
	"github.com/corsair-bot/corsair/internal/logging"
	"github.com/corsair-bot/corsair/internal/model"
	"github.com/corsair-bot/corsair/internal/model/convert"
	"github.com/corsair-bot/corsair/internal/queue"
	"github.com/corsair-bot/corsair/pkg/core"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultWriteInterval is how often queued rows are flushed.
const DefaultWriteInterval = 2 * time.Second

// batchSize caps the rows inserted per transaction.
const batchSize = 5000

// ErrNoMatch is returned when records arrive before StartMatch.
var ErrNoMatch = errors.New("no match started")

// Dependencies holds all dependencies for the GORM storage backend.
type Dependencies struct {
	DB         *gorm.DB
	LogManager *logging.SlogManager
	DBLog      zerolog.Logger
	// WriteInterval overrides DefaultWriteInterval when positive.
	WriteInterval time.Duration
}

type queues struct {
	Turns      *queue.Queue[model.Turn]
	ShipStates *queue.Queue[model.ShipState]
	Commands   *queue.Queue[model.Command]
}

func newQueues() *queues {
	return &queues{
		Turns:      queue.New[model.Turn](),
		ShipStates: queue.New[model.ShipState](),
		Commands:   queue.New[model.Command](),
	}
}

// Backend implements storage.Backend with queue-based batch writes.
type Backend struct {
	deps   Dependencies
	queues *queues

	mu    sync.Mutex
	match *model.Match

	writeMu  sync.Mutex
	stopChan chan struct{}
	done     chan struct{}

	lastWrite time.Duration
}

// New creates a new GORM storage backend.
func New(deps Dependencies) *Backend {
	if deps.WriteInterval <= 0 {
		deps.WriteInterval = DefaultWriteInterval
	}
	if deps.LogManager == nil {
		deps.LogManager = logging.NewSlogManager()
	}
	return &Backend{
		deps:   deps,
		queues: newQueues(),
	}
}

// DB returns the underlying connection.
func (b *Backend) DB() *gorm.DB {
	return b.deps.DB
}

// Init runs schema migration and starts the writer goroutine.
func (b *Backend) Init() error {
	if b.deps.DB == nil {
		return errors.New("gorm backend requires a database connection")
	}
	if err := database.Migrate(b.deps.DB, b.deps.DBLog); err != nil {
		return fmt.Errorf("failed to setup DB: %w", err)
	}

	b.stopChan = make(chan struct{})
	b.done = make(chan struct{})
	go b.writeLoop()
	return nil
}

// Close stops the writer goroutine and flushes whatever is still queued.
func (b *Backend) Close() error {
	if b.stopChan != nil {
		close(b.stopChan)
		<-b.done
		b.stopChan = nil
	}
	return b.Flush()
}

// StartMatch inserts the match row synchronously so queued rows can reference it.
func (b *Backend) StartMatch(m *core.Match, settings any) error {
	row := convert.CoreToMatch(*m, settings)
	if err := b.deps.DB.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert new match: %w", err)
	}

	b.mu.Lock()
	b.match = &row
	b.mu.Unlock()
	return nil
}

// EndMatch flushes queued rows and stores the result on the match row.
func (b *Backend) EndMatch(r core.MatchResult) error {
	if err := b.Flush(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.match == nil {
		return ErrNoMatch
	}
	convert.ApplyResult(b.match, r)
	err := b.deps.DB.Model(&model.Match{ID: b.match.ID}).
		Select("end_time", "turns", "shots", "moves", "end_reason").
		Updates(b.match).Error
	if err != nil {
		return fmt.Errorf("failed to update match: %w", err)
	}
	return nil
}

func (b *Backend) matchID() (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.match == nil {
		return "", ErrNoMatch
	}
	return b.match.ID, nil
}

// RecordTurn converts and queues a turn and its ship states.
func (b *Backend) RecordTurn(t *core.TurnRecord) error {
	id, err := b.matchID()
	if err != nil {
		return err
	}
	b.queues.Turns.Push(convert.CoreToTurn(id, *t))
	for _, s := range t.Ships {
		b.queues.ShipStates.Push(convert.CoreToShipState(id, s))
	}
	return nil
}

// RecordCommands converts and queues one turn's commands.
func (b *Backend) RecordCommands(cmds []core.CommandRecord) error {
	id, err := b.matchID()
	if err != nil {
		return err
	}
	rows := make([]model.Command, 0, len(cmds))
	for _, c := range cmds {
		rows = append(rows, convert.CoreToCommand(id, c))
	}
	b.queues.Commands.Push(rows...)
	return nil
}

// Pending returns the number of rows waiting to be written.
func (b *Backend) Pending() int {
	return b.queues.Turns.Len() + b.queues.ShipStates.Len() + b.queues.Commands.Len()
}

// GetLastDBWriteDuration returns how long the last flush took.
func (b *Backend) GetLastDBWriteDuration() time.Duration {
	b.writeMu.Lock()
	defer b.writeMu.Unlock()
	return b.lastWrite
}

// Flush writes every queued row now. Failed batches stay queued.
func (b *Backend) Flush() error {
	b.writeMu.Lock()
	defer b.writeMu.Unlock()

	start := time.Now()
	log := b.deps.LogManager.WriteLog
	db := b.deps.DB
	err := errors.Join(
		writeQueue(db, b.queues.Turns, "turns", log),
		writeQueue(db, b.queues.ShipStates, "ship states", log),
		writeQueue(db, b.queues.Commands, "commands", log),
	)
	b.lastWrite = time.Since(start)
	return err
}

func (b *Backend) writeLoop() {
	defer close(b.done)
	ticker := time.NewTicker(b.deps.WriteInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopChan:
			return
		case <-ticker.C:
			// errors are logged per queue
			_ = b.Flush()
		}
	}
}

// writeQueue drains q in batches, each in its own transaction. A failed batch is
// requeued at the front and the remaining batches are left for the next cycle.
func writeQueue[T any](db *gorm.DB, q *queue.Queue[T], name string, log func(string, string, string)) error {
	for !q.Empty() {
		items := q.Drain(batchSize)
		err := db.Transaction(func(tx *gorm.DB) error {
			return tx.Omit(clause.Associations).Create(&items).Error
		})
		if err != nil {
			log(":DB:WRITER:", fmt.Sprintf("Error creating %s: %v", name, err), "ERROR")
			q.Requeue(items...)
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}
