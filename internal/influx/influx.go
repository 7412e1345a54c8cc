// Package influx writes per-turn decision metrics to InfluxDB, falling back to a
// gzip line-protocol file when the server cannot be reached.
package influx

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/corsair-bot/corsair/internal/config"
	"github.com/corsair-bot/corsair/pkg/core"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/influxdata/influxdb-client-go/v2/domain"
	"github.com/rs/zerolog"
)

// Measurement names.
const (
	MeasurementTurn     = "turn"
	MeasurementCommands = "commands"
	MeasurementMatch    = "match"
)

// retention applied to a bucket this package creates.
const retentionSeconds = 60 * 60 * 24 * 90

// ErrDisabled is returned by Connect when influx.enabled is false.
var ErrDisabled = errors.New("influx is disabled")

// Manager handles InfluxDB connections and writes.
type Manager struct {
	cfg        config.InfluxConfig
	client     influxdb2.Client
	writer     influxdb2_api.WriteAPI
	backupPath string
	backupFile io.Closer
	backup     *gzip.Writer
	valid      bool
	mu         sync.Mutex
	logger     zerolog.Logger
}

// NewManager creates a new InfluxDB manager. backupPath receives line protocol
// when the server is unreachable.
func NewManager(cfg config.InfluxConfig, log zerolog.Logger, backupPath string) *Manager {
	return &Manager{
		cfg:        cfg,
		backupPath: backupPath,
		logger:     log,
	}
}

// Connect establishes a connection to InfluxDB, or opens the backup file if the
// server does not answer a ping.
func (m *Manager) Connect(ctx context.Context) error {
	if !m.cfg.Enabled {
		return ErrDisabled
	}

	m.client = influxdb2.NewClientWithOptions(
		m.cfg.URL(),
		m.cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(2500).
			SetFlushInterval(1000),
	)

	running, err := m.client.Ping(ctx)
	if err != nil || !running {
		m.logger.Info().Err(err).Str("backupPath", m.backupPath).
			Msg("Failed to reach InfluxDB, writing to backup file")
		return m.openBackup()
	}

	if err := m.setupOrganizationAndBucket(ctx); err != nil {
		return err
	}
	m.createWriter()
	m.valid = true
	m.logger.Info().Str("url", m.cfg.URL()).Msg("InfluxDB client initialized")
	return nil
}

// Valid reports whether points go to the server rather than the backup file.
func (m *Manager) Valid() bool {
	return m.valid
}

func (m *Manager) openBackup() error {
	if err := os.MkdirAll(filepath.Dir(m.backupPath), 0o755); err != nil {
		return fmt.Errorf("error creating backup directory: %w", err)
	}
	file, err := os.OpenFile(m.backupPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("error creating backup file: %w", err)
	}
	m.backupFile = file
	m.backup = gzip.NewWriter(file)
	return nil
}

func (m *Manager) setupOrganizationAndBucket(ctx context.Context) error {
	orgs := m.client.OrganizationsAPI()

	org, err := orgs.FindOrganizationByName(ctx, m.cfg.Org)
	if err != nil {
		m.logger.Info().Str("org", m.cfg.Org).Msg("Organization not found, creating")
		org, err = orgs.CreateOrganizationWithName(ctx, m.cfg.Org)
		if err != nil {
			m.logger.Error().Err(err).Str("org", m.cfg.Org).Msg("Error creating organization")
			return err
		}
	}

	if _, err := m.client.BucketsAPI().FindBucketByName(ctx, m.cfg.Bucket); err != nil {
		m.logger.Info().Str("bucket", m.cfg.Bucket).Msg("Bucket not found, creating")
		rule := domain.RetentionRuleTypeExpire
		_, err = m.client.BucketsAPI().CreateBucketWithName(ctx, org, m.cfg.Bucket, domain.RetentionRule{
			Type:         &rule,
			EverySeconds: retentionSeconds,
		})
		if err != nil {
			m.logger.Error().Err(err).Str("bucket", m.cfg.Bucket).Msg("Error creating bucket")
			return err
		}
	}
	return nil
}

func (m *Manager) createWriter() {
	m.writer = m.client.WriteAPI(m.cfg.Org, m.cfg.Bucket)
	go func(errorsCh <-chan error) {
		for writeErr := range errorsCh {
			m.logger.Error().Err(writeErr).Str("bucket", m.cfg.Bucket).
				Msg("Error sending data to InfluxDB")
		}
	}(m.writer.Errors())
	m.logger.Debug().Str("bucket", m.cfg.Bucket).Msg("InfluxDB writer created")
}

// WritePoint writes a point to InfluxDB or the backup file.
func (m *Manager) WritePoint(point *influxdb2_write.Point) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.valid {
		m.writer.WritePoint(point)
		return nil
	}
	if m.backup == nil {
		return errors.New("influxDB client not initialized and backup writer not available")
	}

	line := influxdb2_write.PointToLineProtocol(point, time.Nanosecond)
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	if _, err := m.backup.Write([]byte(line)); err != nil {
		return fmt.Errorf("error writing to InfluxDB backup file: %w", err)
	}
	return nil
}

// Close flushes pending points and releases the client or backup file.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.writer != nil {
		m.writer.Flush()
	}
	if m.client != nil {
		m.client.Close()
		m.client = nil
	}
	m.valid = false

	var err error
	if m.backup != nil {
		err = errors.Join(m.backup.Close(), m.backupFile.Close())
		m.backup = nil
	}
	return err
}

// TurnPoint builds the per-turn decision point.
func TurnPoint(matchID string, t core.TurnRecord) *influxdb2_write.Point {
	return influxdb2_write.NewPoint(MeasurementTurn,
		map[string]string{"match": matchID},
		map[string]any{
			"turn":        t.Turn,
			"my_ships":    t.MyShipCount,
			"entities":    t.EntityCount,
			"cooldown":    t.Cooldown,
			"barrel_rum":  t.BarrelRum,
			"duration_us": t.Duration.Microseconds(),
		},
		t.Time,
	)
}

// CommandsPoint counts one turn's commands by action.
func CommandsPoint(matchID string, at time.Time, cmds []core.CommandRecord) *influxdb2_write.Point {
	var fire, move, lead int
	turn := 0
	for _, c := range cmds {
		turn = c.Turn
		switch c.Command.Action {
		case core.ActionFire:
			fire++
			lead += c.Lead
		case core.ActionMove:
			move++
		}
	}
	fields := map[string]any{
		"turn": turn,
		"fire": fire,
		"move": move,
	}
	if fire > 0 {
		fields["mean_lead"] = float64(lead) / float64(fire)
	}
	return influxdb2_write.NewPoint(MeasurementCommands, map[string]string{"match": matchID}, fields, at)
}

// MatchPoint summarises a finished match.
func MatchPoint(matchID string, r core.MatchResult) *influxdb2_write.Point {
	return influxdb2_write.NewPoint(MeasurementMatch,
		map[string]string{"match": matchID, "reason": r.Reason},
		map[string]any{
			"turns": r.Turns,
			"shots": r.Shots,
			"moves": r.Moves,
		},
		r.EndTime,
	)
}
