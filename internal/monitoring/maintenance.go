package monitoring

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Maintenance periodically compacts the full-text index and refreshes the
// query planner statistics. The work is cheap; the schedule mainly keeps the
// FTS b-trees from fragmenting under sustained posting.
type Maintenance struct {
	db       *sql.DB
	schedule cron.Schedule
	done     chan bool
}

// NewMaintenance creates a maintenance worker from a standard cron expression.
func NewMaintenance(db *sql.DB, cronExpr string) (*Maintenance, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid maintenance schedule %q: %w", cronExpr, err)
	}
	return &Maintenance{
		db:       db,
		schedule: schedule,
		done:     make(chan bool),
	}, nil
}

// Run starts the maintenance loop.
func (m *Maintenance) Run() {
	log.Info().Msg("Starting background store maintenance...")

	for {
		timer := time.NewTimer(time.Until(m.schedule.Next(time.Now())))
		select {
		case <-m.done:
			timer.Stop()
			log.Info().Msg("Stopping background store maintenance.")
			return
		case <-timer.C:
			m.runOnce()
		}
	}
}

// Stop halts the maintenance loop.
func (m *Maintenance) Stop() {
	m.done <- true
}

func (m *Maintenance) runOnce() {
	if _, err := m.db.Exec("INSERT INTO tweets_fts(tweets_fts) VALUES ('optimize')"); err != nil {
		log.Error().Err(err).Msg("Maintenance: failed to optimize full-text index")
	}
	if _, err := m.db.Exec("ANALYZE"); err != nil {
		log.Error().Err(err).Msg("Maintenance: failed to analyze store")
	}

	var users, tweets int64
	if err := m.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&users); err != nil {
		log.Error().Err(err).Msg("Maintenance: failed to count users")
		return
	}
	if err := m.db.QueryRow("SELECT COUNT(*) FROM tweets").Scan(&tweets); err != nil {
		log.Error().Err(err).Msg("Maintenance: failed to count tweets")
		return
	}

	log.Info().Int64("users", users).Int64("tweets", tweets).Msg("Store maintenance complete")
}
