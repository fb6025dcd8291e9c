package config_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/mwhitt/warbler-be/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	c := qt.New(t)

	cfg, err := config.Load()
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.ServerPort, qt.Equals, 8080)
	c.Assert(cfg.DatabasePath, qt.Equals, "./warbler.db")
	c.Assert(cfg.MaintenanceSchedule, qt.Equals, "@hourly")
}

func TestLoadFromEnvironment(t *testing.T) {
	c := qt.New(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_PATH", "/tmp/test.db")
	t.Setenv("MAINTENANCE_SCHEDULE", "*/5 * * * *")

	cfg, err := config.Load()
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.ServerPort, qt.Equals, 9000)
	c.Assert(cfg.DatabasePath, qt.Equals, "/tmp/test.db")
	c.Assert(cfg.MaintenanceSchedule, qt.Equals, "*/5 * * * *")
}

func TestLoadRejectsBadPort(t *testing.T) {
	c := qt.New(t)
	t.Setenv("PORT", "not-a-port")

	_, err := config.Load()
	c.Assert(err, qt.IsNotNil)
}
