// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package target

import (
	"fmt"
	"os"
	"strconv"

	"github.com/caarlos0/env/v11"

	"github.com/pgdrift/pgdrift/internal/log"
	"github.com/pgdrift/pgdrift/internal/util"
)

// envSpec is the fixed part of the env surface; the per-index variables are
// looked up dynamically since their names carry the index.
type envSpec struct {
	DBCount int `env:"DB_COUNT" envDefault:"1"`
}

// Target is one env-configured database connection at a 1-based index.
type Target struct {
	Index    int    `json:"index"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"-"`
	Database string `json:"database"`
}

// Load reads DB_COUNT and the PG_DRIFT_DB_*_{i} variables for each 1-based
// index, applying per-field defaults for anything unset.
func Load() ([]Target, error) {
	var spec envSpec
	if err := env.Parse(&spec); err != nil {
		return nil, fmt.Errorf("failed to parse target environment: %w", err)
	}

	log.Debugf("loading targets: count=%d", spec.DBCount)

	targets := make([]Target, 0, spec.DBCount)
	for i := 1; i <= spec.DBCount; i++ {
		port, err := strconv.Atoi(indexed("PG_DRIFT_DB_PORT", i, "5432"))
		if err != nil {
			return nil, fmt.Errorf("invalid PG_DRIFT_DB_PORT_%d: %w", i, err)
		}

		targets = append(targets, Target{
			Index:    i,
			Host:     indexed("PG_DRIFT_DB_HOST", i, "localhost"),
			Port:     port,
			User:     indexed("PG_DRIFT_DB_USER", i, "postgres"),
			Password: indexed("PG_DRIFT_DB_PASSWORD", i, "password"),
			Database: indexed("PG_DRIFT_DB_NAME", i, "postgres"),
		})
	}

	return targets, nil
}

// Label returns the diff label for this target (db1, db2, ...).
func (t Target) Label() string {
	return fmt.Sprintf("db%d", t.Index)
}

// DSN renders the live connection string for this target.
func (t Target) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		t.User, t.Password, t.Host, t.Port, t.Database)
}

// Redacted renders the DSN with the password masked for display.
func (t Target) Redacted() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		t.User, util.MaskSecret(t.Password, util.DefaultMaskVisible),
		t.Host, t.Port, t.Database)
}

// indexed looks up NAME_{i}, falling back to the default when unset or
// empty.
func indexed(name string, i int, fallback string) string {
	if v := os.Getenv(fmt.Sprintf("%s_%d", name, i)); v != "" {
		return v
	}
	return fallback
}
