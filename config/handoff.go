package config

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"get.pme.sh/atomix/retry"
	"get.pme.sh/atomix/util"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	atomicfile "github.com/natefinch/atomic"
)

// Handoff describes a producer/consumer run of the handoff command.
type Handoff struct {
	Producers   int           `json:"producers" yaml:"producers"`       // Concurrent producers
	Items       int           `json:"items" yaml:"items"`               // Items per producer
	Duplicates  float64       `json:"duplicates" yaml:"duplicates"`     // Fraction of pushes that carry their id twice
	FailureRate float64       `json:"failure_rate" yaml:"failure_rate"` // Fraction of handled items reported as failed
	Interval    util.Duration `json:"interval" yaml:"interval"`         // Flush interval
	Timeout     util.Duration `json:"timeout" yaml:"timeout"`           // Bound on a single handler call
	Retry       retry.Policy  `json:"retry" yaml:"retry"`
}

func DefaultHandoff() Handoff {
	return Handoff{
		Producers:   4,
		Items:       10_000,
		Duplicates:  0.1,
		FailureRate: 0.05,
		Interval:    util.Duration(20 * time.Millisecond),
		Timeout:     util.Duration(5 * time.Second),
		Retry:       retry.Policy{Attempts: 3},
	}
}

func (h Handoff) Validate() error {
	switch {
	case h.Producers <= 0:
		return errors.Errorf("producers must be positive, got %d", h.Producers)
	case h.Items < 0:
		return errors.Errorf("items must not be negative, got %d", h.Items)
	case h.Duplicates < 0 || h.Duplicates >= 1:
		return errors.Errorf("duplicates must be in [0, 1), got %g", h.Duplicates)
	case h.FailureRate < 0 || h.FailureRate > 1:
		return errors.Errorf("failure_rate must be in [0, 1], got %g", h.FailureRate)
	}
	return nil
}

// LoadHandoff reads a YAML profile over the defaults. An empty path yields
// the defaults.
func LoadHandoff(path string) (h Handoff, err error) {
	h = DefaultHandoff()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return h, errors.Wrap(err, "read profile")
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&h); err != nil {
			return h, errors.Wrapf(err, "parse profile %s", path)
		}
	}
	return h, h.Validate()
}

// ReportPath resolves name against the report directory unless it is
// absolute.
func ReportPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return ReportDir.File(name)
}

// WriteReport stores v as indented JSON, replacing path atomically. Failed
// writes are retried under p.
func WriteReport(ctx context.Context, p retry.Policy, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return retry.Disable(err)
	}
	return p.RunContext(ctx, func() error {
		return atomicfile.WriteFile(path, bytes.NewReader(data))
	})
}
