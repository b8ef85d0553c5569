package util

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that marshals as text ("1.5s") in YAML and JSON.
// The text "never" decodes to -1.
type Duration time.Duration

func (d Duration) IsZero() bool {
	return d == 0
}
func (d Duration) IsPositive() bool {
	return d > 0
}
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Ticker returns a ticker firing every d, or nil if d is not positive.
func (d Duration) Ticker() *time.Ticker {
	if !d.IsPositive() {
		return nil
	}
	return time.NewTicker(time.Duration(d))
}

// Creates a context that will be cancelled after the duration has passed.
func (d Duration) Timeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if !d.IsPositive() {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, time.Duration(d))
}

func (d Duration) Or(o time.Duration) Duration {
	if d.IsZero() {
		return Duration(o)
	}
	return Duration(max(0, d))
}

func (d Duration) String() string {
	return time.Duration(d).String()
}
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
func (d *Duration) UnmarshalText(text []byte) (err error) {
	if bytes.Equal(text, []byte("never")) {
		*d = -1
		return
	}
	dx, err := time.ParseDuration(string(text))
	*d = Duration(dx)
	return
}
func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var res string
	if err := node.Decode(&res); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(res))
}
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}
func (d *Duration) UnmarshalJSON(text []byte) (err error) {
	var res string
	if err := json.Unmarshal(text, &res); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(res))
}

func (d Duration) Display() string {
	x := time.Duration(d)
	if x < time.Second {
		x = x.Round(time.Second / 100)
	} else {
		x = x.Round(time.Second)
	}
	return x.String()
}
