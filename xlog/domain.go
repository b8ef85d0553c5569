package xlog

import (
	"encoding/json"
	"io"

	"get.pme.sh/atomix/concurrent"
	"github.com/rs/zerolog"
)

// Domains are recorded in the caller field and name what a logger is
// logging about, e.g. "atomix", "batch", "handoff.producer".
const (
	DomainFieldName = "dom"
)

// Collector receives every line written through a domain logger.
// Implementations must be comparable, typically pointers.
type Collector interface {
	Write(p []byte, level Level, domain string)
}

var collectors concurrent.Set[Collector]

func RegisterCollector(c Collector) { collectors.Add(c) }
func RemoveCollector(c Collector)   { collectors.TryRemove(c) }

type Domain struct {
	name        string
	encodedName []byte // JSON escaped name
	logger      Logger
}

func (d *Domain) String() string { return d.name }

// Implement zerolog.Hook
func (d *Domain) Run(e *Event, level Level, msg string) {
	e.Timestamp()
	if e.Enabled() {
		e.RawJSON(DomainFieldName, d.encodedName)
	}
}

// Implement zerolog.LevelWriter
func (d *Domain) Write(p []byte) (n int, err error) {
	return d.WriteLevel(LevelInfo, p)
}
func (d *Domain) WriteLevel(l Level, p []byte) (n int, err error) {
	collectors.Range(func(c Collector) bool {
		c.Write(p, l, d.name)
		return true
	})
	return len(p), nil
}

// NewDomain creates a logger tagged with name, writing to w or the default output.
func NewDomain(name string, w ...io.Writer) *Logger {
	if len(w) == 0 {
		w = append(w, DefaultWriter{})
	}
	dom := &Domain{name: name}
	w = append(w, dom)
	dom.encodedName, _ = json.Marshal(name)
	dom.logger = zerolog.New(zerolog.MultiLevelWriter(w...)).Hook(dom)
	return &dom.logger
}
