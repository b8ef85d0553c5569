package xlog

import (
	"io"
	"path/filepath"
	"time"

	"get.pme.sh/atomix/config"
	"get.pme.sh/atomix/lru"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	LogRetentionDays = 28
	LogMaxSizeMB     = 16
)

type rotator = *lumberjack.Logger

var rotators = lru.Cache[string, rotator]{
	Expiry:          5 * time.Minute,
	CleanupInterval: 10 * time.Minute,
	Singleflight:    true,
	New: func(s string, e *lru.Entry[rotator]) error {
		e.Value = &lumberjack.Logger{
			Filename: s,
			MaxSize:  LogMaxSizeMB,
			MaxAge:   LogRetentionDays,
		}
		return nil
	},
	Evict: func(s string, wc rotator) {
		wc.Close()
	},
}

type sharedWriter struct {
	entry *lru.Entry[rotator]
}

func (s sharedWriter) Close() error {
	s.entry.Release()
	return nil
}
func (s sharedWriter) Write(p []byte) (n int, e error) {
	return s.entry.Value.Write(p)
}

type noCloser struct {
	io.Writer
}

func (noCloser) Close() error { return nil }

// FileWriter returns a rotating writer for name, shared with every other
// writer of the same file. Relative names resolve under the log directory;
// "stderr" maps to the default output and "null" to nil.
func FileWriter(name string) (io.WriteCloser, error) {
	switch name {
	case "", "stderr", "stdout":
		return noCloser{DefaultWriter{}}, nil
	case "null", "NUL", "/dev/null":
		return nil, nil
	}
	if !filepath.IsAbs(name) {
		name = config.LogDir.File(name)
	}
	entry, err := rotators.GetEntry(name)
	if err != nil {
		return nil, err
	}
	entry.Acquire()
	return sharedWriter{entry}, nil
}

// OpenFiles is the number of log files currently held open.
func OpenFiles() int { return rotators.Len() }
