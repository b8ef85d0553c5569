package xlog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"get.pme.sh/atomix/config"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

const domainWidth = 12

func formatTimestamp(i any) string {
	ms, _ := i.(json.Number)
	msi, _ := ms.Int64()
	if msi == 0 {
		return ""
	}
	ts := time.UnixMilli(msi)
	if now := time.Now(); ts.YearDay() != now.YearDay() || ts.Year() != now.Year() {
		return ts.Format("01-02 15:04:05")
	}
	return ts.Format("15:04:05.000")
}

func formatDomain(i any) string {
	n, ok := i.(string)
	if !ok {
		return ""
	}
	if len(n) > domainWidth {
		n = n[:domainWidth-1] + "…"
	} else {
		n += strings.Repeat(" ", domainWidth-len(n))
	}
	return fmt.Sprintf("│ \x1b[1m%s\x1b[0m", n)
}

// NewConsoleWriter pretty-prints to terminals and passes JSON lines through
// otherwise. Below-info levels are filtered unless --verbose is set.
func NewConsoleWriter(f io.Writer) LevelWriter {
	file, ok := f.(*os.File)
	if !ok || *config.Dumb || !term.IsTerminal(int(file.Fd())) {
		return zerolog.LevelWriterAdapter{Writer: f}
	}
	consoleWriter := &zerolog.ConsoleWriter{
		Out:             f,
		FormatTimestamp: formatTimestamp,
		FormatCaller:    formatDomain,
	}
	if !*config.Verbose {
		return &zerolog.FilteredLevelWriter{
			Level:  LevelInfo,
			Writer: zerolog.LevelWriterAdapter{Writer: consoleWriter},
		}
	}
	return zerolog.LevelWriterAdapter{Writer: consoleWriter}
}
func StderrWriter() LevelWriter { return NewConsoleWriter(os.Stderr) }
