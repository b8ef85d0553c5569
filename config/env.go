package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"get.pme.sh/atomix/concurrent"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Global flags.
var Verbose = GBool("verbose", "V", false, "Enable verbose logging")
var Dumb = GBool("dumb", "D", IsTermDumb(), "Disable colored console output")
var EnvName = GString("env", "E", "", "Environment name, selects the home directory")
var LogFile = GString("log-file", "", "", "Also write logs to this file, relative to the log directory")

var created concurrent.Set[string]

func mkdironce(dir string) {
	if created.Has(dir) {
		return
	}
	if err := os.MkdirAll(dir, 0755); err == nil {
		created.Add(dir)
	}
}

// Home directory.
func Home() (home string) {
	userDir, _ := os.UserHomeDir()
	if *EnvName == "" {
		home = filepath.Join(userDir, ".atomix")
	} else if filepath.IsAbs(*EnvName) {
		home = *EnvName
	} else {
		home = filepath.Join(userDir, ".atomix-"+*EnvName)
	}
	mkdironce(home)
	return
}

// Subdirectories.
type Subdir string

const (
	LogDir    Subdir = "log"
	ReportDir Subdir = "reports"
)

func (s Subdir) Path() string {
	path := filepath.Join(Home(), string(s))
	mkdironce(path)
	return path
}
func (s Subdir) File(name string) string {
	return filepath.Join(s.Path(), name)
}

var RootCommand = &cobra.Command{
	Use:   "atomix",
	Short: "atomix exercises atomic collections with producer/consumer workloads.",
}

// Flag values can be preset through ATOMIX_<NAME> environment variables.
func getenv(name string) (string, bool) {
	name = strings.ToUpper(name)
	name = strings.ReplaceAll(name, "-", "_")
	return os.LookupEnv("ATOMIX_" + name)
}
func GString(name, shorthand string, value string, usage string) *string {
	flags := RootCommand.PersistentFlags()
	if env, ok := getenv(name); ok {
		value = env
	}
	flags.StringVarP(&value, name, shorthand, value, usage)
	return &value
}
func GBool(name, shorthand string, value bool, usage string) *bool {
	flags := RootCommand.PersistentFlags()
	if env, ok := getenv(name); ok {
		if v, e := strconv.ParseBool(env); e == nil {
			value = v
		}
	}
	flags.BoolVarP(&value, name, shorthand, value, usage)
	return &value
}

func IsTermDumb() bool {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return true
	}
	if os.Getenv("TERM") == "dumb" {
		return true
	}
	for _, env := range []string{"ATOMIX_NON_INTERACTIVE", "CI", "NO_COLOR"} {
		if v, ok := os.LookupEnv(env); ok {
			if b, err := strconv.ParseBool(v); err == nil {
				return b
			}
			return v != ""
		}
	}
	return false
}
