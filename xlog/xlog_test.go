package xlog

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCollector struct {
	mu    sync.Mutex
	lines []string
	doms  []string
}

func (c *memCollector) Write(p []byte, _ Level, domain string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, string(p))
	c.doms = append(c.doms, domain)
}

func TestDomain_TagsAndCollects(t *testing.T) {
	var buf bytes.Buffer
	c := &memCollector{}
	RegisterCollector(c)
	defer RemoveCollector(c)

	logger := NewDomain("unit", &buf)
	logger.Info().Int("n", 3).Msg("hello")

	assert.Contains(t, buf.String(), `"dom":"unit"`)
	assert.Contains(t, buf.String(), `"msg":"hello"`)
	require.Len(t, c.lines, 1)
	assert.Equal(t, "unit", c.doms[0])

	RemoveCollector(c)
	logger.Info().Msg("unseen")
	assert.Len(t, c.lines, 1)
}

func TestFileWriter_SharesRotators(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "a.log")

	w1, err := FileWriter(name)
	require.NoError(t, err)
	w2, err := FileWriter(name)
	require.NoError(t, err)
	assert.Equal(t, w1, w2)

	_, err = w1.Write([]byte("one\n"))
	require.NoError(t, err)
	_, err = w2.Write([]byte("two\n"))
	require.NoError(t, err)
	require.NoError(t, w1.Close())
	require.NoError(t, w2.Close())

	data, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", string(data))

	rotators.Purge()
	assert.Equal(t, 0, OpenFiles())

	null, err := FileWriter("null")
	require.NoError(t, err)
	assert.Nil(t, null)
}

func TestErrStack(t *testing.T) {
	var buf bytes.Buffer
	SetDefaultOutput(&buf)
	defer SetDefaultOutput(StderrWriter())

	ErrStack(errors.New("boom")).Msg("failed")
	assert.Contains(t, buf.String(), `"error":"boom"`)
	assert.Contains(t, buf.String(), `"stack":`)
	assert.Contains(t, buf.String(), `"dom":"atomix"`)

	buf.Reset()
	ErrStack("not an error").Msg("failed")
	assert.Contains(t, buf.String(), `"error":"not an error"`)
	assert.Contains(t, buf.String(), `"stack":`)
}
