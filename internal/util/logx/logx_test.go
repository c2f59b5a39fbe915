package logx

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelsAndRing(t *testing.T) {
	Reset()
	SetLevel(Warn)
	defer SetLevel(Info)

	Infof("hidden %d", 1)
	Warnf("shown %d", 2)
	With("session", "abc").Errorf("tagged")

	lines := Lines()
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "WRN")
	assert.Contains(t, lines[0], "shown 2")
	assert.Contains(t, lines[1], "session=abc")
	assert.Equal(t, strings.Join(lines, "\n"), Dump())
}

func TestRingDropsOldest(t *testing.T) {
	Reset()
	for i := 0; i < ring.max+10; i++ {
		Infof("line %d", i)
	}
	lines := Lines()
	assert.Len(t, lines, ring.max)
	assert.Contains(t, lines[0], "line 10")
}

func TestSetFileWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	SetFile(&buf)
	defer SetFile(nil)

	Infof("to file")
	var m map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &m))
	assert.Equal(t, "info", m["level"])
	assert.Equal(t, "to file", m["message"])
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("WARNING")
	require.NoError(t, err)
	assert.Equal(t, Warn, l)
	_, err = ParseLevel("loud")
	assert.Error(t, err)
}
