package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	defer SetLevel("warn")

	SetLevel("warn")
	Info("hidden %d", 1)
	Warn("shown %d", 2)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown 2")

	buf.Reset()
	SetLevel("DEBUG")
	assert.Equal(t, "debug", Level())
	Debug("detail")
	assert.Contains(t, buf.String(), "detail")

	buf.Reset()
	SetLevel("error")
	Warn("quiet")
	Error("loud")
	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")

	SetLevel("bogus")
	assert.Equal(t, "warning", Level())
}

func TestWithField(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	WithField("file", "a.jpg").Warn("degraded")
	assert.Contains(t, buf.String(), "file=a.jpg")
	assert.Contains(t, buf.String(), "degraded")
}
