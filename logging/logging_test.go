package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/etnz/moneymarket/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, closer, err := New(config.Log{Level: "warn", JSON: true}, &buf, false)
	require.NoError(t, err)
	defer closer.Close()

	log.Info().Msg("hidden")
	log.Warn().Str("denom", "unibi").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"denom":"unibi"`)
	assert.Contains(t, out, `"message":"shown"`)
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	log, _, err := New(config.Log{}, &buf, false)
	require.NoError(t, err)

	log.Debug().Msg("hidden")
	log.Info().Str("tx", "0xabc").Msg("action applied")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "action applied")
	assert.Contains(t, out, "tx=0xabc")
}

func TestNew_File(t *testing.T) {
	name := filepath.Join(t.TempDir(), "mmd.log")
	var buf bytes.Buffer
	log, closer, err := New(config.Log{FileName: name, MaxSize: 1}, &buf, false)
	require.NoError(t, err)

	log.Info().Msg("to file")
	require.NoError(t, closer.Close())

	content, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"message":"to file"`)
	assert.Zero(t, buf.Len())
}

func TestNew_BadLevel(t *testing.T) {
	cfg := config.Log{Level: "loud"}
	_, _, err := New(cfg, &bytes.Buffer{}, false)
	require.Error(t, err)
	_, want := cfg.ParseLevel()
	assert.EqualError(t, err, want.Error())
}

func TestNew_DefaultLevel(t *testing.T) {
	log, _, err := New(config.Log{JSON: true}, &bytes.Buffer{}, false)
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())
}

func TestHertzLevel(t *testing.T) {
	assert.Equal(t, hlog.LevelDebug, HertzLevel(zerolog.DebugLevel))
	assert.Equal(t, hlog.LevelInfo, HertzLevel(zerolog.InfoLevel))
	assert.Equal(t, hlog.LevelError, HertzLevel(zerolog.ErrorLevel))
	assert.Equal(t, hlog.LevelFatal, HertzLevel(zerolog.Disabled))
}

func TestFormatLevel(t *testing.T) {
	assert.Contains(t, formatLevel(zerolog.LevelInfoValue), "[INF]")
	assert.Contains(t, formatLevel(zerolog.LevelErrorValue), "[ERR]")
	assert.Contains(t, formatLevel(42), "[???]")
}
