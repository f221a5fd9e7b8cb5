// Package logging builds the zerolog logger of the mmd tool from the log
// section of the configuration.
package logging

import (
	"io"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/etnz/moneymarket/config"
	"github.com/google/goterm/term"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// TimeLayout is the timestamp layout of the console output.
const TimeLayout = "15:04:05.000"

// New creates a logger writing to 'out', or to a rotating file when
// cfg.FileName is set. Console output is human readable unless cfg.JSON is
// set; file output is always JSON.
//
// The returned closer releases the log file, it is a no-op otherwise.
func New(cfg config.Log, out io.Writer, colored bool) (zerolog.Logger, io.Closer, error) {
	level, err := cfg.ParseLevel()
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}

	var w io.Writer
	var closer io.Closer = nopCloser{}
	switch {
	case cfg.FileName != "":
		file := &lumberjack.Logger{
			Filename:   cfg.FileName,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
		}
		w, closer = file, file
	case cfg.JSON:
		w = out
	default:
		w = consoleWriter(out, colored)
	}

	logger := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return logger, closer, nil
}

func consoleWriter(out io.Writer, colored bool) zerolog.ConsoleWriter {
	cw := zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    !colored,
		TimeFormat: TimeLayout,
	}
	if colored {
		cw.FormatLevel = formatLevel
	}
	return cw
}

func formatLevel(i interface{}) string {
	level, _ := i.(string)
	switch level {
	case zerolog.LevelTraceValue, zerolog.LevelDebugValue:
		return term.Cyanf("[DBG]")
	case zerolog.LevelInfoValue:
		return term.Greenf("[INF]")
	case zerolog.LevelWarnValue:
		return term.Yellowf("[WRN]")
	case zerolog.LevelErrorValue, zerolog.LevelFatalValue, zerolog.LevelPanicValue:
		return term.Redf("[ERR]")
	default:
		return term.Whitef("[???]")
	}
}

// HertzLevel maps a zerolog level onto the hertz logger levels.
func HertzLevel(level zerolog.Level) hlog.Level {
	switch level {
	case zerolog.TraceLevel:
		return hlog.LevelTrace
	case zerolog.DebugLevel:
		return hlog.LevelDebug
	case zerolog.InfoLevel, zerolog.NoLevel:
		return hlog.LevelInfo
	case zerolog.WarnLevel:
		return hlog.LevelWarn
	case zerolog.ErrorLevel:
		return hlog.LevelError
	default:
		return hlog.LevelFatal
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
