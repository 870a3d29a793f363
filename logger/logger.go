package logger

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uilive"
	"github.com/seventv/cmdparse/constants"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// writer rewrites the previous line in place when a message ends in "\r\n".
type writer struct {
	out *uilive.Writer
}

func newWriter(out io.Writer) *writer {
	w := uilive.New()
	w.Out = out
	return &writer{out: w}
}

func (w *writer) Write(msg []byte) (int, error) {
	defer w.out.Flush()

	if len(msg) > 2 && msg[len(msg)-2] == '\r' {
		line := make([]byte, len(msg)-1)
		copy(line, msg)
		line[len(line)-1] = '\n'

		if _, err := w.out.Write(line); err != nil {
			return 0, err
		}
		return len(msg), nil
	}

	return w.out.Bypass().Write(msg)
}

type Options struct {
	// Out defaults to color.Output.
	Out   io.Writer
	Debug bool
	// Rewrite routes output through a live writer so "\r" terminated
	// messages replace the previous line. Only useful on a terminal.
	Rewrite bool
}

func encoderConfig(debug bool) zapcore.EncoderConfig {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05,000")
	cfg.ConsoleSeparator = " "
	cfg.StacktraceKey = ""
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	if !debug {
		cfg.CallerKey = ""
		cfg.LevelKey = ""
		cfg.TimeKey = ""
	}

	return cfg
}

// New builds a console logger writing to opts.Out.
func New(opts Options) *zap.Logger {
	out := opts.Out
	if out == nil {
		out = color.Output
	}
	if opts.Rewrite {
		out = newWriter(out)
	}

	lvl := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if opts.Debug {
		lvl = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	return zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig(opts.Debug)),
		zapcore.AddSync(out),
		lvl,
	))
}

// Setup installs the global logger used by the helpers below.
func Setup(debug bool) *zap.Logger {
	l := New(Options{
		Debug:   debug,
		Rewrite: constants.InTerm(),
	})

	zap.ReplaceGlobals(l)

	return l
}

func Debug(args ...any) {
	zap.S().Debugf("%s %s", color.New(color.Bold, color.FgBlack).Sprint(": "), color.MagentaString(fmt.Sprint(args...)))
}

func Debugf(format string, args ...any) {
	zap.S().Debugf("%s %s", color.New(color.Bold, color.FgBlack).Sprint(": "), color.MagentaString(format, args...))
}

func Info(args ...any) {
	zap.S().Infof("%s %s", color.New(color.Bold, color.FgBlack).Sprint(">"), color.WhiteString(fmt.Sprint(args...)))
}

func Infof(format string, args ...any) {
	zap.S().Infof("%s %s", color.New(color.Bold, color.FgBlack).Sprint(">"), color.WhiteString(format, args...))
}

func Error(args ...any) {
	zap.S().Errorf("%s %s", color.New(color.Bold, color.FgBlack).Sprint("=>"), color.RedString(fmt.Sprint(args...)))
}

func Errorf(format string, args ...any) {
	zap.S().Errorf("%s %s", color.New(color.Bold, color.FgBlack).Sprint("=>"), color.RedString(format, args...))
}

func Fatal(args ...any) {
	zap.S().Fatalf("%s %s", color.New(color.Bold, color.FgBlack).Sprint("=>"), color.RedString(fmt.Sprint(args...)))
}
