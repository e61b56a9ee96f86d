package tlogger

import (
	"io"
	"os"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Log is the default logger for apps
var Log log.Logger

var (
	mu     sync.RWMutex
	hlog   log.Logger
	out    io.Writer = os.Stdout
	filter           = level.AllowInfo()
	once   sync.Once
)

func init() {
	rebuild()
}

func rebuild() {
	base := log.NewSyncLogger(log.NewLogfmtLogger(out))
	Log = level.NewFilter(log.With(base, "ts", log.DefaultTimestampUTC, "caller", log.Caller(5)), filter)
	hlog = level.NewFilter(log.With(base, "ts", log.DefaultTimestampUTC, "caller", log.Caller(6)), filter)
}

func levelOption(lvl string) level.Option {
	switch lvl {
	case "debug":
		return level.AllowDebug()
	case "warn":
		return level.AllowWarn()
	case "error":
		return level.AllowError()
	case "all":
		return level.AllowAll()
	case "none":
		return level.AllowNone()
	default:
		return level.AllowInfo()
	}
}

// ApplyLogLevel sets the minimum logging level. Only the first call has an effect.
func ApplyLogLevel(lvl string) {
	once.Do(func() {
		mu.Lock()
		defer mu.Unlock()
		filter = levelOption(lvl)
		rebuild()
	})
}

// SetOutput redirects every log line to w.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
	rebuild()
}

func current() log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return hlog
}

// Debug add a log entry w/ Debug level
func Debug(keyvals ...interface{}) {
	level.Debug(current()).Log(keyvals...)
}

// Info add a log entry w/ Info level
func Info(keyvals ...interface{}) {
	level.Info(current()).Log(keyvals...)
}

// Warn add a log entry w/ Warn level
func Warn(keyvals ...interface{}) {
	level.Warn(current()).Log(keyvals...)
}

// Error add a log entry w/ Error level
func Error(keyvals ...interface{}) {
	level.Error(current()).Log(keyvals...)
}

// FatalIf prints a fatal Error level and exits if err != nil
func FatalIf(err error) {
	if err == nil {
		return
	}
	level.Error(current()).Log("err", err)
	os.Exit(1)
}
