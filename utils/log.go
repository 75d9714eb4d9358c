package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// CustomFormatter JSON formatter that adds pid and goroutine id. The caller
// is reported by logrus itself under the "file" and "func" keys.
type CustomFormatter struct {
	logrus.JSONFormatter
}

// Format 实现自定义格式化
func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	entry.Data["pid"] = os.Getpid()
	entry.Data["goroutine_id"] = getGoroutineID()

	return f.JSONFormatter.Format(entry)
}

// LogOptions controls where and how much the panel logs.
type LogOptions struct {
	Level      string
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

var (
	Log  *logrus.Logger
	once sync.Once
	mu   sync.Mutex
)

func newLogger(opts LogOptions) *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&CustomFormatter{
		JSONFormatter: logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "@timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
			CallerPrettyfier: shortCaller,
		},
	})

	var out io.Writer = os.Stdout
	if opts.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(opts.FilePath), 0755); err != nil {
			panic(fmt.Sprintf("failed to create log directory: %v", err))
		}
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    orDefault(opts.MaxSizeMB, 10),
			MaxBackups: orDefault(opts.MaxBackups, 5),
			MaxAge:     orDefault(opts.MaxAgeDays, 30),
			Compress:   true,
		})
	}
	l.SetOutput(out)

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)
	l.SetReportCaller(true)
	return l
}

// InitLogger replaces the global logger. Called once from main after the
// config is loaded; before that GetLogger logs to stdout only.
func InitLogger(opts LogOptions) *logrus.Logger {
	mu.Lock()
	defer mu.Unlock()
	once.Do(func() {})
	Log = newLogger(opts)
	return Log
}

// GetLogger returns the singleton logger instance
func GetLogger() *logrus.Logger {
	mu.Lock()
	defer mu.Unlock()
	once.Do(func() { Log = newLogger(LogOptions{Level: "debug"}) })
	return Log
}

// shortCaller trims the caller to "pkg.Func" and "file.go:line".
func shortCaller(frame *runtime.Frame) (function string, file string) {
	return filepath.Base(frame.Function), fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line)
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// getGoroutineID 获取当前协程ID
func getGoroutineID() uint64 {
	b := make([]byte, 64)
	b = b[:runtime.Stack(b, false)]
	var id uint64
	fmt.Sscanf(string(b), "goroutine %d", &id)
	return id
}
