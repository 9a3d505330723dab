// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"
)

var traceEnabled bool

// InitLogger sets up Apex with a custom handler and a log level from the
// PAGEDIFF_LOG env variable. Output goes to stderr.
func InitLogger() {
	envLevel := strings.ToLower(os.Getenv("PAGEDIFF_LOG"))
	if envLevel == "" {
		envLevel = "error"
	}
	traceEnabled = envLevel == "trace"
	var apexLevel log.Level
	switch envLevel {
	case "trace":
		apexLevel = log.DebugLevel // Show debug and above for trace
	case "debug":
		apexLevel = log.DebugLevel
	case "info":
		apexLevel = log.InfoLevel
	case "warn":
		apexLevel = log.WarnLevel
	case "error":
		apexLevel = log.ErrorLevel
	case "fatal":
		apexLevel = log.FatalLevel
	default:
		apexLevel = log.ErrorLevel
	}
	log.SetHandler(&CustomHandler{W: os.Stderr})
	log.SetLevel(apexLevel)
}

// CustomHandler formats log messages as "timestamp level message [fields]".
type CustomHandler struct {
	W  io.Writer
	mu sync.Mutex
}

// HandleLog implements the log.Handler interface
func (h *CustomHandler) HandleLog(e *log.Entry) error {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := e.Message
	level := "?"
	if strings.HasPrefix(message, "TRACE: ") {
		level = "T"
		message = message[7:]
	} else {
		switch e.Level {
		case log.DebugLevel:
			level = "D"
		case log.InfoLevel:
			level = "I"
		case log.WarnLevel:
			level = "W"
		case log.ErrorLevel:
			level = "E"
		case log.FatalLevel:
			level = "F"
		}
	}

	if names := e.Fields.Names(); len(names) > 0 {
		var sb strings.Builder
		for _, n := range names {
			fmt.Fprintf(&sb, " %s=%v", n, e.Fields.Get(n))
		}
		message += sb.String()
	}

	w := h.W
	if w == nil {
		w = os.Stderr
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintf(w, "%s %s %s\n", timestamp, level, message)
	return err
}

// Tracef logs at Trace level (below Debug).
func Tracef(format string, args ...interface{}) {
	if traceEnabled {
		log.Debug("TRACE: " + fmt.Sprintf(format, args...))
	}
}

// Debugf logs at Debug level.
func Debugf(format string, args ...interface{}) {
	log.Debugf(format, args...)
}

// Infof logs at Info level.
func Infof(format string, args ...interface{}) {
	log.Infof(format, args...)
}

// Errorf logs at Error level.
func Errorf(format string, args ...interface{}) {
	log.Errorf(format, args...)
}

// Debug logs at Debug level.
func Debug(msg string) {
	log.Debug(msg)
}

// Warnf logs at Warn level.
func Warnf(format string, args ...interface{}) {
	log.Warn(fmt.Sprintf(format, args...))
}

// WithError returns an entry with error.
func WithError(err error) *log.Entry {
	return log.WithError(err)
}

// WithField returns an entry with a single field.
func WithField(key string, value interface{}) *log.Entry {
	return log.WithField(key, value)
}

// Leveled adapts the package logger to interfaces that log a message plus
// alternating key/value pairs, such as go-retryablehttp's LeveledLogger.
type Leveled struct{}

func (Leveled) Error(msg string, kv ...interface{}) { entry(kv).Error(msg) }
func (Leveled) Warn(msg string, kv ...interface{})  { entry(kv).Warn(msg) }
func (Leveled) Info(msg string, kv ...interface{})  { entry(kv).Info(msg) }
func (Leveled) Debug(msg string, kv ...interface{}) { entry(kv).Debug(msg) }

func entry(kv []interface{}) *log.Entry {
	fields := log.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		fields[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return log.WithFields(fields)
}
