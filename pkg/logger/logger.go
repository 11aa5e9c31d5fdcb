package logger

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dreschagin/fleet-maintenance/internal/application/port"
)

type Logger struct {
	logger    *log.Logger
	level     Level
	publisher port.LogPublisher
}

type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

func New(level string) *Logger {
	l := &Logger{
		logger: log.New(os.Stdout, "", 0),
		level:  parseLevel(level),
	}
	return l
}

// SetLogPublisher tees log entries into an external log system.
// The publisher buffers internally, so publishing stays cheap.
func (l *Logger) SetLogPublisher(p port.LogPublisher) {
	l.publisher = p
}

func parseLevel(level string) Level {
	switch level {
	case "debug":
		return DEBUG
	case "info":
		return INFO
	case "warn":
		return WARN
	case "error":
		return ERROR
	default:
		return INFO
	}
}

func (l *Logger) Debug(msg string, args ...interface{}) {
	if l.level <= DEBUG {
		l.log("DEBUG", msg, args...)
	}
}

func (l *Logger) Info(msg string, args ...interface{}) {
	if l.level <= INFO {
		l.log("INFO", msg, args...)
	}
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	if l.level <= WARN {
		l.log("WARN", msg, args...)
	}
}

func (l *Logger) Error(msg string, err error, args ...interface{}) {
	if l.level <= ERROR {
		if err != nil {
			args = append(args, "error", err.Error())
		}
		l.log("ERROR", msg, args...)
	}
}

func (l *Logger) log(level, msg string, args ...interface{}) {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf("[%s] [%s] %s", timestamp, level, msg)

	if len(args) > 0 {
		message += " |"
		for i := 0; i < len(args); i += 2 {
			if i+1 < len(args) {
				message += fmt.Sprintf(" %v=%v", args[i], args[i+1])
			}
		}
	}

	l.logger.Println(message)

	if l.publisher != nil {
		fields := make(map[string]interface{})
		for i := 0; i+1 < len(args); i += 2 {
			fields[fmt.Sprintf("%v", args[i])] = args[i+1]
		}
		_ = l.publisher.Publish(context.Background(), port.LogEntry{
			Timestamp: time.Now(),
			Level:     port.LogLevel(level),
			Message:   msg,
			Fields:    fields,
		})
	}
}
