// Package logging is a leveled, structured logger, grounded on the teacher's
// mcp.LogMessage/shouldEmitLog, stripped of the MCP JSON-RPC notification
// envelope — this module writes to stderr directly instead of a client
// connection.
package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"
)

// Level is a log message's severity, ordered the same way the teacher's
// mcp.LogLevel is.
type Level string

const (
	LevelDebug     Level = "debug"
	LevelInfo      Level = "info"
	LevelNotice    Level = "notice"
	LevelWarning   Level = "warning"
	LevelError     Level = "error"
	LevelCritical  Level = "critical"
	LevelAlert     Level = "alert"
	LevelEmergency Level = "emergency"
)

var levelOrder = map[Level]int{
	LevelDebug:     0,
	LevelInfo:      1,
	LevelNotice:    2,
	LevelWarning:   3,
	LevelError:     4,
	LevelCritical:  5,
	LevelAlert:     6,
	LevelEmergency: 7,
}

// Fields carries structured key/value data alongside a log message.
type Fields map[string]any

// entry is the JSON shape written to the output stream.
type entry struct {
	Time   string `json:"time"`
	Level  Level  `json:"level"`
	Msg    string `json:"msg"`
	Fields Fields `json:"fields,omitempty"`
}

// Logger writes leveled, structured entries to an output stream, dropping
// anything below its configured minimum level.
type Logger struct {
	min  Level
	json bool
	out  *os.File
}

// New returns a Logger writing to stderr at min level, emitting JSON Lines
// when jsonFormat is true and a human-readable line otherwise (the --json
// flag).
func New(min Level, jsonFormat bool) *Logger {
	return &Logger{min: min, json: jsonFormat, out: os.Stderr}
}

func (l *Logger) log(level Level, msg string, fields Fields) {
	if !shouldEmit(l.min, level) {
		return
	}
	now := time.Now().Format(time.RFC3339)
	if !l.json {
		fmt.Fprintln(l.out, formatHuman(now, level, msg, fields))
		return
	}
	e := entry{Time: now, Level: level, Msg: msg, Fields: fields}
	encoded, err := json.Marshal(e)
	if err != nil {
		fmt.Fprintf(l.out, "[%s] %s (log encoding failed: %v)\n", level, msg, err)
		return
	}
	fmt.Fprintln(l.out, string(encoded))
}

// formatHuman renders an entry the way a developer reading a terminal wants
// it: "time level msg key=val ...", fields sorted for a stable read.
func formatHuman(now string, level Level, msg string, fields Fields) string {
	line := fmt.Sprintf("%s %-7s %s", now, level, msg)
	if len(fields) == 0 {
		return line
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		line += fmt.Sprintf(" %s=%v", k, fields[k])
	}
	return line
}

func (l *Logger) Debug(msg string, fields ...Fields) { l.log(LevelDebug, msg, firstFields(fields)) }
func (l *Logger) Info(msg string, fields ...Fields)  { l.log(LevelInfo, msg, firstFields(fields)) }
func (l *Logger) Warning(msg string, fields ...Fields) {
	l.log(LevelWarning, msg, firstFields(fields))
}
func (l *Logger) Error(msg string, fields ...Fields) { l.log(LevelError, msg, firstFields(fields)) }

func firstFields(fields []Fields) Fields {
	if len(fields) == 0 {
		return nil
	}
	return fields[0]
}

// shouldEmit mirrors the teacher's mcp.shouldEmitLog ordering check.
func shouldEmit(min, level Level) bool {
	return levelOrder[level] >= levelOrder[min]
}
