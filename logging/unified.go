package logging

import (
	"context"
	"fmt"
	"regexp"
	"runtime"

	"github.com/sirupsen/logrus"
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// UnifiedLogger emits each entry twice: a styled line on the console (the
// context writer, see GetWriter) and a structured logrus entry carrying the
// same message plus its fields.
type UnifiedLogger struct {
	component  string
	pretty     *PrettyLogger
	structured *logrus.Entry
}

// NewUnifiedLogger returns a UnifiedLogger for component.
func NewUnifiedLogger(component string) *UnifiedLogger {
	structured := NewLogger(component)
	// The call site is recorded by LogEntry.Log instead.
	structured.Logger.SetReportCaller(false)

	return &UnifiedLogger{
		component:  component,
		pretty:     NewPrettyLogger(),
		structured: structured,
	}
}

// Component returns the component name.
func (u *UnifiedLogger) Component() string { return u.component }

// WithStructured returns the logrus entry behind u.
func (u *UnifiedLogger) WithStructured() *logrus.Entry { return u.structured }

// WithPretty returns the console logger behind u.
func (u *UnifiedLogger) WithPretty() *PrettyLogger { return u.pretty }

func (u *UnifiedLogger) entry(msg string, level logrus.Level, icon string, status string) *LogEntry {
	e := &LogEntry{logger: u, msg: msg, level: level, icon: icon, fields: logrus.Fields{}}
	if status != "" {
		e.fields["status"] = status
	}
	return e
}

func (u *UnifiedLogger) Debug(msg string) *LogEntry { return u.entry(msg, logrus.DebugLevel, "", "") }
func (u *UnifiedLogger) Info(msg string) *LogEntry  { return u.entry(msg, logrus.InfoLevel, "", "") }
func (u *UnifiedLogger) Warn(msg string) *LogEntry {
	return u.entry(msg, logrus.WarnLevel, IconWarning, "")
}
func (u *UnifiedLogger) Error(msg string) *LogEntry {
	return u.entry(msg, logrus.ErrorLevel, IconError, "")
}

// Success is an INFO entry marked status=success.
func (u *UnifiedLogger) Success(msg string) *LogEntry {
	return u.entry(msg, logrus.InfoLevel, IconSuccess, "success")
}

// Status is an INFO entry marked status=info.
func (u *UnifiedLogger) Status(msg string) *LogEntry {
	return u.entry(msg, logrus.InfoLevel, IconInfo, "info")
}

type output int

const (
	toBoth output = iota
	toConsole
	toStructured
)

// LogEntry is built with the chainable setters and emitted by Log.
type LogEntry struct {
	logger    *UnifiedLogger
	msg       string
	level     logrus.Level
	fields    logrus.Fields
	icon      string
	noIcon    bool
	prettyMsg string
	output    output
}

func (e *LogEntry) Field(key string, value interface{}) *LogEntry {
	e.fields[key] = value
	return e
}

// Err sets the "error" field when err is non-nil.
func (e *LogEntry) Err(err error) *LogEntry {
	if err != nil {
		e.fields["error"] = err.Error()
	}
	return e
}

func (e *LogEntry) Icon(icon string) *LogEntry {
	e.icon = icon
	return e
}

func (e *LogEntry) NoIcon() *LogEntry {
	e.noIcon = true
	return e
}

// Pretty replaces the console line; the structured message is unchanged.
func (e *LogEntry) Pretty(styled string) *LogEntry {
	e.prettyMsg = styled
	return e
}

func (e *LogEntry) PrettyOnly() *LogEntry {
	e.output = toConsole
	return e
}

func (e *LogEntry) StructuredOnly() *LogEntry {
	e.output = toStructured
	return e
}

// Log emits the entry. Nothing is written until it is called.
func (e *LogEntry) Log(ctx context.Context) {
	line := e.render()
	if e.output != toStructured {
		fmt.Fprintln(GetWriter(ctx), line)
	}
	if e.output != toConsole {
		e.emit(line)
	}
}

func (e *LogEntry) render() string {
	if e.prettyMsg != "" {
		return e.prettyMsg
	}
	text := e.msg
	if !e.noIcon {
		icon := e.icon
		if icon == "" {
			icon = IconBullet
		}
		text = icon + " " + text
	}

	styles := DefaultPrettyStyles()
	switch {
	case e.level == logrus.WarnLevel:
		return styles.Warning.Render(text)
	case e.level == logrus.ErrorLevel:
		return styles.Error.Render(text)
	case e.level == logrus.DebugLevel:
		return styles.Key.Render(text)
	case e.icon == IconSuccess:
		return styles.Success.Render(text)
	case e.icon == IconInfo, e.icon == IconRunning, e.icon == IconWatch:
		return styles.Info.Render(text)
	}
	return text
}

// emit writes the structured entry, attributing it to the caller of Log.
func (e *LogEntry) emit(line string) {
	if pc, file, lineNo, ok := runtime.Caller(2); ok {
		e.fields["file"] = fmt.Sprintf("%s:%d", file, lineNo)
		if fn := runtime.FuncForPC(pc); fn != nil {
			e.fields["func"] = fn.Name()
		}
	}
	e.fields["pretty_text"] = ansiRegex.ReplaceAllString(line, "")
	e.logger.structured.WithFields(e.fields).Log(e.level, e.msg)
}
