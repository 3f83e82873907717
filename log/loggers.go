package log

import (
	"fmt"
	"log"
	"strings"
	"time"
)

// Info takes a pointer subLogger struct and string sends to StageLogEvent
func Info(sl *SubLogger, data string) {
	mu.RLock()
	defer mu.RUnlock()
	if fields := sl.getFields(); fields != nil {
		fields.stage(fields.logger.InfoHeader, data)
	}
}

// Infoln takes a pointer subLogger struct and interface sends to StageLogEvent
func Infoln(sl *SubLogger, v ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	if fields := sl.getFields(); fields != nil {
		fields.stage(fields.logger.InfoHeader, fmt.Sprintln(v...))
	}
}

// Infof takes a pointer subLogger struct, string and interface formats sends to StageLogEvent
func Infof(sl *SubLogger, data string, v ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	if fields := sl.getFields(); fields != nil {
		fields.stage(fields.logger.InfoHeader, fmt.Sprintf(data, v...))
	}
}

// Debug takes a pointer subLogger struct and string sends to StageLogEvent
func Debug(sl *SubLogger, data string) {
	mu.RLock()
	defer mu.RUnlock()
	if fields := sl.getFields(); fields != nil {
		fields.stage(fields.logger.DebugHeader, data)
	}
}

// Debugln takes a pointer subLogger struct, string and interface sends to StageLogEvent
func Debugln(sl *SubLogger, v ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	if fields := sl.getFields(); fields != nil {
		fields.stage(fields.logger.DebugHeader, fmt.Sprintln(v...))
	}
}

// Debugf takes a pointer subLogger struct, string and interface formats sends to StageLogEvent
func Debugf(sl *SubLogger, data string, v ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	if fields := sl.getFields(); fields != nil {
		fields.stage(fields.logger.DebugHeader, fmt.Sprintf(data, v...))
	}
}

// Warn takes a pointer subLogger struct & string and sends to StageLogEvent
func Warn(sl *SubLogger, data string) {
	mu.RLock()
	defer mu.RUnlock()
	if fields := sl.getFields(); fields != nil {
		fields.stage(fields.logger.WarnHeader, data)
	}
}

// Warnln takes a pointer subLogger struct & interface formats and sends to StageLogEvent
func Warnln(sl *SubLogger, v ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	if fields := sl.getFields(); fields != nil {
		fields.stage(fields.logger.WarnHeader, fmt.Sprintln(v...))
	}
}

// Warnf takes a pointer subLogger struct, string and interface formats sends to StageLogEvent
func Warnf(sl *SubLogger, data string, v ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	if fields := sl.getFields(); fields != nil {
		fields.stage(fields.logger.WarnHeader, fmt.Sprintf(data, v...))
	}
}

// Error takes a pointer subLogger struct & interface formats and sends to StageLogEvent
func Error(sl *SubLogger, data string) {
	mu.RLock()
	defer mu.RUnlock()
	if fields := sl.getFields(); fields != nil {
		fields.stage(fields.logger.ErrorHeader, data)
	}
}

// Errorln takes a pointer subLogger struct, string & interface formats and sends to StageLogEvent
func Errorln(sl *SubLogger, v ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	if fields := sl.getFields(); fields != nil {
		fields.stage(fields.logger.ErrorHeader, fmt.Sprintln(v...))
	}
}

// Errorf takes a pointer subLogger struct, string and interface formats sends to StageLogEvent
func Errorf(sl *SubLogger, data string, v ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	if fields := sl.getFields(); fields != nil {
		fields.stage(fields.logger.ErrorHeader, fmt.Sprintf(data, v...))
	}
}

func displayError(err error) {
	if err != nil {
		log.Printf("Logger write error: %v\n", err)
	}
}

// enabled checks if the log level is enabled
func (l *logFields) enabled(header string) bool {
	switch header {
	case l.logger.InfoHeader:
		return l.info
	case l.logger.WarnHeader:
		return l.warn
	case l.logger.ErrorHeader:
		return l.error
	case l.logger.DebugHeader:
		return l.debug
	}
	return false
}

// stage formats the log line and writes it to the sub logger output
func (l *logFields) stage(header, data string) {
	if l == nil || !l.enabled(header) {
		return
	}
	var b strings.Builder
	b.WriteString(header)
	if l.logger.ShowLogSystemName {
		b.WriteString(l.logger.Spacer)
		b.WriteString(l.name)
	}
	b.WriteString(l.logger.Spacer)
	if l.logger.TimestampFormat != "" {
		b.WriteString(time.Now().Format(l.logger.TimestampFormat))
		b.WriteString(l.logger.Spacer)
	}
	b.WriteString(data)
	if data == "" || data[len(data)-1] != '\n' {
		b.WriteByte('\n')
	}
	_, err := l.output.Write([]byte(b.String()))
	displayError(err)
}
