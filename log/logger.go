package log

import (
	"errors"
	"fmt"
	"path/filepath"
)

var errConfigNil = errors.New("log config is nil")

func newLogger(c *Config) Logger {
	return Logger{
		TimestampFormat:   c.AdvancedSettings.TimeStampFormat,
		Spacer:            c.AdvancedSettings.Spacer,
		ShowLogSystemName: c.AdvancedSettings.ShowLogSystemName != nil && *c.AdvancedSettings.ShowLogSystemName,
		InfoHeader:        c.AdvancedSettings.Headers.Info,
		WarnHeader:        c.AdvancedSettings.Headers.Warn,
		DebugHeader:       c.AdvancedSettings.Headers.Debug,
		ErrorHeader:       c.AdvancedSettings.Headers.Error,
	}
}

// SetGlobalLogConfig sets the global config with the supplied config
func SetGlobalLogConfig(incoming *Config) error {
	if incoming == nil {
		return errConfigNil
	}
	mu.Lock()
	globalLogConfig = incoming
	fileLoggingConfiguredCorrectly = incoming.LoggerFileConfig != nil &&
		incoming.LoggerFileConfig.FileName != "" &&
		logPath != ""
	mu.Unlock()
	return nil
}

// SetFileLoggingState sets the file logging state for the current loggers
func SetFileLoggingState(correctlyConfigured bool) {
	mu.Lock()
	fileLoggingConfiguredCorrectly = correctlyConfigured
	mu.Unlock()
}

// SetLogPath sets the log path for writing to file
func SetLogPath(newLogPath string) {
	mu.Lock()
	logPath = newLogPath
	mu.Unlock()
}

// GetLogPath returns path of log file
func GetLogPath() string {
	mu.RLock()
	defer mu.RUnlock()
	return logPath
}

// CloseLogger closes the log file if file logging is in use
func CloseLogger() error {
	mu.Lock()
	defer mu.Unlock()
	if globalLogFile == nil || globalLogFile.output == nil {
		return nil
	}
	return globalLogFile.Close()
}

func logFilePath(name string) string {
	return filepath.Join(logPath, name)
}

func (l Logger) String() string {
	return fmt.Sprintf("spacer:%q timestamp:%q system names:%v", l.Spacer, l.TimestampFormat, l.ShowLogSystemName)
}
