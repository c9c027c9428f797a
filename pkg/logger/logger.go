package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Logger логгер с printf-интерфейсом поверх go-kit/log
// Пишет logfmt в stdout и (опционально) в файл
type Logger struct {
	base kitlog.Logger
	file *os.File
}

// New создает логгер
// filePath - путь к файлу логов (пустая строка - только stdout)
// lvl - минимальный уровень: debug, info, warn, error
func New(filePath string, lvl string) (*Logger, error) {
	var out io.Writer = os.Stdout
	var file *os.File

	if filePath != "" {
		f, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", filePath, err)
		}
		file = f
		out = io.MultiWriter(os.Stdout, f)
	}

	base := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(out))
	base = level.NewFilter(base, levelOption(lvl))
	base = kitlog.With(base, "ts", kitlog.DefaultTimestampUTC)

	return &Logger{base: base, file: file}, nil
}

// NewNop возвращает логгер, который ничего не пишет (для тестов и CLI)
func NewNop() *Logger {
	return &Logger{base: kitlog.NewNopLogger()}
}

// With возвращает логгер с дополнительными полями
func (l *Logger) With(keyvals ...interface{}) *Logger {
	return &Logger{base: kitlog.With(l.base, keyvals...), file: l.file}
}

func (l *Logger) Debug(format string, v ...interface{}) {
	_ = level.Debug(l.base).Log("msg", fmt.Sprintf(format, v...))
}

func (l *Logger) Info(format string, v ...interface{}) {
	_ = level.Info(l.base).Log("msg", fmt.Sprintf(format, v...))
}

func (l *Logger) Warn(format string, v ...interface{}) {
	_ = level.Warn(l.base).Log("msg", fmt.Sprintf(format, v...))
}

func (l *Logger) Error(format string, v ...interface{}) {
	_ = level.Error(l.base).Log("msg", fmt.Sprintf(format, v...))
}

// Fatal пишет ошибку и завершает процесс
func (l *Logger) Fatal(format string, v ...interface{}) {
	_ = level.Error(l.base).Log("msg", fmt.Sprintf(format, v...), "fatal", true)
	l.Close()
	os.Exit(1)
}

// Close закрывает файл логов, если он был открыт
func (l *Logger) Close() {
	if l.file != nil {
		_ = l.file.Close()
		l.file = nil
	}
}

func levelOption(lvl string) level.Option {
	switch strings.ToLower(lvl) {
	case "debug":
		return level.AllowDebug()
	case "warn", "warning":
		return level.AllowWarn()
	case "error":
		return level.AllowError()
	default:
		return level.AllowInfo()
	}
}
