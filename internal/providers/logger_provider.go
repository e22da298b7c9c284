package providers

import (
	"auroscope/internal/structures"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

type TypeEnum int

const (
	TypeApp TypeEnum = iota
	TypeReport
	TypeFetch
	TypeBot
	TypeGet
	TypePost
)

var typeNames = map[TypeEnum]string{
	TypeApp:    "app",
	TypeReport: "report",
	TypeFetch:  "fetch",
	TypeBot:    "bot",
	TypeGet:    "get",
	TypePost:   "post",
}

// log files per type, several types may share one file
var typeFiles = map[TypeEnum]string{
	TypeApp:    "app.log",
	TypeReport: "report.log",
	TypeFetch:  "report.log",
	TypeBot:    "bot.log",
	TypeGet:    "access.log",
	TypePost:   "access.log",
}

func (t TypeEnum) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

type Logger interface {
	Errorf(t TypeEnum, format string, args ...interface{})
	Warnf(t TypeEnum, format string, args ...interface{})
	Debugf(t TypeEnum, format string, args ...interface{})
	Infof(t TypeEnum, format string, args ...interface{})
	Fatalf(t TypeEnum, format string, args ...interface{})
	Close()
}

type LogProvider struct {
	loggers map[TypeEnum]zerolog.Logger
	files   []*os.File
}

func GetLogTypeByRequestType(method string) TypeEnum {
	if method == "POST" {
		return TypePost
	}
	return TypeGet
}

func (l *LogProvider) get(t TypeEnum) *zerolog.Logger {
	logger, ok := l.loggers[t]
	if !ok {
		logger = l.loggers[TypeApp]
	}
	return &logger
}

func (l *LogProvider) Errorf(t TypeEnum, format string, args ...interface{}) {
	l.get(t).Error().Msgf(format, args...)
}

func (l *LogProvider) Warnf(t TypeEnum, format string, args ...interface{}) {
	l.get(t).Warn().Msgf(format, args...)
}

func (l *LogProvider) Debugf(t TypeEnum, format string, args ...interface{}) {
	l.get(t).Debug().Msgf(format, args...)
}

func (l *LogProvider) Infof(t TypeEnum, format string, args ...interface{}) {
	l.get(t).Info().Msgf(format, args...)
}

func (l *LogProvider) Fatalf(t TypeEnum, format string, args ...interface{}) {
	l.get(t).Fatal().Msgf(format, args...)
}

func (l *LogProvider) Close() {
	for _, f := range l.files {
		_ = f.Sync()
		_ = f.Close()
	}
	l.files = nil
}

func NewLogProvider(conf *structures.Config) (Logger, error) {
	level, err := zerolog.ParseLevel(conf.Logger.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", conf.Logger.Level, err)
	}

	if err = os.MkdirAll(conf.Logger.Dir, 0755); err != nil {
		return nil, fmt.Errorf("unable to create log dir %s: %w", conf.Logger.Dir, err)
	}

	provider := &LogProvider{
		loggers: make(map[TypeEnum]zerolog.Logger, len(typeFiles)),
	}

	opened := make(map[string]io.Writer)
	for t, name := range typeFiles {
		w, ok := opened[name]
		if !ok {
			file, err := os.OpenFile(filepath.Join(conf.Logger.Dir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, os.FileMode(conf.Logger.Mode))
			if err != nil {
				provider.Close()
				return nil, fmt.Errorf("unable to open log file %s: %w", name, err)
			}
			provider.files = append(provider.files, file)
			w = file
			if conf.Debug {
				w = zerolog.MultiLevelWriter(file, zerolog.ConsoleWriter{Out: os.Stdout})
			}
			opened[name] = w
		}

		provider.loggers[t] = zerolog.New(w).
			Level(level).
			With().
			Timestamp().
			Str("type", t.String()).
			Logger()
	}

	return provider, nil
}
