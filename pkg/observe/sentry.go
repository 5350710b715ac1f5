package observe

import (
	"encoding/json"
	"log"
	"time"

	"github.com/getsentry/sentry-go"

	"go.uber.org/zap/zapcore"
)

const (
	_sentryMaxErrorDepth        int           = 9
	_sentryFlushTimeout         time.Duration = 5 * time.Second
	_sentryServerRequestTimeout time.Duration = 5 * time.Second
)

// SentryHook is an io.Writer fed into the logger's writer list. It parses the
// JSON log records emitted by the zap core and forwards error-and-above
// entries to Sentry. Development environments are skipped.
type SentryHook struct {
	appEnv  string
	appName string
}

func NewSentryHook(appEnv, appName, dsn string, isDebug bool) *SentryHook {
	if dsn == "" {
		log.Println("sentry init skipped: no DSN")
		return &SentryHook{appEnv: appEnv, appName: appName}
	}

	sentryTransport := sentry.NewHTTPTransport()
	sentryTransport.Timeout = _sentryServerRequestTimeout
	if err := sentry.Init(
		sentry.ClientOptions{
			AttachStacktrace: true,
			Debug:            isDebug,
			Dsn:              dsn,
			Environment:      appEnv,
			MaxErrorDepth:    _sentryMaxErrorDepth,
			ServerName:       appName,
			Transport:        sentryTransport,
		}); err != nil {
		log.Println("sentry init error:", err.Error())
	}

	return &SentryHook{
		appEnv:  appEnv,
		appName: appName,
	}
}

func (*SentryHook) mapLevel(zl zapcore.Level) sentry.Level {
	switch zl {
	case zapcore.DebugLevel, zapcore.InvalidLevel:
		return sentry.LevelDebug
	case zapcore.InfoLevel:
		return sentry.LevelInfo
	case zapcore.WarnLevel:
		return sentry.LevelWarning
	case zapcore.ErrorLevel:
		return sentry.LevelError
	case zapcore.FatalLevel, zapcore.PanicLevel:
		return sentry.LevelFatal
	}

	return sentry.LevelDebug
}

func (h *SentryHook) Write(p []byte) (n int, err error) {
	if h.appEnv == "development" {
		return len(p), nil
	}

	type record struct {
		Level      string `json:"level"`
		AppName    string `json:"app_name"`
		AppEnv     string `json:"app_env"`
		CallerFile string `json:"caller_file"`
		CallerLine int    `json:"caller_line"`
		CallerFunc string `json:"caller_func"`
		Stack      string `json:"stack"`
		Message    string `json:"msg"`
		Error      string `json:"error"`
	}
	var r record
	if err := json.Unmarshal(p, &r); err != nil {
		return len(p), nil
	}

	level, err := zapcore.ParseLevel(r.Level)
	if err != nil || len(r.Message) == 0 {
		return len(p), nil
	}

	switch level {
	case zapcore.ErrorLevel, zapcore.FatalLevel, zapcore.PanicLevel:
		event := sentry.NewEvent()
		event.Environment = h.appEnv
		event.Level = h.mapLevel(level)
		event.Message = r.Message
		event.Extra["AppName"] = h.appName
		event.Extra["Error"] = r.Error
		event.Extra["CallerFile"] = r.CallerFile
		event.Extra["CallerLine"] = r.CallerLine
		event.Extra["CallerFunc"] = r.CallerFunc
		event.Extra["Stack"] = r.Stack
		event.Exception = append(event.Exception, sentry.Exception{
			Type:       r.Message,
			Value:      r.Error,
			Stacktrace: sentry.NewStacktrace(),
		})
		sentry.CaptureEvent(event)
	}

	return len(p), nil
}

// Flush drains buffered events during shutdown.
func (h *SentryHook) Flush() {
	sentry.Flush(_sentryFlushTimeout)
}
