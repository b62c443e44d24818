package notify

import (
	"sync"

	"go.uber.org/zap"
)

// Level classifies a notification for the presentation layer.
type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is a toast-style message surfaced to the user.
type Notification struct {
	Level   Level  `json:"level"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Notifier receives notifications produced by the data layer. The view
// layer decides how to present them.
type Notifier interface {
	Publish(n Notification)
}

// Success publishes a success notification through n, tolerating nil.
func Success(n Notifier, title, message string) {
	publish(n, Notification{Level: LevelSuccess, Title: title, Message: message})
}

// Warning publishes a warning notification through n, tolerating nil.
func Warning(n Notifier, title, message string) {
	publish(n, Notification{Level: LevelWarning, Title: title, Message: message})
}

// Error publishes an error notification through n, tolerating nil.
func Error(n Notifier, title, message string) {
	publish(n, Notification{Level: LevelError, Title: title, Message: message})
}

func publish(n Notifier, notification Notification) {
	if n == nil {
		return
	}
	n.Publish(notification)
}

// LogNotifier writes notifications to the application log. Used when no
// interactive presentation layer is attached.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) Publish(n Notification) {
	fields := []zap.Field{zap.String("title", n.Title), zap.String("message", n.Message)}
	switch n.Level {
	case LevelError:
		l.logger.Error("notification", fields...)
	case LevelWarning:
		l.logger.Warn("notification", fields...)
	default:
		l.logger.Info("notification", fields...)
	}
}

// Recorder collects notifications in memory. Tests and buffered UI
// surfaces drain it with Drain.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Publish(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

// All returns a copy of everything published so far.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Drain returns and clears the pending notifications.
func (r *Recorder) Drain() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := r.items
	r.items = nil
	return items
}
