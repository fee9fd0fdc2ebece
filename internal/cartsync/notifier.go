package cartsync

import "go.uber.org/zap"

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification は一時的な通知（トースト相当）
type Notification struct {
	Level   Level
	Title   string
	Message string
}

// Notifier は通知とログイン誘導の出口
type Notifier interface {
	Notify(n Notification)
	LoginRequired()
}

// LogNotifier は通知を zap に書くだけの実装
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(note Notification) {
	fields := []zap.Field{zap.String("title", note.Title), zap.String("message", note.Message)}
	if note.Level == LevelError {
		n.log.Warn("cart notification", fields...)
		return
	}
	n.log.Info("cart notification", fields...)
}

func (n *LogNotifier) LoginRequired() {
	n.log.Info("login required to add items to cart")
}
