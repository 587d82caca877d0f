package notify

import (
	"sync"

	"go.uber.org/zap"
)

// Kind は通知の種類 (処理中 / 成功 / 失敗)
type Kind string

const (
	KindPending Kind = "pending"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notification はユーザーに一度だけ表示する通知
type Notification struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Notifier は通知の表示方法を抽象化する
type Notifier interface {
	Notify(n Notification)
}

// Messages は1つの操作に対する3種類の通知文言
type Messages struct {
	Pending string
	Success string
	Error   string
}

// Track は fn の実行を Pending -> (Success | Error) の通知に対応付ける。
// Pending が空の場合は処理中通知を出さない。
func Track(n Notifier, msgs Messages, fn func() error) error {
	if msgs.Pending != "" {
		n.Notify(Notification{Kind: KindPending, Message: msgs.Pending})
	}
	if err := fn(); err != nil {
		n.Notify(Notification{Kind: KindError, Message: msgs.Error})
		return err
	}
	n.Notify(Notification{Kind: KindSuccess, Message: msgs.Success})
	return nil
}

// Recorder は通知を溜めておく Notifier
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

// Notifications は溜まった通知のコピーを返す
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.items))
	copy(out, r.items)
	return out
}

// Last は最後の通知を返す
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}

// LogNotifier は通知をログに出す
type LogNotifier struct {
	Action string
}

func (l LogNotifier) Notify(n Notification) {
	fields := []zap.Field{zap.String("action", l.Action), zap.String("kind", string(n.Kind))}
	if n.Kind == KindError {
		zap.L().Warn(n.Message, fields...)
		return
	}
	zap.L().Info(n.Message, fields...)
}

type multi []Notifier

func (m multi) Notify(n Notification) {
	for _, notifier := range m {
		notifier.Notify(n)
	}
}

// Multi は複数の Notifier に同じ通知を送る
func Multi(notifiers ...Notifier) Notifier {
	return multi(notifiers)
}
