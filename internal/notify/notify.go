// Package notify keeps the short-lived toast messages shown after user actions.
package notify

import (
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/bookverseapp/bookverse/internal/errors"
	"github.com/bookverseapp/bookverse/internal/id"
)

// DefaultDuration is how long a toast stays visible.
const DefaultDuration = 4 * time.Second

// FallbackMessage is shown for failures that carry no specific message.
const FallbackMessage = "Something went wrong"

// Messages for book actions.
const (
	MsgBookAdded        = "Book added successfully"
	MsgBookAddFailed    = "Failed to add book"
	MsgBookUpdated      = "Book updated successfully"
	MsgBookUpdateFailed = "Failed to update book"
	MsgBookDeleted      = "Book deleted successfully"
	MsgBookDeleteFailed = "Failed to delete book"
)

// Kind is the toast flavor.
type Kind int

// Toast kinds.
const (
	KindInfo Kind = iota
	KindSuccess
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindError:
		return "error"
	default:
		return "info"
	}
}

// Toast is one notification.
type Toast struct {
	CreatedAt time.Time
	ExpiresAt time.Time
	ID        string
	Message   string
	Kind      Kind
}

// Notifier is a queue of toasts. Safe for concurrent use.
type Notifier struct {
	logger   *slog.Logger
	now      func() time.Time
	duration time.Duration

	mu      sync.Mutex
	toasts  []Toast
	counter int
}

// New creates a notifier whose toasts live for duration (DefaultDuration if zero).
func New(logger *slog.Logger, duration time.Duration) *Notifier {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Notifier{
		logger:   logger,
		now:      time.Now,
		duration: duration,
	}
}

// Info queues an informational toast.
func (n *Notifier) Info(message string) Toast {
	return n.push(KindInfo, message)
}

// Success queues a success toast.
func (n *Notifier) Success(message string) Toast {
	return n.push(KindSuccess, message)
}

// Error queues an error toast for err. The text is err's specific message
// when it has one, fallback otherwise, and FallbackMessage if both are empty.
func (n *Notifier) Error(err error, fallback string) Toast {
	if fallback == "" {
		fallback = FallbackMessage
	}
	message := errors.UserMessage(err, fallback)
	if err != nil {
		n.logger.Warn("operation failed", "error", err, "shown", message)
	}
	return n.push(KindError, message)
}

// BookAdded reports a successful create.
func (n *Notifier) BookAdded() Toast { return n.Success(MsgBookAdded) }

// BookAddFailed reports a failed create.
func (n *Notifier) BookAddFailed(err error) Toast { return n.Error(err, MsgBookAddFailed) }

// BookUpdated reports a successful update.
func (n *Notifier) BookUpdated() Toast { return n.Success(MsgBookUpdated) }

// BookUpdateFailed reports a failed update.
func (n *Notifier) BookUpdateFailed(err error) Toast { return n.Error(err, MsgBookUpdateFailed) }

// BookDeleted reports a successful delete.
func (n *Notifier) BookDeleted() Toast { return n.Success(MsgBookDeleted) }

// BookDeleteFailed reports a failed delete.
func (n *Notifier) BookDeleteFailed(err error) Toast { return n.Error(err, MsgBookDeleteFailed) }

// Active returns the toasts that have not expired, oldest first,
// and drops the expired ones.
func (n *Notifier) Active() []Toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pruneLocked()
	return slices.Clone(n.toasts)
}

// Dismiss removes a toast before it expires.
func (n *Notifier) Dismiss(toastID string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	before := len(n.toasts)
	n.toasts = slices.DeleteFunc(n.toasts, func(t Toast) bool { return t.ID == toastID })
	return len(n.toasts) != before
}

// NextExpiry returns when the oldest visible toast expires.
func (n *Notifier) NextExpiry() (time.Time, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pruneLocked()
	if len(n.toasts) == 0 {
		return time.Time{}, false
	}
	next := n.toasts[0].ExpiresAt
	for _, t := range n.toasts[1:] {
		if t.ExpiresAt.Before(next) {
			next = t.ExpiresAt
		}
	}
	return next, true
}

func (n *Notifier) push(kind Kind, message string) Toast {
	now := n.now()

	n.mu.Lock()
	defer n.mu.Unlock()

	n.counter++
	toastID, err := id.Generate(id.PrefixToast)
	if err != nil {
		toastID = id.PrefixToast + "-" + strconv.Itoa(n.counter)
	}

	t := Toast{
		ID:        toastID,
		Kind:      kind,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(n.duration),
	}
	n.toasts = append(n.toasts, t)
	n.logger.Debug("toast", "kind", kind.String(), "message", message)
	return t
}

func (n *Notifier) pruneLocked() {
	now := n.now()
	n.toasts = slices.DeleteFunc(n.toasts, func(t Toast) bool { return !now.Before(t.ExpiresAt) })
}
