package order

import (
	"errors"
	"fmt"

	"github.com/example/flowershop/internal/i18n"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

var ErrInvalidTransition = errors.New("invalid order status transition")

// validTransitions defines allowed state transitions. Any non-terminal
// state may be cancelled; delivered and cancelled are terminal.
var validTransitions = map[Status][]Status{
	StatusPending:   {StatusPaid, StatusCancelled},
	StatusPaid:      {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered, StatusCancelled},
	StatusDelivered: {},
	StatusCancelled: {},
}

func (s Status) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

// CanTransitionTo checks if the status can transition to the target.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// ValidateTransition is the single gate for status changes; callers never
// set a status directly.
func ValidateTransition(from, to Status) error {
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("%w: cannot transition from %s to %s", ErrInvalidTransition, from, to)
	}
	return nil
}

var statusLabels = map[Status]i18n.Text{
	StatusPending:   {"zh": "待付款", "en": "Pending Payment"},
	StatusPaid:      {"zh": "待发货", "en": "Paid"},
	StatusShipped:   {"zh": "已发货", "en": "Shipped"},
	StatusDelivered: {"zh": "已完成", "en": "Delivered"},
	StatusCancelled: {"zh": "已取消", "en": "Cancelled"},
}

var statusColors = map[Status]string{
	StatusPending:   "#ff9800",
	StatusPaid:      "#2196f3",
	StatusShipped:   "#9c27b0",
	StatusDelivered: "#4caf50",
	StatusCancelled: "#9e9e9e",
}

// Label returns the localized display text, or the raw status for values
// the table does not know.
func (s Status) Label(locale string) string {
	text, ok := statusLabels[s]
	if !ok {
		return string(s)
	}
	return text.Resolve(locale)
}

// Color returns the fixed display color for the status badge.
func (s Status) Color() string {
	if color, ok := statusColors[s]; ok {
		return color
	}
	return "#999"
}
