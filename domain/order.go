package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/samber/lo"
	"github.com/samber/mo"
)

type OrderStatus string

const (
	OrderPendingConfirmation OrderStatus = "PENDING_CONFIRMATION"
	OrderInPreparation       OrderStatus = "IN_PREPARATION"
	OrderReadyForDelivery    OrderStatus = "READY_FOR_DELIVERY"
	OrderDeliveredServed     OrderStatus = "DELIVERED_SERVED"
	OrderItemCanceled        OrderStatus = "ITEM_CANCELED"
)

var orderStatuses = []OrderStatus{
	OrderPendingConfirmation,
	OrderInPreparation,
	OrderReadyForDelivery,
	OrderDeliveredServed,
	OrderItemCanceled,
}

func (s OrderStatus) Valid() bool { return lo.Contains(orderStatuses, s) }

// Terminal statuses are left alone by CloseAll.
func (s OrderStatus) Terminal() bool {
	return s == OrderDeliveredServed || s == OrderItemCanceled
}

const (
	MaxNotesLength = 500
	MinPriority    = 0
	MaxPriority    = 10
)

// CancelInfo is recorded when an order reaches ITEM_CANCELED.
type CancelInfo struct {
	Reason     string
	CanceledBy ID
	CanceledAt time.Time
}

// Order is one line item of a command. BasePrice and ModifiersPrice are
// frozen when the order is placed.
type Order struct {
	ID             ID
	CommandID      ID
	ProductID      ID
	Status         OrderStatus
	BasePrice      Money
	ModifiersPrice Money
	Notes          string
	Priority       mo.Option[int]
	Cancel         mo.Option[CancelInfo]
	Modifiers      []SelectedModifier
	Audit          Audit
}

// PlaceOrder prices a new order against an open command. It does not check
// company ownership; callers do that with the table at hand.
func PlaceOrder(cmd Command, product Product, selection Selection, notes string, priority mo.Option[int], actor ID, now time.Time) (Order, error) {
	if !cmd.IsOpen() {
		return Order{}, NewRuleError(RuleCommandNotOpen, "command %d is %s, orders can only be added to OPEN commands", cmd.ID, cmd.Status)
	}
	notes = strings.TrimSpace(notes)
	if n := utf8.RuneCountInString(notes); n > MaxNotesLength {
		return Order{}, invalid("notes must be at most %d characters, got %d", MaxNotesLength, n)
	}
	if p, ok := priority.Get(); ok && (p < MinPriority || p > MaxPriority) {
		return Order{}, invalid("priority must be between %d and %d, got %d", MinPriority, MaxPriority, p)
	}
	return Order{
		CommandID:      cmd.ID,
		ProductID:      product.ID,
		Status:         OrderPendingConfirmation,
		BasePrice:      product.Price,
		ModifiersPrice: selection.Total,
		Notes:          notes,
		Priority:       priority,
		Cancel:         mo.None[CancelInfo](),
		Modifiers:      selection.Modifiers,
		Audit:          NewAudit(actor, now),
	}, nil
}

func (o Order) IsNew() bool      { return o.ID.IsZero() }
func (o Order) IsCanceled() bool { return o.Status == OrderItemCanceled }

func (o Order) EffectivePrice() Money { return o.BasePrice.Add(o.ModifiersPrice) }

// ChangeStatus moves the order to any known status; ITEM_CANCELED is the only
// status that cannot be left. Canceling requires a reason and an actor, which
// are recorded as cancel info.
func (o Order) ChangeStatus(status OrderStatus, reason mo.Option[string], actor ID, now time.Time) (Order, error) {
	if !status.Valid() {
		return o, NewRuleError(RuleInvalidStatus, "unknown order status %q", status)
	}
	if o.IsCanceled() {
		return o, NewRuleError(RuleOrderTerminal, "order %d is canceled and cannot change status", o.ID)
	}
	text := strings.TrimSpace(reason.OrEmpty())
	if status == OrderItemCanceled && (text == "" || actor.IsZero()) {
		return o, NewRuleError(RuleCancelInfoRequired, "canceling order %d requires a reason and the canceling user", o.ID)
	}
	audit, err := o.Audit.Touch(actor, now)
	if err != nil {
		return o, err
	}
	if status == OrderItemCanceled {
		o.Cancel = mo.Some(CancelInfo{Reason: text, CanceledBy: actor, CanceledAt: now})
	}
	o.Status = status
	o.Audit = audit
	return o, nil
}
