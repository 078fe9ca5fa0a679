package domain

import (
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"
)

type CommandStatus string

const (
	CommandOpen     CommandStatus = "OPEN"
	CommandClosed   CommandStatus = "CLOSED"
	CommandCanceled CommandStatus = "CANCELED"
)

func (s CommandStatus) Valid() bool {
	return lo.Contains([]CommandStatus{CommandOpen, CommandClosed, CommandCanceled}, s)
}

// Command is a running tab on one table.
type Command struct {
	ID          ID
	CompanyID   ID
	TableID     ID
	EmployeeID  ID
	Status      CommandStatus
	TotalAmount mo.Option[Money]
	OpenedAt    time.Time
	ClosedAt    mo.Option[time.Time]
	ClosedBy    mo.Option[ID]
	Audit       Audit
}

// OpenCommand builds an unsaved OPEN command with no computed total.
func OpenCommand(table Table, employeeID ID, now time.Time) (Command, error) {
	if err := table.CanOpenCommand(); err != nil {
		return Command{}, err
	}
	if employeeID.IsZero() {
		return Command{}, invalid("command must be opened by an employee")
	}
	return Command{
		CompanyID:   table.CompanyID,
		TableID:     table.ID,
		EmployeeID:  employeeID,
		Status:      CommandOpen,
		TotalAmount: mo.None[Money](),
		OpenedAt:    now,
		ClosedAt:    mo.None[time.Time](),
		ClosedBy:    mo.None[ID](),
		Audit:       NewAudit(employeeID, now),
	}, nil
}

func (c Command) IsNew() bool  { return c.ID.IsZero() }
func (c Command) IsOpen() bool { return c.Status == CommandOpen }

// ComputeTotal sums the effective price of every order that is not canceled.
func ComputeTotal(orders []Order) Money {
	live := lo.Reject(orders, func(o Order, _ int) bool { return o.IsCanceled() })
	return lo.Reduce(live, func(total Money, o Order, _ int) Money {
		return total.Add(o.EffectivePrice())
	}, ZeroMoney)
}

// WithTotal returns a copy with the recomputed total. The status is untouched.
func (c Command) WithTotal(orders []Order, actor ID, now time.Time) (Command, error) {
	audit, err := c.Audit.Touch(actor, now)
	if err != nil {
		return c, err
	}
	c.TotalAmount = mo.Some(ComputeTotal(orders))
	c.Audit = audit
	return c, nil
}

// Close is legal only from OPEN, towards any other known status.
func (c Command) Close(status CommandStatus, closedBy ID, now time.Time) (Command, error) {
	if !c.IsOpen() {
		return c, NewRuleError(RuleCommandNotOpen, "command %d is %s, only OPEN commands can be closed", c.ID, c.Status)
	}
	if !status.Valid() || status == CommandOpen {
		return c, NewRuleError(RuleInvalidStatus, "%q is not a closing status", status)
	}
	if closedBy.IsZero() {
		return c, invalid("closing a command requires the closing user")
	}
	audit, err := c.Audit.Touch(closedBy, now)
	if err != nil {
		return c, err
	}
	c.Status = status
	c.ClosedAt = mo.Some(now)
	c.ClosedBy = mo.Some(closedBy)
	c.Audit = audit
	return c, nil
}
