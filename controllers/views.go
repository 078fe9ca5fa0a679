package controllers

import (
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"

	"github.com/yeremiapane/restaurant-ops/domain"
)

// JSON shapes returned by the handlers.

type tableView struct {
	ID        domain.ID          `json:"id"`
	CompanyID domain.ID          `json:"company_id"`
	Name      domain.TableName   `json:"name"`
	Capacity  int                `json:"capacity"`
	Status    domain.TableStatus `json:"status"`
	Version   int                `json:"version"`
}

func newTableView(t domain.Table) tableView {
	return tableView{
		ID:        t.ID,
		CompanyID: t.CompanyID,
		Name:      t.Name,
		Capacity:  t.Capacity,
		Status:    t.Status,
		Version:   t.Audit.Version,
	}
}

type commandView struct {
	ID          domain.ID               `json:"id"`
	TableID     domain.ID               `json:"table_id"`
	EmployeeID  domain.ID               `json:"employee_id"`
	Status      domain.CommandStatus    `json:"status"`
	TotalAmount mo.Option[domain.Money] `json:"total_amount"`
	OpenedAt    time.Time               `json:"opened_at"`
	ClosedAt    mo.Option[time.Time]    `json:"closed_at"`
	ClosedBy    mo.Option[domain.ID]    `json:"closed_by"`
	Version     int                     `json:"version"`
}

func newCommandView(c domain.Command) commandView {
	return commandView{
		ID:          c.ID,
		TableID:     c.TableID,
		EmployeeID:  c.EmployeeID,
		Status:      c.Status,
		TotalAmount: c.TotalAmount,
		OpenedAt:    c.OpenedAt,
		ClosedAt:    c.ClosedAt,
		ClosedBy:    c.ClosedBy,
		Version:     c.Audit.Version,
	}
}

type modifierView struct {
	OptionID domain.ID    `json:"option_id"`
	GroupID  domain.ID    `json:"group_id"`
	Price    domain.Money `json:"price"`
}

type cancelView struct {
	Reason     string    `json:"reason"`
	CanceledBy domain.ID `json:"canceled_by"`
	CanceledAt time.Time `json:"canceled_at"`
}

func cancelOf(o domain.Order) mo.Option[cancelView] {
	info, ok := o.Cancel.Get()
	if !ok {
		return mo.None[cancelView]()
	}
	return mo.Some(cancelView{Reason: info.Reason, CanceledBy: info.CanceledBy, CanceledAt: info.CanceledAt})
}

type orderView struct {
	ID             domain.ID             `json:"id"`
	CommandID      domain.ID             `json:"command_id"`
	ProductID      domain.ID             `json:"product_id"`
	Status         domain.OrderStatus    `json:"status"`
	BasePrice      domain.Money          `json:"base_price"`
	ModifiersPrice domain.Money          `json:"modifiers_price"`
	EffectivePrice domain.Money          `json:"effective_price"`
	Notes          string                `json:"notes,omitempty"`
	Priority       mo.Option[int]        `json:"priority"`
	Cancel         mo.Option[cancelView] `json:"cancel"`
	Modifiers      []modifierView        `json:"modifiers"`
}

func newOrderView(o domain.Order) orderView {
	return orderView{
		ID:             o.ID,
		CommandID:      o.CommandID,
		ProductID:      o.ProductID,
		Status:         o.Status,
		BasePrice:      o.BasePrice,
		ModifiersPrice: o.ModifiersPrice,
		EffectivePrice: o.EffectivePrice(),
		Notes:          o.Notes,
		Priority:       o.Priority,
		Cancel:         cancelOf(o),
		Modifiers: lo.Map(o.Modifiers, func(m domain.SelectedModifier, _ int) modifierView {
			return modifierView{OptionID: m.OptionID, GroupID: m.GroupID, Price: m.Price}
		}),
	}
}

type cashSessionView struct {
	ID           domain.ID                `json:"id"`
	Status       domain.CashSessionStatus `json:"status"`
	InitialFloat domain.Money             `json:"initial_float"`
	StartedAt    time.Time                `json:"started_at"`
	OpenedBy     domain.ID                `json:"opened_by"`
}

func newCashSessionView(s domain.CashSession) cashSessionView {
	return cashSessionView{
		ID:           s.ID,
		Status:       s.Status,
		InitialFloat: s.InitialFloat,
		StartedAt:    s.StartedAt,
		OpenedBy:     s.OpenedBy,
	}
}

type closingView struct {
	ID                   domain.ID         `json:"id"`
	SessionID            domain.ID         `json:"session_id"`
	FinalBalance         string            `json:"final_balance"`
	ExpectedFinalBalance string            `json:"expected_final_balance"`
	Difference           string            `json:"difference"`
	CommandIDs           []domain.ID       `json:"command_ids"`
	Observations         mo.Option[string] `json:"observations"`
}

func newClosingView(r domain.ClosingRecord) closingView {
	return closingView{
		ID:                   r.ID,
		SessionID:            r.SessionID,
		FinalBalance:         r.Reconciliation.FinalBalance.StringFixed(2),
		ExpectedFinalBalance: r.Reconciliation.ExpectedFinalBalance.StringFixed(2),
		Difference:           r.Reconciliation.Difference.StringFixed(2),
		CommandIDs:           r.Reconciliation.CommandIDs,
		Observations:         r.Observations,
	}
}
