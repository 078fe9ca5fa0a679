package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/sirupsen/logrus"

	"github.com/yeremiapane/restaurant-ops/domain"
	"github.com/yeremiapane/restaurant-ops/events"
	"github.com/yeremiapane/restaurant-ops/locks"
	"github.com/yeremiapane/restaurant-ops/status"
	"github.com/yeremiapane/restaurant-ops/utils"
)

// CashSessionService opens and reconciles a company's cash drawer.
type CashSessionService struct {
	engine
}

func NewCashSessionService(d Deps) *CashSessionService {
	return &CashSessionService{engine: newEngine(d)}
}

// Open starts the company's session. Only one may be open at a time.
func (cs *CashSessionService) Open(ctx context.Context, actor Actor, initialFloat domain.Money) (domain.CashSession, error) {
	var session domain.CashSession
	err := cs.run(ctx, []string{locks.CashSessionKey(uint(actor.CompanyID))}, func(ctx context.Context, s Stores, out *outbox) error {
		active, err := s.Sessions.GetActiveForCompany(ctx, actor.CompanyID)
		if err != nil {
			return err
		}
		if current, ok := active.Get(); ok {
			return domain.NewRuleError(domain.RuleSessionAlreadyOpen, "cash session %d is already open for this company", current.ID)
		}
		opened, err := domain.OpenCashSession(actor.CompanyID, actor.EmployeeID, initialFloat, cs.now())
		if err != nil {
			return err
		}
		if session, err = s.Sessions.Save(ctx, opened); err != nil {
			return err
		}
		out.add(events.CashSessionOpened, uint(session.CompanyID), uint(session.ID), session)
		return nil
	})
	if err != nil {
		return domain.CashSession{}, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"session_id":    session.ID,
		"company_id":    session.CompanyID,
		"initial_float": session.InitialFloat.String(),
	}).Info("cash session opened")
	return session, nil
}

// auditEntry is one reconciled command in the closing audit blob.
type auditEntry struct {
	CommandID   domain.ID    `json:"command_id"`
	TotalAmount domain.Money `json:"total_amount"`
	Computed    bool         `json:"computed"`
}

type closingAudit struct {
	SessionID    domain.ID    `json:"session_id"`
	InitialFloat domain.Money `json:"initial_float"`
	WindowStart  time.Time    `json:"window_start"`
	WindowEnd    time.Time    `json:"window_end"`
	Commands     []auditEntry `json:"commands"`
	Counted      countedAudit `json:"counted"`
	Difference   string       `json:"difference"`
}

type countedAudit struct {
	Cash   domain.Money `json:"cash"`
	Card   domain.Money `json:"card"`
	Pix    domain.Money `json:"pix"`
	Others domain.Money `json:"others"`
}

// Close reconciles the company's open session against every command closed
// since it started, stores the closing record and closes the session.
func (cs *CashSessionService) Close(ctx context.Context, actor Actor, counted domain.CountedAmounts, observations string) (domain.ClosingRecord, error) {
	var record domain.ClosingRecord
	err := cs.run(ctx, []string{locks.CashSessionKey(uint(actor.CompanyID))}, func(ctx context.Context, s Stores, out *outbox) error {
		active, err := s.Sessions.GetActiveForCompany(ctx, actor.CompanyID)
		if err != nil {
			return err
		}
		session, ok := active.Get()
		if !ok {
			return domain.NotFound("open cash session for company", actor.CompanyID)
		}

		closedID, err := cs.Statuses.ID(ctx, status.Command, string(domain.CommandClosed))
		if err != nil {
			return err
		}
		now := cs.now()
		settled, err := s.Commands.ListClosedForCompany(ctx, session.CompanyID, closedID, session.StartedAt, now)
		if err != nil {
			return err
		}

		rec := domain.Reconcile(session.InitialFloat, settled, counted)
		draft, err := domain.NewClosingRecord(session, actor.EmployeeID, counted, rec, observations, actor.EmployeeID, now)
		if err != nil {
			return err
		}
		blob, err := json.Marshal(closingAudit{
			SessionID:    session.ID,
			InitialFloat: session.InitialFloat,
			WindowStart:  session.StartedAt,
			WindowEnd:    now,
			Commands: lo.Map(settled, func(c domain.Command, _ int) auditEntry {
				return auditEntry{CommandID: c.ID, TotalAmount: c.TotalAmount.OrElse(domain.ZeroMoney), Computed: c.TotalAmount.IsPresent()}
			}),
			Counted:    countedAudit{Cash: counted.Cash, Card: counted.Card, Pix: counted.Pix, Others: counted.Others},
			Difference: rec.Difference.StringFixed(2),
		})
		if err != nil {
			return fmt.Errorf("encode closing audit: %w", err)
		}
		draft.AuditBlob = mo.Some(blob)

		if record, err = s.Closings.Save(ctx, draft); err != nil {
			return err
		}
		closed, err := session.Close(actor.EmployeeID, now)
		if err != nil {
			return err
		}
		if _, err := s.Sessions.Save(ctx, closed); err != nil {
			return err
		}
		out.add(events.CashSessionClosed, uint(session.CompanyID), uint(session.ID), record)
		return nil
	})
	if err != nil {
		return domain.ClosingRecord{}, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"session_id": record.SessionID,
		"expected":   utils.FormatCurrency(record.Reconciliation.ExpectedFinalBalance),
		"final":      utils.FormatCurrency(record.Reconciliation.FinalBalance),
		"difference": utils.FormatCurrency(record.Reconciliation.Difference),
	}).Info("cash session closed")
	return record, nil
}

// ClosingRecord returns the stored closing of one of the company's sessions.
func (cs *CashSessionService) ClosingRecord(ctx context.Context, actor Actor, sessionID domain.ID) (domain.ClosingRecord, error) {
	var record domain.ClosingRecord
	err := cs.UoW.Do(ctx, func(ctx context.Context, s Stores) error {
		found, err := s.Closings.GetBySession(ctx, actor.CompanyID, sessionID)
		if err != nil {
			return err
		}
		r, ok := found.Get()
		if !ok {
			return domain.NotFound("closing record for cash session", sessionID)
		}
		record = r
		return nil
	})
	return record, err
}
