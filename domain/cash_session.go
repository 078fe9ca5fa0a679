package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/shopspring/decimal"
)

type CashSessionStatus string

const (
	CashSessionOpen   CashSessionStatus = "OPEN"
	CashSessionClosed CashSessionStatus = "CLOSED"
)

const MaxObservationsLength = 2000

// CashSession is a company's drawer between opening and closing.
type CashSession struct {
	ID           ID
	CompanyID    ID
	EmployeeID   ID
	Status       CashSessionStatus
	InitialFloat Money
	StartedAt    time.Time
	EndedAt      mo.Option[time.Time]
	OpenedBy     ID
	ClosedBy     mo.Option[ID]
	Audit        Audit
}

func OpenCashSession(companyID, employeeID ID, initialFloat Money, now time.Time) (CashSession, error) {
	if companyID.IsZero() || employeeID.IsZero() {
		return CashSession{}, invalid("a cash session needs a company and an opening employee")
	}
	return CashSession{
		CompanyID:    companyID,
		EmployeeID:   employeeID,
		Status:       CashSessionOpen,
		InitialFloat: initialFloat,
		StartedAt:    now,
		EndedAt:      mo.None[time.Time](),
		OpenedBy:     employeeID,
		ClosedBy:     mo.None[ID](),
		Audit:        NewAudit(employeeID, now),
	}, nil
}

func (s CashSession) IsNew() bool  { return s.ID.IsZero() }
func (s CashSession) IsOpen() bool { return s.Status == CashSessionOpen }

// Close stamps the end of the session.
func (s CashSession) Close(closedBy ID, now time.Time) (CashSession, error) {
	if !s.IsOpen() {
		return s, NewRuleError(RuleSessionNotOpen, "cash session %d is already %s", s.ID, s.Status)
	}
	audit, err := s.Audit.Touch(closedBy, now)
	if err != nil {
		return s, err
	}
	s.Status = CashSessionClosed
	s.EndedAt = mo.Some(now)
	s.ClosedBy = mo.Some(closedBy)
	s.Audit = audit
	return s, nil
}

// CountedAmounts is what the closing employee found in the drawer.
type CountedAmounts struct {
	Cash   Money
	Card   Money
	Pix    Money
	Others Money
}

func (c CountedAmounts) Total() Money {
	return SumMoney(c.Cash, c.Card, c.Pix, c.Others)
}

// Reconciliation holds the derived amounts of a closing. Difference is signed:
// positive is a surplus, negative a shortfall.
type Reconciliation struct {
	FinalBalance         decimal.Decimal
	ExpectedFinalBalance decimal.Decimal
	Difference           decimal.Decimal
	CommandIDs           []ID
}

// Reconcile compares the counted drawer with the float plus every settled
// command total. Commands without a computed total count as zero.
func Reconcile(initialFloat Money, settled []Command, counted CountedAmounts) Reconciliation {
	totals := lo.FilterMap(settled, func(c Command, _ int) (Money, bool) {
		return c.TotalAmount.Get()
	})
	expected := initialFloat.Add(SumMoney(totals...)).Decimal()
	final := initialFloat.Add(counted.Total()).Decimal()
	return Reconciliation{
		FinalBalance:         final,
		ExpectedFinalBalance: expected,
		Difference:           final.Sub(expected),
		CommandIDs:           lo.Map(settled, func(c Command, _ int) ID { return c.ID }),
	}
}

// ClosingRecord is the persisted result of closing a cash session.
type ClosingRecord struct {
	ID             ID
	SessionID      ID
	EmployeeID     ID
	Counted        CountedAmounts
	Reconciliation Reconciliation
	Observations   mo.Option[string]
	AuditBlob      mo.Option[[]byte]
	Audit          Audit
}

func NewClosingRecord(session CashSession, employeeID ID, counted CountedAmounts, rec Reconciliation, observations string, actor ID, now time.Time) (ClosingRecord, error) {
	observations = strings.TrimSpace(observations)
	if n := utf8.RuneCountInString(observations); n > MaxObservationsLength {
		return ClosingRecord{}, invalid("observations must be at most %d characters, got %d", MaxObservationsLength, n)
	}
	return ClosingRecord{
		SessionID:      session.ID,
		EmployeeID:     employeeID,
		Counted:        counted,
		Reconciliation: rec,
		Observations:   lo.Ternary(observations == "", mo.None[string](), mo.Some(observations)),
		AuditBlob:      mo.None[[]byte](),
		Audit:          NewAudit(actor, now),
	}, nil
}

func (r ClosingRecord) IsNew() bool { return r.ID.IsZero() }
