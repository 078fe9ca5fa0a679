package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/samber/mo"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-ops/domain"
	"github.com/yeremiapane/restaurant-ops/models"
	"github.com/yeremiapane/restaurant-ops/status"
)

type CashSessionStore struct{ store }

// GetActiveForCompany returns the company's OPEN session, if any.
func (s *CashSessionStore) GetActiveForCompany(ctx context.Context, companyID domain.ID) (mo.Option[domain.CashSession], error) {
	openID, err := s.statusID(ctx, status.CashSession, string(domain.CashSessionOpen))
	if err != nil {
		return mo.None[domain.CashSession](), err
	}
	var row models.CashSession
	err = s.forUpdate(ctx).
		Where("company_id = ? AND status_id = ? AND deleted_at IS NULL", uint(companyID), openID).
		Order("started_at DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return mo.None[domain.CashSession](), nil
	}
	if err != nil {
		return mo.None[domain.CashSession](), fmt.Errorf("load open cash session of company %d: %w", companyID, err)
	}
	session, err := s.toDomain(ctx, row)
	if err != nil {
		return mo.None[domain.CashSession](), err
	}
	return mo.Some(session), nil
}

func (s *CashSessionStore) Save(ctx context.Context, cs domain.CashSession) (domain.CashSession, error) {
	statusID, err := s.statusID(ctx, status.CashSession, string(cs.Status))
	if err != nil {
		return domain.CashSession{}, err
	}
	row := models.CashSession{
		ID:           uint(cs.ID),
		CompanyID:    uint(cs.CompanyID),
		EmployeeID:   uint(cs.EmployeeID),
		StatusID:     statusID,
		InitialFloat: cs.InitialFloat.Decimal(),
		StartedAt:    cs.StartedAt,
		EndedAt:      cs.EndedAt.ToPointer(),
		OpenedBy:     uint(cs.OpenedBy),
		ClosedBy:     idPtr(cs.ClosedBy),
		AuditFields:  toAudit(cs.Audit),
	}
	if err := insertOrUpdate(ctx, s.db, &row, row.ID, cs.IsNew(), cs.Audit.Version, "cash session"); err != nil {
		return domain.CashSession{}, err
	}
	cs.ID = domain.ID(row.ID)
	return cs, nil
}

func (s *CashSessionStore) toDomain(ctx context.Context, row models.CashSession) (domain.CashSession, error) {
	key, err := s.statusKey(ctx, status.CashSession, row.StatusID)
	if err != nil {
		return domain.CashSession{}, err
	}
	float, err := domain.NewMoney(row.InitialFloat)
	if err != nil {
		return domain.CashSession{}, fmt.Errorf("cash session %d initial float: %w", row.ID, err)
	}
	return domain.CashSession{
		ID:           domain.ID(row.ID),
		CompanyID:    domain.ID(row.CompanyID),
		EmployeeID:   domain.ID(row.EmployeeID),
		Status:       domain.CashSessionStatus(key),
		InitialFloat: float,
		StartedAt:    row.StartedAt.UTC(),
		EndedAt:      timeOpt(row.EndedAt),
		OpenedBy:     domain.ID(row.OpenedBy),
		ClosedBy:     idOpt(row.ClosedBy),
		Audit:        fromAudit(row.AuditFields),
	}, nil
}

type ClosingRecordStore struct{ store }

// GetBySession finds the closing record of a session owned by companyID.
func (s *ClosingRecordStore) GetBySession(ctx context.Context, companyID, sessionID domain.ID) (mo.Option[domain.ClosingRecord], error) {
	var row models.ClosingRecord
	err := s.conn(ctx).
		Joins("Session").
		Where("closing_records.session_id = ? AND Session.company_id = ?", uint(sessionID), uint(companyID)).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return mo.None[domain.ClosingRecord](), nil
	}
	if err != nil {
		return mo.None[domain.ClosingRecord](), fmt.Errorf("load closing record of session %d: %w", sessionID, err)
	}
	rec, err := closingToDomain(row)
	if err != nil {
		return mo.None[domain.ClosingRecord](), err
	}
	return mo.Some(rec), nil
}

func (s *ClosingRecordStore) Save(ctx context.Context, r domain.ClosingRecord) (domain.ClosingRecord, error) {
	row := models.ClosingRecord{
		ID:                   uint(r.ID),
		SessionID:            uint(r.SessionID),
		EmployeeID:           uint(r.EmployeeID),
		CountedCash:          r.Counted.Cash.Decimal(),
		CountedCard:          r.Counted.Card.Decimal(),
		CountedPix:           r.Counted.Pix.Decimal(),
		CountedOthers:        r.Counted.Others.Decimal(),
		FinalBalance:         r.Reconciliation.FinalBalance,
		ExpectedFinalBalance: r.Reconciliation.ExpectedFinalBalance,
		Difference:           r.Reconciliation.Difference,
		Observations:         r.Observations.ToPointer(),
		AuditFields:          toAudit(r.Audit),
	}
	if blob, ok := r.AuditBlob.Get(); ok {
		row.AuditBlob = datatypes.JSON(blob)
	}
	if err := insertOrUpdate(ctx, s.db, &row, row.ID, r.IsNew(), r.Audit.Version, "closing record"); err != nil {
		return domain.ClosingRecord{}, err
	}
	r.ID = domain.ID(row.ID)
	return r, nil
}

func closingToDomain(row models.ClosingRecord) (domain.ClosingRecord, error) {
	amounts := make([]domain.Money, 4)
	for i, d := range []decimal.Decimal{row.CountedCash, row.CountedCard, row.CountedPix, row.CountedOthers} {
		m, err := domain.NewMoney(d)
		if err != nil {
			return domain.ClosingRecord{}, fmt.Errorf("closing record %d counted amount: %w", row.ID, err)
		}
		amounts[i] = m
	}
	blob := mo.None[[]byte]()
	var commandIDs []domain.ID
	if len(row.AuditBlob) > 0 {
		blob = mo.Some([]byte(row.AuditBlob))
		var audit struct {
			Commands []struct {
				CommandID domain.ID `json:"command_id"`
			} `json:"commands"`
		}
		if err := json.Unmarshal(row.AuditBlob, &audit); err != nil {
			return domain.ClosingRecord{}, fmt.Errorf("closing record %d audit blob: %w", row.ID, err)
		}
		for _, c := range audit.Commands {
			commandIDs = append(commandIDs, c.CommandID)
		}
	}
	return domain.ClosingRecord{
		ID:         domain.ID(row.ID),
		SessionID:  domain.ID(row.SessionID),
		EmployeeID: domain.ID(row.EmployeeID),
		Counted: domain.CountedAmounts{
			Cash:   amounts[0],
			Card:   amounts[1],
			Pix:    amounts[2],
			Others: amounts[3],
		},
		Reconciliation: domain.Reconciliation{
			FinalBalance:         row.FinalBalance,
			ExpectedFinalBalance: row.ExpectedFinalBalance,
			Difference:           row.Difference,
			CommandIDs:           commandIDs,
		},
		Observations: mo.PointerToOption(row.Observations),
		AuditBlob:    blob,
		Audit:        fromAudit(row.AuditFields),
	}, nil
}
