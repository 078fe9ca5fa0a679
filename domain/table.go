package domain

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

type TableStatus string

const (
	TableAvailable    TableStatus = "AVAILABLE"
	TableOccupied     TableStatus = "OCCUPIED"
	TableReserved     TableStatus = "RESERVED"
	TableOutOfService TableStatus = "OUT_OF_SERVICE"
)

func (s TableStatus) Valid() bool {
	switch s {
	case TableAvailable, TableOccupied, TableReserved, TableOutOfService:
		return true
	}
	return false
}

// TableName is a display name: 2 to 50 characters, at least one letter or
// digit, letters, digits, spaces and "-_.#/" only.
type TableName string

func NewTableName(raw string) (TableName, error) {
	name := strings.TrimSpace(raw)
	n := utf8.RuneCountInString(name)
	if n < 2 || n > 50 {
		return "", invalid("table name must be between 2 and 50 characters, got %d", n)
	}
	alnum := false
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			alnum = true
		case r == ' ' || strings.ContainsRune("-_.#/", r):
		default:
			return "", invalid("table name contains forbidden character %q", r)
		}
	}
	if !alnum {
		return "", invalid("table name must contain a letter or a digit")
	}
	return TableName(name), nil
}

type Table struct {
	ID        ID
	CompanyID ID
	Name      TableName
	Capacity  int
	Status    TableStatus
	Audit     Audit
}

// NewTable builds an unsaved table in the AVAILABLE state.
func NewTable(companyID ID, name TableName, capacity int, actor ID, now time.Time) (Table, error) {
	if companyID.IsZero() {
		return Table{}, invalid("table must belong to a company")
	}
	if capacity <= 0 {
		return Table{}, invalid("table capacity must be positive, got %d", capacity)
	}
	return Table{
		CompanyID: companyID,
		Name:      name,
		Capacity:  capacity,
		Status:    TableAvailable,
		Audit:     NewAudit(actor, now),
	}, nil
}

func (t Table) IsNew() bool { return t.ID.IsZero() }

func (t Table) WithStatus(status TableStatus, actor ID, now time.Time) (Table, error) {
	if !status.Valid() {
		return t, NewRuleError(RuleInvalidStatus, "unknown table status %q", status)
	}
	audit, err := t.Audit.Touch(actor, now)
	if err != nil {
		return t, err
	}
	t.Status = status
	t.Audit = audit
	return t, nil
}

// CanOpenCommand gates tab creation on the table's own state.
func (t Table) CanOpenCommand() error {
	if t.Audit.IsDeleted() {
		return NewRuleError(RuleTableUnavailable, "table %q was deleted", t.Name)
	}
	if t.Status == TableOutOfService {
		return NewRuleError(RuleTableUnavailable, "table %q is out of service", t.Name)
	}
	return nil
}
