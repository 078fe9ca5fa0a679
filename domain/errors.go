package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Callers match them with errors.Is.
var (
	ErrBusinessRule = errors.New("business rule violation")
	ErrNotFound     = errors.New("not found")
)

// RuleError is a recoverable domain-rule violation. Rule names the rule that
// failed, Reason is meant for humans.
type RuleError struct {
	Rule   string
	Reason string
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Rule, e.Reason)
}

func (e *RuleError) Is(target error) bool {
	return target == ErrBusinessRule
}

// NewRuleError builds a RuleError with a formatted reason.
func NewRuleError(rule, format string, args ...any) *RuleError {
	return &RuleError{Rule: rule, Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a missing referenced entity.
type NotFoundError struct {
	Entity string
	Key    any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Entity, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func NotFound(entity string, key any) *NotFoundError {
	return &NotFoundError{Entity: entity, Key: key}
}

// Rule names used across the engine.
const (
	RuleInvalidValue         = "invalid_value"
	RuleEntityDeleted        = "entity_deleted"
	RuleCommandNotOpen       = "command_not_open"
	RuleCommandAlreadyActive = "command_already_active"
	RuleCompanyMismatch      = "company_mismatch"
	RuleModifierSelection    = "modifier_selection"
	RuleForeignModifier      = "foreign_modifier"
	RuleCancelInfoRequired   = "cancel_info_required"
	RuleOrderTerminal        = "order_terminal"
	RuleSessionAlreadyOpen   = "cash_session_already_open"
	RuleSessionNotOpen       = "cash_session_not_open"
	RuleTableUnavailable     = "table_unavailable"
	RuleTableNameTaken       = "table_name_taken"
	RuleInvalidStatus        = "invalid_status"
	RuleConcurrentUpdate     = "concurrent_update"
)

func invalid(format string, args ...any) *RuleError {
	return NewRuleError(RuleInvalidValue, format, args...)
}
