package domain

import (
	"time"

	"github.com/samber/mo"
)

// Audit is carried by every entity. Version grows by one on each successful
// mutation and is used by stores for optimistic-concurrency checks.
type Audit struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt mo.Option[time.Time]
	Version   int
	CreatedBy mo.Option[ID]
	UpdatedBy mo.Option[ID]
}

// NewAudit starts the audit trail of a new entity.
func NewAudit(actor ID, now time.Time) Audit {
	return Audit{
		CreatedAt: now,
		UpdatedAt: now,
		DeletedAt: mo.None[time.Time](),
		Version:   1,
		CreatedBy: optionalActor(actor),
		UpdatedBy: optionalActor(actor),
	}
}

func (a Audit) IsDeleted() bool { return a.DeletedAt.IsPresent() }

// Touch records a mutation. A soft-deleted audit is frozen.
func (a Audit) Touch(actor ID, now time.Time) (Audit, error) {
	if a.IsDeleted() {
		return a, NewRuleError(RuleEntityDeleted, "entity was deleted at %s", a.DeletedAt.MustGet().Format(time.RFC3339))
	}
	a.UpdatedAt = now
	a.UpdatedBy = optionalActor(actor)
	a.Version++
	return a, nil
}

// Delete soft-deletes. Deleting twice fails like any other mutation.
func (a Audit) Delete(actor ID, now time.Time) (Audit, error) {
	touched, err := a.Touch(actor, now)
	if err != nil {
		return a, err
	}
	touched.DeletedAt = mo.Some(now)
	return touched, nil
}

func optionalActor(actor ID) mo.Option[ID] {
	if actor.IsZero() {
		return mo.None[ID]()
	}
	return mo.Some(actor)
}
