package domain

// ID is a persisted identity. The zero value marks an entity that has not
// been stored yet.
type ID uint

// NewID validates a raw identity coming from outside the engine.
func NewID(raw int64) (ID, error) {
	if raw <= 0 {
		return 0, invalid("identity %d must be a positive integer", raw)
	}
	return ID(raw), nil
}

func (id ID) IsZero() bool { return id == 0 }
