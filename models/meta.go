package models

import "time"

// Meta carries the identity and bookkeeping fields shared by every stored record.
// IDs are assigned by the store and are unique only within one collection.
type Meta struct {
	ID        int       `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *Meta) EntityID() int { return m.ID }

func (m *Meta) SetID(id int) { m.ID = id }

func (m *Meta) Created() time.Time { return m.CreatedAt }

func (m *Meta) SetCreated(t time.Time) { m.CreatedAt = t }

// Touch refreshes the modification timestamp.
func (m *Meta) Touch(now time.Time) { m.UpdatedAt = now }
