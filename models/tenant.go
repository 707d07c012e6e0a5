package models

import (
	"fmt"
	"strings"
	"time"
)

// TenantStatus is the closed set of occupancy states a tenant can be in.
type TenantStatus string

const (
	TenantActivo     TenantStatus = "Activo"
	TenantPendiente  TenantStatus = "Pendiente"
	TenantMoroso     TenantStatus = "Moroso"
	TenantSuspendido TenantStatus = "Suspendido"
)

func (s TenantStatus) Valid() bool {
	switch s {
	case TenantActivo, TenantPendiente, TenantMoroso, TenantSuspendido:
		return true
	}
	return false
}

// Tenant represents one resident of the building.
type Tenant struct {
	Meta
	Name           string       `json:"name"`
	Apartment      string       `json:"apartment"`
	RentAmount     float64      `json:"rent_amount"`
	Status         TenantStatus `json:"status"`
	Identification string       `json:"identification"`
	Email          string       `json:"email"`
	Phone          string       `json:"phone"`
	Profession     string       `json:"profession,omitempty"`
	EntryDate      time.Time    `json:"entry_date"`
	Deposit        float64      `json:"deposit"`
	EmergencyName  string       `json:"emergency_name,omitempty"`
	EmergencyPhone string       `json:"emergency_phone,omitempty"`
	Notes          string       `json:"notes,omitempty"`
	IDDocumentPath string       `json:"id_document_path,omitempty"`
	ContractPath   string       `json:"contract_path,omitempty"`
}

// Validate applies defaults and checks the construction invariants. Nothing is
// persisted when it returns an error.
func (t *Tenant) Validate() error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return fmt.Errorf("name is required")
	}
	if strings.TrimSpace(t.Apartment) == "" {
		return fmt.Errorf("apartment is required")
	}
	if t.RentAmount <= 0 {
		return fmt.Errorf("rent amount must be greater than zero")
	}
	if t.Deposit < 0 {
		return fmt.Errorf("deposit cannot be negative")
	}
	if t.Status == "" {
		t.Status = TenantActivo
	}
	if !t.Status.Valid() {
		return fmt.Errorf("invalid tenant status %q", t.Status)
	}
	return nil
}
