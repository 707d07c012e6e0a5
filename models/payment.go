package models

import (
	"fmt"
	"time"
)

// PaymentType is the closed set of ways money changes hands. Expenses reuse it
// as their payment method.
type PaymentType string

const (
	PagoEfectivo      PaymentType = "Efectivo"
	PagoTransferencia PaymentType = "Transferencia"
	PagoTarjeta       PaymentType = "Tarjeta"
	PagoCheque        PaymentType = "Cheque"
	PagoOtro          PaymentType = "Otro"
)

func (t PaymentType) Valid() bool {
	switch t {
	case PagoEfectivo, PagoTransferencia, PagoTarjeta, PagoCheque, PagoOtro:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PagoCompletado PaymentStatus = "Completado"
	PagoPendiente  PaymentStatus = "Pendiente"
	PagoCancelado  PaymentStatus = "Cancelado"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PagoCompletado, PagoPendiente, PagoCancelado:
		return true
	}
	return false
}

// Payment is a rent payment. TenantID is a soft reference: rows whose tenant has
// since been deleted render with the "Desconocido" placeholder name.
type Payment struct {
	Meta
	TenantID    int           `json:"tenant_id"`
	Amount      float64       `json:"amount"`
	Date        time.Time     `json:"date"`
	DueDate     time.Time     `json:"due_date"`
	Type        PaymentType   `json:"type"`
	Status      PaymentStatus `json:"status"`
	Description string        `json:"description,omitempty"`
	ReceiptNo   string        `json:"receipt_number,omitempty"`
}

func (p *Payment) Validate() error {
	if p.Amount <= 0 {
		return fmt.Errorf("amount must be greater than zero")
	}
	if p.Date.IsZero() {
		return fmt.Errorf("payment date is required")
	}
	if p.DueDate.IsZero() {
		p.DueDate = p.Date
	}
	if p.DueDate.Before(p.Date) {
		return fmt.Errorf("due date cannot precede payment date")
	}
	if p.Type == "" {
		p.Type = PagoEfectivo
	}
	if !p.Type.Valid() {
		return fmt.Errorf("invalid payment type %q", p.Type)
	}
	if p.Status == "" {
		p.Status = PagoCompletado
	}
	if !p.Status.Valid() {
		return fmt.Errorf("invalid payment status %q", p.Status)
	}
	return nil
}
