package models

import (
	"fmt"
	"strings"
	"time"
)

// ExpenseCategory is the closed set of building expense categories.
type ExpenseCategory string

const (
	GastoMantenimiento  ExpenseCategory = "Mantenimiento"
	GastoLimpieza       ExpenseCategory = "Limpieza"
	GastoServicios      ExpenseCategory = "Servicios"
	GastoReparaciones   ExpenseCategory = "Reparaciones"
	GastoImpuestos      ExpenseCategory = "Impuestos"
	GastoSeguros        ExpenseCategory = "Seguros"
	GastoAdministracion ExpenseCategory = "Administración"
	GastoOtros          ExpenseCategory = "Otros"
)

func (c ExpenseCategory) Valid() bool {
	switch c {
	case GastoMantenimiento, GastoLimpieza, GastoServicios, GastoReparaciones,
		GastoImpuestos, GastoSeguros, GastoAdministracion, GastoOtros:
		return true
	}
	return false
}

type ExpenseStatus string

const (
	GastoPagado    ExpenseStatus = "Pagado"
	GastoPendiente ExpenseStatus = "Pendiente"
	GastoAnulado   ExpenseStatus = "Anulado"
)

func (s ExpenseStatus) Valid() bool {
	switch s {
	case GastoPagado, GastoPendiente, GastoAnulado:
		return true
	}
	return false
}

type RecurrencePeriod string

const (
	RecurrenciaMensual    RecurrencePeriod = "Mensual"
	RecurrenciaTrimestral RecurrencePeriod = "Trimestral"
	RecurrenciaAnual      RecurrencePeriod = "Anual"
)

func (p RecurrencePeriod) Valid() bool {
	switch p {
	case RecurrenciaMensual, RecurrenciaTrimestral, RecurrenciaAnual:
		return true
	}
	return false
}

// Expense is one building expense.
type Expense struct {
	Meta
	Amount      float64          `json:"amount"`
	Date        time.Time        `json:"date"`
	Category    ExpenseCategory  `json:"category"`
	Description string           `json:"description"`
	Provider    string           `json:"provider,omitempty"`
	InvoiceNo   string           `json:"invoice_number,omitempty"`
	Method      PaymentType      `json:"payment_method"`
	Status      ExpenseStatus    `json:"status"`
	Recurring   bool             `json:"recurring"`
	Period      RecurrencePeriod `json:"recurrence_period,omitempty"`
}

func (e *Expense) Validate() error {
	if e.Amount <= 0 {
		return fmt.Errorf("amount must be greater than zero")
	}
	if e.Date.IsZero() {
		return fmt.Errorf("expense date is required")
	}
	e.Description = strings.TrimSpace(e.Description)
	if e.Description == "" {
		return fmt.Errorf("description is required")
	}
	if !e.Category.Valid() {
		return fmt.Errorf("invalid expense category %q", e.Category)
	}
	if e.Method == "" {
		e.Method = PagoEfectivo
	}
	if !e.Method.Valid() {
		return fmt.Errorf("invalid payment method %q", e.Method)
	}
	if e.Status == "" {
		e.Status = GastoPagado
	}
	if !e.Status.Valid() {
		return fmt.Errorf("invalid expense status %q", e.Status)
	}
	if e.Recurring {
		if !e.Period.Valid() {
			return fmt.Errorf("recurring expense needs a valid period, got %q", e.Period)
		}
	} else {
		e.Period = ""
	}
	return nil
}
