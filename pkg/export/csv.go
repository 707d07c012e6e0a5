// Package export renders entity collections as CSV with a fixed header row.
// Currency columns are locale-formatted strings, not raw numbers.
package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"edificio/models"
)

var printer = message.NewPrinter(language.Spanish)

func money(v float64) string {
	return printer.Sprintf("%.2f €", v)
}

func day(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}

func Tenants(w io.Writer, tenants []models.Tenant) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"ID", "Nombre", "Apartamento", "Renta", "Estado", "Identificación",
		"Email", "Teléfono", "Fecha de entrada", "Depósito",
	}); err != nil {
		return err
	}
	for _, t := range tenants {
		if err := cw.Write([]string{
			itoa(t.ID), t.Name, t.Apartment, money(t.RentAmount), string(t.Status),
			t.Identification, t.Email, t.Phone, day(t.EntryDate), money(t.Deposit),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Payments resolves tenant names through nameOf so the caller controls the
// placeholder for dangling references.
func Payments(w io.Writer, payments []models.Payment, nameOf func(int) string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"ID", "Inquilino", "Importe", "Fecha", "Vencimiento", "Tipo", "Estado", "Recibo",
	}); err != nil {
		return err
	}
	for _, p := range payments {
		if err := cw.Write([]string{
			itoa(p.ID), nameOf(p.TenantID), money(p.Amount), day(p.Date),
			day(p.DueDate), string(p.Type), string(p.Status), p.ReceiptNo,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func Expenses(w io.Writer, expenses []models.Expense) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"ID", "Importe", "Fecha", "Categoría", "Descripción", "Proveedor",
		"Factura", "Método", "Estado",
	}); err != nil {
		return err
	}
	for _, e := range expenses {
		if err := cw.Write([]string{
			itoa(e.ID), money(e.Amount), day(e.Date), string(e.Category),
			e.Description, e.Provider, e.InvoiceNo, string(e.Method), string(e.Status),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func itoa(v int) string {
	return strconv.Itoa(v)
}
