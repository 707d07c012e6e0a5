package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"edificio/models"
	"edificio/pkg/export"
	"edificio/pkg/filter"
	"edificio/pkg/receipt"
)

type paymentRequest struct {
	TenantID    int     `json:"tenant_id" binding:"required"`
	Amount      float64 `json:"amount" binding:"required"`
	Date        string  `json:"date"`
	DueDate     string  `json:"due_date"`
	Type        string  `json:"type"`
	Status      string  `json:"status"`
	Description string  `json:"description"`
	ReceiptNo   string  `json:"receipt_number"`
}

func (r paymentRequest) toModel() (models.Payment, error) {
	p := models.Payment{
		TenantID:    r.TenantID,
		Amount:      r.Amount,
		Type:        models.PaymentType(r.Type),
		Status:      models.PaymentStatus(r.Status),
		Description: r.Description,
		ReceiptNo:   r.ReceiptNo,
	}
	if r.Date != "" {
		d, err := parseDate(r.Date)
		if err != nil {
			return p, fmt.Errorf("invalid payment date")
		}
		p.Date = d
	} else {
		p.Date = time.Now().UTC()
	}
	if r.DueDate != "" {
		d, err := parseDate(r.DueDate)
		if err != nil {
			return p, fmt.Errorf("invalid due date")
		}
		p.DueDate = d
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

func (a *app) paymentRows(payments []models.Payment) []filter.Row {
	rows := make([]filter.Row, 0, len(payments))
	for _, p := range payments {
		name := a.tenantName(p.TenantID)
		rows = append(rows, filter.Row{
			ID:       p.ID,
			Date:     p.Date,
			Amount:   p.Amount,
			Category: string(p.Type),
			Status:   string(p.Status),
			Name:     name,
			Extra:    []string{p.Description, p.ReceiptNo},
		})
	}
	return rows
}

// checkTenantRef enforces referential integrity at write time: a payment may
// not be created against a tenant that does not exist. Legacy rows that lost
// their tenant later still render with the "Desconocido" placeholder.
func (a *app) checkTenantRef(c *gin.Context, tenantID int) bool {
	if _, err := a.tenants.Get(tenantID); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": fmt.Sprintf("unknown tenant %d", tenantID)})
		return false
	}
	return true
}

func (a *app) listPaymentsHandler(c *gin.Context) {
	payments := a.payments.All()
	res := filter.Apply(a.paymentRows(payments), criteriaFromQuery(c))
	byID := make(map[int]models.Payment, len(payments))
	for _, p := range payments {
		byID[p.ID] = p
	}
	type paymentView struct {
		models.Payment
		TenantName string `json:"tenant_name"`
	}
	items := make([]paymentView, 0, len(res.Rows))
	for _, row := range res.Rows {
		items = append(items, paymentView{Payment: byID[row.ID], TenantName: row.Name})
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "summary": res.Summary})
}

func (a *app) getPaymentHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	p, err := a.payments.Get(id)
	if notFound(c, err) {
		return
	}
	c.JSON(http.StatusOK, p)
}

func (a *app) createPaymentHandler(c *gin.Context) {
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if !a.checkTenantRef(c, p.TenantID) {
		return
	}
	stored, err := a.payments.Create(p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, stored)
}

func (a *app) updatePaymentHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if !a.checkTenantRef(c, p.TenantID) {
		return
	}
	updated, err := a.payments.Update(id, p)
	if notFound(c, err) {
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (a *app) deletePaymentHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := a.payments.Delete(id); err != nil {
		if notFound(c, err) {
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *app) exportPaymentsHandler(c *gin.Context) {
	csvHeaders(c, "payments.csv")
	if err := export.Payments(c.Writer, a.payments.All(), a.tenantName); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
	}
}

// emailReceiptHandler generates the PDF receipt for a payment and mails it to
// the tenant. Delivery problems come back as an ok+message pair, never as a
// hard failure.
func (a *app) emailReceiptHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	p, err := a.payments.Get(id)
	if notFound(c, err) {
		return
	}
	tenant, err := a.tenants.Get(p.TenantID)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "tenant no longer exists"})
		return
	}
	if tenant.Email == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "tenant has no email address"})
		return
	}

	dir := filepath.Join(a.dataDir, "receipts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "mkdir failed"})
		return
	}
	number := p.ReceiptNo
	if number == "" {
		number = fmt.Sprintf("%d", p.ID)
	}
	pdfPath := filepath.Join(dir, fmt.Sprintf("recibo_%d.pdf", p.ID))
	if err := receipt.Generate(pdfPath, receipt.Data{
		Number:     number,
		TenantName: tenant.Name,
		Apartment:  tenant.Apartment,
		Amount:     p.Amount,
		Date:       p.Date,
		Method:     string(p.Type),
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "receipt generation failed"})
		return
	}

	res := a.mail.SendReceipt(tenant.Email, tenant.Name, pdfPath, p.Date, p.Amount)
	c.JSON(http.StatusOK, res)
}
