package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"edificio/models"
	"edificio/pkg/export"
	"edificio/pkg/filter"
)

type expenseRequest struct {
	Amount      float64 `json:"amount" binding:"required"`
	Date        string  `json:"date"`
	Category    string  `json:"category" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Provider    string  `json:"provider"`
	InvoiceNo   string  `json:"invoice_number"`
	Method      string  `json:"payment_method"`
	Status      string  `json:"status"`
	Recurring   bool    `json:"recurring"`
	Period      string  `json:"recurrence_period"`
}

func (r expenseRequest) toModel() (models.Expense, error) {
	e := models.Expense{
		Amount:      r.Amount,
		Category:    models.ExpenseCategory(r.Category),
		Description: r.Description,
		Provider:    r.Provider,
		InvoiceNo:   r.InvoiceNo,
		Method:      models.PaymentType(r.Method),
		Status:      models.ExpenseStatus(r.Status),
		Recurring:   r.Recurring,
		Period:      models.RecurrencePeriod(r.Period),
	}
	if r.Date != "" {
		d, err := parseDate(r.Date)
		if err != nil {
			return e, fmt.Errorf("invalid expense date")
		}
		e.Date = d
	} else {
		e.Date = time.Now().UTC()
	}
	if err := e.Validate(); err != nil {
		return e, err
	}
	return e, nil
}

func expenseRows(expenses []models.Expense) []filter.Row {
	rows := make([]filter.Row, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, filter.Row{
			ID:       e.ID,
			Date:     e.Date,
			Amount:   e.Amount,
			Category: string(e.Category),
			Status:   string(e.Status),
			Name:     e.Provider,
			Extra:    []string{e.Description, e.InvoiceNo, string(e.Method)},
		})
	}
	return rows
}

func (a *app) listExpensesHandler(c *gin.Context) {
	expenses := a.expenses.All()
	res := filter.Apply(expenseRows(expenses), criteriaFromQuery(c))
	byID := make(map[int]models.Expense, len(expenses))
	for _, e := range expenses {
		byID[e.ID] = e
	}
	items := make([]models.Expense, 0, len(res.Rows))
	for _, row := range res.Rows {
		items = append(items, byID[row.ID])
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "summary": res.Summary})
}

func (a *app) getExpenseHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	e, err := a.expenses.Get(id)
	if notFound(c, err) {
		return
	}
	c.JSON(http.StatusOK, e)
}

func (a *app) createExpenseHandler(c *gin.Context) {
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	e, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	stored, err := a.expenses.Create(e)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, stored)
}

func (a *app) updateExpenseHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	e, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	updated, err := a.expenses.Update(id, e)
	if notFound(c, err) {
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (a *app) deleteExpenseHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := a.expenses.Delete(id); err != nil {
		if notFound(c, err) {
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *app) exportExpensesHandler(c *gin.Context) {
	csvHeaders(c, "expenses.csv")
	if err := export.Expenses(c.Writer, a.expenses.All()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
	}
}
