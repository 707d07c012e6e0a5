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
)

type tenantRequest struct {
	Name           string  `json:"name" binding:"required"`
	Apartment      string  `json:"apartment" binding:"required"`
	RentAmount     float64 `json:"rent_amount" binding:"required"`
	Status         string  `json:"status"`
	Identification string  `json:"identification"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	Profession     string  `json:"profession"`
	EntryDate      string  `json:"entry_date"`
	Deposit        float64 `json:"deposit"`
	EmergencyName  string  `json:"emergency_name"`
	EmergencyPhone string  `json:"emergency_phone"`
	Notes          string  `json:"notes"`
}

func (r tenantRequest) toModel() (models.Tenant, error) {
	t := models.Tenant{
		Name:           r.Name,
		Apartment:      r.Apartment,
		RentAmount:     r.RentAmount,
		Status:         models.TenantStatus(r.Status),
		Identification: r.Identification,
		Email:          r.Email,
		Phone:          r.Phone,
		Profession:     r.Profession,
		Deposit:        r.Deposit,
		EmergencyName:  r.EmergencyName,
		EmergencyPhone: r.EmergencyPhone,
		Notes:          r.Notes,
	}
	if r.EntryDate != "" {
		d, err := parseDate(r.EntryDate)
		if err != nil {
			return t, fmt.Errorf("invalid entry date")
		}
		t.EntryDate = d
	} else {
		t.EntryDate = time.Now().UTC()
	}
	if err := t.Validate(); err != nil {
		return t, err
	}
	return t, nil
}

func tenantRows(tenants []models.Tenant) []filter.Row {
	rows := make([]filter.Row, 0, len(tenants))
	for _, t := range tenants {
		rows = append(rows, filter.Row{
			ID:       t.ID,
			Date:     t.EntryDate,
			Amount:   t.RentAmount,
			Category: t.Apartment,
			Status:   string(t.Status),
			Name:     t.Name,
			Extra:    []string{t.Identification, t.Email, t.Phone, t.Profession, t.Notes},
		})
	}
	return rows
}

func (a *app) listTenantsHandler(c *gin.Context) {
	tenants := a.tenants.All()
	res := filter.Apply(tenantRows(tenants), criteriaFromQuery(c))
	byID := make(map[int]models.Tenant, len(tenants))
	for _, t := range tenants {
		byID[t.ID] = t
	}
	items := make([]models.Tenant, 0, len(res.Rows))
	for _, row := range res.Rows {
		items = append(items, byID[row.ID])
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "summary": res.Summary})
}

func (a *app) getTenantHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	t, err := a.tenants.Get(id)
	if notFound(c, err) {
		return
	}
	c.JSON(http.StatusOK, t)
}

func (a *app) createTenantHandler(c *gin.Context) {
	var req tenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	stored, err := a.tenants.Create(t)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, stored)
}

func (a *app) updateTenantHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	existing, err := a.tenants.Get(id)
	if notFound(c, err) {
		return
	}
	var req tenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	// Document paths are managed by the upload endpoint, not the form.
	t.IDDocumentPath = existing.IDDocumentPath
	t.ContractPath = existing.ContractPath
	updated, err := a.tenants.Update(id, t)
	if notFound(c, err) {
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (a *app) deleteTenantHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := a.tenants.Delete(id); err != nil {
		if notFound(c, err) {
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *app) exportTenantsHandler(c *gin.Context) {
	csvHeaders(c, "tenants.csv")
	if err := export.Tenants(c.Writer, a.tenants.All()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
	}
}

// uploadTenantDocumentHandler stores an id or contract document for a tenant
// and records its path on the record.
func (a *app) uploadTenantDocumentHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	t, err := a.tenants.Get(id)
	if notFound(c, err) {
		return
	}
	kind := c.PostForm("kind")
	if kind != "id" && kind != "contract" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be 'id' or 'contract'"})
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file missing"})
		return
	}
	if file.Size > 5*1024*1024 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large (max 5MB)"})
		return
	}
	dir := filepath.Join(a.dataDir, "documents", fmt.Sprintf("%d", id))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "mkdir failed"})
		return
	}
	fullPath := filepath.Join(dir, filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, fullPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	if kind == "id" {
		t.IDDocumentPath = fullPath
	} else {
		t.ContractPath = fullPath
	}
	updated, err := a.tenants.Update(id, t)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": fullPath, "tenant": updated})
}
