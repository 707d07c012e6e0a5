package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"edificio/pkg/filter"
	"edificio/pkg/storage"
)

func (a *app) setupRoutes(r *gin.Engine) {
	r.POST("/register", a.registerHandler)
	r.POST("/login", a.loginHandler)

	authGroup := r.Group("")
	authGroup.Use(jwtAuthMiddleware())

	authGroup.GET("/tenants", a.listTenantsHandler)
	authGroup.POST("/tenants", a.createTenantHandler)
	authGroup.GET("/tenants/export", a.exportTenantsHandler)
	authGroup.GET("/tenants/:id", a.getTenantHandler)
	authGroup.PUT("/tenants/:id", a.updateTenantHandler)
	authGroup.DELETE("/tenants/:id", a.deleteTenantHandler)
	authGroup.POST("/tenants/:id/documents", a.uploadTenantDocumentHandler)

	authGroup.GET("/payments", a.listPaymentsHandler)
	authGroup.POST("/payments", a.createPaymentHandler)
	authGroup.GET("/payments/export", a.exportPaymentsHandler)
	authGroup.GET("/payments/:id", a.getPaymentHandler)
	authGroup.PUT("/payments/:id", a.updatePaymentHandler)
	authGroup.DELETE("/payments/:id", a.deletePaymentHandler)
	authGroup.POST("/payments/:id/receipt", a.emailReceiptHandler)

	authGroup.GET("/expenses", a.listExpensesHandler)
	authGroup.POST("/expenses", a.createExpenseHandler)
	authGroup.GET("/expenses/export", a.exportExpensesHandler)
	authGroup.GET("/expenses/:id", a.getExpenseHandler)
	authGroup.PUT("/expenses/:id", a.updateExpenseHandler)
	authGroup.DELETE("/expenses/:id", a.deleteExpenseHandler)

	authGroup.GET("/dashboard", a.dashboardHandler)
}

func jwtAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			c.Abort()
			return
		}
		tokenString := authHeader[7:]
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrInvalidKeyType
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			c.Abort()
			return
		}
		username, _ := claims["username"].(string)
		role, _ := claims["role"].(string)
		c.Set("username", username)
		if role != "" {
			c.Set("role", role)
		}
		c.Next()
	}
}

func (a *app) registerHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := a.registerUser(req.Username, req.Password, "user"); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, errUserExists) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user registered successfully"})
}

func (a *app) loginHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := a.authenticate(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(time.Hour * 24).Unix(),
	})
	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "login successful", "token": tokenString})
}

// idParam parses the :id path segment.
func idParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// criteriaFromQuery maps the search/filter query params onto pipeline criteria.
// Bad values are passed through untouched; the pipeline ignores what it cannot
// parse instead of rejecting the request.
func criteriaFromQuery(c *gin.Context) filter.Criteria {
	return filter.Criteria{
		Query:     c.Query("q"),
		Category:  c.Query("category"),
		Status:    c.Query("status"),
		DateFrom:  c.Query("date_from"),
		DateTo:    c.Query("date_to"),
		AmountMin: c.Query("amount_min"),
		AmountMax: c.Query("amount_max"),
		Sort:      filter.SortKey(c.DefaultQuery("sort", string(filter.SortDateDesc))),
	}
}

func notFound(c *gin.Context, err error) bool {
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return true
	}
	return false
}

// parseDate accepts the date shapes the UI sends.
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	formats := []string{"2006-01-02", "02/01/2006", time.RFC3339}
	for _, format := range formats {
		if t, err := time.Parse(format, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.New("invalid date")
}

// tenantName resolves a soft tenant reference, falling back to the historical
// placeholder for rows whose tenant has since been deleted.
func (a *app) tenantName(id int) string {
	t, err := a.tenants.Get(id)
	if err != nil {
		return "Desconocido"
	}
	return t.Name
}

func csvHeaders(c *gin.Context, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
}
