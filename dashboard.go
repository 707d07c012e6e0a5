package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"edificio/pkg/dashboard"
)

func (a *app) dashboardHandler(c *gin.Context) {
	o := dashboard.Build(a.payments.All(), a.expenses.All(), time.Now().UTC())
	c.JSON(http.StatusOK, o)
}
