package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	Service *service.NotificationService
}

func NewNotificationController(svc *service.NotificationService) *NotificationController {
	return &NotificationController{Service: svc}
}

// @Summary Recent notification deliveries
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum entries" default(50)
// @Success 200 {object} util.Response{data=[]model.NotificationRecord}
// @Router /api/admin/notifications [get]
func (c *NotificationController) Recent(ctx *gin.Context) {
	limit, err := strconv.ParseInt(ctx.DefaultQuery("limit", "50"), 10, 64)
	if err != nil || limit <= 0 {
		util.BadRequest(ctx, "limit must be a positive integer")
		return
	}

	records, err := c.Service.Recent(ctx.Request.Context(), limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, records)
}
