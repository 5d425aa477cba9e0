package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LiveClassController struct {
	Service *service.LiveClassService
}

func NewLiveClassController(svc *service.LiveClassService) *LiveClassController {
	return &LiveClassController{Service: svc}
}

// @Summary Schedule a live class
// @Tags Live classes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param body body service.LiveClassRequest true "Live class"
// @Success 201 {object} util.Response{data=model.LiveClass}
// @Router /api/courses/{id}/live-classes [post]
func (c *LiveClassController) Create(ctx *gin.Context) {
	courseID, err := util.ParamID(ctx, "id")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	var req service.LiveClassRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lc, err := c.Service.Create(util.ActorFromContext(ctx), courseID, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, lc)
}

// @Summary Live classes of a course
// @Tags Live classes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} util.Response{data=[]model.LiveClass}
// @Router /api/courses/{id}/live-classes [get]
func (c *LiveClassController) ListByCourse(ctx *gin.Context) {
	courseID, err := util.ParamID(ctx, "id")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	list, err := c.Service.ListByCourse(util.ActorFromContext(ctx), courseID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// @Summary Update a live class
// @Tags Live classes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Live class ID"
// @Param body body service.LiveClassRequest true "Live class"
// @Success 200 {object} util.Response{data=model.LiveClass}
// @Router /api/live-classes/{id} [put]
func (c *LiveClassController) Update(ctx *gin.Context) {
	id, err := util.ParamID(ctx, "id")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	var req service.LiveClassRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lc, err := c.Service.Update(util.ActorFromContext(ctx), id, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, lc)
}

// @Summary Delete a live class
// @Tags Live classes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Live class ID"
// @Success 200 {object} util.Response
// @Router /api/live-classes/{id} [delete]
func (c *LiveClassController) Delete(ctx *gin.Context) {
	id, err := util.ParamID(ctx, "id")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	if err := c.Service.Delete(util.ActorFromContext(ctx), id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary Join token for a live class
// @Description Mints a short-lived video room token; the owning teacher joins as moderator
// @Tags Live classes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Live class ID"
// @Success 200 {object} util.Response{data=service.JoinToken}
// @Router /api/live-classes/{id}/token [post]
func (c *LiveClassController) Token(ctx *gin.Context) {
	id, err := util.ParamID(ctx, "id")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	token, err := c.Service.JoinToken(util.ActorFromContext(ctx), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, token)
}
