package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SubmissionController struct {
	Service *service.SubmissionService
}

func NewSubmissionController(svc *service.SubmissionService) *SubmissionController {
	return &SubmissionController{Service: svc}
}

// @Summary Submit an attempt
// @Description Auto-graded on arrival; essays wait for the teacher
// @Tags Submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assessment ID"
// @Param body body service.SubmitAssessmentRequest true "Answers"
// @Success 200 {object} util.Response{data=model.AssessmentSubmission}
// @Failure 400 {object} util.Response "Closed assessment or no attempts left"
// @Failure 403 {object} util.Response "Not enrolled"
// @Router /api/assessments/{id}/submit [post]
func (c *SubmissionController) Submit(ctx *gin.Context) {
	id, err := util.ParamID(ctx, "id")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	var req service.SubmitAssessmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Service.Submit(ctx.Request.Context(), util.ActorFromContext(ctx), id, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, result.Message, result.Submission)
}

// @Summary My attempts
// @Tags Submissions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assessment ID"
// @Success 200 {object} util.Response{data=[]model.AssessmentSubmission}
// @Router /api/assessments/{id}/my-submissions [get]
func (c *SubmissionController) Mine(ctx *gin.Context) {
	id, err := util.ParamID(ctx, "id")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	subs, err := c.Service.MySubmissions(util.ActorFromContext(ctx), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, subs)
}

// @Summary All attempts of an assessment
// @Tags Submissions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assessment ID"
// @Success 200 {object} util.Response{data=[]model.AssessmentSubmission}
// @Router /api/assessments/{id}/submissions [get]
func (c *SubmissionController) ListByAssessment(ctx *gin.Context) {
	id, err := util.ParamID(ctx, "id")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	subs, err := c.Service.ListByAssessment(util.ActorFromContext(ctx), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, subs)
}

// @Summary Get a submission
// @Tags Submissions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Success 200 {object} util.Response{data=model.AssessmentSubmission}
// @Router /api/assessment-submissions/{id} [get]
func (c *SubmissionController) Get(ctx *gin.Context) {
	id, err := util.ParamID(ctx, "id")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	sub, err := c.Service.Get(util.ActorFromContext(ctx), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, sub)
}

// @Summary Grade a submission
// @Description Replaces the graded answers and recomputes the score; the student is notified
// @Tags Submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Param body body service.GradeSubmissionRequest true "Grading"
// @Success 200 {object} util.Response{data=model.AssessmentSubmission}
// @Router /api/assessment-submissions/{id}/grade [put]
func (c *SubmissionController) Grade(ctx *gin.Context) {
	id, err := util.ParamID(ctx, "id")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	var req service.GradeSubmissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sub, err := c.Service.Grade(ctx.Request.Context(), util.ActorFromContext(ctx), id, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, sub)
}
