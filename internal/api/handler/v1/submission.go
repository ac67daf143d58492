package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/questevent/questevent-api/internal/api/handler/v1/request"
	"github.com/questevent/questevent-api/internal/api/handler/v1/response"
	"github.com/questevent/questevent-api/internal/domain"
)

type SubmissionService interface {
	Submit(ctx context.Context, actor domain.User, activityID uint, submissionURL string) (domain.Submission, error)
	ApproveSubmission(ctx context.Context, reviewer domain.User, submissionID uint) (domain.ReviewResult, error)
	RejectSubmission(ctx context.Context, reviewer domain.User, submissionID uint, reason string) (domain.Submission, error)
	ListPending(ctx context.Context, reviewer domain.User) ([]domain.Submission, error)
}

type SubmissionHandler struct {
	svc  SubmissionService
	uSvc UserService
}

func NewSubmissionHandler(svc SubmissionService, uSvc UserService) *SubmissionHandler {
	return &SubmissionHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleSubmit godoc
// @Summary      Submit work for an activity
// @Tags         submissions
// @Accept       json
// @Produce      json
// @Param        activityID  path      int                               true  "Activity ID"
// @Param        input       body      request.CreateSubmissionRequest  true  "Submission"
// @Success      201         {object}  domain.Submission
// @Failure      400         {object}  response.Err
// @Failure      403         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      409         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /activities/{activityID}/submissions [post]
// @Security     BearerAuth
func (h *SubmissionHandler) HandleSubmit(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	activityID, err := parseIDParam(ctx, "activityID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var input request.CreateSubmissionRequest
	if err = ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	submission, err := h.svc.Submit(ctx.Request.Context(), user, activityID, input.SubmissionURL)
	if err != nil {
		response.RenderErr(ctx, response.ErrFromService("v1.HandleSubmit -> h.svc.Submit", err))
		return
	}

	ctx.JSON(http.StatusCreated, submission)
}

// HandleListPending godoc
// @Summary      List submissions awaiting review
// @Description  Owners see every pending submission, judges only those of programs they judge.
// @Tags         submissions
// @Produce      json
// @Success      200  {array}   domain.Submission
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /submissions/pending [get]
// @Security     BearerAuth
func (h *SubmissionHandler) HandleListPending(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	submissions, err := h.svc.ListPending(ctx.Request.Context(), user)
	if err != nil {
		response.RenderErr(ctx, response.ErrFromService("v1.HandleListPending -> h.svc.ListPending", err))
		return
	}

	ctx.JSON(http.StatusOK, submissions)
}

// HandleApprove godoc
// @Summary      Approve a submission
// @Description  Credits the activity's reward to the submitter's program wallet and, when enabled, their gem wallet.
// @Tags         submissions
// @Produce      json
// @Param        submissionID  path      int  true  "Submission ID"
// @Success      200           {object}  domain.ReviewResult
// @Failure      400           {object}  response.Err
// @Failure      403           {object}  response.Err
// @Failure      404           {object}  response.Err
// @Failure      409           {object}  response.Err
// @Failure      503           {object}  response.Err
// @Failure      500           {object}  response.Err
// @Router       /submissions/{submissionID}/approve [post]
// @Security     BearerAuth
func (h *SubmissionHandler) HandleApprove(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	submissionID, err := parseIDParam(ctx, "submissionID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	result, err := h.svc.ApproveSubmission(ctx.Request.Context(), user, submissionID)
	if err != nil {
		response.RenderErr(ctx, response.ErrFromService("v1.HandleApprove -> h.svc.ApproveSubmission", err))
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// HandleReject godoc
// @Summary      Reject a submission
// @Tags         submissions
// @Accept       json
// @Produce      json
// @Param        submissionID  path      int                               true  "Submission ID"
// @Param        input         body      request.RejectSubmissionRequest  true  "Reason"
// @Success      200           {object}  domain.Submission
// @Failure      400           {object}  response.Err
// @Failure      403           {object}  response.Err
// @Failure      404           {object}  response.Err
// @Failure      409           {object}  response.Err
// @Failure      500           {object}  response.Err
// @Router       /submissions/{submissionID}/reject [post]
// @Security     BearerAuth
func (h *SubmissionHandler) HandleReject(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	submissionID, err := parseIDParam(ctx, "submissionID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var input request.RejectSubmissionRequest
	if err = ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	submission, err := h.svc.RejectSubmission(ctx.Request.Context(), user, submissionID, input.Reason)
	if err != nil {
		response.RenderErr(ctx, response.ErrFromService("v1.HandleReject -> h.svc.RejectSubmission", err))
		return
	}

	ctx.JSON(http.StatusOK, submission)
}
