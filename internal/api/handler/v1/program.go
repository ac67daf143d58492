package v1

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/questevent/questevent-api/internal/api/handler/v1/request"
	"github.com/questevent/questevent-api/internal/api/handler/v1/response"
	"github.com/questevent/questevent-api/internal/domain"
)

type ProgramService interface {
	CreateProgram(ctx context.Context, actor domain.User, program domain.Program) (domain.Program, error)
	GetProgram(ctx context.Context, id uint) (domain.Program, error)
	ActivateProgram(ctx context.Context, actor domain.User, id uint) (domain.Program, error)
	AssignJudge(ctx context.Context, actor domain.User, programID, judgeID uint) (domain.Program, error)
	CreateActivity(ctx context.Context, actor domain.User, activity domain.Activity) (domain.Activity, error)
	ListActivities(ctx context.Context, programID uint) ([]domain.Activity, error)
}

type RegistrationService interface {
	RegisterForProgram(ctx context.Context, actor domain.User, programID, userID uint) (domain.ProgramWallet, error)
}

type ProgramHandler struct {
	svc          ProgramService
	registration RegistrationService
	uSvc         UserService
}

func NewProgramHandler(svc ProgramService, registration RegistrationService, uSvc UserService) *ProgramHandler {
	return &ProgramHandler{
		svc:          svc,
		registration: registration,
		uSvc:         uSvc,
	}
}

// HandleCreateProgram godoc
// @Summary      Create a program
// @Description  Creates a DRAFT program hosted by the caller. Hosts and owners only.
// @Tags         programs
// @Accept       json
// @Produce      json
// @Param        input  body      request.CreateProgramRequest  true  "Program details"
// @Success      201    {object}  domain.Program
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /programs [post]
// @Security     BearerAuth
func (h *ProgramHandler) HandleCreateProgram(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.CreateProgramRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	program, err := h.svc.CreateProgram(ctx.Request.Context(), user, domain.Program{
		Title:           input.Title,
		Description:     input.Description,
		Department:      domain.Department(input.Department),
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		RegistrationFee: input.RegistrationFee,
	})
	if err != nil {
		response.RenderErr(ctx, response.ErrFromService("v1.HandleCreateProgram -> h.svc.CreateProgram", err))
		return
	}

	ctx.JSON(http.StatusCreated, program)
}

// HandleGetProgram godoc
// @Summary      Get a program
// @Tags         programs
// @Produce      json
// @Param        programID  path      int  true  "Program ID"
// @Success      200        {object}  domain.Program
// @Failure      400        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /programs/{programID} [get]
// @Security     BearerAuth
func (h *ProgramHandler) HandleGetProgram(ctx *gin.Context) {
	programID, err := parseIDParam(ctx, "programID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	program, err := h.svc.GetProgram(ctx.Request.Context(), programID)
	if err != nil {
		response.RenderErr(ctx, response.ErrFromService("v1.HandleGetProgram -> h.svc.GetProgram", err))
		return
	}

	ctx.JSON(http.StatusOK, program)
}

// HandleActivateProgram godoc
// @Summary      Activate a DRAFT program
// @Tags         programs
// @Produce      json
// @Param        programID  path      int  true  "Program ID"
// @Success      200        {object}  domain.Program
// @Failure      400        {object}  response.Err
// @Failure      403        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /programs/{programID}/activate [post]
// @Security     BearerAuth
func (h *ProgramHandler) HandleActivateProgram(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	programID, err := parseIDParam(ctx, "programID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	program, err := h.svc.ActivateProgram(ctx.Request.Context(), user, programID)
	if err != nil {
		response.RenderErr(ctx, response.ErrFromService("v1.HandleActivateProgram -> h.svc.ActivateProgram", err))
		return
	}

	ctx.JSON(http.StatusOK, program)
}

// HandleAssignJudge godoc
// @Summary      Assign the program's judge
// @Tags         programs
// @Accept       json
// @Produce      json
// @Param        programID  path      int                          true  "Program ID"
// @Param        input      body      request.AssignJudgeRequest  true  "Judge"
// @Success      200        {object}  domain.Program
// @Failure      400        {object}  response.Err
// @Failure      403        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      409        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /programs/{programID}/judge [put]
// @Security     BearerAuth
func (h *ProgramHandler) HandleAssignJudge(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	programID, err := parseIDParam(ctx, "programID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var input request.AssignJudgeRequest
	if err = ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	program, err := h.svc.AssignJudge(ctx.Request.Context(), user, programID, input.JudgeID)
	if err != nil {
		response.RenderErr(ctx, response.ErrFromService("v1.HandleAssignJudge -> h.svc.AssignJudge", err))
		return
	}

	ctx.JSON(http.StatusOK, program)
}

// HandleCreateActivity godoc
// @Summary      Add an activity to a program
// @Tags         activities
// @Accept       json
// @Produce      json
// @Param        programID  path      int                             true  "Program ID"
// @Param        input      body      request.CreateActivityRequest  true  "Activity"
// @Success      201        {object}  domain.Activity
// @Failure      400        {object}  response.Err
// @Failure      403        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      409        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /programs/{programID}/activities [post]
// @Security     BearerAuth
func (h *ProgramHandler) HandleCreateActivity(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	programID, err := parseIDParam(ctx, "programID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var input request.CreateActivityRequest
	if err = ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	activity, err := h.svc.CreateActivity(ctx.Request.Context(), user, domain.Activity{
		ProgramID:    programID,
		Name:         input.Name,
		Description:  input.Description,
		Rulebook:     input.Rulebook,
		DurationMins: input.DurationMins,
		RewardGems:   input.RewardGems,
		IsCompulsory: input.IsCompulsory,
	})
	if err != nil {
		response.RenderErr(ctx, response.ErrFromService("v1.HandleCreateActivity -> h.svc.CreateActivity", err))
		return
	}

	ctx.JSON(http.StatusCreated, activity)
}

// HandleListActivities godoc
// @Summary      List a program's activities
// @Tags         activities
// @Produce      json
// @Param        programID  path      int  true  "Program ID"
// @Success      200        {array}   domain.Activity
// @Failure      400        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /programs/{programID}/activities [get]
// @Security     BearerAuth
func (h *ProgramHandler) HandleListActivities(ctx *gin.Context) {
	programID, err := parseIDParam(ctx, "programID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	activities, err := h.svc.ListActivities(ctx.Request.Context(), programID)
	if err != nil {
		response.RenderErr(ctx, response.ErrFromService("v1.HandleListActivities -> h.svc.ListActivities", err))
		return
	}

	ctx.JSON(http.StatusOK, activities)
}

// HandleRegister godoc
// @Summary      Register for a program
// @Description  Registers the caller, or user_id when the caller hosts the program, and opens the program wallet.
// @Tags         programs
// @Accept       json
// @Produce      json
// @Param        programID  path      int                       true   "Program ID"
// @Param        input      body      request.RegisterRequest  false  "Registrant"
// @Success      201        {object}  domain.ProgramWallet
// @Failure      400        {object}  response.Err
// @Failure      403        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      409        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /programs/{programID}/registrations [post]
// @Security     BearerAuth
func (h *ProgramHandler) HandleRegister(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	programID, err := parseIDParam(ctx, "programID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var input request.RegisterRequest
	if err = ctx.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	userID := input.UserID
	if userID == 0 {
		userID = user.ID
	}

	wallet, err := h.registration.RegisterForProgram(ctx.Request.Context(), user, programID, userID)
	if err != nil {
		response.RenderErr(ctx, response.ErrFromService("v1.HandleRegister -> h.registration.RegisterForProgram", err))
		return
	}

	ctx.JSON(http.StatusCreated, wallet)
}
