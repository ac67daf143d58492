package v1

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/questevent/questevent-api/internal/api/handler/v1/response"
	"github.com/questevent/questevent-api/internal/domain"
	"github.com/questevent/questevent-api/internal/service"
)

type SettlementService interface {
	ManuallySettleExpiredProgramWallets(ctx context.Context, actor domain.User, programID uint) (domain.SettlementResult, error)
	AutoSettleExpiredPrograms(ctx context.Context) (domain.SettlementReport, error)
}

type SettlementHandler struct {
	svc  SettlementService
	uSvc UserService
}

func NewSettlementHandler(svc SettlementService, uSvc UserService) *SettlementHandler {
	return &SettlementHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleSettleProgram godoc
// @Summary      Settle a program now
// @Description  Moves every program wallet balance into its owner's gem wallet and completes the program.
// @Tags         settlements
// @Produce      json
// @Param        programID  path      int  true  "Program ID"
// @Success      200        {object}  domain.SettlementResult
// @Failure      400        {object}  response.Err
// @Failure      403        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      409        {object}  response.Err
// @Failure      503        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /programs/{programID}/settle [post]
// @Security     BearerAuth
func (h *SettlementHandler) HandleSettleProgram(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	programID, err := strconv.ParseUint(ctx.Param("programID"), 10, 64)
	if err != nil || programID == 0 {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("%w: %q", service.ErrInvalidProgramID, ctx.Param("programID"))))
		return
	}

	result, err := h.svc.ManuallySettleExpiredProgramWallets(ctx.Request.Context(), user, uint(programID))
	if err != nil {
		response.RenderErr(ctx, response.ErrFromService("v1.HandleSettleProgram -> h.svc.ManuallySettleExpiredProgramWallets", err))
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// HandleRunSettlements godoc
// @Summary      Run the expired-program sweep now
// @Description  Owners only. Per-program failures are listed in the report and do not fail the request.
// @Tags         settlements
// @Produce      json
// @Success      200  {object}  domain.SettlementReport
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      503  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/settlements/run [post]
// @Security     BearerAuth
func (h *SettlementHandler) HandleRunSettlements(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.CanOperate() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %d is not an owner", user.ID)))
		return
	}

	report, err := h.svc.AutoSettleExpiredPrograms(ctx.Request.Context())
	if err != nil && len(report.Failed) == 0 {
		response.RenderErr(ctx, response.ErrFromService("v1.HandleRunSettlements -> h.svc.AutoSettleExpiredPrograms", err))
		return
	}

	ctx.JSON(http.StatusOK, report)
}
