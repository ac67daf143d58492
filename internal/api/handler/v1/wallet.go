package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/questevent/questevent-api/internal/api/handler/v1/response"
	"github.com/questevent/questevent-api/internal/domain"
)

type WalletService interface {
	GetWalletBalance(ctx context.Context, userID uint) (domain.UserWallet, error)
	GetProgramWalletBalance(ctx context.Context, userID, programID uint) (domain.ProgramWallet, error)
	ListProgramWallets(ctx context.Context, actor domain.User, programID uint) ([]domain.ProgramWallet, error)
}

type WalletHandler struct {
	svc  WalletService
	uSvc UserService
}

func NewWalletHandler(svc WalletService, uSvc UserService) *WalletHandler {
	return &WalletHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleGetMyWallet godoc
// @Summary      Get the caller's gem wallet
// @Tags         wallets
// @Produce      json
// @Success      200  {object}  domain.UserWallet
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /wallets/me [get]
// @Security     BearerAuth
func (h *WalletHandler) HandleGetMyWallet(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	wallet, err := h.svc.GetWalletBalance(ctx.Request.Context(), user.ID)
	if err != nil {
		response.RenderErr(ctx, response.ErrFromService("v1.HandleGetMyWallet -> h.svc.GetWalletBalance", err))
		return
	}

	ctx.JSON(http.StatusOK, wallet)
}

// HandleGetMyProgramWallet godoc
// @Summary      Get the caller's wallet for a program
// @Tags         wallets
// @Produce      json
// @Param        programID  path      int  true  "Program ID"
// @Success      200        {object}  domain.ProgramWallet
// @Failure      400        {object}  response.Err
// @Failure      401        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /programs/{programID}/wallets/me [get]
// @Security     BearerAuth
func (h *WalletHandler) HandleGetMyProgramWallet(ctx *gin.Context) {
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

	wallet, err := h.svc.GetProgramWalletBalance(ctx.Request.Context(), user.ID, programID)
	if err != nil {
		response.RenderErr(ctx, response.ErrFromService("v1.HandleGetMyProgramWallet -> h.svc.GetProgramWalletBalance", err))
		return
	}

	ctx.JSON(http.StatusOK, wallet)
}

// HandleListProgramWallets godoc
// @Summary      List every wallet of a program
// @Description  Available to the program's host, its judge and owners.
// @Tags         wallets
// @Produce      json
// @Param        programID  path      int  true  "Program ID"
// @Success      200        {array}   domain.ProgramWallet
// @Failure      400        {object}  response.Err
// @Failure      401        {object}  response.Err
// @Failure      403        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /programs/{programID}/wallets [get]
// @Security     BearerAuth
func (h *WalletHandler) HandleListProgramWallets(ctx *gin.Context) {
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

	wallets, err := h.svc.ListProgramWallets(ctx.Request.Context(), user, programID)
	if err != nil {
		response.RenderErr(ctx, response.ErrFromService("v1.HandleListProgramWallets -> h.svc.ListProgramWallets", err))
		return
	}

	ctx.JSON(http.StatusOK, wallets)
}
