package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/questevent/questevent-api/internal/api/handler/v1/request"
	"github.com/questevent/questevent-api/internal/api/handler/v1/response"
	"github.com/questevent/questevent-api/internal/domain"
)

type UserHandler struct {
	svc UserService
}

func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{
		svc: svc,
	}
}

// HandleGetUser godoc
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Param        userID  path      int  true  "User ID"
// @Success      200     {object}  domain.User
// @Failure      400     {object}  response.Err
// @Failure      401     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /users/{userID} [get]
// @Security     BearerAuth
func (h *UserHandler) HandleGetUser(ctx *gin.Context) {
	userID, err := parseIDParam(ctx, "userID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, err := h.svc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		response.RenderErr(ctx, response.ErrFromService("v1.HandleGetUser -> h.svc.GetUser", err))
		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleCompleteProfile godoc
// @Summary      Complete the caller's profile
// @Description  Records department and gender and opens the caller's gem wallet. Can be done once.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request  body      request.CompleteProfileRequest  true  "profile"
// @Success      201      {object}  response.ProfileResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /users/me/profile [post]
// @Security     BearerAuth
func (h *UserHandler) HandleCompleteProfile(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CompleteProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	updated, wallet, err := h.svc.CompleteProfile(ctx.Request.Context(), user.ID, domain.Department(req.Department), req.Gender)
	if err != nil {
		response.RenderErr(ctx, response.ErrFromService("v1.HandleCompleteProfile -> h.svc.CompleteProfile", err))
		return
	}

	ctx.JSON(http.StatusCreated, response.ProfileResponse{
		User:   updated,
		Wallet: wallet,
	})
}
