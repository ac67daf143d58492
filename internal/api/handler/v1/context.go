package v1

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/questevent/questevent-api/internal/api/handler/v1/response"
	"github.com/questevent/questevent-api/internal/api/middleware"
	"github.com/questevent/questevent-api/internal/domain"
	"github.com/questevent/questevent-api/internal/service"
)

type UserService interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
	CompleteProfile(ctx context.Context, userID uint, department domain.Department, gender string) (domain.User, domain.UserWallet, error)
}

var errInvalidID = errors.New("id must be a positive integer")

// getUserFromContext loads the user authenticated by middleware.Authenticator.
func getUserFromContext(ctx *gin.Context, uSvc UserService) (domain.User, *response.Err) {
	userID := ctx.GetUint(middleware.ContextKeyUserID)
	if userID == 0 {
		return domain.User{}, response.ErrUnauthenticated(errors.New("no authenticated user"))
	}

	user, err := uSvc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return domain.User{}, response.ErrUnauthenticated(fmt.Errorf("user %d no longer exists", userID))
		}

		return domain.User{}, response.ErrFromService("getUserFromContext -> uSvc.GetUser", err)
	}

	return user, nil
}

func parseIDParam(ctx *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%s: %w", name, errInvalidID)
	}

	return uint(id), nil
}
