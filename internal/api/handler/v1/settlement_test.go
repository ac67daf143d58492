package v1

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/questevent/questevent-api/internal/domain"
	"github.com/questevent/questevent-api/internal/service"
)

func TestHandleSettleProgram(t *testing.T) {
	host := domain.User{ID: 7, Role: domain.RoleHost}

	tests := []struct {
		name       string
		target     string
		setup      func(svc *mockSettlementService)
		wantStatus int
		wantError  string
	}{
		{
			name:   "settled",
			target: "/programs/3/settle",
			setup: func(svc *mockSettlementService) {
				svc.On("ManuallySettleExpiredProgramWallets", mock.Anything, host, uint(3)).
					Return(domain.SettlementResult{Transferred: 40}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "non numeric id",
			target:     "/programs/abc/settle",
			setup:      func(*mockSettlementService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "zero id",
			target:     "/programs/0/settle",
			setup:      func(*mockSettlementService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "already completed",
			target: "/programs/3/settle",
			setup: func(svc *mockSettlementService) {
				svc.On("ManuallySettleExpiredProgramWallets", mock.Anything, host, uint(3)).
					Return(domain.SettlementResult{}, service.ErrProgramAlreadyCompleted)
			},
			wantStatus: http.StatusConflict,
			wantError:  service.ErrProgramAlreadyCompleted.Error(),
		},
		{
			name:   "not the host",
			target: "/programs/3/settle",
			setup: func(svc *mockSettlementService) {
				svc.On("ManuallySettleExpiredProgramWallets", mock.Anything, host, uint(3)).
					Return(domain.SettlementResult{}, service.ErrPermissionDenied)
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name:   "unknown program",
			target: "/programs/3/settle",
			setup: func(svc *mockSettlementService) {
				svc.On("ManuallySettleExpiredProgramWallets", mock.Anything, host, uint(3)).
					Return(domain.SettlementResult{}, fmt.Errorf("s.programs.LockByID -> %w", service.ErrProgramNotFound))
			},
			wantStatus: http.StatusNotFound,
			wantError:  service.ErrProgramNotFound.Error(),
		},
		{
			name:   "missing user wallet",
			target: "/programs/3/settle",
			setup: func(svc *mockSettlementService) {
				svc.On("ManuallySettleExpiredProgramWallets", mock.Anything, host, uint(3)).
					Return(domain.SettlementResult{}, fmt.Errorf("user 9 has no wallet: %w", service.ErrWalletNotFound))
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:   "lock timeout",
			target: "/programs/3/settle",
			setup: func(svc *mockSettlementService) {
				svc.On("ManuallySettleExpiredProgramWallets", mock.Anything, host, uint(3)).
					Return(domain.SettlementResult{}, fmt.Errorf("%w: deadlock detected", service.ErrTransientStorage))
			},
			wantStatus: http.StatusServiceUnavailable,
			wantError:  service.ErrTransientStorage.Error(),
		},
		{
			name:   "unexpected",
			target: "/programs/3/settle",
			setup: func(svc *mockSettlementService) {
				svc.On("ManuallySettleExpiredProgramWallets", mock.Anything, host, uint(3)).
					Return(domain.SettlementResult{}, errors.New("disk on fire"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockSettlementService{}
			uSvc := &mockUserService{}
			uSvc.On("GetUser", mock.Anything, host.ID).Return(host, nil)
			tt.setup(svc)

			h := NewSettlementHandler(svc, uSvc)
			router := newTestRouter(host.ID, http.MethodPost, "/programs/:programID/settle", h.HandleSettleProgram)

			rec := serve(router, http.MethodPost, tt.target)
			assert.Equal(t, tt.wantStatus, rec.Code)

			body := decodeBody(t, rec)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, float64(40), body["transferred"])
			}
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body["error"])
			}
			if tt.wantStatus == http.StatusInternalServerError {
				assert.NotContains(t, rec.Body.String(), "disk on fire")
			}

			svc.AssertExpectations(t)
		})
	}
}

func TestHandleSettleProgram_Unauthenticated(t *testing.T) {
	svc := &mockSettlementService{}
	h := NewSettlementHandler(svc, &mockUserService{})
	router := newTestRouter(0, http.MethodPost, "/programs/:programID/settle", h.HandleSettleProgram)

	rec := serve(router, http.MethodPost, "/programs/3/settle")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	svc.AssertNotCalled(t, "ManuallySettleExpiredProgramWallets", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleRunSettlements(t *testing.T) {
	owner := domain.User{ID: 1, Role: domain.RoleOwner}
	host := domain.User{ID: 2, Role: domain.RoleHost}

	t.Run("owners only", func(t *testing.T) {
		svc := &mockSettlementService{}
		uSvc := &mockUserService{}
		uSvc.On("GetUser", mock.Anything, host.ID).Return(host, nil)

		h := NewSettlementHandler(svc, uSvc)
		router := newTestRouter(host.ID, http.MethodPost, "/admin/settlements/run", h.HandleRunSettlements)

		rec := serve(router, http.MethodPost, "/admin/settlements/run")
		assert.Equal(t, http.StatusForbidden, rec.Code)
		svc.AssertNotCalled(t, "AutoSettleExpiredPrograms", mock.Anything)
	})

	t.Run("partial failure still reports", func(t *testing.T) {
		svc := &mockSettlementService{}
		uSvc := &mockUserService{}
		uSvc.On("GetUser", mock.Anything, owner.ID).Return(owner, nil)
		svc.On("AutoSettleExpiredPrograms", mock.Anything).Return(domain.SettlementReport{
			Settled: []uint{4},
			Skipped: []uint{},
			Failed:  []domain.SettlementFailure{{ProgramID: 5, Error: "wallet not found"}},
		}, errors.New("program 5: wallet not found"))

		h := NewSettlementHandler(svc, uSvc)
		router := newTestRouter(owner.ID, http.MethodPost, "/admin/settlements/run", h.HandleRunSettlements)

		rec := serve(router, http.MethodPost, "/admin/settlements/run")
		assert.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		assert.Equal(t, []any{float64(4)}, body["settled"])
		assert.Len(t, body["failed"], 1)
	})

	t.Run("listing expired programs failed", func(t *testing.T) {
		svc := &mockSettlementService{}
		uSvc := &mockUserService{}
		uSvc.On("GetUser", mock.Anything, owner.ID).Return(owner, nil)
		svc.On("AutoSettleExpiredPrograms", mock.Anything).
			Return(domain.SettlementReport{}, fmt.Errorf("s.programs.FindExpired -> %w", service.ErrTransientStorage))

		h := NewSettlementHandler(svc, uSvc)
		router := newTestRouter(owner.ID, http.MethodPost, "/admin/settlements/run", h.HandleRunSettlements)

		rec := serve(router, http.MethodPost, "/admin/settlements/run")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
