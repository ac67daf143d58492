package request

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSignupRequest_Validate(t *testing.T) {
	valid := SignupRequest{
		Email:           "dana@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
		Name:            "Dana",
		Role:            "HOST",
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		modify func(r *SignupRequest)
	}{
		{name: "bad email", modify: func(r *SignupRequest) { r.Email = "dana" }},
		{name: "no digit", modify: func(r *SignupRequest) { r.Password, r.ConfirmPassword = "secretpass", "secretpass" }},
		{name: "too short", modify: func(r *SignupRequest) { r.Password, r.ConfirmPassword = "abc12", "abc12" }},
		{name: "mismatch", modify: func(r *SignupRequest) { r.ConfirmPassword = "secret124" }},
		{name: "owner role", modify: func(r *SignupRequest) { r.Role = "OWNER" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.modify(&req)
			assert.Error(t, req.Validate())
		})
	}
}

func TestCreateProgramRequest_Validate(t *testing.T) {
	start := time.Date(2026, time.April, 1, 9, 0, 0, 0, time.UTC)

	req := CreateProgramRequest{Title: "Spring quest", StartDate: start, EndDate: start.Add(48 * time.Hour)}
	assert.NoError(t, req.Validate())

	req.EndDate = start
	assert.ErrorIs(t, req.Validate(), errEndBeforeStart)

	req.EndDate = time.Time{}
	assert.Error(t, req.Validate())
}

func TestCreateActivityRequest_Validate(t *testing.T) {
	req := CreateActivityRequest{Name: "Quiz", RewardGems: 10}
	assert.NoError(t, req.Validate())

	req.RewardGems = 0
	assert.Error(t, req.Validate())

	req.RewardGems = -3
	assert.Error(t, req.Validate())
}
