package dto

import (
	"time"

	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/domain"
	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/workhours"
)

// UserRegisterRequest payload for new users.
type UserRegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role" validate:"required,role"`
}

// UserLoginRequest payload for login.
type UserLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest starts the self-service reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest completes a reset with the mailed token.
type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// ChangePasswordRequest payload for authenticated password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6,max=72"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email,omitempty"`
	Role      domain.Role `json:"role"`
	CreatedAt *time.Time  `json:"created_at,omitempty"`
}

// NewUserResponse maps a user including email and creation time.
func NewUserResponse(user *domain.User) UserResponse {
	created := user.CreatedAt
	return UserResponse{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role, CreatedAt: &created}
}

// NewUserListResponse maps users to the id/name/role listing.
func NewUserListResponse(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, user := range users {
		out = append(out, UserResponse{ID: user.ID, Name: user.Name, Role: user.Role})
	}
	return out
}

// WorkSummaryResponse is the caller's total for the current pay period.
type WorkSummaryResponse struct {
	TotalWorkHours float64   `json:"totalWorkHours"`
	StartDate      time.Time `json:"startDate"`
	EndDate        time.Time `json:"endDate"`
}

// NewWorkSummaryResponse maps a pay-period summary.
func NewWorkSummaryResponse(summary *workhours.Summary) WorkSummaryResponse {
	return WorkSummaryResponse{
		TotalWorkHours: summary.TotalWorkHours,
		StartDate:      summary.Period.Start,
		EndDate:        summary.Period.End,
	}
}

// StaffHoursResponse is one row of the all-staff summary.
type StaffHoursResponse struct {
	ID             int64       `json:"id"`
	Name           string      `json:"name"`
	Role           domain.Role `json:"role"`
	TotalWorkHours float64     `json:"totalWorkHours"`
	IsOvertime     bool        `json:"isOvertime"`
}

// NewStaffHoursResponse maps the all-staff summary.
func NewStaffHoursResponse(rows []workhours.StaffRow) []StaffHoursResponse {
	out := make([]StaffHoursResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, StaffHoursResponse{
			ID:             row.UserID,
			Name:           row.Name,
			Role:           row.Role,
			TotalWorkHours: row.TotalWorkHours,
			IsOvertime:     row.IsOvertime,
		})
	}
	return out
}
