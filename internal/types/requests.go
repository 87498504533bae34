package types

import "time"

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
}

type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type PasswordResetConfirmRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

// UpdateProfileRequest carries partial profile edits. Nil fields are left
// untouched. Owner edits are restricted to these fields; email, verification
// and admin state are admin-only.
type UpdateProfileRequest struct {
	Name            *string `json:"name"`
	Designation     *string `json:"designation"`
	Phone           *string `json:"phone"`
	Whatsapp        *string `json:"whatsapp"`
	Website         *string `json:"website"`
	Facebook        *string `json:"facebook"`
	Instagram       *string `json:"instagram"`
	Youtube         *string `json:"youtube"`
	Linkedin        *string `json:"linkedin"`
	GoogleReviews   *string `json:"google_reviews"`
	Upi             *string `json:"upi"`
	Maps            *string `json:"maps"`
	DriveLink       *string `json:"drive_link"`
	Avatar          *string `json:"avatar"`
	BackgroundImage *string `json:"background_image"`
}

// AdminUpdateProfileRequest extends owner edits with the admin-only fields.
type AdminUpdateProfileRequest struct {
	UpdateProfileRequest
	Email      *string `json:"email"`
	IsVerified *bool   `json:"is_verified"`
	IsAdmin    *bool   `json:"is_admin"`
}

type CreateProfileRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6"`
	Designation     string `json:"designation"`
	Phone           string `json:"phone"`
	Whatsapp        string `json:"whatsapp"`
	Website         string `json:"website"`
	Facebook        string `json:"facebook"`
	Instagram       string `json:"instagram"`
	Youtube         string `json:"youtube"`
	Linkedin        string `json:"linkedin"`
	GoogleReviews   string `json:"google_reviews"`
	Upi             string `json:"upi"`
	Maps            string `json:"maps"`
	DriveLink       string `json:"drive_link"`
	Avatar          string `json:"avatar"`
	BackgroundImage string `json:"background_image"`
	IsVerified      bool   `json:"is_verified"`
}

type ClickRequest struct {
	LinkType string `json:"link_type" binding:"required"`
}

// ProfileFilter is the admin console query: case-insensitive substring match
// on name, AND an inclusive created_at range. Either bound may be open.
type ProfileFilter struct {
	Search string
	From   *time.Time
	To     *time.Time
	Page   int
}
