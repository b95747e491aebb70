package handler

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/uploadgate/upload-gateway/internal/core/domain"
)

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

func (registerRequest) validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "username, email and password are required"
	case "min":
		return "password must be at least 6 characters"
	}
	return ""
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (loginRequest) validationMessage(fe validator.FieldError) string {
	if fe.Tag() == "required" {
		return "username and password are required"
	}
	return ""
}

// publicUser is the user shape returned by login and verify-token.
type publicUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// profileUser adds the creation time to publicUser.
type profileUser struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// hashedUser is the listing shape. It carries the stored password hash.
type hashedUser struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

type registerResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	User    profileUser `json:"user"`
}

type loginResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Token   string     `json:"token"`
	User    publicUser `json:"user"`
}

type verifyTokenResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	User    publicUser `json:"user"`
}

type profileResponse struct {
	Success bool        `json:"success"`
	User    profileUser `json:"user"`
}

type listUsersResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Total   int          `json:"total"`
	Users   []hashedUser `json:"users"`
}

type uploader struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
}

type uploadedFile struct {
	Filename     string   `json:"filename"`
	OriginalName string   `json:"originalname"`
	Size         int64    `json:"size"`
	MimeType     string   `json:"mimetype"`
	UploadedBy   uploader `json:"uploadedBy"`
}

type uploadResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	File    uploadedFile `json:"file"`
}

// ErrorResponse is the failure envelope written by the HTTP error handler.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func toPublicUser(u *domain.User) publicUser {
	return publicUser{ID: u.ID, Username: u.Username, Email: u.Email}
}

func toProfileUser(u *domain.User) profileUser {
	return profileUser{ID: u.ID, Username: u.Username, Email: u.Email, CreatedAt: u.CreatedAt}
}

func toHashedUsers(users []domain.User) []hashedUser {
	out := make([]hashedUser, 0, len(users))
	for _, u := range users {
		out = append(out, hashedUser{
			ID:           u.ID,
			Username:     u.Username,
			Email:        u.Email,
			PasswordHash: u.PasswordHash,
			CreatedAt:    u.CreatedAt,
		})
	}
	return out
}

func toUploadedFile(f *domain.StoredFile) uploadedFile {
	return uploadedFile{
		Filename:     f.Filename,
		OriginalName: f.OriginalName,
		Size:         f.Size,
		MimeType:     f.MimeType,
		UploadedBy:   uploader{UserID: f.UploadedBy.UserID, Username: f.UploadedBy.Username},
	}
}
