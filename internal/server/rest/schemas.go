package rest

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dkireev/realty/internal/server/auth"
	"github.com/dkireev/realty/internal/server/models"
)

const dateLayout = "2006-01-02"

// passwordRule hooks the signup password policy into the validator.
func passwordRule(fl validator.FieldLevel) bool {
	return auth.ValidPassword(fl.Field().String())
}

type signupRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=64"`
	FullName    string `json:"full_name" binding:"omitempty,max=128"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,password"`
	DateOfBirth string `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
	Gender      string `json:"gender" binding:"omitempty,oneof=MALE FEMALE NOT_SPECIFIED"`
}

type loginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,password"`
}

type updateProfileRequest struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=64"`
	FullName *string `json:"full_name" binding:"omitempty,max=128"`
	Email    *string `json:"email" binding:"omitempty,email"`
}

type createListingRequest struct {
	Type         string `json:"type" binding:"required,oneof=HOUSE APARTMENT"`
	Address      string `json:"address" binding:"required,max=256"`
	AvailableNow bool   `json:"available_now"`
}

type updateListingRequest struct {
	AvailableNow *bool   `json:"available_now"`
	Address      *string `json:"address" binding:"omitempty,max=256"`
}

type userResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	FullName    string `json:"full_name,omitempty"`
	Email       string `json:"email"`
	IsSuperuser bool   `json:"is_superuser"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Gender      string `json:"gender"`
	CreatedAt   string `json:"created_at"`
}

func toUserResponse(u *models.User) userResponse {
	resp := userResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		IsSuperuser: u.IsSuperuser,
		Gender:      string(u.Gender),
		CreatedAt:   u.CreatedAt.Format(time.RFC3339),
	}
	if u.FullName.Valid {
		resp.FullName = u.FullName.String
	}
	if u.DateOfBirth.Valid {
		resp.DateOfBirth = u.DateOfBirth.Time.Format(dateLayout)
	}
	return resp
}

func toUserResponses(us []*models.User) []userResponse {
	out := make([]userResponse, 0, len(us))
	for _, u := range us {
		out = append(out, toUserResponse(u))
	}
	return out
}

type listingResponse struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	AvailableNow bool   `json:"available_now"`
	OwnerID      string `json:"owner_id"`
	Address      string `json:"address"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

func toListingResponse(l *models.Listing) listingResponse {
	return listingResponse{
		ID:           l.ID,
		Type:         string(l.Type),
		AvailableNow: l.AvailableNow,
		OwnerID:      l.OwnerID,
		Address:      l.Address,
		CreatedAt:    l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    l.UpdatedAt.Format(time.RFC3339),
	}
}

func toListingResponses(ls []*models.Listing) []listingResponse {
	out := make([]listingResponse, 0, len(ls))
	for _, l := range ls {
		out = append(out, toListingResponse(l))
	}
	return out
}

type photoResponse struct {
	ID        string `json:"id"`
	ListingID string `json:"listing_id"`
	UploadURL string `json:"upload_url,omitempty"`
}

func toPhotoResponse(p *models.ListingPhoto, uploadURL string) photoResponse {
	return photoResponse{ID: p.ID, ListingID: p.ListingID, UploadURL: uploadURL}
}
