package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dkireev/realty/internal/common"
	"github.com/dkireev/realty/internal/server/models"
	"github.com/dkireev/realty/internal/server/repositories/listings"
	"github.com/dkireev/realty/internal/server/repositories/users"
	"github.com/dkireev/realty/internal/server/services"
)

type handlers struct {
	users    UserService
	listings ListingService
	photos   PhotoService
}

// --- auth ---

func (h *handlers) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	in := services.RegisterInput{
		Username: req.Username,
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Gender:   models.Gender(req.Gender),
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse(dateLayout, req.DateOfBirth)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid date_of_birth"})
			return
		}
		in.DateOfBirth = &dob
	}

	user, err := h.users.Register(c.Request.Context(), in)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toUserResponse(user))
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "username and password are required"})
		return
	}

	token, err := h.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: "Bearer"})
}

func (h *handlers) logout(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if err := h.users.Logout(c.Request.Context(), userID); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- users ---

func (h *handlers) currentUser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *handlers) updateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	upd := users.ProfileUpdate{Username: req.Username, FullName: req.FullName, Email: req.Email}
	if err := h.users.UpdateProfile(c.Request.Context(), userID, upd); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) changePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	if err := h.users.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) deleteAccount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if err := h.users.Delete(c.Request.Context(), userID); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) listUsers(c *gin.Context) {
	all, err := h.users.List(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponses(all))
}

func (h *handlers) getUser(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *handlers) deleteAllUsers(c *gin.Context) {
	deleted, err := h.users.DeleteAll(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

func (h *handlers) generateFakeUsers(c *gin.Context) {
	count, err := strconv.Atoi(c.DefaultQuery("count", "10"))
	if err != nil || count < 1 || count > 1000 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "count must be between 1 and 1000"})
		return
	}

	fakes, err := h.users.GenerateFakeUsers(c.Request.Context(), count)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toUserResponses(fakes))
}

// --- listings ---

func (h *handlers) createListing(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req createListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	listing, err := h.listings.Create(c.Request.Context(), userID, services.ListingInput{
		Type:         models.ListingType(req.Type),
		Address:      req.Address,
		AvailableNow: req.AvailableNow,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toListingResponse(listing))
}

func (h *handlers) getListing(c *gin.Context) {
	listing, err := h.listings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toListingResponse(listing))
}

func (h *handlers) listListings(c *gin.Context) {
	all, err := h.listings.ListAll(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toListingResponses(all))
}

func (h *handlers) myListings(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	mine, err := h.listings.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toListingResponses(mine))
}

func (h *handlers) updateListing(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req updateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	upd := listings.Update{AvailableNow: req.AvailableNow, Address: req.Address}
	if err := h.listings.Update(c.Request.Context(), userID, c.Param("id"), upd); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) deleteListing(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if err := h.listings.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// deleteListings removes the caller's own listings; with ?all=true a
// superuser wipes every listing.
func (h *handlers) deleteListings(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if c.Query("all") == "true" {
		super, err := h.users.IsSuperuser(c.Request.Context(), userID)
		if err != nil {
			respondWithError(c, err)
			return
		}
		if !super {
			respondWithError(c, common.ErrForbidden)
			return
		}
		deleted, err := h.listings.DeleteAll(c.Request.Context())
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": deleted})
		return
	}

	deleted, err := h.listings.DeleteByOwner(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// --- photos ---

func (h *handlers) addPhoto(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	photo, uploadURL, err := h.photos.AddPhoto(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPhotoResponse(photo, uploadURL))
}

func (h *handlers) listPhotos(c *gin.Context) {
	photos, err := h.photos.ListPhotos(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	out := make([]photoResponse, 0, len(photos))
	for _, p := range photos {
		out = append(out, toPhotoResponse(p, ""))
	}
	c.JSON(http.StatusOK, out)
}

func (h *handlers) photoURL(c *gin.Context) {
	url, err := h.photos.GetPhotoURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *handlers) deletePhoto(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if err := h.photos.DeletePhoto(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
