// controller/profile_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	echo_errors "github.com/dev-mohitbeniwal/accessledger/errors"
	"github.com/dev-mohitbeniwal/accessledger/model"
	"github.com/dev-mohitbeniwal/accessledger/service"
	"github.com/dev-mohitbeniwal/accessledger/util"
)

type ProfileController struct {
	profileService service.IProfileService
}

func NewProfileController(profileService service.IProfileService) *ProfileController {
	return &ProfileController{
		profileService: profileService,
	}
}

// RegisterRoutes registers the API routes
func (pc *ProfileController) RegisterRoutes(r *gin.RouterGroup) {
	profiles := r.Group("/profiles")
	{
		profiles.POST("", pc.CreateProfile)
		profiles.GET("", pc.ListProfiles)
		profiles.GET("/:id", pc.GetProfile)
		profiles.PUT("/:id", pc.UpdateProfile)
		profiles.GET("/:id/resolved", pc.ResolveProfile)
		profiles.POST("/:id/publish", pc.PublishProfile)
	}
	r.GET("/portal/profiles/:id", pc.GetPublishedProfile)
}

// CreateProfile endpoint
func (pc *ProfileController) CreateProfile(c *gin.Context) {
	var profile model.Profile
	if err := c.ShouldBindJSON(&profile); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid profile data", echo_errors.ErrInvalidProfileData)
		return
	}
	creatorID, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	created, err := pc.profileService.CreateProfile(c, profile, creatorID)
	if err != nil {
		util.RespondWithServiceError(c, "Failed to create profile", err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// UpdateProfile endpoint. The change stays invisible to the portal until the
// profile is published.
func (pc *ProfileController) UpdateProfile(c *gin.Context) {
	var profile model.Profile
	if err := c.ShouldBindJSON(&profile); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid profile data", echo_errors.ErrInvalidProfileData)
		return
	}
	profile.ID = c.Param("id")
	updaterID, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	updated, err := pc.profileService.UpdateProfile(c, profile, updaterID)
	if err != nil {
		util.RespondWithServiceError(c, "Failed to update profile", err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// GetProfile endpoint
func (pc *ProfileController) GetProfile(c *gin.Context) {
	profile, err := pc.profileService.GetProfile(c, c.Param("id"))
	if err != nil {
		util.RespondWithServiceError(c, "Failed to retrieve profile", err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// ListProfiles endpoint
func (pc *ProfileController) ListProfiles(c *gin.Context) {
	profiles, err := pc.profileService.ListProfiles(c)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list profiles", err)
		return
	}

	c.JSON(http.StatusOK, profiles)
}

// ResolveProfile endpoint
func (pc *ProfileController) ResolveProfile(c *gin.Context) {
	entries, err := pc.profileService.ResolveProfile(c, c.Param("id"))
	if err != nil {
		util.RespondWithServiceError(c, "Failed to resolve profile", err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// PublishProfile endpoint
func (pc *ProfileController) PublishProfile(c *gin.Context) {
	publishedBy, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	result, err := pc.profileService.PublishProfile(c, c.Param("id"), publishedBy)
	if err != nil {
		util.RespondWithServiceError(c, "Failed to publish profile", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetPublishedProfile endpoint
func (pc *ProfileController) GetPublishedProfile(c *gin.Context) {
	snapshot, err := pc.profileService.GetPublishedProfile(c, c.Param("id"))
	if err != nil {
		util.RespondWithServiceError(c, "Failed to retrieve published profile", err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}
