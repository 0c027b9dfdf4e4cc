// controller/user_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	echo_errors "github.com/dev-mohitbeniwal/accessledger/errors"
	"github.com/dev-mohitbeniwal/accessledger/model"
	"github.com/dev-mohitbeniwal/accessledger/service"
	"github.com/dev-mohitbeniwal/accessledger/util"
	helper_util "github.com/dev-mohitbeniwal/accessledger/util/helper"
)

type ActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// ProfileAssignmentRequest assigns a profile; an empty id unassigns.
type ProfileAssignmentRequest struct {
	ProfileID string `json:"profile_id"`
}

type UserController struct {
	userService service.IUserService
}

func NewUserController(userService service.IUserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

// RegisterRoutes registers the API routes
func (uc *UserController) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.POST("", uc.CreateUser)
		users.GET("", uc.ListUsers)
		users.GET("/:id", uc.GetUser)
		users.PUT("/:id/active", uc.SetUserActive)
		users.PUT("/:id/profile", uc.AssignProfile)
	}
}

// CreateUser endpoint
func (uc *UserController) CreateUser(c *gin.Context) {
	var user model.User
	if err := c.ShouldBindJSON(&user); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid user data", echo_errors.ErrInvalidUserData)
		return
	}
	creatorID, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	createdUser, err := uc.userService.CreateUser(c, user, creatorID)
	if err != nil {
		util.RespondWithServiceError(c, "Failed to create user", err)
		return
	}

	c.JSON(http.StatusCreated, createdUser)
}

// GetUser endpoint
func (uc *UserController) GetUser(c *gin.Context) {
	user, err := uc.userService.GetUser(c, c.Param("id"))
	if err != nil {
		util.RespondWithServiceError(c, "Failed to retrieve user", err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ListUsers endpoint
func (uc *UserController) ListUsers(c *gin.Context) {
	limit, offset, err := helper_util.GetPaginationParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", err)
		return
	}

	users, err := uc.userService.ListUsers(c, limit, offset)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list users", err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// SetUserActive endpoint
func (uc *UserController) SetUserActive(c *gin.Context) {
	var req ActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid request", echo_errors.ErrInvalidUserData)
		return
	}
	updaterID, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	if err := uc.userService.SetUserActive(c, c.Param("id"), *req.Active, updaterID); err != nil {
		util.RespondWithServiceError(c, "Failed to update user", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AssignProfile endpoint
func (uc *UserController) AssignProfile(c *gin.Context) {
	var req ProfileAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid request", echo_errors.ErrInvalidUserData)
		return
	}
	changedBy, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	records, err := uc.userService.AssignProfile(c, c.Param("id"), req.ProfileID, changedBy)
	if err != nil {
		util.RespondWithServiceError(c, "Failed to assign profile", err)
		return
	}
	if records == nil {
		records = []*model.ChangeRecord{}
	}

	c.JSON(http.StatusOK, ChangesResponse{Changes: records})
}
