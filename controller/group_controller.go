// controller/group_controller.go
package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	echo_errors "github.com/dev-mohitbeniwal/accessledger/errors"
	"github.com/dev-mohitbeniwal/accessledger/model"
	"github.com/dev-mohitbeniwal/accessledger/service"
	"github.com/dev-mohitbeniwal/accessledger/util"
	helper_util "github.com/dev-mohitbeniwal/accessledger/util/helper"
)

type GroupController struct {
	groupService service.IGroupService
}

func NewGroupController(groupService service.IGroupService) *GroupController {
	return &GroupController{
		groupService: groupService,
	}
}

// RegisterRoutes registers the API routes
func (gc *GroupController) RegisterRoutes(r *gin.RouterGroup) {
	groups := r.Group("/groups")
	{
		groups.POST("", gc.CreateGroup)
		groups.GET("", gc.ListGroups)
		groups.GET("/:id", gc.GetGroup)
		groups.PUT("/:id/active", gc.SetGroupActive)
		groups.GET("/:id/members", gc.ListMembers)
		groups.PUT("/:id/members/:userId", gc.AddMember)
		groups.DELETE("/:id/members/:userId", gc.RemoveMember)
	}
}

// CreateGroup endpoint
func (gc *GroupController) CreateGroup(c *gin.Context) {
	var group model.Group
	if err := c.ShouldBindJSON(&group); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid group data", echo_errors.ErrInvalidGroupData)
		return
	}
	creatorID, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	createdGroup, err := gc.groupService.CreateGroup(c, group, creatorID)
	if err != nil {
		util.RespondWithServiceError(c, "Failed to create group", err)
		return
	}

	c.JSON(http.StatusCreated, createdGroup)
}

// GetGroup endpoint
func (gc *GroupController) GetGroup(c *gin.Context) {
	group, err := gc.groupService.GetGroup(c, c.Param("id"))
	if err != nil {
		util.RespondWithServiceError(c, "Failed to retrieve group", err)
		return
	}

	c.JSON(http.StatusOK, group)
}

// ListGroups endpoint
func (gc *GroupController) ListGroups(c *gin.Context) {
	limit, offset, err := helper_util.GetPaginationParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", err)
		return
	}

	groups, err := gc.groupService.ListGroups(c, limit, offset)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list groups", err)
		return
	}

	c.JSON(http.StatusOK, groups)
}

// SetGroupActive endpoint
func (gc *GroupController) SetGroupActive(c *gin.Context) {
	var req ActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid request", echo_errors.ErrInvalidGroupData)
		return
	}
	updaterID, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	if err := gc.groupService.SetGroupActive(c, c.Param("id"), *req.Active, updaterID); err != nil {
		util.RespondWithServiceError(c, "Failed to update group", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListMembers endpoint
func (gc *GroupController) ListMembers(c *gin.Context) {
	members, err := gc.groupService.ListMembers(c, c.Param("id"))
	if err != nil {
		util.RespondWithServiceError(c, "Failed to list members", err)
		return
	}

	c.JSON(http.StatusOK, members)
}

// AddMember endpoint. Adding an existing member succeeds without a change.
func (gc *GroupController) AddMember(c *gin.Context) {
	gc.changeMembership(c, gc.groupService.AddMember)
}

// RemoveMember endpoint. Removing a non-member succeeds without a change.
func (gc *GroupController) RemoveMember(c *gin.Context) {
	gc.changeMembership(c, gc.groupService.RemoveMember)
}

func (gc *GroupController) changeMembership(c *gin.Context, fn func(ctx context.Context, groupID, userID, changedBy string) (*model.ChangeRecord, error)) {
	changedBy, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	rec, err := fn(c, c.Param("id"), c.Param("userId"), changedBy)
	if err != nil {
		util.RespondWithServiceError(c, "Failed to change membership", err)
		return
	}

	changes := []*model.ChangeRecord{}
	if rec != nil {
		changes = append(changes, rec)
	}
	c.JSON(http.StatusOK, ChangesResponse{Changes: changes})
}
