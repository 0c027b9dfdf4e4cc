// controller/resource_controller.go
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

type ResourceController struct {
	resourceService service.IResourceService
}

func NewResourceController(resourceService service.IResourceService) *ResourceController {
	return &ResourceController{
		resourceService: resourceService,
	}
}

// RegisterRoutes registers the API routes
func (rc *ResourceController) RegisterRoutes(r *gin.RouterGroup) {
	resources := r.Group("/resources")
	{
		resources.POST("", rc.CreateResource)
		resources.GET("", rc.ListResources)
		resources.GET("/:type/:id", rc.GetResource)
		resources.PUT("/:type/:id/active", rc.SetResourceActive)
	}
	r.GET("/resource-types/:type/permissions", rc.Vocabulary)
}

func resourceRef(c *gin.Context) model.ResourceRef {
	return model.ResourceRef{Type: model.ResourceType(c.Param("type")), ID: c.Param("id")}
}

// CreateResource endpoint
func (rc *ResourceController) CreateResource(c *gin.Context) {
	var resource model.Resource
	if err := c.ShouldBindJSON(&resource); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid resource data", echo_errors.ErrInvalidResourceData)
		return
	}
	creatorID, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	created, err := rc.resourceService.CreateResource(c, resource, creatorID)
	if err != nil {
		util.RespondWithServiceError(c, "Failed to create resource", err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// GetResource endpoint
func (rc *ResourceController) GetResource(c *gin.Context) {
	resource, err := rc.resourceService.GetResource(c, resourceRef(c))
	if err != nil {
		util.RespondWithServiceError(c, "Failed to retrieve resource", err)
		return
	}

	c.JSON(http.StatusOK, resource)
}

// ListResources endpoint
func (rc *ResourceController) ListResources(c *gin.Context) {
	limit, offset, err := helper_util.GetPaginationParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", err)
		return
	}

	resources, err := rc.resourceService.ListResources(c, model.ResourceType(c.Query("type")), limit, offset)
	if err != nil {
		util.RespondWithServiceError(c, "Failed to list resources", err)
		return
	}

	c.JSON(http.StatusOK, resources)
}

// SetResourceActive endpoint
func (rc *ResourceController) SetResourceActive(c *gin.Context) {
	var req ActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid request", echo_errors.ErrInvalidResourceData)
		return
	}
	updaterID, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	if err := rc.resourceService.SetResourceActive(c, resourceRef(c), *req.Active, updaterID); err != nil {
		util.RespondWithServiceError(c, "Failed to update resource", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Vocabulary endpoint
func (rc *ResourceController) Vocabulary(c *gin.Context) {
	defs, err := rc.resourceService.Vocabulary(model.ResourceType(c.Param("type")))
	if err != nil {
		util.RespondWithServiceError(c, "Unknown resource type", err)
		return
	}

	c.JSON(http.StatusOK, defs)
}
