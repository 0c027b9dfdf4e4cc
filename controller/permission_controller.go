// controller/permission_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dev-mohitbeniwal/accessledger/model"
	pdp_model "github.com/dev-mohitbeniwal/accessledger/pdp/model"
	"github.com/dev-mohitbeniwal/accessledger/service"
	"github.com/dev-mohitbeniwal/accessledger/util"
)

// PermissionMatrix is the bulk answer for one user and resource, in
// vocabulary order.
type PermissionMatrix struct {
	UserID      string            `json:"user_id"`
	Resource    model.ResourceRef `json:"resource"`
	Permissions []model.Decision  `json:"permissions"`
}

type PermissionController struct {
	permissionService service.IPermissionService
}

func NewPermissionController(permissionService service.IPermissionService) *PermissionController {
	return &PermissionController{
		permissionService: permissionService,
	}
}

// RegisterRoutes registers the API routes
func (pc *PermissionController) RegisterRoutes(r *gin.RouterGroup) {
	effective := r.Group("/users/:id/effective")
	{
		effective.GET("/:resourceType/:resourceId", pc.BulkEffectivePermissions)
		effective.GET("/:resourceType/:resourceId/:permission", pc.EffectivePermission)
	}
}

// EffectivePermission endpoint
func (pc *PermissionController) EffectivePermission(c *gin.Context) {
	req := pdp_model.AccessRequest{
		UserID:     c.Param("id"),
		Resource:   model.ResourceRef{Type: model.ResourceType(c.Param("resourceType")), ID: c.Param("resourceId")},
		Permission: model.Permission(c.Param("permission")),
	}

	decision, err := pc.permissionService.EffectivePermission(c, req)
	if err != nil {
		util.RespondWithServiceError(c, "Failed to evaluate permission", err)
		return
	}
	c.JSON(http.StatusOK, decision)
}

// BulkEffectivePermissions endpoint
func (pc *PermissionController) BulkEffectivePermissions(c *gin.Context) {
	userID := c.Param("id")
	ref := model.ResourceRef{Type: model.ResourceType(c.Param("resourceType")), ID: c.Param("resourceId")}

	decisions, err := pc.permissionService.BulkEffectivePermissions(c, userID, ref)
	if err != nil {
		util.RespondWithServiceError(c, "Failed to evaluate permissions", err)
		return
	}

	matrix := PermissionMatrix{UserID: userID, Resource: ref, Permissions: make([]model.Decision, 0, len(decisions))}
	for _, p := range ref.Type.Permissions() {
		if d, ok := decisions[p]; ok {
			matrix.Permissions = append(matrix.Permissions, d)
		}
	}
	c.JSON(http.StatusOK, matrix)
}
