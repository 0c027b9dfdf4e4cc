// controller/grant_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	echo_errors "github.com/dev-mohitbeniwal/accessledger/errors"
	"github.com/dev-mohitbeniwal/accessledger/model"
	"github.com/dev-mohitbeniwal/accessledger/service"
	"github.com/dev-mohitbeniwal/accessledger/util"
)

// GrantRequest addresses one direct grant bit.
type GrantRequest struct {
	Principal  model.Principal   `json:"principal" binding:"required"`
	Resource   model.ResourceRef `json:"resource" binding:"required"`
	Permission model.Permission  `json:"permission" binding:"required"`
}

// MatrixRequest saves several bits of one (principal, resource) pair. A null
// value clears the direct override of that permission.
type MatrixRequest struct {
	Principal model.Principal            `json:"principal" binding:"required"`
	Resource  model.ResourceRef          `json:"resource" binding:"required"`
	Values    map[model.Permission]*bool `json:"values" binding:"required"`
}

type ChangesResponse struct {
	Changes []*model.ChangeRecord `json:"changes"`
}

type GrantController struct {
	grantService service.IGrantService
}

func NewGrantController(grantService service.IGrantService) *GrantController {
	return &GrantController{
		grantService: grantService,
	}
}

// RegisterRoutes registers the API routes
func (gc *GrantController) RegisterRoutes(r *gin.RouterGroup) {
	grants := r.Group("/grants")
	{
		grants.POST("/grant", gc.Grant)
		grants.POST("/revoke", gc.Revoke)
		grants.POST("/clear", gc.Clear)
		grants.PUT("", gc.SaveMatrix)
		grants.GET("/:principalType/:principalId", gc.ListDirectGrants)
		grants.GET("/:principalType/:principalId/:resourceType/:resourceId", gc.GetDirectGrants)
	}
}

type grantMutation func(c *gin.Context, req GrantRequest, changedBy string) (*model.ChangeRecord, error)

func (gc *GrantController) mutate(c *gin.Context, fn grantMutation) {
	var req GrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid grant data", echo_errors.ErrInvalidGrantData)
		return
	}
	changedBy, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	rec, err := fn(c, req, changedBy)
	if err != nil {
		util.RespondWithServiceError(c, "Failed to change grant", err)
		return
	}

	changes := []*model.ChangeRecord{}
	if rec != nil {
		changes = append(changes, rec)
	}
	c.JSON(http.StatusOK, ChangesResponse{Changes: changes})
}

// Grant endpoint
func (gc *GrantController) Grant(c *gin.Context) {
	gc.mutate(c, func(c *gin.Context, req GrantRequest, changedBy string) (*model.ChangeRecord, error) {
		return gc.grantService.Grant(c, req.Principal, req.Resource, req.Permission, changedBy)
	})
}

// Revoke endpoint
func (gc *GrantController) Revoke(c *gin.Context) {
	gc.mutate(c, func(c *gin.Context, req GrantRequest, changedBy string) (*model.ChangeRecord, error) {
		return gc.grantService.Revoke(c, req.Principal, req.Resource, req.Permission, changedBy)
	})
}

// Clear endpoint
func (gc *GrantController) Clear(c *gin.Context) {
	gc.mutate(c, func(c *gin.Context, req GrantRequest, changedBy string) (*model.ChangeRecord, error) {
		return gc.grantService.ClearDirectGrant(c, req.Principal, req.Resource, req.Permission, changedBy)
	})
}

// SaveMatrix endpoint
func (gc *GrantController) SaveMatrix(c *gin.Context) {
	var req MatrixRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid grant data", echo_errors.ErrInvalidGrantData)
		return
	}
	changedBy, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	records, err := gc.grantService.SetDirectGrants(c, req.Principal, req.Resource, req.Values, changedBy)
	if err != nil {
		util.RespondWithServiceError(c, "Failed to save permissions", err)
		return
	}
	if records == nil {
		records = []*model.ChangeRecord{}
	}
	c.JSON(http.StatusOK, ChangesResponse{Changes: records})
}

// GetDirectGrants endpoint
func (gc *GrantController) GetDirectGrants(c *gin.Context) {
	p := model.Principal{Type: model.PrincipalType(c.Param("principalType")), ID: c.Param("principalId")}
	r := model.ResourceRef{Type: model.ResourceType(c.Param("resourceType")), ID: c.Param("resourceId")}

	grants, err := gc.grantService.GetDirectGrants(c, p, r)
	if err != nil {
		util.RespondWithServiceError(c, "Failed to retrieve grants", err)
		return
	}
	c.JSON(http.StatusOK, grants)
}

// ListDirectGrants endpoint
func (gc *GrantController) ListDirectGrants(c *gin.Context) {
	p := model.Principal{Type: model.PrincipalType(c.Param("principalType")), ID: c.Param("principalId")}

	grants, err := gc.grantService.ListDirectGrants(c, p)
	if err != nil {
		util.RespondWithServiceError(c, "Failed to list grants", err)
		return
	}
	if grants == nil {
		grants = []model.Grant{}
	}
	c.JSON(http.StatusOK, grants)
}
