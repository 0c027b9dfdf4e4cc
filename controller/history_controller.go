// controller/history_controller.go
package controller

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dev-mohitbeniwal/accessledger/audit"
	echo_errors "github.com/dev-mohitbeniwal/accessledger/errors"
	"github.com/dev-mohitbeniwal/accessledger/model"
	"github.com/dev-mohitbeniwal/accessledger/service"
	"github.com/dev-mohitbeniwal/accessledger/util"
	helper_util "github.com/dev-mohitbeniwal/accessledger/util/helper"
)

// HistoryPage is one window of the change history.
type HistoryPage struct {
	Changes []*model.ChangeRecord `json:"changes"`
	Limit   int                   `json:"limit"`
	Offset  int                   `json:"offset"`
	HasMore bool                  `json:"has_more"`
}

type HistoryController struct {
	historyService  service.IHistoryService
	resourceService service.IResourceService
}

func NewHistoryController(historyService service.IHistoryService, resourceService service.IResourceService) *HistoryController {
	return &HistoryController{
		historyService:  historyService,
		resourceService: resourceService,
	}
}

// RegisterRoutes registers the API routes
func (hc *HistoryController) RegisterRoutes(r *gin.RouterGroup) {
	history := r.Group("/history")
	{
		history.GET("", hc.QueryHistory)
		history.GET("/export", hc.ExportHistory)
	}
}

func parseChangeFilter(c *gin.Context) (model.ChangeFilter, error) {
	filter := model.ChangeFilter{
		ResourceType: model.ResourceType(c.Query("resourceType")),
		ResourceID:   c.Query("resourceId"),
		PrincipalID:  c.Query("principalId"),
	}
	from, err := helper_util.ParseOptionalTime(c.Query("from"), false)
	if err != nil {
		return filter, fmt.Errorf("%w: from: %v", echo_errors.ErrInvalidDateRange, err)
	}
	to, err := helper_util.ParseOptionalTime(c.Query("to"), true)
	if err != nil {
		return filter, fmt.Errorf("%w: to: %v", echo_errors.ErrInvalidDateRange, err)
	}
	filter.From, filter.To = from, to
	return filter, nil
}

// QueryHistory endpoint
func (hc *HistoryController) QueryHistory(c *gin.Context) {
	filter, err := parseChangeFilter(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid date range", err)
		return
	}
	sort, ok := model.ParseChangeSort(c.Query("sort"), c.Query("direction"))
	if !ok {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid sort", echo_errors.ErrInvalidSort)
		return
	}
	limit, offset, err := helper_util.GetPaginationParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", err)
		return
	}

	seq, err := hc.historyService.Query(c, filter, sort)
	if err != nil {
		util.RespondWithServiceError(c, "Failed to query history", err)
		return
	}

	page := HistoryPage{Changes: []*model.ChangeRecord{}, Limit: limit, Offset: offset}
	i := 0
	for rec, err := range seq {
		if err != nil {
			util.RespondWithServiceError(c, "Failed to query history", err)
			return
		}
		if i >= offset+limit {
			page.HasMore = true
			break
		}
		if i >= offset {
			page.Changes = append(page.Changes, rec)
		}
		i++
	}

	c.JSON(http.StatusOK, page)
}

// ExportHistory streams the filtered history as CSV
func (hc *HistoryController) ExportHistory(c *gin.Context) {
	filter, err := parseChangeFilter(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid date range", err)
		return
	}

	resourceName := ""
	if rt, rid := c.Query("resourceType"), c.Query("resourceId"); rt != "" && rid != "" {
		resource, err := hc.resourceService.GetResource(c, model.ResourceRef{Type: model.ResourceType(rt), ID: rid})
		if err != nil {
			util.RespondWithServiceError(c, "Failed to export history", err)
			return
		}
		resourceName = resource.Name
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", audit.ExportFileName(resourceName)))
	if err := hc.historyService.ExportCSV(c, filter, c.Writer); err != nil {
		if !c.Writer.Written() {
			c.Writer.Header().Del("Content-Type")
			c.Writer.Header().Del("Content-Disposition")
			util.RespondWithServiceError(c, "Failed to export history", err)
			return
		}
		_ = c.Error(err)
	}
}
