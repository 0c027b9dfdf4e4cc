// controller/controllers.go
package controller

import "github.com/dev-mohitbeniwal/accessledger/service"

type Controllers struct {
	Grant      *GrantController
	Permission *PermissionController
	User       *UserController
	Group      *GroupController
	Resource   *ResourceController
	Profile    *ProfileController
	History    *HistoryController
}

func InitializeControllers(services *service.Services) *Controllers {
	return &Controllers{
		Grant:      NewGrantController(services.Grant),
		Permission: NewPermissionController(services.Permission),
		User:       NewUserController(services.User),
		Group:      NewGroupController(services.Group),
		Resource:   NewResourceController(services.Resource),
		Profile:    NewProfileController(services.Profile),
		History:    NewHistoryController(services.History, services.Resource),
	}
}
