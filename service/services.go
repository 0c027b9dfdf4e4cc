// service/services.go
package service

import (
	"time"

	"github.com/dev-mohitbeniwal/accessledger/dao"
	"github.com/dev-mohitbeniwal/accessledger/pdp/engine"
	"github.com/dev-mohitbeniwal/accessledger/util"
)

type Services struct {
	Grant      IGrantService
	Permission IPermissionService
	User       IUserService
	Group      IGroupService
	Resource   IResourceService
	Profile    IProfileService
	History    IHistoryService
}

// Options carries the settings the services read from configuration.
type Options struct {
	// HistoryReader serves history queries; nil reads from the store.
	HistoryReader   dao.ChangeReader
	HistoryPageSize int
	HistoryLocation *time.Location
	ProfileLockTTL  time.Duration
}

func InitializeServices(
	store dao.Store,
	validationUtil *util.ValidationUtil,
	locker util.Locker,
	portal util.PortalStore,
	eventBus *util.EventBus,
	opts Options,
) (*Services, error) {
	// One keyed lock set is shared so that grant writes and engine reads of
	// the same (principal, resource) pair exclude each other.
	locks := util.NewKeyedLocker()

	services := &Services{
		Grant:      NewGrantService(store, validationUtil, locks, eventBus),
		Permission: NewPermissionService(store, engine.NewPermissionEvaluator(), validationUtil, locks),
		User:       NewUserService(store, validationUtil, locks, eventBus),
		Group:      NewGroupService(store, validationUtil, eventBus),
		Resource:   NewResourceService(store, validationUtil),
		Profile:    NewProfileService(store, validationUtil, locker, portal, eventBus, opts.ProfileLockTTL),
		History:    NewHistoryService(store, opts.HistoryReader, eventBus, opts.HistoryPageSize, opts.HistoryLocation),
	}

	return services, nil
}
