// dao/memory_store.go
package dao

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	echo_errors "github.com/dev-mohitbeniwal/accessledger/errors"
	"github.com/dev-mohitbeniwal/accessledger/model"
)

// MemoryStore keeps everything in process behind one RWMutex. Writers hold
// the lock for the whole mutation, so readers see a mutation fully or not at
// all.
type MemoryStore struct {
	mu        sync.RWMutex
	users     map[string]*model.User
	groups    map[string]*model.Group
	members   map[string]map[string]struct{}
	resources map[string]*model.Resource
	grants    map[string]map[string]map[model.Permission]model.Grant
	profiles  map[string]*model.Profile
	changes   []*model.ChangeRecord
	seq       int64
	appendErr error
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[string]*model.User),
		groups:    make(map[string]*model.Group),
		members:   make(map[string]map[string]struct{}),
		resources: make(map[string]*model.Resource),
		grants:    make(map[string]map[string]map[model.Permission]model.Grant),
		profiles:  make(map[string]*model.Profile),
	}
}

// SetAppendError makes every change log write fail with err until reset
// with nil. It simulates an unavailable change log.
func (s *MemoryStore) SetAppendError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendErr = err
}

func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

// appendLocked requires s.mu held for writing.
func (s *MemoryStore) appendLocked(records ...*model.ChangeRecord) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	for _, rec := range records {
		if rec.ID == "" {
			rec.ID = uuid.New().String()
		}
		s.seq++
		rec.Seq = s.seq
		cp := *rec
		s.changes = append(s.changes, &cp)
	}
	return nil
}

func (s *MemoryStore) principalName(p model.Principal) (string, error) {
	switch p.Type {
	case model.PrincipalUser:
		u, ok := s.users[p.ID]
		if !ok {
			return "", echo_errors.ErrUserNotFound
		}
		return u.Name, nil
	case model.PrincipalGroup:
		g, ok := s.groups[p.ID]
		if !ok {
			return "", echo_errors.ErrGroupNotFound
		}
		return g.Name, nil
	default:
		return "", echo_errors.ErrInvalidPrincipal
	}
}

func (s *MemoryStore) ApplyGrants(ctx context.Context, m GrantMutation) ([]*model.ChangeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	principalName, err := s.principalName(m.Principal)
	if err != nil {
		return nil, err
	}
	res, ok := s.resources[m.Resource.Key()]
	if !ok {
		return nil, echo_errors.ErrResourceNotFound
	}

	current := s.directLocked(m.Principal, m.Resource)
	records := planGrantChanges(grantChangeInput{
		principal:     m.Principal,
		principalName: principalName,
		resource:      m.Resource,
		resourceName:  res.Name,
		changedBy:     m.ChangedBy,
		changedAt:     m.ChangedAt,
	}, current, m.Values)
	if len(records) == 0 {
		return nil, nil
	}

	if err := s.appendLocked(records...); err != nil {
		return nil, err
	}

	byResource, ok := s.grants[m.Principal.Key()]
	if !ok {
		byResource = make(map[string]map[model.Permission]model.Grant)
		s.grants[m.Principal.Key()] = byResource
	}
	perms, ok := byResource[m.Resource.Key()]
	if !ok {
		perms = make(map[model.Permission]model.Grant)
		byResource[m.Resource.Key()] = perms
	}
	for _, rec := range records {
		if rec.NewValue == nil {
			delete(perms, rec.PermissionType)
			continue
		}
		perms[rec.PermissionType] = model.Grant{
			Principal:  m.Principal,
			Resource:   m.Resource,
			Permission: rec.PermissionType,
			Value:      *rec.NewValue,
			Source:     model.SourceDirect,
			UpdatedAt:  m.ChangedAt,
			UpdatedBy:  m.ChangedBy,
		}
	}
	return records, nil
}

func (s *MemoryStore) directLocked(p model.Principal, r model.ResourceRef) map[model.Permission]bool {
	out := make(map[model.Permission]bool)
	for perm, g := range s.grants[p.Key()][r.Key()] {
		out[perm] = g.Value
	}
	return out
}

func (s *MemoryStore) GetDirectGrants(ctx context.Context, p model.Principal, r model.ResourceRef) (map[model.Permission]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.principalName(p); err != nil {
		return nil, err
	}
	if _, ok := s.resources[r.Key()]; !ok {
		return nil, echo_errors.ErrResourceNotFound
	}
	return s.directLocked(p, r), nil
}

func (s *MemoryStore) ListDirectGrants(ctx context.Context, p model.Principal) ([]model.Grant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.principalName(p); err != nil {
		return nil, err
	}
	var out []model.Grant
	for _, perms := range s.grants[p.Key()] {
		for _, g := range perms {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Resource.Key() != out[j].Resource.Key() {
			return out[i].Resource.Key() < out[j].Resource.Key()
		}
		return out[i].Permission < out[j].Permission
	})
	return out, nil
}

func (s *MemoryStore) CreateUser(ctx context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[u.ID]; exists {
		return echo_errors.ErrUserConflict
	}
	if u.ProfileID != "" {
		if _, ok := s.profiles[u.ProfileID]; !ok {
			return echo_errors.ErrProfileNotFound
		}
	}
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *MemoryStore) GetUser(ctx context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, echo_errors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *MemoryStore) ListUsers(ctx context.Context, limit, offset int) ([]*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*model.User, 0, len(s.users))
	for _, u := range s.users {
		cp := *u
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return page(all, limit, offset), nil
}

func (s *MemoryStore) SetUserActive(ctx context.Context, id string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return echo_errors.ErrUserNotFound
	}
	u.Active = active
	u.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) AssignProfile(ctx context.Context, a ProfileAssignment) (*model.ChangeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[a.UserID]
	if !ok {
		return nil, echo_errors.ErrUserNotFound
	}
	var newProfile *model.Profile
	if a.ProfileID != "" {
		p, ok := s.profiles[a.ProfileID]
		if !ok {
			return nil, echo_errors.ErrProfileNotFound
		}
		newProfile = p
	}
	var oldProfile *model.Profile
	if u.ProfileID != "" {
		oldProfile = s.profiles[u.ProfileID]
	}

	rec := newProfileAssignmentRecord(u, oldProfile, newProfile, a.ChangedBy, a.ChangedAt)
	if rec == nil {
		return nil, nil
	}
	if err := s.appendLocked(rec); err != nil {
		return nil, err
	}
	u.ProfileID = a.ProfileID
	u.UpdatedAt = a.ChangedAt
	return rec, nil
}

func (s *MemoryStore) CreateGroup(ctx context.Context, g *model.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.groups[g.ID]; exists {
		return echo_errors.ErrGroupConflict
	}
	cp := *g
	cp.MemberIDs = nil
	s.groups[g.ID] = &cp
	s.members[g.ID] = make(map[string]struct{})
	return nil
}

func (s *MemoryStore) GetGroup(ctx context.Context, id string) (*model.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.groups[id]
	if !ok {
		return nil, echo_errors.ErrGroupNotFound
	}
	return s.groupCopyLocked(g), nil
}

func (s *MemoryStore) groupCopyLocked(g *model.Group) *model.Group {
	cp := *g
	cp.MemberIDs = make([]string, 0, len(s.members[g.ID]))
	for uid := range s.members[g.ID] {
		cp.MemberIDs = append(cp.MemberIDs, uid)
	}
	sort.Strings(cp.MemberIDs)
	return &cp
}

func (s *MemoryStore) ListGroups(ctx context.Context, limit, offset int) ([]*model.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*model.Group, 0, len(s.groups))
	for _, g := range s.groups {
		all = append(all, s.groupCopyLocked(g))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return page(all, limit, offset), nil
}

func (s *MemoryStore) SetGroupActive(ctx context.Context, id string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[id]
	if !ok {
		return echo_errors.ErrGroupNotFound
	}
	g.Active = active
	g.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) AddMember(ctx context.Context, c MembershipChange) (*model.ChangeRecord, error) {
	return s.setMembership(c, true)
}

func (s *MemoryStore) RemoveMember(ctx context.Context, c MembershipChange) (*model.ChangeRecord, error) {
	return s.setMembership(c, false)
}

func (s *MemoryStore) setMembership(c MembershipChange, member bool) (*model.ChangeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[c.GroupID]
	if !ok {
		return nil, echo_errors.ErrGroupNotFound
	}
	u, ok := s.users[c.UserID]
	if !ok {
		return nil, echo_errors.ErrUserNotFound
	}
	_, isMember := s.members[c.GroupID][c.UserID]
	if isMember == member {
		return nil, nil
	}

	rec := newMembershipRecord(u, g, member, c.ChangedBy, c.ChangedAt)
	if err := s.appendLocked(rec); err != nil {
		return nil, err
	}
	if member {
		s.members[c.GroupID][c.UserID] = struct{}{}
	} else {
		delete(s.members[c.GroupID], c.UserID)
	}
	return rec, nil
}

func (s *MemoryStore) CreateResource(ctx context.Context, r *model.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.resources[r.Ref().Key()]; exists {
		return echo_errors.ErrResourceConflict
	}
	cp := *r
	s.resources[r.Ref().Key()] = &cp
	return nil
}

func (s *MemoryStore) GetResource(ctx context.Context, ref model.ResourceRef) (*model.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.resources[ref.Key()]
	if !ok {
		return nil, echo_errors.ErrResourceNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *MemoryStore) ListResources(ctx context.Context, t model.ResourceType, limit, offset int) ([]*model.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []*model.Resource
	for _, r := range s.resources {
		if t != "" && r.Type != t {
			continue
		}
		cp := *r
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Ref().Key() < all[j].Ref().Key() })
	return page(all, limit, offset), nil
}

func (s *MemoryStore) SetResourceActive(ctx context.Context, ref model.ResourceRef, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.resources[ref.Key()]
	if !ok {
		return echo_errors.ErrResourceNotFound
	}
	r.Active = active
	r.UpdatedAt = time.Now()
	return nil
}

func cloneProfile(p *model.Profile) *model.Profile {
	cp := *p
	cp.Entries = append([]model.ProfileEntry(nil), p.Entries...)
	if p.LastPublished != nil {
		t := *p.LastPublished
		cp.LastPublished = &t
	}
	return &cp
}

func (s *MemoryStore) CreateProfile(ctx context.Context, p *model.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.profiles[p.ID]; exists {
		return echo_errors.ErrProfileConflict
	}
	if p.MappedGroupID != "" {
		if _, ok := s.groups[p.MappedGroupID]; !ok {
			return echo_errors.ErrGroupNotFound
		}
	}
	s.profiles[p.ID] = cloneProfile(p)
	return nil
}

func (s *MemoryStore) UpdateProfile(ctx context.Context, p *model.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.profiles[p.ID]
	if !ok {
		return echo_errors.ErrProfileNotFound
	}
	if p.MappedGroupID != "" {
		if _, ok := s.groups[p.MappedGroupID]; !ok {
			return echo_errors.ErrGroupNotFound
		}
	}
	updated := cloneProfile(p)
	updated.PublishedToPortal = existing.PublishedToPortal
	updated.LastPublished = existing.LastPublished
	updated.CreatedAt = existing.CreatedAt
	s.profiles[p.ID] = updated
	return nil
}

func (s *MemoryStore) GetProfile(ctx context.Context, id string) (*model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[id]
	if !ok {
		return nil, echo_errors.ErrProfileNotFound
	}
	return cloneProfile(p), nil
}

func (s *MemoryStore) ListProfiles(ctx context.Context) ([]*model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, cloneProfile(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) MarkPublished(ctx context.Context, id string, at time.Time) (*model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[id]
	if !ok {
		return nil, echo_errors.ErrProfileNotFound
	}
	published := at
	p.PublishedToPortal = true
	p.LastPublished = &published
	return cloneProfile(p), nil
}

func (s *MemoryStore) AppendChange(ctx context.Context, rec *model.ChangeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(rec)
}

func (s *MemoryStore) QueryChanges(ctx context.Context, filter model.ChangeFilter, order model.ChangeSort, limit int, after *model.ChangeRecord) ([]*model.ChangeRecord, error) {
	if !order.Valid() {
		return nil, echo_errors.ErrInvalidSort
	}
	limit, _ = clampPage(limit, 0)

	s.mu.RLock()
	matched := make([]*model.ChangeRecord, 0, len(s.changes))
	for _, rec := range s.changes {
		if filter.Matches(rec) && order.After(rec, after) {
			cp := *rec
			matched = append(matched, &cp)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool { return order.Less(matched[i], matched[j]) })
	return page(matched, limit, 0), nil
}

func (s *MemoryStore) EvaluationSnapshot(ctx context.Context, userID string, r model.ResourceRef) (*model.EvaluationSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, echo_errors.ErrUserNotFound
	}
	res, ok := s.resources[r.Key()]
	if !ok {
		return nil, echo_errors.ErrResourceNotFound
	}

	snap := &model.EvaluationSnapshot{
		User:     *u,
		Resource: *res,
		Direct:   s.directLocked(model.UserPrincipal(userID), r),
	}

	groupIDs := make([]string, 0)
	for gid, members := range s.members {
		if _, isMember := members[userID]; isMember && s.groups[gid].Active {
			groupIDs = append(groupIDs, gid)
		}
	}
	sort.Strings(groupIDs)
	for _, gid := range groupIDs {
		snap.Groups = append(snap.Groups, model.GroupGrants{
			GroupID: gid,
			Grants:  s.directLocked(model.GroupPrincipal(gid), r),
		})
	}

	if u.ProfileID != "" {
		if p, ok := s.profiles[u.ProfileID]; ok {
			snap.Profile = cloneProfile(p)
			if g, ok := s.groups[p.MappedGroupID]; ok && g.Active {
				snap.ProfileGroup = &model.GroupGrants{
					GroupID: g.ID,
					Grants:  s.directLocked(model.GroupPrincipal(g.ID), r),
				}
			}
		}
	}
	return snap, nil
}

func page[T any](items []T, limit, offset int) []T {
	limit, offset = clampPage(limit, offset)
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
