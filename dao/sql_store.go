// dao/sql_store.go
package dao

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	echo_errors "github.com/dev-mohitbeniwal/accessledger/errors"
	logger "github.com/dev-mohitbeniwal/accessledger/logging"
	"github.com/dev-mohitbeniwal/accessledger/model"
)

// SQLStore is the relational Store, used when storage.driver is postgres.
type SQLStore struct {
	DB *gorm.DB
}

var _ Store = (*SQLStore)(nil)

var changeSortColumns = map[model.SortField]string{
	model.SortByChangedAt:      "changed_at",
	model.SortByPrincipalName:  "principal_name",
	model.SortByChangeType:     "change_type",
	model.SortByPermissionType: "permission_type",
	model.SortByChangedBy:      "changed_by",
}

func NewSQLStore(ctx context.Context, db *gorm.DB) (*SQLStore, error) {
	store := &SQLStore{DB: db}
	if err := store.Migrate(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLStore) Migrate(ctx context.Context) error {
	logger.Info("Running migrations...")
	err := s.DB.WithContext(ctx).AutoMigrate(
		&userRow{},
		&groupRow{},
		&memberRow{},
		&resourceRow{},
		&grantRow{},
		&profileRow{},
		&changeRow{},
	)
	if err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return classifySQLError(err)
	}
	logger.Info("Migrations completed")
	return nil
}

func (s *SQLStore) Close(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *SQLStore) transaction(ctx context.Context, fn func(tx *gorm.DB) error, opts ...*sql.TxOptions) error {
	return classifySQLError(s.DB.WithContext(ctx).Transaction(fn, opts...))
}

func classifySQLError(err error) error {
	if err == nil || isDomainError(err) {
		return err
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", echo_errors.ErrConflict, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505":
			return fmt.Errorf("%w: %v", echo_errors.ErrConflict, err)
		case strings.HasPrefix(pgErr.Code, "08"), strings.HasPrefix(pgErr.Code, "57P"):
			return fmt.Errorf("%w: %v", echo_errors.ErrUnavailable, err)
		}
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) || pgconn.Timeout(err) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", echo_errors.ErrUnavailable, err)
	}
	return fmt.Errorf("%w: %v", echo_errors.ErrDatabaseOperation, err)
}

// take loads one row, mapping a missing row to notFound.
func take(tx *gorm.DB, dest any, notFound error, query string, args ...any) error {
	err := tx.Where(query, args...).Take(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return err
}

func exists(tx *gorm.DB, table any, query string, args ...any) (bool, error) {
	var count int64
	err := tx.Model(table).Where(query, args...).Count(&count).Error
	return count > 0, err
}

func appendChangeRows(tx *gorm.DB, records ...*model.ChangeRecord) error {
	for _, rec := range records {
		if rec.ID == "" {
			rec.ID = newChangeID()
		}
		row := newChangeRow(rec)
		if err := tx.Create(row).Error; err != nil {
			return err
		}
		rec.Seq = row.Seq
	}
	return nil
}

func sqlPrincipalName(tx *gorm.DB, p model.Principal) (string, error) {
	switch p.Type {
	case model.PrincipalUser:
		var u userRow
		if err := take(tx, &u, echo_errors.ErrUserNotFound, "id = ?", p.ID); err != nil {
			return "", err
		}
		return u.Name, nil
	case model.PrincipalGroup:
		var g groupRow
		if err := take(tx, &g, echo_errors.ErrGroupNotFound, "id = ?", p.ID); err != nil {
			return "", err
		}
		return g.Name, nil
	default:
		return "", echo_errors.ErrInvalidPrincipal
	}
}

// grantsFor returns principal id -> permission -> value for the given
// principals on one resource.
func grantsFor(tx *gorm.DB, t model.PrincipalType, ids []string, r model.ResourceRef) (map[string]map[model.Permission]bool, error) {
	out := make(map[string]map[model.Permission]bool, len(ids))
	for _, id := range ids {
		out[id] = make(map[model.Permission]bool)
	}
	if len(ids) == 0 {
		return out, nil
	}
	var rows []grantRow
	err := tx.Where("principal_type = ? AND principal_id IN ? AND resource_type = ? AND resource_id = ?",
		string(t), ids, string(r.Type), r.ID).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.PrincipalID][model.Permission(row.Permission)] = row.Value
	}
	return out, nil
}

// Grants

func (s *SQLStore) ApplyGrants(ctx context.Context, m GrantMutation) ([]*model.ChangeRecord, error) {
	start := time.Now()
	var records []*model.ChangeRecord

	err := s.transaction(ctx, func(tx *gorm.DB) error {
		principalName, err := sqlPrincipalName(tx, m.Principal)
		if err != nil {
			return err
		}
		var res resourceRow
		if err := take(tx, &res, echo_errors.ErrResourceNotFound, "type = ? AND id = ?", string(m.Resource.Type), m.Resource.ID); err != nil {
			return err
		}

		var rows []grantRow
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("principal_type = ? AND principal_id = ? AND resource_type = ? AND resource_id = ?",
				string(m.Principal.Type), m.Principal.ID, string(m.Resource.Type), m.Resource.ID).
			Find(&rows).Error
		if err != nil {
			return err
		}
		current := make(map[model.Permission]bool, len(rows))
		for _, row := range rows {
			current[model.Permission(row.Permission)] = row.Value
		}

		records = planGrantChanges(grantChangeInput{
			principal:     m.Principal,
			principalName: principalName,
			resource:      m.Resource,
			resourceName:  res.Name,
			changedBy:     m.ChangedBy,
			changedAt:     m.ChangedAt,
		}, current, m.Values)
		if len(records) == 0 {
			return nil
		}

		for _, rec := range records {
			key := grantRow{
				PrincipalType: string(m.Principal.Type),
				PrincipalID:   m.Principal.ID,
				ResourceType:  string(m.Resource.Type),
				ResourceID:    m.Resource.ID,
				Permission:    string(rec.PermissionType),
			}
			if rec.NewValue == nil {
				if err := tx.Where(&key).Delete(&grantRow{}).Error; err != nil {
					return err
				}
				continue
			}
			key.Value = *rec.NewValue
			key.UpdatedAt = m.ChangedAt
			key.UpdatedBy = m.ChangedBy
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&key).Error; err != nil {
				return err
			}
		}
		return appendChangeRows(tx, records...)
	})
	if err != nil {
		logger.Error("Failed to apply grants",
			zap.Error(err),
			zap.String("principal", m.Principal.Key()),
			zap.String("resource", m.Resource.Key()),
			zap.Duration("duration", time.Since(start)))
		return nil, err
	}
	return records, nil
}

func (s *SQLStore) GetDirectGrants(ctx context.Context, p model.Principal, r model.ResourceRef) (map[model.Permission]bool, error) {
	var grants map[model.Permission]bool
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		if _, err := sqlPrincipalName(tx, p); err != nil {
			return err
		}
		if ok, err := exists(tx, &resourceRow{}, "type = ? AND id = ?", string(r.Type), r.ID); err != nil {
			return err
		} else if !ok {
			return echo_errors.ErrResourceNotFound
		}
		byPrincipal, err := grantsFor(tx, p.Type, []string{p.ID}, r)
		if err != nil {
			return err
		}
		grants = byPrincipal[p.ID]
		return nil
	})
	return grants, err
}

func (s *SQLStore) ListDirectGrants(ctx context.Context, p model.Principal) ([]model.Grant, error) {
	var grants []model.Grant
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		if _, err := sqlPrincipalName(tx, p); err != nil {
			return err
		}
		var rows []grantRow
		err := tx.Where("principal_type = ? AND principal_id = ?", string(p.Type), p.ID).
			Order("resource_type, resource_id, permission").
			Find(&rows).Error
		if err != nil {
			return err
		}
		for _, row := range rows {
			grants = append(grants, model.Grant{
				Principal:  p,
				Resource:   model.ResourceRef{Type: model.ResourceType(row.ResourceType), ID: row.ResourceID},
				Permission: model.Permission(row.Permission),
				Value:      row.Value,
				Source:     model.SourceDirect,
				UpdatedAt:  row.UpdatedAt,
				UpdatedBy:  row.UpdatedBy,
			})
		}
		return nil
	})
	return grants, err
}

// Users

func (s *SQLStore) CreateUser(ctx context.Context, u *model.User) error {
	return s.transaction(ctx, func(tx *gorm.DB) error {
		if ok, err := exists(tx, &userRow{}, "id = ?", u.ID); err != nil {
			return err
		} else if ok {
			return echo_errors.ErrUserConflict
		}
		if u.ProfileID != "" {
			if ok, err := exists(tx, &profileRow{}, "id = ?", u.ProfileID); err != nil {
				return err
			} else if !ok {
				return echo_errors.ErrProfileNotFound
			}
		}
		return tx.Create(newUserRow(u)).Error
	})
}

func (s *SQLStore) GetUser(ctx context.Context, id string) (*model.User, error) {
	var row userRow
	if err := take(s.DB.WithContext(ctx), &row, echo_errors.ErrUserNotFound, "id = ?", id); err != nil {
		return nil, classifySQLError(err)
	}
	return row.toModel(), nil
}

func (s *SQLStore) ListUsers(ctx context.Context, limit, offset int) ([]*model.User, error) {
	limit, offset = clampPage(limit, offset)
	var rows []userRow
	if err := s.DB.WithContext(ctx).Order("name, id").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, classifySQLError(err)
	}
	users := make([]*model.User, 0, len(rows))
	for i := range rows {
		users = append(users, rows[i].toModel())
	}
	return users, nil
}

func (s *SQLStore) SetUserActive(ctx context.Context, id string, active bool) error {
	return s.setActive(ctx, &userRow{}, echo_errors.ErrUserNotFound, active, "id = ?", id)
}

func (s *SQLStore) setActive(ctx context.Context, table any, notFound error, active bool, query string, args ...any) error {
	result := s.DB.WithContext(ctx).Model(table).Where(query, args...).
		Updates(map[string]any{"active": active, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return classifySQLError(result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound
	}
	return nil
}

func (s *SQLStore) AssignProfile(ctx context.Context, a ProfileAssignment) (*model.ChangeRecord, error) {
	var rec *model.ChangeRecord
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var user userRow
		if err := take(tx.Clauses(clause.Locking{Strength: "UPDATE"}), &user, echo_errors.ErrUserNotFound, "id = ?", a.UserID); err != nil {
			return err
		}

		var oldProfile, newProfile *model.Profile
		if user.ProfileID != nil {
			var row profileRow
			if err := take(tx, &row, echo_errors.ErrProfileNotFound, "id = ?", *user.ProfileID); err == nil {
				oldProfile = row.toModel()
			} else if !errors.Is(err, echo_errors.ErrProfileNotFound) {
				return err
			}
		}
		if a.ProfileID != "" {
			var row profileRow
			if err := take(tx, &row, echo_errors.ErrProfileNotFound, "id = ?", a.ProfileID); err != nil {
				return err
			}
			newProfile = row.toModel()
		}

		rec = newProfileAssignmentRecord(user.toModel(), oldProfile, newProfile, a.ChangedBy, a.ChangedAt)
		if rec == nil {
			return nil
		}

		var profileID *string
		if a.ProfileID != "" {
			profileID = &a.ProfileID
		}
		err := tx.Model(&userRow{}).Where("id = ?", a.UserID).
			Updates(map[string]any{"profile_id": profileID, "updated_at": a.ChangedAt}).Error
		if err != nil {
			return err
		}
		return appendChangeRows(tx, rec)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Groups

func (s *SQLStore) CreateGroup(ctx context.Context, g *model.Group) error {
	return s.transaction(ctx, func(tx *gorm.DB) error {
		if ok, err := exists(tx, &groupRow{}, "id = ?", g.ID); err != nil {
			return err
		} else if ok {
			return echo_errors.ErrGroupConflict
		}
		return tx.Create(&groupRow{
			ID:          g.ID,
			Name:        g.Name,
			Description: g.Description,
			Active:      g.Active,
			CreatedAt:   g.CreatedAt,
			UpdatedAt:   g.UpdatedAt,
		}).Error
	})
}

func (s *SQLStore) GetGroup(ctx context.Context, id string) (*model.Group, error) {
	db := s.DB.WithContext(ctx)
	var row groupRow
	if err := take(db, &row, echo_errors.ErrGroupNotFound, "id = ?", id); err != nil {
		return nil, classifySQLError(err)
	}
	var members []string
	if err := db.Model(&memberRow{}).Where("group_id = ?", id).Order("user_id").Pluck("user_id", &members).Error; err != nil {
		return nil, classifySQLError(err)
	}
	return row.toModel(members), nil
}

func (s *SQLStore) ListGroups(ctx context.Context, limit, offset int) ([]*model.Group, error) {
	limit, offset = clampPage(limit, offset)
	db := s.DB.WithContext(ctx)

	var rows []groupRow
	if err := db.Order("name, id").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, classifySQLError(err)
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	members := make(map[string][]string, len(rows))
	if len(ids) > 0 {
		var memberRows []memberRow
		if err := db.Where("group_id IN ?", ids).Order("user_id").Find(&memberRows).Error; err != nil {
			return nil, classifySQLError(err)
		}
		for _, m := range memberRows {
			members[m.GroupID] = append(members[m.GroupID], m.UserID)
		}
	}

	groups := make([]*model.Group, 0, len(rows))
	for i := range rows {
		groups = append(groups, rows[i].toModel(members[rows[i].ID]))
	}
	return groups, nil
}

func (s *SQLStore) SetGroupActive(ctx context.Context, id string, active bool) error {
	return s.setActive(ctx, &groupRow{}, echo_errors.ErrGroupNotFound, active, "id = ?", id)
}

func (s *SQLStore) AddMember(ctx context.Context, c MembershipChange) (*model.ChangeRecord, error) {
	return s.changeMembership(ctx, c, true)
}

func (s *SQLStore) RemoveMember(ctx context.Context, c MembershipChange) (*model.ChangeRecord, error) {
	return s.changeMembership(ctx, c, false)
}

func (s *SQLStore) changeMembership(ctx context.Context, c MembershipChange, add bool) (*model.ChangeRecord, error) {
	var rec *model.ChangeRecord
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var group groupRow
		if err := take(tx.Clauses(clause.Locking{Strength: "UPDATE"}), &group, echo_errors.ErrGroupNotFound, "id = ?", c.GroupID); err != nil {
			return err
		}
		var user userRow
		if err := take(tx, &user, echo_errors.ErrUserNotFound, "id = ?", c.UserID); err != nil {
			return err
		}
		member, err := exists(tx, &memberRow{}, "group_id = ? AND user_id = ?", c.GroupID, c.UserID)
		if err != nil {
			return err
		}
		if member == add {
			return nil
		}

		if add {
			err = tx.Create(&memberRow{GroupID: c.GroupID, UserID: c.UserID, CreatedAt: c.ChangedAt}).Error
		} else {
			err = tx.Where("group_id = ? AND user_id = ?", c.GroupID, c.UserID).Delete(&memberRow{}).Error
		}
		if err != nil {
			return err
		}
		rec = newMembershipRecord(user.toModel(), group.toModel(nil), add, c.ChangedBy, c.ChangedAt)
		return appendChangeRows(tx, rec)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Resources

func (s *SQLStore) CreateResource(ctx context.Context, r *model.Resource) error {
	return s.transaction(ctx, func(tx *gorm.DB) error {
		if ok, err := exists(tx, &resourceRow{}, "type = ? AND id = ?", string(r.Type), r.ID); err != nil {
			return err
		} else if ok {
			return echo_errors.ErrResourceConflict
		}
		return tx.Create(&resourceRow{
			Type:      string(r.Type),
			ID:        r.ID,
			Name:      r.Name,
			Active:    r.Active,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		}).Error
	})
}

func (s *SQLStore) GetResource(ctx context.Context, ref model.ResourceRef) (*model.Resource, error) {
	var row resourceRow
	if err := take(s.DB.WithContext(ctx), &row, echo_errors.ErrResourceNotFound, "type = ? AND id = ?", string(ref.Type), ref.ID); err != nil {
		return nil, classifySQLError(err)
	}
	return row.toModel(), nil
}

func (s *SQLStore) ListResources(ctx context.Context, t model.ResourceType, limit, offset int) ([]*model.Resource, error) {
	limit, offset = clampPage(limit, offset)
	q := s.DB.WithContext(ctx).Model(&resourceRow{})
	if t != "" {
		q = q.Where("type = ?", string(t))
	}
	var rows []resourceRow
	if err := q.Order("type, name, id").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, classifySQLError(err)
	}
	resources := make([]*model.Resource, 0, len(rows))
	for i := range rows {
		resources = append(resources, rows[i].toModel())
	}
	return resources, nil
}

func (s *SQLStore) SetResourceActive(ctx context.Context, ref model.ResourceRef, active bool) error {
	return s.setActive(ctx, &resourceRow{}, echo_errors.ErrResourceNotFound, active, "type = ? AND id = ?", string(ref.Type), ref.ID)
}

// Profiles

func (s *SQLStore) CreateProfile(ctx context.Context, p *model.Profile) error {
	return s.transaction(ctx, func(tx *gorm.DB) error {
		if ok, err := exists(tx, &profileRow{}, "id = ?", p.ID); err != nil {
			return err
		} else if ok {
			return echo_errors.ErrProfileConflict
		}
		if err := requireGroup(tx, p.MappedGroupID); err != nil {
			return err
		}
		return tx.Create(newProfileRow(p)).Error
	})
}

func (s *SQLStore) UpdateProfile(ctx context.Context, p *model.Profile) error {
	return s.transaction(ctx, func(tx *gorm.DB) error {
		if ok, err := exists(tx, &profileRow{}, "id = ?", p.ID); err != nil {
			return err
		} else if !ok {
			return echo_errors.ErrProfileNotFound
		}
		if err := requireGroup(tx, p.MappedGroupID); err != nil {
			return err
		}
		return tx.Model(&profileRow{ID: p.ID}).
			Select("Name", "Description", "MappedGroupID", "Entries", "UpdatedAt").
			Updates(newProfileRow(p)).Error
	})
}

func requireGroup(tx *gorm.DB, groupID string) error {
	if groupID == "" {
		return nil
	}
	ok, err := exists(tx, &groupRow{}, "id = ?", groupID)
	if err != nil {
		return err
	}
	if !ok {
		return echo_errors.ErrGroupNotFound
	}
	return nil
}

func (s *SQLStore) GetProfile(ctx context.Context, id string) (*model.Profile, error) {
	var row profileRow
	if err := take(s.DB.WithContext(ctx), &row, echo_errors.ErrProfileNotFound, "id = ?", id); err != nil {
		return nil, classifySQLError(err)
	}
	return row.toModel(), nil
}

func (s *SQLStore) ListProfiles(ctx context.Context) ([]*model.Profile, error) {
	var rows []profileRow
	if err := s.DB.WithContext(ctx).Order("name, id").Find(&rows).Error; err != nil {
		return nil, classifySQLError(err)
	}
	profiles := make([]*model.Profile, 0, len(rows))
	for i := range rows {
		profiles = append(profiles, rows[i].toModel())
	}
	return profiles, nil
}

func (s *SQLStore) MarkPublished(ctx context.Context, id string, at time.Time) (*model.Profile, error) {
	var profile *model.Profile
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		result := tx.Model(&profileRow{}).Where("id = ?", id).
			Updates(map[string]any{"published_to_portal": true, "last_published": at})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return echo_errors.ErrProfileNotFound
		}
		var row profileRow
		if err := take(tx, &row, echo_errors.ErrProfileNotFound, "id = ?", id); err != nil {
			return err
		}
		profile = row.toModel()
		return nil
	})
	return profile, err
}

// Change log

func (s *SQLStore) AppendChange(ctx context.Context, rec *model.ChangeRecord) error {
	return s.transaction(ctx, func(tx *gorm.DB) error {
		return appendChangeRows(tx, rec)
	})
}

func (s *SQLStore) QueryChanges(ctx context.Context, filter model.ChangeFilter, order model.ChangeSort, limit int, after *model.ChangeRecord) ([]*model.ChangeRecord, error) {
	if !order.Valid() {
		return nil, echo_errors.ErrInvalidSort
	}
	limit, _ = clampPage(limit, 0)
	column := changeSortColumns[order.Field]

	q := s.DB.WithContext(ctx).Model(&changeRow{})
	if filter.ResourceType != "" {
		q = q.Where("resource_type = ?", string(filter.ResourceType))
	}
	if filter.ResourceID != "" {
		q = q.Where("resource_id = ?", filter.ResourceID)
	}
	if filter.PrincipalID != "" {
		q = q.Where("principal_id = ?", filter.PrincipalID)
	}
	if filter.From != nil {
		q = q.Where("changed_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("changed_at <= ?", *filter.To)
	}
	if after != nil {
		op := ">"
		if order.Direction == model.SortDesc {
			op = "<"
		}
		value := order.Value(after)
		q = q.Where(fmt.Sprintf("((%[1]s %[2]s ?) OR (%[1]s = ? AND seq > ?))", column, op), value, value, after.Seq)
	}

	var rows []changeRow
	err := q.Order(clause.OrderByColumn{
		Column: clause.Column{Name: column},
		Desc:   order.Direction == model.SortDesc,
	}).Order("seq ASC").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, classifySQLError(err)
	}
	records := make([]*model.ChangeRecord, 0, len(rows))
	for i := range rows {
		records = append(records, rows[i].toModel())
	}
	return records, nil
}

// Snapshot

// EvaluationSnapshot reads all layers inside one repeatable-read
// transaction.
func (s *SQLStore) EvaluationSnapshot(ctx context.Context, userID string, ref model.ResourceRef) (*model.EvaluationSnapshot, error) {
	var snap *model.EvaluationSnapshot
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var user userRow
		if err := take(tx, &user, echo_errors.ErrUserNotFound, "id = ?", userID); err != nil {
			return err
		}
		var res resourceRow
		if err := take(tx, &res, echo_errors.ErrResourceNotFound, "type = ? AND id = ?", string(ref.Type), ref.ID); err != nil {
			return err
		}

		direct, err := grantsFor(tx, model.PrincipalUser, []string{userID}, ref)
		if err != nil {
			return err
		}
		snap = &model.EvaluationSnapshot{
			User:     *user.toModel(),
			Resource: *res.toModel(),
			Direct:   direct[userID],
		}

		var groupIDs []string
		err = tx.Table("group_members AS m").
			Joins("JOIN principal_groups AS g ON g.id = m.group_id").
			Where("m.user_id = ? AND g.active = ?", userID, true).
			Order("g.id").
			Pluck("g.id", &groupIDs).Error
		if err != nil {
			return err
		}
		groupGrants, err := grantsFor(tx, model.PrincipalGroup, groupIDs, ref)
		if err != nil {
			return err
		}
		sort.Strings(groupIDs)
		for _, id := range groupIDs {
			snap.Groups = append(snap.Groups, model.GroupGrants{GroupID: id, Grants: groupGrants[id]})
		}

		if user.ProfileID == nil {
			return nil
		}
		var profile profileRow
		if err := take(tx, &profile, echo_errors.ErrProfileNotFound, "id = ?", *user.ProfileID); err != nil {
			if errors.Is(err, echo_errors.ErrProfileNotFound) {
				return nil
			}
			return err
		}
		snap.Profile = profile.toModel()
		if profile.MappedGroupID == nil {
			return nil
		}
		var mapped groupRow
		if err := take(tx, &mapped, echo_errors.ErrGroupNotFound, "id = ?", *profile.MappedGroupID); err != nil {
			if errors.Is(err, echo_errors.ErrGroupNotFound) {
				return nil
			}
			return err
		}
		if !mapped.Active {
			return nil
		}
		mappedGrants, err := grantsFor(tx, model.PrincipalGroup, []string{mapped.ID}, ref)
		if err != nil {
			return err
		}
		snap.ProfileGroup = &model.GroupGrants{GroupID: mapped.ID, Grants: mappedGrants[mapped.ID]}
		return nil
	}, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, err
	}
	return snap, nil
}
