// seed/seed.go
package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	logger "github.com/dev-mohitbeniwal/accessledger/logging"
	"github.com/dev-mohitbeniwal/accessledger/model"
	"github.com/dev-mohitbeniwal/accessledger/service"
)

// SystemUserID is recorded as the author of every seeded change.
const SystemUserID = "system"

type seedGroup struct {
	ID          string
	Name        string
	Description string
}

type seedProfile struct {
	ID          string
	Name        string
	Description string
	GroupID     string
	Entries     []model.ProfileEntry
	Publish     bool
}

type seedUser struct {
	ID        string
	Name      string
	Email     string
	ProfileID string
	Source    model.UserSource
	Active    bool
}

type seedGrant struct {
	Principal  model.Principal
	Resource   model.ResourceRef
	Permission model.Permission
	Value      bool
}

var groups = []seedGroup{
	{ID: "grp-administratorzy", Name: "Administratorzy", Description: "Pełne uprawnienia do systemu"},
	{ID: "grp-ksiegowi", Name: "Księgowi", Description: "Uprawnienia do pełnej księgowości"},
	{ID: "grp-asystenci", Name: "Asystenci księgowych", Description: "Ograniczone uprawnienia księgowe"},
	{ID: "grp-kierownicy", Name: "Kierownicy", Description: "Uprawnienia zarządcze i raportowe"},
	{ID: "grp-praktykanci", Name: "Praktykanci", Description: "Minimalne uprawnienia, tylko odczyt"},
}

var resources = []model.Resource{
	{Type: model.ResourceDocument, ID: "doc-faktura-2024-001", Name: "Faktura FV/2024/001"},
	{Type: model.ResourceDocument, ID: "doc-umowa-najmu", Name: "Umowa najmu lokalu"},
	{Type: model.ResourceDictionary, ID: "dict-kontrahenci", Name: "Kontrahenci"},
	{Type: model.ResourceDictionary, ID: "dict-stawki-vat", Name: "Stawki VAT"},
	{Type: model.ResourceReport, ID: "rep-bilans-2023", Name: "Bilans 2023"},
	{Type: model.ResourceCompanyRecord, ID: "firma-abc", Name: "ABC Sp. z o.o."},
}

// typeWide grants or denies every listed permission on all resources of t.
func typeWide(t model.ResourceType, value bool, perms ...model.Permission) []model.ProfileEntry {
	if len(perms) == 0 {
		perms = t.Permissions()
	}
	entries := make([]model.ProfileEntry, 0, len(perms))
	for _, p := range perms {
		entries = append(entries, model.ProfileEntry{ResourceType: t, Permission: p, Value: value})
	}
	return entries
}

func concat(parts ...[]model.ProfileEntry) []model.ProfileEntry {
	var out []model.ProfileEntry
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// readOnly allows read on every grantable type and denies everything else.
func readOnly() []model.ProfileEntry {
	var out []model.ProfileEntry
	for _, t := range []model.ResourceType{model.ResourceDocument, model.ResourceDictionary, model.ResourceReport, model.ResourceCompanyRecord} {
		for _, p := range t.Permissions() {
			out = append(out, model.ProfileEntry{ResourceType: t, Permission: p, Value: p == model.PermRead})
		}
	}
	return out
}

var profiles = []seedProfile{
	{
		ID:          "prof-administrator",
		Name:        "Administrator systemu",
		Description: "Profil z pełnymi uprawnieniami administracyjnymi",
		GroupID:     "grp-administratorzy",
		Entries: concat(
			typeWide(model.ResourceDocument, true),
			typeWide(model.ResourceDictionary, true),
			typeWide(model.ResourceReport, true),
			typeWide(model.ResourceCompanyRecord, true),
		),
		Publish: true,
	},
	{
		ID:          "prof-ksiegowy",
		Name:        "Księgowy",
		Description: "Profil dla księgowych z pełnymi uprawnieniami księgowymi",
		GroupID:     "grp-ksiegowi",
		Entries: concat(
			typeWide(model.ResourceDocument, true, model.PermRead, model.PermWrite),
			typeWide(model.ResourceDictionary, true, model.PermRead, model.PermWrite, model.PermEditElements),
			typeWide(model.ResourceReport, true, model.PermRead, model.PermWrite),
			typeWide(model.ResourceCompanyRecord, true, model.PermRead),
		),
		Publish: true,
	},
	{
		ID:          "prof-asystent",
		Name:        "Asystent księgowego",
		Description: "Profil dla asystentów księgowych z ograniczonymi uprawnieniami",
		GroupID:     "grp-asystenci",
		Entries: concat(
			typeWide(model.ResourceDocument, true, model.PermRead, model.PermWrite),
			typeWide(model.ResourceDictionary, true, model.PermRead),
			typeWide(model.ResourceReport, true, model.PermRead),
		),
		Publish: true,
	},
	{
		ID:          "prof-kierownik",
		Name:        "Kierownik",
		Description: "Profil dla kierowników z uprawnieniami zarządczymi",
		GroupID:     "grp-kierownicy",
		Entries: concat(
			typeWide(model.ResourceDocument, true, model.PermRead, model.PermManage),
			typeWide(model.ResourceReport, true),
			typeWide(model.ResourceCompanyRecord, true, model.PermRead, model.PermManage),
		),
		Publish: true,
	},
	{
		ID:          "prof-praktykant",
		Name:        "Praktykant",
		Description: "Profil dla praktykantów z minimalnymi uprawnieniami",
		GroupID:     "grp-praktykanci",
		Entries:     readOnly(),
	},
}

var users = []seedUser{
	{ID: "usr-jan-kowalski", Name: "Jan Kowalski", Email: "jan.kowalski@firma.pl", ProfileID: "prof-administrator", Source: model.UserSourcePortal, Active: true},
	{ID: "usr-anna-nowak", Name: "Anna Nowak", Email: "anna.nowak@firma.pl", ProfileID: "prof-ksiegowy", Source: model.UserSourcePortal, Active: true},
	{ID: "usr-piotr-wisniewski", Name: "Piotr Wiśniewski", Email: "piotr.wisniewski@firma.pl", ProfileID: "prof-asystent", Source: model.UserSourcePortal, Active: true},
	{ID: "usr-magdalena-kowalska", Name: "Magdalena Kowalska", Email: "magdalena.kowalska@firma.pl", ProfileID: "prof-kierownik", Source: model.UserSourceLocal, Active: false},
	{ID: "usr-tomasz-zielinski", Name: "Tomasz Zieliński", Email: "tomasz.zielinski@firma.pl", ProfileID: "prof-praktykant", Source: model.UserSourceLocal, Active: true},
}

var grants = []seedGrant{
	{Principal: model.GroupPrincipal("grp-ksiegowi"), Resource: model.ResourceRef{Type: model.ResourceDictionary, ID: "dict-kontrahenci"}, Permission: model.PermDeleteElements, Value: true},
	{Principal: model.GroupPrincipal("grp-kierownicy"), Resource: model.ResourceRef{Type: model.ResourceDocument, ID: "doc-umowa-najmu"}, Permission: model.PermWrite, Value: true},
	{Principal: model.UserPrincipal("usr-anna-nowak"), Resource: model.ResourceRef{Type: model.ResourceReport, ID: "rep-bilans-2023"}, Permission: model.PermPublish, Value: true},
	{Principal: model.UserPrincipal("usr-piotr-wisniewski"), Resource: model.ResourceRef{Type: model.ResourceDocument, ID: "doc-faktura-2024-001"}, Permission: model.PermWrite, Value: false},
}

type Seeder struct {
	services *service.Services
}

func NewSeeder(services *service.Services) *Seeder {
	return &Seeder{services: services}
}

// Seed loads the sample directory unless profiles already exist.
func (s *Seeder) Seed(ctx context.Context) error {
	existing, err := s.services.Profile.ListProfiles(ctx)
	if err != nil {
		return fmt.Errorf("checking existing profiles: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("Seed skipped, profiles already present", zap.Int("profiles", len(existing)))
		return nil
	}

	for _, g := range groups {
		if _, err := s.services.Group.CreateGroup(ctx, model.Group{ID: g.ID, Name: g.Name, Description: g.Description}, SystemUserID); err != nil {
			return fmt.Errorf("seeding group %s: %w", g.Name, err)
		}
	}
	for _, r := range resources {
		if _, err := s.services.Resource.CreateResource(ctx, r, SystemUserID); err != nil {
			return fmt.Errorf("seeding resource %s: %w", r.Ref().Key(), err)
		}
	}
	for _, p := range profiles {
		profile := model.Profile{ID: p.ID, Name: p.Name, Description: p.Description, MappedGroupID: p.GroupID, Entries: p.Entries}
		if _, err := s.services.Profile.CreateProfile(ctx, profile, SystemUserID); err != nil {
			return fmt.Errorf("seeding profile %s: %w", p.Name, err)
		}
	}
	for _, u := range users {
		if err := s.seedUser(ctx, u); err != nil {
			return err
		}
	}
	for _, g := range grants {
		if _, err := s.services.Grant.SetDirectGrant(ctx, g.Principal, g.Resource, g.Permission, g.Value, SystemUserID); err != nil {
			return fmt.Errorf("seeding grant %s on %s: %w", g.Principal.Key(), g.Resource.Key(), err)
		}
	}
	for _, p := range profiles {
		if !p.Publish {
			continue
		}
		if _, err := s.services.Profile.PublishProfile(ctx, p.ID, SystemUserID); err != nil {
			return fmt.Errorf("publishing profile %s: %w", p.Name, err)
		}
	}

	logger.Info("Seed data loaded",
		zap.Int("groups", len(groups)),
		zap.Int("profiles", len(profiles)),
		zap.Int("users", len(users)),
		zap.Int("resources", len(resources)))
	return nil
}

// seedUser creates the user and joins it to its profile. Portal users arrive
// with their profile already set, so only the group membership is added.
func (s *Seeder) seedUser(ctx context.Context, u seedUser) error {
	user := model.User{ID: u.ID, Name: u.Name, Email: u.Email, Source: u.Source}
	if u.Source == model.UserSourcePortal {
		user.ProfileID = u.ProfileID
	}
	if _, err := s.services.User.CreateUser(ctx, user, SystemUserID); err != nil {
		return fmt.Errorf("seeding user %s: %w", u.Email, err)
	}

	if u.Source == model.UserSourcePortal {
		profile, err := s.services.Profile.GetProfile(ctx, u.ProfileID)
		if err != nil {
			return err
		}
		if _, err := s.services.Group.AddMember(ctx, profile.MappedGroupID, u.ID, SystemUserID); err != nil {
			return fmt.Errorf("joining %s to %s: %w", u.Email, profile.MappedGroupID, err)
		}
	} else if _, err := s.services.User.AssignProfile(ctx, u.ID, u.ProfileID, SystemUserID); err != nil {
		return fmt.Errorf("assigning profile to %s: %w", u.Email, err)
	}

	if !u.Active {
		if err := s.services.User.SetUserActive(ctx, u.ID, false, SystemUserID); err != nil {
			return fmt.Errorf("deactivating %s: %w", u.Email, err)
		}
	}
	return nil
}
