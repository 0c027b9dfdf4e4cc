// util/validation_util.go

package util

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	echo_errors "github.com/dev-mohitbeniwal/accessledger/errors"
	"github.com/dev-mohitbeniwal/accessledger/model"
)

type ValidationUtil struct {
	validate *validator.Validate
}

func NewValidationUtil() *ValidationUtil {
	return &ValidationUtil{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// describe turns validator errors into one readable line.
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

func (v *ValidationUtil) ValidateUser(user model.User) error {
	if strings.TrimSpace(user.ID) == "" {
		return fmt.Errorf("%w: user ID cannot be empty", echo_errors.ErrInvalidUserData)
	}
	if err := v.validate.Struct(user); err != nil {
		return fmt.Errorf("%w: %s", echo_errors.ErrInvalidUserData, describe(err))
	}
	return nil
}

func (v *ValidationUtil) ValidateGroup(group model.Group) error {
	if strings.TrimSpace(group.ID) == "" {
		return fmt.Errorf("%w: group ID cannot be empty", echo_errors.ErrInvalidGroupData)
	}
	if err := v.validate.Struct(group); err != nil {
		return fmt.Errorf("%w: %s", echo_errors.ErrInvalidGroupData, describe(err))
	}
	return nil
}

func (v *ValidationUtil) ValidateResource(resource model.Resource) error {
	if err := v.validate.Struct(resource); err != nil {
		return fmt.Errorf("%w: %s", echo_errors.ErrInvalidResourceData, describe(err))
	}
	if !resource.Type.Grantable() {
		return fmt.Errorf("%w: %s", echo_errors.ErrInvalidResourceType, resource.Type)
	}
	return nil
}

func (v *ValidationUtil) ValidatePrincipal(p model.Principal) error {
	if err := v.validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %s", echo_errors.ErrInvalidPrincipal, describe(err))
	}
	return nil
}

func (v *ValidationUtil) ValidateResourceRef(ref model.ResourceRef) error {
	if err := v.validate.Struct(ref); err != nil {
		return fmt.Errorf("%w: %s", echo_errors.ErrInvalidResourceData, describe(err))
	}
	if !ref.Type.Grantable() {
		return fmt.Errorf("%w: %s", echo_errors.ErrInvalidResourceType, ref.Type)
	}
	return nil
}

// ValidatePermission checks that p is in the vocabulary of resource type t.
func (v *ValidationUtil) ValidatePermission(t model.ResourceType, p model.Permission) error {
	if !t.Allows(p) {
		return fmt.Errorf("%w: %q is not defined for %s", echo_errors.ErrInvalidPermission, p, t)
	}
	return nil
}

func (v *ValidationUtil) ValidateProfile(profile model.Profile) error {
	if strings.TrimSpace(profile.ID) == "" {
		return fmt.Errorf("%w: profile ID cannot be empty", echo_errors.ErrInvalidProfileData)
	}
	if err := v.validate.Struct(profile); err != nil {
		return fmt.Errorf("%w: %s", echo_errors.ErrInvalidProfileData, describe(err))
	}
	seen := make(map[string]struct{}, len(profile.Entries))
	for _, e := range profile.Entries {
		if !e.ResourceType.Grantable() {
			return fmt.Errorf("%w: %s", echo_errors.ErrInvalidResourceType, e.ResourceType)
		}
		if err := v.ValidatePermission(e.ResourceType, e.Permission); err != nil {
			return err
		}
		key := string(e.ResourceType) + ":" + e.ResourceID + ":" + string(e.Permission)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: duplicate entry %s", echo_errors.ErrInvalidProfileData, key)
		}
		seen[key] = struct{}{}
	}
	return nil
}
