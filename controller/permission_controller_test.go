package controller_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/dev-mohitbeniwal/accessledger/controller"
	echo_errors "github.com/dev-mohitbeniwal/accessledger/errors"
	"github.com/dev-mohitbeniwal/accessledger/model"
	pdp_model "github.com/dev-mohitbeniwal/accessledger/pdp/model"
	mock_service "github.com/dev-mohitbeniwal/accessledger/test/service_mock"
)

func TestPermissionController(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPermissionService := mock_service.NewMockIPermissionService(ctrl)
	router := setupRouter(controller.NewPermissionController(mockPermissionService))

	dict := model.ResourceRef{Type: model.ResourceDictionary, ID: "dict-1"}

	t.Run("EffectivePermission_Success", func(t *testing.T) {
		mockPermissionService.EXPECT().
			EffectivePermission(gomock.Any(), pdp_model.AccessRequest{UserID: "u1", Resource: dict, Permission: model.PermWrite}).
			Return(model.Decision{Permission: model.PermWrite, Granted: true, Source: model.SourceGroup, SourceRef: "g1", Overridable: true}, nil)

		w := serve(t, router, http.MethodGet, "/users/u1/effective/dictionary/dict-1/write", "")

		assert.Equal(t, http.StatusOK, w.Code)
		var d model.Decision
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &d))
		assert.True(t, d.Granted)
		assert.Equal(t, model.SourceGroup, d.Source)
		assert.Equal(t, "g1", d.SourceRef)
	})

	t.Run("EffectivePermission_InvalidPermission", func(t *testing.T) {
		mockPermissionService.EXPECT().
			EffectivePermission(gomock.Any(), gomock.Any()).
			Return(model.Decision{}, echo_errors.ErrInvalidPermission)

		w := serve(t, router, http.MethodGet, "/users/u1/effective/dictionary/dict-1/fly", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Bulk_VocabularyOrder", func(t *testing.T) {
		decisions := map[model.Permission]model.Decision{}
		for _, p := range model.ResourceDictionary.Permissions() {
			decisions[p] = model.Decision{Permission: p, Granted: p == model.PermRead, Source: model.SourceProfile, SourceRef: "prof-1", Overridable: true}
		}
		mockPermissionService.EXPECT().
			BulkEffectivePermissions(gomock.Any(), "u1", dict).
			Return(decisions, nil)

		w := serve(t, router, http.MethodGet, "/users/u1/effective/dictionary/dict-1", "")

		assert.Equal(t, http.StatusOK, w.Code)
		var matrix controller.PermissionMatrix
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &matrix))
		assert.Equal(t, "u1", matrix.UserID)
		assert.Equal(t, dict, matrix.Resource)
		require.Len(t, matrix.Permissions, len(model.ResourceDictionary.Permissions()))
		for i, p := range model.ResourceDictionary.Permissions() {
			assert.Equal(t, p, matrix.Permissions[i].Permission)
		}
	})

	t.Run("Bulk_UserNotFound", func(t *testing.T) {
		mockPermissionService.EXPECT().
			BulkEffectivePermissions(gomock.Any(), "ghost", dict).
			Return(nil, echo_errors.ErrUserNotFound)

		w := serve(t, router, http.MethodGet, "/users/ghost/effective/dictionary/dict-1", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
