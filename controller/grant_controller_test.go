package controller_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/dev-mohitbeniwal/accessledger/controller"
	echo_errors "github.com/dev-mohitbeniwal/accessledger/errors"
	"github.com/dev-mohitbeniwal/accessledger/model"
	mock_service "github.com/dev-mohitbeniwal/accessledger/test/service_mock"
)

func TestGrantController(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGrantService := mock_service.NewMockIGrantService(ctrl)
	router := setupRouter(controller.NewGrantController(mockGrantService))

	u1 := model.UserPrincipal("u1")
	doc := model.ResourceRef{Type: model.ResourceDocument, ID: "doc-1"}
	grantBody := `{"principal":{"type":"user","id":"u1"},"resource":{"type":"document","id":"doc-1"},"permission":"read"}`

	t.Run("Grant_Success", func(t *testing.T) {
		yes := true
		mockGrantService.EXPECT().
			Grant(gomock.Any(), u1, doc, model.PermRead, requestingUserID).
			Return(&model.ChangeRecord{ID: "c1", ChangeType: model.ChangeAdd, NewValue: &yes}, nil)

		w := serve(t, router, http.MethodPost, "/grants/grant", grantBody)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp controller.ChangesResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Changes, 1)
		assert.Equal(t, model.ChangeAdd, resp.Changes[0].ChangeType)
	})

	t.Run("Grant_NoChange", func(t *testing.T) {
		mockGrantService.EXPECT().
			Grant(gomock.Any(), u1, doc, model.PermRead, requestingUserID).
			Return(nil, nil)

		w := serve(t, router, http.MethodPost, "/grants/grant", grantBody)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"changes":[]}`, w.Body.String())
	})

	t.Run("Grant_InvalidPermission", func(t *testing.T) {
		mockGrantService.EXPECT().
			Grant(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, echo_errors.ErrInvalidPermission)

		w := serve(t, router, http.MethodPost, "/grants/grant", grantBody)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Grant_MalformedBody", func(t *testing.T) {
		w := serve(t, router, http.MethodPost, "/grants/grant", `{"principal":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Grant_Unauthorized", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPost, "/grants/grant", strings.NewReader(grantBody))
		req.Header.Set("X-Anonymous", "1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Revoke_PrincipalNotFound", func(t *testing.T) {
		mockGrantService.EXPECT().
			Revoke(gomock.Any(), u1, doc, model.PermRead, requestingUserID).
			Return(nil, echo_errors.ErrUserNotFound)

		w := serve(t, router, http.MethodPost, "/grants/revoke", grantBody)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Clear_Unavailable", func(t *testing.T) {
		mockGrantService.EXPECT().
			ClearDirectGrant(gomock.Any(), u1, doc, model.PermRead, requestingUserID).
			Return(nil, echo_errors.ErrChangeLogUnavailable)

		w := serve(t, router, http.MethodPost, "/grants/clear", grantBody)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("SaveMatrix_Success", func(t *testing.T) {
		yes, no := true, false
		mockGrantService.EXPECT().
			SetDirectGrants(gomock.Any(), u1, doc, map[model.Permission]*bool{
				model.PermRead:   &yes,
				model.PermWrite:  &no,
				model.PermManage: nil,
			}, requestingUserID).
			Return([]*model.ChangeRecord{{ID: "c1"}, {ID: "c2"}}, nil)

		body := `{"principal":{"type":"user","id":"u1"},"resource":{"type":"document","id":"doc-1"},` +
			`"values":{"read":true,"write":false,"manage":null}}`
		w := serve(t, router, http.MethodPut, "/grants", body)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp controller.ChangesResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Changes, 2)
	})

	t.Run("GetDirectGrants_Success", func(t *testing.T) {
		mockGrantService.EXPECT().
			GetDirectGrants(gomock.Any(), u1, doc).
			Return(map[model.Permission]bool{model.PermRead: true}, nil)

		w := serve(t, router, http.MethodGet, "/grants/user/u1/document/doc-1", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"read":true}`, w.Body.String())
	})

	t.Run("ListDirectGrants_Empty", func(t *testing.T) {
		mockGrantService.EXPECT().
			ListDirectGrants(gomock.Any(), model.GroupPrincipal("g1")).
			Return(nil, nil)

		w := serve(t, router, http.MethodGet, "/grants/group/g1", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})
}
