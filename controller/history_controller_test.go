package controller_test

import (
	"encoding/json"
	"errors"
	"io"
	"iter"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/dev-mohitbeniwal/accessledger/controller"
	echo_errors "github.com/dev-mohitbeniwal/accessledger/errors"
	"github.com/dev-mohitbeniwal/accessledger/model"
	mock_service "github.com/dev-mohitbeniwal/accessledger/test/service_mock"
)

func recordsSeq(records ...*model.ChangeRecord) iter.Seq2[*model.ChangeRecord, error] {
	return func(yield func(*model.ChangeRecord, error) bool) {
		for _, r := range records {
			if !yield(r, nil) {
				return
			}
		}
	}
}

func TestHistoryController(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockHistoryService := mock_service.NewMockIHistoryService(ctrl)
	mockResourceService := mock_service.NewMockIResourceService(ctrl)
	router := setupRouter(controller.NewHistoryController(mockHistoryService, mockResourceService))

	t.Run("Query_PagesTheSequence", func(t *testing.T) {
		mockHistoryService.EXPECT().
			Query(gomock.Any(), model.ChangeFilter{ResourceID: "doc-1"}, model.ChangeSort{Field: model.SortByPrincipalName, Direction: model.SortAsc}).
			Return(recordsSeq(&model.ChangeRecord{ID: "c1"}, &model.ChangeRecord{ID: "c2"}, &model.ChangeRecord{ID: "c3"}), nil)

		w := serve(t, router, http.MethodGet, "/history?resourceId=doc-1&sort=principalName&direction=ASC&limit=1&offset=1", "")

		assert.Equal(t, http.StatusOK, w.Code)
		var page controller.HistoryPage
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		require.Len(t, page.Changes, 1)
		assert.Equal(t, "c2", page.Changes[0].ID)
		assert.True(t, page.HasMore)
	})

	t.Run("Query_FiltersByResourceType", func(t *testing.T) {
		mockHistoryService.EXPECT().
			Query(gomock.Any(), model.ChangeFilter{ResourceType: model.ResourceReport, ResourceID: "r1"}, model.DefaultChangeSort()).
			Return(recordsSeq(&model.ChangeRecord{ID: "c1", ResourceType: model.ResourceReport, ResourceID: "r1"}), nil)

		w := serve(t, router, http.MethodGet, "/history?resourceType=report&resourceId=r1", "")

		assert.Equal(t, http.StatusOK, w.Code)
		var page controller.HistoryPage
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		require.Len(t, page.Changes, 1)
		assert.Equal(t, "c1", page.Changes[0].ID)
	})

	t.Run("Query_DateBounds", func(t *testing.T) {
		from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC).Add(24*time.Hour - time.Nanosecond)
		mockHistoryService.EXPECT().
			Query(gomock.Any(), model.ChangeFilter{From: &from, To: &to}, model.DefaultChangeSort()).
			Return(recordsSeq(), nil)

		w := serve(t, router, http.MethodGet, "/history?from=2024-03-01&to=2024-03-31", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"changes":[],"limit":10,"offset":0,"has_more":false}`, w.Body.String())
	})

	t.Run("Query_InvalidSort", func(t *testing.T) {
		w := serve(t, router, http.MethodGet, "/history?sort=resourceName", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Query_InvalidDate", func(t *testing.T) {
		w := serve(t, router, http.MethodGet, "/history?from=yesterday", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Query_FromAfterTo", func(t *testing.T) {
		mockHistoryService.EXPECT().
			Query(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, echo_errors.ErrInvalidDateRange)

		w := serve(t, router, http.MethodGet, "/history?from=2024-04-01&to=2024-03-01", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Query_SourceFails", func(t *testing.T) {
		failing := func(yield func(*model.ChangeRecord, error) bool) {
			yield(nil, echo_errors.ErrChangeLogUnavailable)
		}
		mockHistoryService.EXPECT().
			Query(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(iter.Seq2[*model.ChangeRecord, error](failing), nil)

		w := serve(t, router, http.MethodGet, "/history", "")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("Export_NamedAfterResource", func(t *testing.T) {
		ref := model.ResourceRef{Type: model.ResourceDictionary, ID: "dict-1"}
		mockResourceService.EXPECT().
			GetResource(gomock.Any(), ref).
			Return(&model.Resource{Type: ref.Type, ID: ref.ID, Name: "Kontrahenci"}, nil)
		mockHistoryService.EXPECT().
			ExportCSV(gomock.Any(), model.ChangeFilter{ResourceType: model.ResourceDictionary, ResourceID: "dict-1"}, gomock.Any()).
			DoAndReturn(func(_ any, _ model.ChangeFilter, w io.Writer) error {
				_, err := io.WriteString(w, "Data zmiany,Użytkownik/Grupa,Typ zmiany,Uprawnienie,Zmienione przez\n")
				return err
			})

		w := serve(t, router, http.MethodGet, "/history/export?resourceType=dictionary&resourceId=dict-1", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="historia_uprawnien_Kontrahenci.csv"`, w.Header().Get("Content-Disposition"))
		assert.Contains(t, w.Body.String(), "Data zmiany")
	})

	t.Run("Export_DefaultName", func(t *testing.T) {
		mockHistoryService.EXPECT().
			ExportCSV(gomock.Any(), model.ChangeFilter{PrincipalID: "u1"}, gomock.Any()).
			Return(nil)

		w := serve(t, router, http.MethodGet, "/history/export?principalId=u1", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, `attachment; filename="historia_uprawnien_dokumentu.csv"`, w.Header().Get("Content-Disposition"))
	})

	t.Run("Export_FailsBeforeWriting", func(t *testing.T) {
		mockHistoryService.EXPECT().
			ExportCSV(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("boom"))

		w := serve(t, router, http.MethodGet, "/history/export", "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Empty(t, w.Header().Get("Content-Disposition"))
	})
}
