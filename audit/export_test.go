package audit

import (
	"bytes"
	"encoding/csv"
	"errors"
	"iter"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-mohitbeniwal/accessledger/model"
)

func seqOf(records []*model.ChangeRecord, tail error) iter.Seq2[*model.ChangeRecord, error] {
	return func(yield func(*model.ChangeRecord, error) bool) {
		for _, r := range records {
			if !yield(r, nil) {
				return
			}
		}
		if tail != nil {
			yield(nil, tail)
		}
	}
}

func TestFormatChangeDate(t *testing.T) {
	warsaw, err := time.LoadLocation("Europe/Warsaw")
	require.NoError(t, err)

	at := time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, "05 mar 2024, 11:30", FormatChangeDate(at, warsaw))
	assert.Equal(t, "05 mar 2024, 10:30", FormatChangeDate(at, nil))
	assert.Equal(t, "31 gru 2023, 23:05", FormatChangeDate(time.Date(2023, 12, 31, 23, 5, 0, 0, time.UTC), time.UTC))
}

func TestWriteCSV(t *testing.T) {
	rec := &model.ChangeRecord{
		PrincipalName:  `Nowak, Anna "AN"`,
		ChangeType:     model.ChangeRemove,
		PermissionType: model.PermWrite,
		ChangedBy:      "admin",
		ChangedAt:      time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC),
	}

	t.Run("QuotesAwkwardFields", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteCSV(&buf, seqOf([]*model.ChangeRecord{rec}, nil), time.UTC))

		rows, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, csvHeader, rows[0])
		assert.Equal(t, []string{"02 sty 2024, 08:00", `Nowak, Anna "AN"`, "Usunięcie", "Zapis", "admin"}, rows[1])
	})

	t.Run("StopsOnSourceError", func(t *testing.T) {
		boom := errors.New("page failed")
		var buf bytes.Buffer
		err := WriteCSV(&buf, seqOf([]*model.ChangeRecord{rec}, boom), time.UTC)
		assert.ErrorIs(t, err, boom)
	})
}

func TestExportFileName(t *testing.T) {
	assert.Equal(t, "historia_uprawnien_Kontrahenci.csv", ExportFileName("Kontrahenci"))
	assert.Equal(t, "historia_uprawnien_dokumentu.csv", ExportFileName(""))
}

func TestBuildSearchQuery(t *testing.T) {
	t.Run("NoFilter", func(t *testing.T) {
		q := buildSearchQuery(model.ChangeFilter{}, model.DefaultChangeSort(), 50, nil)

		assert.Equal(t, map[string]any{"match_all": map[string]any{}}, q["query"])
		assert.NotContains(t, q, "from")
		assert.NotContains(t, q, "search_after")
		assert.Equal(t, 50, q["size"])
		assert.Equal(t, []any{
			map[string]any{"changed_at": map[string]any{"order": "desc"}},
			map[string]any{"seq": map[string]any{"order": "asc"}},
		}, q["sort"])
	})

	t.Run("AllFilters", func(t *testing.T) {
		from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)
		sort := model.ChangeSort{Field: model.SortByPrincipalName, Direction: model.SortAsc}

		q := buildSearchQuery(model.ChangeFilter{ResourceType: model.ResourceDocument, ResourceID: "doc-1", PrincipalID: "u1", From: &from, To: &to}, sort, 10, nil)

		assert.Equal(t, map[string]any{"bool": map[string]any{"filter": []any{
			map[string]any{"term": map[string]any{"resource_type": "document"}},
			map[string]any{"term": map[string]any{"resource_id": "doc-1"}},
			map[string]any{"term": map[string]any{"principal_id": "u1"}},
			map[string]any{"range": map[string]any{"changed_at": map[string]any{
				"gte": "2024-03-01T00:00:00Z",
				"lte": "2024-03-31T23:59:59Z",
			}}},
		}}}, q["query"])
		assert.Equal(t, []any{
			map[string]any{"principal_name": map[string]any{"order": "asc"}},
			map[string]any{"seq": map[string]any{"order": "asc"}},
		}, q["sort"])
	})

	t.Run("ContinuesAfterCursor", func(t *testing.T) {
		at := time.Date(2024, 3, 5, 10, 30, 0, 123456789, time.UTC)
		cursor := &model.ChangeRecord{Seq: 10042, ChangedAt: at, PrincipalName: "Anna"}

		q := buildSearchQuery(model.ChangeFilter{}, model.DefaultChangeSort(), 200, cursor)
		assert.Equal(t, []any{at.UnixMilli(), int64(10042)}, q["search_after"])
		assert.NotContains(t, q, "from")

		byName := model.ChangeSort{Field: model.SortByPrincipalName, Direction: model.SortAsc}
		q = buildSearchQuery(model.ChangeFilter{}, byName, 200, cursor)
		assert.Equal(t, []any{"Anna", int64(10042)}, q["search_after"])
	})
}
