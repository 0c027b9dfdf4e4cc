package service_test

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echo_errors "github.com/dev-mohitbeniwal/accessledger/errors"
	"github.com/dev-mohitbeniwal/accessledger/model"
)

func record(principal, name string, perm model.Permission, at time.Time) *model.ChangeRecord {
	yes := true
	return &model.ChangeRecord{
		ResourceType:   model.ResourceDocument,
		ResourceID:     "doc1",
		ResourceName:   "Umowa",
		PrincipalID:    principal,
		PrincipalType:  model.PrincipalUser,
		PrincipalName:  name,
		ChangeType:     model.ChangeAdd,
		PermissionType: perm,
		NewValue:       &yes,
		ChangedBy:      admin,
		ChangedAt:      at,
	}
}

func TestHistoryService(t *testing.T) {
	env := newTestEnv(t)
	t0 := time.Date(2024, time.March, 5, 9, 30, 0, 0, time.UTC)

	// Two records share a timestamp; insertion order must break the tie.
	require.NoError(t, env.services.History.Record(env.ctx, record("u1", "Anna", model.PermRead, t0)))
	require.NoError(t, env.services.History.Record(env.ctx, record("u2", "Jan", model.PermWrite, t0.Add(time.Hour))))
	require.NoError(t, env.services.History.Record(env.ctx, record("u3", "Ewa", model.PermManage, t0.Add(time.Hour))))
	require.NoError(t, env.services.History.Record(env.ctx, record("u1", "Kowalski, Jan \"JK\"", model.PermWrite, t0.Add(2*time.Hour))))

	t.Run("DefaultSort_NewestFirstTiesByInsertion", func(t *testing.T) {
		got := collect(t, env, model.ChangeFilter{}, model.DefaultChangeSort())
		require.Len(t, got, 4)
		assert.Equal(t, "Kowalski, Jan \"JK\"", got[0].PrincipalName)
		assert.Equal(t, "Jan", got[1].PrincipalName)
		assert.Equal(t, "Ewa", got[2].PrincipalName)
		assert.Equal(t, "Anna", got[3].PrincipalName)
		assert.Less(t, got[1].Seq, got[2].Seq)
	})

	t.Run("SequenceIsRestartable", func(t *testing.T) {
		seq, err := env.services.History.Query(env.ctx, model.ChangeFilter{}, model.DefaultChangeSort())
		require.NoError(t, err)

		var first, second []string
		for rec, err := range seq {
			require.NoError(t, err)
			first = append(first, rec.ID)
		}
		for rec, err := range seq {
			require.NoError(t, err)
			second = append(second, rec.ID)
		}
		assert.Len(t, first, 4)
		assert.Equal(t, first, second)
	})

	t.Run("EarlyBreak", func(t *testing.T) {
		seq, err := env.services.History.Query(env.ctx, model.ChangeFilter{}, model.DefaultChangeSort())
		require.NoError(t, err)
		n := 0
		for range seq {
			n++
			if n == 3 {
				break
			}
		}
		assert.Equal(t, 3, n)
	})

	t.Run("FilterByPrincipalAndDate", func(t *testing.T) {
		got := collect(t, env, model.ChangeFilter{PrincipalID: "u1"}, model.DefaultChangeSort())
		assert.Len(t, got, 2)

		from := t0.Add(30 * time.Minute)
		to := t0.Add(90 * time.Minute)
		got = collect(t, env, model.ChangeFilter{From: &from, To: &to}, model.ChangeSort{Field: model.SortByPrincipalName, Direction: model.SortAsc})
		require.Len(t, got, 2)
		assert.Equal(t, "Ewa", got[0].PrincipalName)
		assert.Equal(t, "Jan", got[1].PrincipalName)
	})

	t.Run("InvalidArguments", func(t *testing.T) {
		_, err := env.services.History.Query(env.ctx, model.ChangeFilter{}, model.ChangeSort{Field: "resourceName", Direction: model.SortAsc})
		assert.ErrorIs(t, err, echo_errors.ErrInvalidSort)

		from, to := t0.Add(time.Hour), t0
		_, err = env.services.History.Query(env.ctx, model.ChangeFilter{From: &from, To: &to}, model.DefaultChangeSort())
		assert.ErrorIs(t, err, echo_errors.ErrInvalidDateRange)
	})

	t.Run("ExportCSV", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, env.services.History.ExportCSV(env.ctx, model.ChangeFilter{ResourceID: "doc1"}, &buf))

		assert.True(t, strings.HasPrefix(buf.String(), "Data zmiany,Użytkownik/Grupa,Typ zmiany,Uprawnienie,Zmienione przez\n"))

		rows, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, 5)
		assert.Equal(t, []string{"05 mar 2024, 11:30", "Kowalski, Jan \"JK\"", "Dodanie", "Zapis", admin}, rows[1])
		assert.Equal(t, []string{"05 mar 2024, 09:30", "Anna", "Dodanie", "Odczyt", admin}, rows[4])
	})

	t.Run("Record_ChangeLogUnavailable", func(t *testing.T) {
		env.store.SetAppendError(echo_errors.ErrChangeLogUnavailable)
		defer env.store.SetAppendError(nil)

		err := env.services.History.Record(env.ctx, record("u9", "X", model.PermRead, t0))
		assert.ErrorIs(t, err, echo_errors.ErrUnavailable)
	})
}

func TestHistoryService_AppendDuringIteration(t *testing.T) {
	t0 := time.Date(2024, time.March, 5, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		sort     model.ChangeSort
		appendAt time.Time
	}{
		{"NewestFirst_NewerRecord", model.DefaultChangeSort(), t0.Add(24 * time.Hour)},
		{"NewestFirst_OlderRecord", model.DefaultChangeSort(), t0.Add(-24 * time.Hour)},
		{"OldestFirst_NewerRecord", model.ChangeSort{Field: model.SortByChangedAt, Direction: model.SortAsc}, t0.Add(24 * time.Hour)},
		{"ByName", model.ChangeSort{Field: model.SortByPrincipalName, Direction: model.SortAsc}, t0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			for i, name := range []string{"Anna", "Beata", "Cezary", "Dorota"} {
				require.NoError(t, env.services.History.Record(env.ctx, record("u1", name, model.PermRead, t0.Add(time.Duration(i)*time.Minute))))
			}

			seq, err := env.services.History.Query(env.ctx, model.ChangeFilter{}, tt.sort)
			require.NoError(t, err)

			seen := map[string]int{}
			appended := false
			for rec, err := range seq {
				require.NoError(t, err)
				seen[rec.ID]++
				if !appended {
					appended = true
					require.NoError(t, env.services.History.Record(env.ctx, record("u2", "Aleksander", model.PermWrite, tt.appendAt)))
				}
			}

			assert.GreaterOrEqual(t, len(seen), 4)
			for id, n := range seen {
				assert.Equal(t, 1, n, "record %s", id)
			}
		})
	}
}

func TestHistoryService_FilterByResourceType(t *testing.T) {
	env := newTestEnv(t)
	u := env.user(t, "u1", "Anna")
	doc := env.resource(t, model.ResourceDocument, "r1", "Umowa")
	rep := env.resource(t, model.ResourceReport, "r1", "Bilans")

	_, err := env.services.Grant.SetDirectGrant(env.ctx, model.UserPrincipal(u.ID), doc, model.PermRead, true, admin)
	require.NoError(t, err)
	_, err = env.services.Grant.SetDirectGrant(env.ctx, model.UserPrincipal(u.ID), rep, model.PermPublish, true, admin)
	require.NoError(t, err)

	got := collect(t, env, model.ChangeFilter{ResourceType: model.ResourceDocument, ResourceID: "r1"}, model.DefaultChangeSort())
	require.Len(t, got, 1)
	assert.Equal(t, model.PermRead, got[0].PermissionType)

	got = collect(t, env, model.ChangeFilter{ResourceID: "r1"}, model.DefaultChangeSort())
	assert.Len(t, got, 2)
}
