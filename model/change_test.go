package model

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ptr(v bool) *bool { return &v }

func TestClassifyGrantChange(t *testing.T) {
	tests := []struct {
		name     string
		old, new *bool
		want     ChangeType
		changed  bool
	}{
		{"NothingToNothing", nil, nil, "", false},
		{"SameValue", ptr(true), ptr(true), "", false},
		{"FirstAllow", nil, ptr(true), ChangeAdd, true},
		{"FirstDeny", nil, ptr(false), ChangeRemove, true},
		{"AllowToDeny", ptr(true), ptr(false), ChangeRemove, true},
		{"DenyToAllow", ptr(false), ptr(true), ChangeAdd, true},
		{"Clear", ptr(false), nil, ChangeModify, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := ClassifyGrantChange(tt.old, tt.new)
			assert.Equal(t, tt.changed, changed)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseChangeSort(t *testing.T) {
	s, ok := ParseChangeSort("", "")
	assert.True(t, ok)
	assert.Equal(t, DefaultChangeSort(), s)

	s, ok = ParseChangeSort("principalName", "ASC")
	assert.True(t, ok)
	assert.Equal(t, ChangeSort{Field: SortByPrincipalName, Direction: SortAsc}, s)

	_, ok = ParseChangeSort("resourceName", "")
	assert.False(t, ok)
	_, ok = ParseChangeSort("", "sideways")
	assert.False(t, ok)
}

func TestChangeSortKeepsInsertionOrderOnTies(t *testing.T) {
	at := time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)
	records := []*ChangeRecord{
		{Seq: 3, ChangedAt: at},
		{Seq: 1, ChangedAt: at},
		{Seq: 4, ChangedAt: at.Add(time.Minute)},
		{Seq: 2, ChangedAt: at},
	}
	s := DefaultChangeSort()
	sort.Slice(records, func(i, j int) bool { return s.Less(records[i], records[j]) })

	var seqs []int64
	for _, r := range records {
		seqs = append(seqs, r.Seq)
	}
	assert.Equal(t, []int64{4, 1, 2, 3}, seqs)
}

func TestChangeFilterMatches(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)
	f := ChangeFilter{ResourceID: "d1", From: &from, To: &to}

	assert.True(t, f.Matches(&ChangeRecord{ResourceID: "d1", ChangedAt: from}))
	assert.True(t, f.Matches(&ChangeRecord{ResourceID: "d1", ChangedAt: to}))
	assert.False(t, f.Matches(&ChangeRecord{ResourceID: "d2", ChangedAt: from}))
	assert.False(t, f.Matches(&ChangeRecord{ResourceID: "d1", ChangedAt: to.Add(time.Second)}))
	assert.True(t, ChangeFilter{}.Matches(&ChangeRecord{}))
}

func TestVocabulary(t *testing.T) {
	defs, ok := Vocabulary(ResourceDictionary)
	assert.True(t, ok)
	assert.Len(t, defs, 5)
	assert.Equal(t, "Edycja elementów", defs[3].Label)

	_, ok = Vocabulary(ResourceGroup)
	assert.False(t, ok)
	assert.False(t, ResourceGroup.Grantable())

	assert.True(t, ResourceReport.Allows(PermPublish))
	assert.False(t, ResourceDocument.Allows(PermPublish))
	assert.Equal(t, "Członkostwo w grupie", PermissionLabel(PermMembership))
}

func TestProfileEntryAppliesTo(t *testing.T) {
	ref := ResourceRef{Type: ResourceDocument, ID: "doc-1"}
	assert.True(t, ProfileEntry{ResourceType: ResourceDocument}.AppliesTo(ref))
	assert.True(t, ProfileEntry{ResourceType: ResourceDocument, ResourceID: "doc-1"}.AppliesTo(ref))
	assert.False(t, ProfileEntry{ResourceType: ResourceDocument, ResourceID: "doc-2"}.AppliesTo(ref))
	assert.False(t, ProfileEntry{ResourceType: ResourceReport}.AppliesTo(ref))
}

func TestChangeFilterMatchesResourceType(t *testing.T) {
	f := ChangeFilter{ResourceType: ResourceDocument, ResourceID: "r1"}

	assert.True(t, f.Matches(&ChangeRecord{ResourceType: ResourceDocument, ResourceID: "r1"}))
	assert.False(t, f.Matches(&ChangeRecord{ResourceType: ResourceReport, ResourceID: "r1"}))
	assert.False(t, f.Matches(&ChangeRecord{ResourceType: ResourceGroup, ResourceID: "r1"}))
}

func TestChangeSortAfter(t *testing.T) {
	at := time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)
	cursor := &ChangeRecord{Seq: 5, ChangedAt: at, PrincipalName: "Jan"}
	s := DefaultChangeSort()

	assert.True(t, s.After(cursor, nil))
	assert.False(t, s.After(cursor, cursor))
	assert.True(t, s.After(&ChangeRecord{Seq: 6, ChangedAt: at}, cursor))
	assert.False(t, s.After(&ChangeRecord{Seq: 4, ChangedAt: at}, cursor))
	assert.True(t, s.After(&ChangeRecord{Seq: 1, ChangedAt: at.Add(-time.Second)}, cursor))
	assert.False(t, s.After(&ChangeRecord{Seq: 9, ChangedAt: at.Add(time.Second)}, cursor))

	assert.Equal(t, at, s.Value(cursor))
	assert.Equal(t, "Jan", ChangeSort{Field: SortByPrincipalName, Direction: SortAsc}.Value(cursor))
}
