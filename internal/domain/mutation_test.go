package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProfiles() []Profile {
	return []Profile{
		{
			ID:          "1",
			DisplayName: "Personal",
			Folders: []Folder{
				{ID: "f1", DisplayName: "Reading", Tabs: []Tab{
					{ID: "t1", URL: "https://example.com", DisplayName: "Example"},
					{ID: "t2", URL: "https://example2.com", DisplayName: "Example2"},
				}},
				{ID: "f2", DisplayName: "Music", Tabs: []Tab{}},
			},
		},
		{ID: "2", DisplayName: "Work", Folders: []Folder{}},
	}
}

func TestPrependFolder(t *testing.T) {
	in := sampleProfiles()

	out, outcome := PrependFolder("1", Folder{ID: "f3", DisplayName: "New"})(in)
	require.Equal(t, Applied, outcome)
	require.Len(t, out[0].Folders, 3)
	assert.Equal(t, "f3", out[0].Folders[0].ID)
	assert.NotNil(t, out[0].Folders[0].Tabs, "tabs must serialize as an array")

	// input untouched
	assert.Len(t, in[0].Folders, 2)
	assert.Equal(t, "f1", in[0].Folders[0].ID)
}

func TestPrependFolderEmptyProfile(t *testing.T) {
	out, outcome := PrependFolder("2", Folder{ID: "f9"})(sampleProfiles())
	require.Equal(t, Applied, outcome)
	require.Len(t, out[1].Folders, 1)
	assert.Equal(t, "f9", out[1].Folders[0].ID)
}

func TestMutationsNotFound(t *testing.T) {
	tests := []struct {
		name string
		m    Mutation
	}{
		{"prepend folder unknown profile", PrependFolder("nope", Folder{ID: "x"})},
		{"replace unknown folder", ReplaceFolder("1", Folder{ID: "nope"})},
		{"remove unknown folder", RemoveFolder("1", "nope")},
		{"remove folder unknown profile", RemoveFolder("nope", "f1")},
		{"replace folders unknown profile", ReplaceFolders("nope", nil)},
		{"append tab unknown folder", AppendTab("1", "nope", Tab{ID: "t"})},
		{"replace unknown tab", ReplaceTab("1", "f1", Tab{ID: "nope"})},
		{"remove unknown tab", RemoveTab("1", "f1", "nope")},
		{"move unknown tab", MoveTab("1", "f1", "f2", "nope", 0)},
		{"move to unknown folder", MoveTab("1", "f1", "nope", "t1", 0)},
		{"remove unknown profile", RemoveProfile("nope")},
		{"replace unknown profile info", ReplaceProfileInfo(Profile{ID: "nope"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := sampleProfiles()
			out, outcome := tt.m(in)
			assert.Equal(t, NotFound, outcome)
			assert.Equal(t, sampleProfiles(), out)
		})
	}
}

func TestReplaceAndRemoveTab(t *testing.T) {
	in := sampleProfiles()

	out, outcome := ReplaceTab("1", "f1", Tab{ID: "t2", URL: "https://changed.example", DisplayName: "Changed"})(in)
	require.Equal(t, Applied, outcome)
	assert.Equal(t, "Changed", out[0].Folders[0].Tabs[1].DisplayName)
	assert.Equal(t, "Example2", in[0].Folders[0].Tabs[1].DisplayName)

	out, outcome = RemoveTab("1", "f1", "t1")(out)
	require.Equal(t, Applied, outcome)
	require.Len(t, out[0].Folders[0].Tabs, 1)
	assert.Equal(t, "t2", out[0].Folders[0].Tabs[0].ID)
}

func TestMoveTab(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		index    int
		wantFrom []string
		wantTo   []string
	}{
		{"to other folder", "f1", "f2", 0, []string{"t2"}, []string{"t1"}},
		{"index clamped", "f1", "f2", 42, []string{"t2"}, []string{"t1"}},
		{"reorder in place", "f1", "f1", 1, []string{"t2", "t1"}, []string{"t2", "t1"}},
		{"negative index", "f1", "f1", -3, []string{"t1", "t2"}, []string{"t1", "t2"}},
	}

	ids := func(tabs []Tab) []string {
		out := make([]string, 0, len(tabs))
		for _, tb := range tabs {
			out = append(out, tb.ID)
		}
		return out
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, outcome := MoveTab("1", tt.from, tt.to, "t1", tt.index)(sampleProfiles())
			require.Equal(t, Applied, outcome)
			from := out[0].Folders[FindFolder(out[0].Folders, tt.from)]
			to := out[0].Folders[FindFolder(out[0].Folders, tt.to)]
			assert.Equal(t, tt.wantFrom, ids(from.Tabs))
			assert.Equal(t, tt.wantTo, ids(to.Tabs))
		})
	}
}

func TestReplaceFoldersKeepsOrder(t *testing.T) {
	in := sampleProfiles()
	reordered := []Folder{in[0].Folders[1], in[0].Folders[0]}

	out, outcome := ReplaceFolders("1", reordered)(in)
	require.Equal(t, Applied, outcome)
	assert.Equal(t, "f2", out[0].Folders[0].ID)
	assert.Equal(t, "f1", out[0].Folders[1].ID)
}

func TestAppendAndRemoveProfile(t *testing.T) {
	out, outcome := AppendProfile(Profile{ID: "3", DisplayName: "Gaming"})(sampleProfiles())
	require.Equal(t, Applied, outcome)
	require.Len(t, out, 3)
	assert.Equal(t, "3", out[2].ID)
	assert.NotNil(t, out[2].Folders)

	out, outcome = RemoveProfile("1")(out)
	require.Equal(t, Applied, outcome)
	require.Len(t, out, 2)
	assert.Equal(t, "2", out[0].ID)
}

func TestFolderHasURL(t *testing.T) {
	f := sampleProfiles()[0].Folders[0]
	assert.True(t, f.HasURL("https://example.com"))
	assert.False(t, f.HasURL("https://example.com/"))
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func TestTimestampIDsMonotonic(t *testing.T) {
	g := NewTimestampIDs(fixedClock{t: time.UnixMilli(1700000000000)})

	assert.Equal(t, "1700000000000", g.New())
	assert.Equal(t, "1700000000001", g.New())
	assert.Equal(t, "1700000000002", g.New())
}

func TestStorageErrorIs(t *testing.T) {
	err := &StorageError{Op: "get", Key: "tabas.profiles", Err: assert.AnError}
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "tabas.profiles")
}

func TestOutcomeErr(t *testing.T) {
	assert.NoError(t, Applied.Err("folder", "f1"))
	assert.ErrorIs(t, NotFound.Err("folder", "f1"), ErrNotFound)
}
