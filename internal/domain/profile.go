package domain

import "time"

// Tab is a saved reference to a browser tab.
// It is NOT a live tab handle: only the URL and display metadata are kept.
//
// A Tab is owned by exactly one Folder. Its ID is unique within that folder.
type Tab struct {
	ID          string `json:"id"`
	URL         string `json:"URL"`
	DisplayName string `json:"displayName"`
	Description string `json:"description,omitempty"`
	Notes       string `json:"notes,omitempty"`
	FaviconURL  string `json:"faviconUrl,omitempty"`
}

// Folder is a named, ordered collection of saved tabs within a Profile.
type Folder struct {
	// ─────────────────────────────
	// Identity
	// ─────────────────────────────

	// ID is unique within the owning profile.
	ID string `json:"id"`

	// CreationDate is set once, when the folder is created.
	CreationDate time.Time `json:"creationDate"`

	// ─────────────────────────────
	// User-editable description
	// ─────────────────────────────

	DisplayName string `json:"displayName"`
	Description string `json:"description,omitempty"`
	Notes       string `json:"notes,omitempty"`

	// ─────────────────────────────
	// Content
	// ─────────────────────────────

	// Tabs order is user-controlled and must survive persistence.
	Tabs []Tab `json:"tabs"`
}

// Profile is the top-level workspace. It owns its folders.
type Profile struct {
	ID           string    `json:"id"`
	DisplayName  string    `json:"displayName"`
	Description  string    `json:"description,omitempty"`
	CreationDate time.Time `json:"creationDate"`

	// Folders order is significant; new folders are inserted first.
	Folders []Folder `json:"folders"`
}

// BrowserTab is what the host reports about a live browser tab.
type BrowserTab struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	FaviconURL string `json:"faviconUrl,omitempty"`
	Active     bool   `json:"active,omitempty"`
}

func cloneTabs(tabs []Tab) []Tab {
	out := make([]Tab, len(tabs))
	copy(out, tabs)
	return out
}

// Clone returns a deep copy of the folder.
func (f Folder) Clone() Folder {
	f.Tabs = cloneTabs(f.Tabs)
	return f
}

// Clone returns a deep copy of the profile.
func (p Profile) Clone() Profile {
	folders := make([]Folder, len(p.Folders))
	for i, f := range p.Folders {
		folders[i] = f.Clone()
	}
	p.Folders = folders
	return p
}

// CloneFolders returns a deep copy of a folder sequence.
func CloneFolders(folders []Folder) []Folder {
	out := make([]Folder, len(folders))
	for i, f := range folders {
		out[i] = f.Clone()
	}
	return out
}

// CloneProfiles returns a deep copy of a profile collection.
func CloneProfiles(profiles []Profile) []Profile {
	out := make([]Profile, len(profiles))
	for i, p := range profiles {
		out[i] = p.Clone()
	}
	return out
}

// FindProfile returns the index of the profile with the given id, or -1.
func FindProfile(profiles []Profile, id string) int {
	for i := range profiles {
		if profiles[i].ID == id {
			return i
		}
	}
	return -1
}

// FindFolder returns the index of the folder with the given id, or -1.
func FindFolder(folders []Folder, id string) int {
	for i := range folders {
		if folders[i].ID == id {
			return i
		}
	}
	return -1
}

// FindTab returns the index of the tab with the given id, or -1.
func FindTab(tabs []Tab, id string) int {
	for i := range tabs {
		if tabs[i].ID == id {
			return i
		}
	}
	return -1
}

// HasURL reports whether the folder already holds a tab with exactly this URL.
func (f Folder) HasURL(url string) bool {
	for _, t := range f.Tabs {
		if t.URL == url {
			return true
		}
	}
	return false
}
