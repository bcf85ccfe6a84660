package domain

// Mutation transforms a profile collection without touching its input.
// The same Mutation is applied to the in-memory state and to the stored
// collection, so both sides locate the target the same way.
//
// Implementations must return a structural copy when they apply and
// (input, NotFound) when the target is missing.
type Mutation func(profiles []Profile) ([]Profile, Outcome)

// withProfile copies the collection and hands the target profile (already
// cloned) to fn. fn reports whether its own target was found.
func withProfile(profileID string, fn func(p *Profile) bool) Mutation {
	return func(profiles []Profile) ([]Profile, Outcome) {
		i := FindProfile(profiles, profileID)
		if i < 0 {
			return profiles, NotFound
		}
		p := profiles[i].Clone()
		if !fn(&p) {
			return profiles, NotFound
		}
		out := make([]Profile, len(profiles))
		copy(out, profiles)
		out[i] = p
		return out, Applied
	}
}

func withFolder(profileID, folderID string, fn func(f *Folder) bool) Mutation {
	return withProfile(profileID, func(p *Profile) bool {
		j := FindFolder(p.Folders, folderID)
		if j < 0 {
			return false
		}
		return fn(&p.Folders[j])
	})
}

// AppendProfile adds a profile at the end of the collection.
func AppendProfile(profile Profile) Mutation {
	return func(profiles []Profile) ([]Profile, Outcome) {
		out := make([]Profile, 0, len(profiles)+1)
		out = append(out, profiles...)
		out = append(out, Normalize(profile))
		return out, Applied
	}
}

// RemoveProfile filters a profile out of the collection.
func RemoveProfile(profileID string) Mutation {
	return func(profiles []Profile) ([]Profile, Outcome) {
		i := FindProfile(profiles, profileID)
		if i < 0 {
			return profiles, NotFound
		}
		out := make([]Profile, 0, len(profiles)-1)
		out = append(out, profiles[:i]...)
		out = append(out, profiles[i+1:]...)
		return out, Applied
	}
}

// ReplaceProfileInfo updates the display fields of a profile, keeping its folders.
func ReplaceProfileInfo(profile Profile) Mutation {
	return withProfile(profile.ID, func(p *Profile) bool {
		p.DisplayName = profile.DisplayName
		p.Description = profile.Description
		return true
	})
}

// PrependFolder inserts the folder first: the newest folder sorts on top.
func PrependFolder(profileID string, folder Folder) Mutation {
	return withProfile(profileID, func(p *Profile) bool {
		folders := make([]Folder, 0, len(p.Folders)+1)
		folders = append(folders, folder.Clone())
		p.Folders = append(folders, p.Folders...)
		return true
	})
}

// ReplaceFolder swaps the whole folder record with the same id.
func ReplaceFolder(profileID string, folder Folder) Mutation {
	return withProfile(profileID, func(p *Profile) bool {
		j := FindFolder(p.Folders, folder.ID)
		if j < 0 {
			return false
		}
		p.Folders[j] = folder.Clone()
		return true
	})
}

// RemoveFolder filters the folder out of the profile.
func RemoveFolder(profileID, folderID string) Mutation {
	return withProfile(profileID, func(p *Profile) bool {
		j := FindFolder(p.Folders, folderID)
		if j < 0 {
			return false
		}
		p.Folders = append(p.Folders[:j:j], p.Folders[j+1:]...)
		return true
	})
}

// ReplaceFolders sets the full folder sequence of a profile (reordering).
func ReplaceFolders(profileID string, folders []Folder) Mutation {
	return withProfile(profileID, func(p *Profile) bool {
		p.Folders = CloneFolders(folders)
		return true
	})
}

// AppendTab adds the tab at the end of the folder.
func AppendTab(profileID, folderID string, tab Tab) Mutation {
	return withFolder(profileID, folderID, func(f *Folder) bool {
		f.Tabs = append(f.Tabs, tab)
		return true
	})
}

// ReplaceTab swaps the whole tab record with the same id.
func ReplaceTab(profileID, folderID string, tab Tab) Mutation {
	return withFolder(profileID, folderID, func(f *Folder) bool {
		k := FindTab(f.Tabs, tab.ID)
		if k < 0 {
			return false
		}
		f.Tabs[k] = tab
		return true
	})
}

// RemoveTab filters the tab out of the folder.
func RemoveTab(profileID, folderID, tabID string) Mutation {
	return withFolder(profileID, folderID, func(f *Folder) bool {
		k := FindTab(f.Tabs, tabID)
		if k < 0 {
			return false
		}
		f.Tabs = append(f.Tabs[:k:k], f.Tabs[k+1:]...)
		return true
	})
}

// MoveTab removes a tab from one folder and inserts it into another at
// index (clamped to the target length). Source and target may be equal,
// which reorders the tab inside its folder.
func MoveTab(profileID, fromFolderID, toFolderID, tabID string, index int) Mutation {
	return withProfile(profileID, func(p *Profile) bool {
		from := FindFolder(p.Folders, fromFolderID)
		to := FindFolder(p.Folders, toFolderID)
		if from < 0 || to < 0 {
			return false
		}
		k := FindTab(p.Folders[from].Tabs, tabID)
		if k < 0 {
			return false
		}
		tab := p.Folders[from].Tabs[k]
		src := p.Folders[from].Tabs
		p.Folders[from].Tabs = append(src[:k:k], src[k+1:]...)

		dst := p.Folders[to].Tabs
		if index < 0 {
			index = 0
		}
		if index > len(dst) {
			index = len(dst)
		}
		tabs := make([]Tab, 0, len(dst)+1)
		tabs = append(tabs, dst[:index]...)
		tabs = append(tabs, tab)
		p.Folders[to].Tabs = append(tabs, dst[index:]...)
		return true
	})
}

// Normalize returns a copy of p whose "folders" and "tabs" sequences are
// never nil, so they always serialize as JSON arrays.
func Normalize(p Profile) Profile {
	// Clone allocates every slice, nil included.
	return p.Clone()
}

// AppendTabs adds several tabs at the end of the folder in one step.
func AppendTabs(profileID, folderID string, tabs []Tab) Mutation {
	return withFolder(profileID, folderID, func(f *Folder) bool {
		f.Tabs = append(f.Tabs, tabs...)
		return true
	})
}

// AppendProfiles adds several profiles at the end of the collection.
func AppendProfiles(add []Profile) Mutation {
	return func(profiles []Profile) ([]Profile, Outcome) {
		out := make([]Profile, 0, len(profiles)+len(add))
		out = append(out, profiles...)
		for _, p := range add {
			out = append(out, Normalize(p))
		}
		return out, Applied
	}
}
