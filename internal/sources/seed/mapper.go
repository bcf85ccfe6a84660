package seed

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/MrSnakeDoc/tabas/internal/domain"
)

// Mapper converts seed documents to domain profiles and back.
type Mapper struct {
	ids   domain.IDGenerator
	clock domain.Clock
}

// NewMapper creates a mapper that stamps new entities with ids and clock.
func NewMapper(ids domain.IDGenerator, clock domain.Clock) *Mapper {
	return &Mapper{ids: ids, clock: clock}
}

// Map builds profiles from doc. Every entity gets a fresh id. Tabs without a
// valid absolute URL are skipped; a tab without a name is named after its host.
func (m *Mapper) Map(doc Document) ([]domain.Profile, error) {
	now := m.clock.Now()
	profiles := make([]domain.Profile, 0, len(doc.Profiles))

	for i, pe := range doc.Profiles {
		name := strings.TrimSpace(pe.Name)
		if name == "" {
			return nil, fmt.Errorf("profile #%d has no name", i+1)
		}
		profile := domain.Profile{
			ID:           m.ids.New(),
			DisplayName:  name,
			Description:  pe.Description,
			CreationDate: now,
			Folders:      make([]domain.Folder, 0, len(pe.Folders)),
		}

		for j, fe := range pe.Folders {
			fname := strings.TrimSpace(fe.Name)
			if fname == "" {
				return nil, fmt.Errorf("profile %q: folder #%d has no name", name, j+1)
			}
			folder := domain.Folder{
				ID:           m.ids.New(),
				DisplayName:  fname,
				Description:  fe.Description,
				Notes:        fe.Notes,
				CreationDate: now,
				Tabs:         make([]domain.Tab, 0, len(fe.Tabs)),
			}
			for _, te := range fe.Tabs {
				tab, ok := m.mapTab(te)
				if !ok {
					continue
				}
				folder.Tabs = append(folder.Tabs, tab)
			}
			profile.Folders = append(profile.Folders, folder)
		}
		profiles = append(profiles, profile)
	}

	return profiles, nil
}

func (m *Mapper) mapTab(te TabEntry) (domain.Tab, bool) {
	parsed, err := url.Parse(strings.TrimSpace(te.URL))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return domain.Tab{}, false
	}
	name := strings.TrimSpace(te.Name)
	if name == "" {
		name = parsed.Hostname()
	}
	return domain.Tab{
		ID:          m.ids.New(),
		DisplayName: name,
		URL:         parsed.String(),
		Description: te.Description,
		Notes:       te.Notes,
		FaviconURL:  te.Favicon,
	}, true
}

// Export converts profiles to a seed document. Ids and dates are not exported.
func Export(profiles []domain.Profile) Document {
	doc := Document{Profiles: make([]ProfileEntry, 0, len(profiles))}
	for _, p := range profiles {
		pe := ProfileEntry{Name: p.DisplayName, Description: p.Description}
		for _, f := range p.Folders {
			fe := FolderEntry{Name: f.DisplayName, Description: f.Description, Notes: f.Notes}
			for _, t := range f.Tabs {
				fe.Tabs = append(fe.Tabs, TabEntry{
					Name:        t.DisplayName,
					URL:         t.URL,
					Description: t.Description,
					Notes:       t.Notes,
					Favicon:     t.FaviconURL,
				})
			}
			pe.Folders = append(pe.Folders, fe)
		}
		doc.Profiles = append(doc.Profiles, pe)
	}
	return doc
}
