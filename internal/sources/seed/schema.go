package seed

// Document is the YAML layout of seed and export files.
type Document struct {
	Profiles []ProfileEntry `yaml:"profiles"`
}

type ProfileEntry struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description,omitempty"`
	Folders     []FolderEntry `yaml:"folders,omitempty"`
}

type FolderEntry struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	Notes       string     `yaml:"notes,omitempty"`
	Tabs        []TabEntry `yaml:"tabs,omitempty"`
}

type TabEntry struct {
	Name        string `yaml:"name,omitempty"`
	URL         string `yaml:"url"`
	Description string `yaml:"description,omitempty"`
	Notes       string `yaml:"notes,omitempty"`
	Favicon     string `yaml:"favicon,omitempty"`
}
