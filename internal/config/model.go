package config

// Default values applied when a configuration omits its settings.
const (
	DefaultOutputDir = "build"
	DefaultIconsDir  = "icons"
)

// Model is the unified, format-agnostic representation of a build
// configuration: which icons exist per organisation, and which personalised
// variants should be produced.
type Model struct {
	Settings      Settings
	Organisations []*Organisation
	Persons       *PersonConfig
}

// Settings toggles optional pipeline stages and locates the trees the
// pipeline reads from and writes to.
type Settings struct {
	EnablePNG     bool
	EnableLibrary bool
	OutputDir     string
	IconsDir      string
}

// DefaultSettings returns the settings used when no settings block is given.
func DefaultSettings() Settings {
	return Settings{
		EnablePNG:     true,
		EnableLibrary: true,
		OutputDir:     DefaultOutputDir,
		IconsDir:      DefaultIconsDir,
	}
}

// Organisation groups the icon descriptions of one organisation.
type Organisation struct {
	Name  string
	Icons []*Description
}

// Description is one declarative icon entry. Names and Special are comma
// separated lists that the expander multiplies out.
type Description struct {
	Template  string
	Group     string
	Names     string
	Special   string
	Directory string
	Location  string
}

// PersonConfig holds the personalised (volunteer) variants.
type PersonConfig struct {
	Enabled bool
	Persons []*Person
}

// Person is one personalised icon entry. Label and Value are comma separated.
type Person struct {
	Label        string
	Organisation string
	Group        string
	Template     string
	Value        string
	Location     string
}

// NewModel returns an empty model carrying the default settings.
func NewModel() *Model {
	return &Model{
		Settings: DefaultSettings(),
		Persons:  &PersonConfig{},
	}
}

// Organisation returns the organisation with the given name, creating it
// when it does not exist yet. Loaders use it to merge entries that are
// spread over several files.
func (m *Model) Organisation(name string) *Organisation {
	for _, org := range m.Organisations {
		if org.Name == name {
			return org
		}
	}
	org := &Organisation{Name: name}
	m.Organisations = append(m.Organisations, org)
	return org
}

// DescriptionCount returns the number of icon descriptions across all
// organisations.
func (m *Model) DescriptionCount() int {
	n := 0
	for _, org := range m.Organisations {
		n += len(org.Icons)
	}
	return n
}
