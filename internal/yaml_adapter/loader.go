package yaml_adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/specialistvlad/iconpipe/internal/config"
	"github.com/specialistvlad/iconpipe/internal/ctxlog"
	"github.com/specialistvlad/iconpipe/internal/fsutil"
)

// Extensions lists the file extensions the loader reads.
var Extensions = []string{".yaml", ".yml"}

// IsYAML reports whether path has a YAML extension.
func IsYAML(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Loader is the YAML implementation of config.Loader.
type Loader struct{}

// NewLoader creates a YAML configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads every YAML file named by paths, or found below a directory in
// paths, and merges them into one validated model.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("YAML loader started.", "path_count", len(paths))

	files, err := findFiles(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, config.Errorf("", "", "no YAML files found in %v", paths)
	}

	model := config.NewModel()
	settingsFrom := ""
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, &config.Error{Source: file, Err: err}
		}
		docs, err := decodeAll(data)
		if err != nil {
			return nil, &config.Error{Source: file, Err: err}
		}

		for _, doc := range docs {
			if doc.Settings != nil {
				if settingsFrom != "" {
					return nil, config.Errorf(file, "settings", "declared more than once, first in %s", settingsFrom)
				}
				settingsFrom = file
				applySettings(doc.Settings, &model.Settings)
			}
			if err := addOrganisations(&doc.Organisations, model); err != nil {
				return nil, &config.Error{Source: file, Field: "organisations", Err: err}
			}
			if doc.Persons != nil {
				addPersons(doc.Persons, model)
			}
		}
	}

	if err := model.Validate(); err != nil {
		return nil, err
	}

	logger.Debug("YAML loading complete.",
		"files", len(files),
		"organisations", len(model.Organisations),
		"descriptions", model.DescriptionCount(),
	)
	return model, nil
}

// decodeAll decodes every document of a multi-document stream, rejecting
// unknown keys.
func decodeAll(data []byte) ([]*document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var docs []*document
	for {
		doc := new(document)
		err := dec.Decode(doc)
		if errors.Is(err, io.EOF) {
			return docs, nil
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
}

func applySettings(s *settingsDoc, into *config.Settings) {
	if s.EnablePNG != nil {
		into.EnablePNG = *s.EnablePNG
	}
	if s.EnableLibrary != nil {
		into.EnableLibrary = *s.EnableLibrary
	}
	if s.OutputDir != nil {
		into.OutputDir = *s.OutputDir
	}
	if s.IconsDir != nil {
		into.IconsDir = *s.IconsDir
	}
}

// addOrganisations walks the organisations mapping in document order.
func addOrganisations(node *yaml.Node, m *config.Model) error {
	if node.Kind == 0 || node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping of organisation names", node.Line)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if err := checkIconKeys(value); err != nil {
			return fmt.Errorf("%s: %w", key.Value, err)
		}
		var icons []*iconDoc
		if err := value.Decode(&icons); err != nil {
			return fmt.Errorf("%s: %w", key.Value, err)
		}

		org := m.Organisation(key.Value)
		for _, icon := range icons {
			if icon == nil {
				return fmt.Errorf("%s: line %d: empty icon entry", key.Value, value.Line)
			}
			org.Icons = append(org.Icons, &config.Description{
				Template:  icon.Template,
				Group:     icon.Group,
				Names:     string(icon.Names),
				Special:   string(icon.Special),
				Directory: icon.Directory,
				Location:  icon.Location,
			})
		}
	}
	return nil
}

var iconKeys = map[string]bool{
	"template": true, "group": true, "names": true,
	"special": true, "directory": true, "location": true,
}

// checkIconKeys rejects unknown keys in icon entries. Node.Decode does not
// honour the decoder's KnownFields setting.
func checkIconKeys(seq *yaml.Node) error {
	if seq.Kind != yaml.SequenceNode {
		return nil
	}
	for _, item := range seq.Content {
		if item.Kind != yaml.MappingNode {
			continue
		}
		for i := 0; i < len(item.Content); i += 2 {
			k := item.Content[i]
			if !iconKeys[k.Value] {
				return fmt.Errorf("line %d: field %s not found in icon entry", k.Line, k.Value)
			}
		}
	}
	return nil
}

func addPersons(p *personsDoc, m *config.Model) {
	if p.Enabled != nil {
		m.Persons.Enabled = *p.Enabled
	}
	for _, e := range p.Entries {
		if e == nil {
			continue
		}
		m.Persons.Persons = append(m.Persons.Persons, &config.Person{
			Label:        string(e.Label),
			Organisation: e.Organisation,
			Group:        e.Group,
			Template:     e.Template,
			Value:        string(e.Value),
			Location:     e.Location,
		})
	}
}

func findFiles(paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	add := func(p string) {
		p = filepath.Clean(p)
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			files = append(files, p)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, &config.Error{Source: path, Err: err}
		}
		if !info.IsDir() {
			if !IsYAML(path) {
				return nil, config.Errorf(path, "", "expected a YAML file")
			}
			add(path)
			continue
		}
		found, err := fsutil.FindFiles(path, "**/*.{yaml,yml}")
		if err != nil {
			return nil, &config.Error{Source: path, Err: err}
		}
		for _, f := range found {
			add(f)
		}
	}
	return files, nil
}

var _ config.Loader = (*Loader)(nil)
