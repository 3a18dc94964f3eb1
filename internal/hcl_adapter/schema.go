package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// fileRoot is decoded from every configuration file. Any file may carry any
// block; the loader merges them.
type fileRoot struct {
	Settings      []*settingsBlock     `hcl:"settings,block"`
	Organisations []*organisationBlock `hcl:"organisation,block"`
	Persons       []*personsBlock      `hcl:"persons,block"`
}

type settingsBlock struct {
	EnablePNG     *bool   `hcl:"enable_png,optional"`
	EnableLibrary *bool   `hcl:"enable_library,optional"`
	OutputDir     *string `hcl:"output_dir,optional"`
	IconsDir      *string `hcl:"icons_dir,optional"`
}

type organisationBlock struct {
	Name  string       `hcl:"name,label"`
	Icons []*iconBlock `hcl:"icon,block"`
}

// iconBlock describes one template family. names and special accept either
// a comma separated string or a list of strings.
type iconBlock struct {
	Template  string         `hcl:"template"`
	Group     string         `hcl:"group,optional"`
	Names     hcl.Expression `hcl:"names,optional"`
	Special   hcl.Expression `hcl:"special,optional"`
	Directory string         `hcl:"directory,optional"`
	Location  string         `hcl:"location,optional"`
}

type personsBlock struct {
	Enabled *bool          `hcl:"enabled,optional"`
	Persons []*personBlock `hcl:"person,block"`
}

type personBlock struct {
	Label        hcl.Expression `hcl:"label,optional"`
	Organisation string         `hcl:"organisation"`
	Group        string         `hcl:"group,optional"`
	Template     string         `hcl:"template"`
	Value        hcl.Expression `hcl:"value,optional"`
	Location     string         `hcl:"location,optional"`
}
