// Package config defines the format-agnostic build configuration model,
// along with the Loader interface implemented by the HCL and YAML adapters.
//
// The config.Model is the single source of truth for the job expander and
// the pipeline. Concrete loaders live in separate packages and translate
// their own schema into this model.
package config
