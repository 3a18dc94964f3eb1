// Package app contains the core application logic. It defines the App
// struct, its configuration, and the build and watch lifecycles, decoupled
// from any specific entrypoint like a CLI.
package app
