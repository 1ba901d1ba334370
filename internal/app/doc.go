// Package app contains the core application wiring. It defines the App
// struct, its configuration, and the run lifecycle, decoupled from any
// specific entrypoint like a CLI.
package app
