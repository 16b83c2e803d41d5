// Package cli defines the Cobra command tree for mdbook-insigno. The root
// command is the mdbook preprocessor entry point; the remaining commands
// (supports, sync, render, check, config, version, gen-docs) each live in
// their own file and register themselves with the root command. Command
// implementations delegate to internal packages for the actual work.
package cli
