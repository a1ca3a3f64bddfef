// Package main hosts the mediameta CLI entrypoint and command graph.
//
// The Cobra command tree registers files as assets, runs extraction and
// place recomputation through the job dispatcher, answers one-off
// geocoding queries, and renders stored records. It centralizes config
// resolution, logger setup and runtime wiring so subcommands only decide
// what to dispatch.
package main
