// Package confloader loads layered configuration with koanf.
//
// Sources, highest priority first:
//
//  1. Explicit overrides (command-line flags via LoadMap)
//  2. Environment variables (BOOPMESH_ prefix)
//  3. The YAML configuration file
//  4. Defaults seeded from the target struct
//
// Environment names are resolved against the known keys, so
// BOOPMESH_SERVER_BOOP_IDLE_TIMEOUT sets server.boop.idle_timeout even
// though the key itself contains an underscore.
//
// The package also provides Watcher, an fsnotify based file watcher used
// for credential and certificate hot reload.
package confloader
