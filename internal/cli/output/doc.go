// Package output renders boopmesh-cli results as a table, JSON or YAML.
//
// Result types implement Tabler to control their table form; JSON and YAML
// encode the value directly.
package output
