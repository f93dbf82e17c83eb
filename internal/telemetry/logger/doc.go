// Package logger builds the process-wide slog logger.
//
//   - logger.go: handler construction, level control, optional log file
//   - redact.go: ReplaceAttr hook masking passwords and password hashes
//   - context.go: carrying a scoped logger through a context.Context
//
// Identity keys are not secret and are logged as-is under "key".
package logger
