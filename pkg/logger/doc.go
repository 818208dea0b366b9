// Package logger builds the application's slog.Logger: JSON or text output,
// static service attributes, and context extractors that attach
// request-scoped values (request id, authenticated principal) to every
// record logged with a context.
package logger
