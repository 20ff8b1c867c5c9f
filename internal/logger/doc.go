// Package logger wraps zap to give the tool:
//   - a global sugared logger with a console encoder on stderr,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level parsing and an adjustable global level,
//   - leveled convenience functions (Info, InfoKV, DebugKV, ErrorKV).
//
// Services accept a context and pull the logger out of it, so log lines
// carry the scope they were produced in.
package logger
