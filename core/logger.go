package core

// Logger is any leveled logger the services and handlers can report through.
// Implementations may inspect args for well-known types (eg. errors, the
// session user) and forward them to an error-tracking backend.
type Logger interface {
	Enable(enabled bool)

	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Person identifies the session user an error happened to; loggers that
// report to a tracking backend attach it to the event.
type Person struct {
	ID       string
	Username string
}
