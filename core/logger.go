package core

// Logger is any leveled logger service.
// expected args fmt: error, map[string]interface{}, staff.Staff (implementation-defined extras)
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
