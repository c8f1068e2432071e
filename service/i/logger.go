package i

// Logger is the leveled logger injected into every component.
type Logger interface {
	Info(string)
	Warning(string)
	Error(string)
}
