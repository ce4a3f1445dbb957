package driven

// Environment looks up configuration overrides by variable name,
// such as process environment variables and .env files.
type Environment interface {
	// Lookup returns the value and whether the variable is set.
	Lookup(key string) (string, bool)
}
