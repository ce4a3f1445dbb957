package file

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/kotae/internal/core/ports/driven"
)

// Ensure Env implements the interface.
var _ driven.Environment = (*Env)(nil)

// Env resolves variables from the process environment first, then from
// values read out of .env files.
type Env struct {
	dotenv map[string]string
	lookup func(string) (string, bool)
}

// LoadEnv reads the given .env files. Missing files are ignored; with no
// paths, ./.env is tried. Later files do not override earlier ones.
func LoadEnv(paths ...string) (*Env, error) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	merged := make(map[string]string)
	for _, p := range paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			continue
		}
		values, err := godotenv.Read(p)
		if err != nil {
			return nil, err
		}
		for k, v := range values {
			if _, exists := merged[k]; !exists {
				merged[k] = v
			}
		}
	}

	return &Env{dotenv: merged, lookup: os.LookupEnv}, nil
}

// Lookup returns the value of key, preferring the process environment.
func (e *Env) Lookup(key string) (string, bool) {
	if v, ok := e.lookup(key); ok {
		return v, true
	}
	v, ok := e.dotenv[key]
	return v, ok
}
