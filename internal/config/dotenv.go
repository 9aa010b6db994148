package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

// loadDotEnv loads KEY=VALUE pairs from a dotenv file into the process environment.
// A missing file is not an error. Variables that already hold a non-empty value
// are not overwritten.
func loadDotEnv(path string) error {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	for k, v := range values {
		if os.Getenv(k) != "" {
			continue
		}
		_ = os.Setenv(k, v)
	}
	return nil
}
