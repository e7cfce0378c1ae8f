package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// dotEnvFiles are loaded in order. godotenv never overrides a variable that is
// already set, so earlier files and the process environment win.
var dotEnvFiles = []string{".env.local", ".env"}

// loadDotEnv loads CALC_* variables from the dotenv files that exist.
func loadDotEnv() error {
	for _, path := range dotEnvFiles {
		err := godotenv.Load(path)
		if err == nil || errors.Is(err, os.ErrNotExist) {
			continue
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
