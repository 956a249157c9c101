package dotenv

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Load reads .env when present, without overriding variables already set,
// then applies command-line overrides. It reports whether a .env file was found.
func Load() (bool, error) {
	found := true
	err := godotenv.Load()
	if errors.Is(err, fs.ErrNotExist) {
		found = false
	} else if err != nil {
		return false, fmt.Errorf("load .env: %w", err)
	}

	var portFlag string
	flag.StringVar(&portFlag, "port", "", "Server port (overrides PORT environment variable)")
	flag.Parse()

	if portFlag != "" {
		err := os.Setenv("PORT", portFlag)
		if err != nil {
			return found, fmt.Errorf("failed to set PORT environment variable: %w", err)
		}
	}
	return found, nil
}
