package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"census-app-go/pkg/logger"
)

const (
	dotenvFilename = ".env"
	// ENV_FILE points at an explicit env file and skips the directory walk.
	envFileVariable = "ENV_FILE"
)

type dotenvResult struct {
	Loaded    int
	Skipped   int
	Malformed []int
}

func loadDotEnv(log logger.Logger) error {
	path := os.Getenv(envFileVariable)
	if path == "" {
		found, err := findDotEnv(dotenvFilename)
		if err != nil {
			return err
		}
		path = found
	}

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	result, err := applyDotEnv(file, os.LookupEnv, os.Setenv)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	log.Info("dotenv: loaded variables", "count", result.Loaded, "path", path)
	if result.Skipped > 0 {
		log.Info("dotenv: skipped variables already set in env", "count", result.Skipped)
	}
	if len(result.Malformed) > 0 {
		log.Warn("dotenv: ignored malformed lines", "path", path, "lines", result.Malformed)
	}
	return nil
}

// findDotEnv walks up from the working directory so binaries started from cmd/ still find the repo .env.
func findDotEnv(filename string) (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(dir, filename)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// applyDotEnv sets every KEY=value pair from r that is not already present in the environment.
func applyDotEnv(r io.Reader, lookup func(string) (string, bool), set func(string, string) error) (dotenvResult, error) {
	var result dotenvResult

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))

		key, value, ok := splitKeyValue(line)
		if !ok {
			result.Malformed = append(result.Malformed, lineNo)
			continue
		}
		if _, exists := lookup(key); exists {
			result.Skipped++
			continue
		}
		if err := set(key, value); err != nil {
			return result, err
		}
		result.Loaded++
	}

	return result, scanner.Err()
}

func splitKeyValue(line string) (string, string, bool) {
	key, value, found := strings.Cut(line, "=")
	if !found {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	if key == "" || strings.ContainsAny(key, " \t") {
		return "", "", false
	}

	value = strings.TrimSpace(value)
	if len(value) >= 2 && (value[0] == '"' || value[0] == '\'') && value[0] == value[len(value)-1] {
		if value[0] == '"' {
			if unquoted, err := strconv.Unquote(value); err == nil {
				return key, unquoted, true
			}
		}
		return key, value[1 : len(value)-1], true
	}
	return key, stripInlineComment(value), true
}

func stripInlineComment(value string) string {
	for i := 1; i < len(value); i++ {
		if value[i] == '#' && (value[i-1] == ' ' || value[i-1] == '\t') {
			return strings.TrimSpace(value[:i-1])
		}
	}
	return value
}
