// Package env reads .env files and resolves the deck's environment settings.
package env

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-shellwords"
	"github.com/mitchellh/go-homedir"
)

// Variables the deck reads.
const (
	AssetsVar = "DECK_ASSETS"
	ConfigVar = "DECK_CONFIG"
)

// Load reads the given file (e.g. ".env") and sets an environment variable
// for each KEY=VALUE line that is not already set. Values may be quoted the
// way a shell would quote them. Empty lines and lines starting with # are
// skipped. The file may be missing; that is not an error.
func Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		line = strings.TrimPrefix(line, "export ")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, raw, ok := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			continue
		}
		value, err := unquote(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("%s:%d: %w", path, n, err)
		}
		if _, set := os.LookupEnv(key); set {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func unquote(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	p := shellwords.NewParser()
	p.ParseEnv = true
	words, err := p.Parse(raw)
	if err != nil {
		return "", err
	}
	return strings.Join(words, " "), nil
}

// Path returns the value of key with a leading ~ expanded to the home
// directory, or fallback when key is unset or empty.
func Path(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		v = fallback
	}
	if expanded, err := homedir.Expand(v); err == nil {
		return expanded
	}
	return v
}
