package identity

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	lconfig "github.com/lixenwraith/config"
	"github.com/lixenwraith/log"
	"golang.org/x/term"
)

// File layout of the persisted identity: one [telemetry] section, one id key.
type identityFile struct {
	Telemetry struct {
		ID string `toml:"id"`
	} `toml:"telemetry"`
}

const noticeText = `This application collects crashes and errors in order to help us improve your experience.
The data collected is anonymous. You can opt out of telemetry by setting the
environment variable TATTLE_NO_TELEMETRY to any non-empty value.`

// GetOrCreate returns the stable anonymous installation identifier stored at
// path, creating and persisting a new one on first run. A file that exists
// but cannot be parsed, or is missing the id key, indicates a corrupt
// install and is an error rather than a silent regeneration. Runs once at
// service construction; not a hot path.
func GetOrCreate(path string, logger *log.Logger) (string, error) {
	if _, err := os.Stat(path); err == nil {
		return load(path)
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("cannot stat identity file %s: %w", path, err)
	}
	return create(path, logger)
}

func load(path string) (string, error) {
	cfg, err := lconfig.NewBuilder().
		WithDefaults(&identityFile{}).
		WithFile(path).
		Build()
	if err != nil {
		return "", fmt.Errorf("invalid identity file %s: %w", path, err)
	}

	f := &identityFile{}
	if err := cfg.Scan(f); err != nil {
		return "", fmt.Errorf("failed to scan identity file %s: %w", path, err)
	}

	if f.Telemetry.ID == "" {
		return "", fmt.Errorf("identity file %s is missing telemetry.id", path)
	}
	return f.Telemetry.ID, nil
}

func create(path string, logger *log.Logger) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create identity directory: %w", err)
	}

	f := &identityFile{}
	f.Telemetry.ID = uuid.NewString()

	lcfg, err := lconfig.NewBuilder().
		WithFile(path).
		WithTarget(f).
		WithFileFormat("toml").
		Build()
	if err != nil && !errors.Is(err, lconfig.ErrConfigNotFound) {
		return "", fmt.Errorf("failed to build identity config: %w", err)
	}
	if err := lcfg.Save(path); err != nil {
		return "", fmt.Errorf("failed to save identity file %s: %w", path, err)
	}

	// First run: tell the user what is collected, but only when someone is
	// watching the terminal.
	if term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stdout, noticeText)
	}

	logger.Info("msg", "Created new telemetry identity",
		"component", "identity",
		"path", path)
	return f.Telemetry.ID, nil
}

// DefaultPath returns the per-user identity file location for an application.
func DefaultPath(app string) string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, app, "telemetry.toml")
	}
	return filepath.Join("."+app, "telemetry.toml")
}
