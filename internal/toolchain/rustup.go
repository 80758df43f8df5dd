package toolchain

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"regexp"
	"strings"

	"cargosweep/internal/logging"
)

// runner executes an external command; tests stub it.
type runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Lister enumerates installed toolchains.
type Lister struct {
	logger *slog.Logger
	run    runner
}

// NewLister builds a Lister backed by the rustup binary on PATH.
func NewLister(logger *slog.Logger) *Lister {
	return &Lister{
		logger: logging.NewComponentLogger(logger, "toolchain"),
		run:    execRunner,
	}
}

// Installed returns the names of the toolchains rustup has installed,
// with status markers like "(default)" stripped.
func (l *Lister) Installed(ctx context.Context) ([]string, error) {
	out, err := l.run(ctx, "rustup", "toolchain", "list")
	if err != nil {
		return nil, fmt.Errorf("list rustup toolchains: %w", err)
	}

	var names []string
	for _, line := range strings.Split(string(out), "\n") {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		if idx := strings.IndexByte(name, ' '); idx > 0 {
			name = name[:idx]
		}
		names = append(names, name)
	}
	return names, nil
}

var rustcVersionPattern = regexp.MustCompile(`^rustc (\S+)`)

// KeepSet returns the installed toolchain names plus each toolchain's
// compiler version number, so it matches fingerprint records written
// under either spelling. A toolchain whose version cannot be resolved
// contributes its name only.
func (l *Lister) KeepSet(ctx context.Context) ([]string, error) {
	names, err := l.Installed(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(names)*2)
	keep := make([]string, 0, len(names)*2)
	add := func(value string) {
		if value == "" {
			return
		}
		if _, dup := seen[value]; dup {
			return
		}
		seen[value] = struct{}{}
		keep = append(keep, value)
	}

	for _, name := range names {
		add(name)
		out, err := l.run(ctx, "rustc", "+"+name, "--version")
		if err != nil {
			l.logger.Warn("could not resolve toolchain version",
				logging.String("toolchain", name),
				logging.Error(err))
			continue
		}
		match := rustcVersionPattern.FindStringSubmatch(strings.TrimSpace(string(out)))
		if match == nil {
			continue
		}
		add(match[1])
	}
	return keep, nil
}
