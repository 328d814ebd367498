package docker

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/porysuite/porybridge/internal/core/domain"
	"github.com/porysuite/porybridge/internal/core/ports/driven"
	"github.com/porysuite/porybridge/internal/logger"
)

// DefaultImage is the toolchain image used when none is configured.
const DefaultImage = "ghcr.io/pret/pokeemerald-tools:latest"

// diagnosticPattern matches GCC-style diagnostics:
//
//	src/data/pokemon/species_info.h:42:5: error: expected '}' before ';'
//
// The column component is optional because older toolchains omit it.
var diagnosticPattern = regexp.MustCompile(`^(.+?):(\d+)(?::\d+)?: (?:fatal )?error: (.*)$`)

// Builder compiles a checkout with `make` inside a Docker container.
type Builder struct {
	image string
	jobs  int
}

var _ driven.BuildService = (*Builder)(nil)

// NewBuilder creates a docker build service. An empty image selects
// DefaultImage; jobs <= 0 selects make's default parallelism.
func NewBuilder(image string, jobs int) *Builder {
	if image == "" {
		image = DefaultImage
	}
	return &Builder{image: image, jobs: jobs}
}

// Name returns the service identifier for logs and build history.
func (b *Builder) Name() string {
	return "docker"
}

// Available reports whether a usable Docker daemon is reachable.
func (b *Builder) Available(ctx context.Context) bool {
	if _, err := exec.LookPath("docker"); err != nil {
		return false
	}
	// The binary existing is not enough; the daemon must answer.
	if err := exec.CommandContext(ctx, "docker", "info").Run(); err != nil {
		logger.Debug("docker daemon not reachable: %v", err)
		return false
	}
	return true
}

// Build compiles the checkout rooted at root. A failed compile returns a
// BuildResult with Success false and the parsed diagnostics; the error
// return is reserved for infrastructure failures.
func (b *Builder) Build(ctx context.Context, root string) (domain.BuildResult, error) {
	args := []string{
		"run", "--rm",
		"-v", root + ":/workspace",
		"-w", "/workspace",
		b.image,
		"make",
	}
	if b.jobs > 0 {
		args = append(args, "-j"+strconv.Itoa(b.jobs))
	}

	logger.Debug("running docker build: image=%s root=%s", b.image, root)
	cmd := exec.CommandContext(ctx, "docker", args...)
	out, err := cmd.CombinedOutput()

	if ctx.Err() != nil {
		return domain.BuildResult{}, fmt.Errorf("build cancelled: %w", ctx.Err())
	}

	if err == nil {
		return domain.BuildResult{Success: true}, nil
	}

	if _, ok := err.(*exec.ExitError); !ok {
		return domain.BuildResult{}, fmt.Errorf("invoking docker: %w", err)
	}

	// Non-zero exit from make is a compile failure, not an error.
	return domain.BuildResult{
		Success:     false,
		Diagnostics: parseDiagnostics(string(out)),
	}, nil
}

// parseDiagnostics extracts compiler errors from combined build output.
// Lines that do not match the GCC pattern are ignored except for make's
// own failure summary, which is kept as a fallback when the compiler
// produced nothing recognisable.
func parseDiagnostics(output string) []domain.Diagnostic {
	var diags []domain.Diagnostic
	var makeErr string

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if m := diagnosticPattern.FindStringSubmatch(line); m != nil {
			lineNo, err := strconv.Atoi(m[2])
			if err != nil {
				continue
			}
			diags = append(diags, domain.Diagnostic{
				File:    m[1],
				Line:    lineNo,
				Message: m[3],
			})
			continue
		}
		if strings.HasPrefix(line, "make: ***") || strings.HasPrefix(line, "make[") {
			makeErr = line
		}
	}

	if len(diags) == 0 && makeErr != "" {
		diags = append(diags, domain.Diagnostic{Message: makeErr})
	}
	return diags
}
