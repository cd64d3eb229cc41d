// Package tool runs declarative external-tool steps: render an input deck,
// invoke the binary, scrape the result value out of its output, and collect
// whatever files it generated.
package tool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/thenoetrevino/etapa/internal/models"
)

// ErrNoCapture is returned when the tool exits cleanly but its output never
// matches the capture pattern. Usually an input-deck problem.
var ErrNoCapture = errors.New("no value found in tool output")

// defaultRetries bounds reruns triggered by the retry_on marker. The marker
// flags transient failures (a busy license server, say) but retrying it
// forever can never terminate when the condition is permanent.
const defaultRetries = 5

// basenamePlaceholder is substituted in the input deck and args with the
// per-invocation basename.
const basenamePlaceholder = "{basename}"

// Result is the outcome of one tool invocation.
type Result struct {
	Captured  string
	Output    string
	ExitCode  int
	OutputDir string
	FromCache bool
}

// Runner executes one tool step inside a working directory.
type Runner struct {
	step    models.ToolStep
	workdir string
	cache   *Cache

	// newBasename is swappable for tests; defaults to uuid.NewString.
	newBasename func() string
}

// NewRunner creates a tool runner. cache may be nil when the step doesn't
// ask for caching.
func NewRunner(step models.ToolStep, workdir string, cache *Cache) *Runner {
	return &Runner{
		step:        step,
		workdir:     workdir,
		cache:       cache,
		newBasename: uuid.NewString,
	}
}

// Run invokes the tool, retrying on the transient marker, and returns the
// captured value. Generated artifacts are moved into the output directory
// even when the invocation fails.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	input := r.step.Input

	if r.step.Cache && r.cache != nil {
		if captured, ok := r.cache.Get(r.step, input); ok {
			return Result{Captured: captured, FromCache: true}, nil
		}
	}

	retries := r.step.Retries
	if retries <= 0 {
		retries = defaultRetries
	}

	// Retries bounds the reruns, not the attempts: retries=N allows the
	// initial invocation plus N reruns.
	var res Result
	var err error
	for attempts := 1; ; attempts++ {
		res, err = r.runOnce(ctx)
		if err != nil || r.step.RetryOn == "" || !strings.Contains(res.Output, r.step.RetryOn) {
			break
		}
		if attempts > retries {
			err = fmt.Errorf("tool output still contained retry marker %q after %d attempts", r.step.RetryOn, attempts)
			break
		}
	}
	if err != nil {
		return res, err
	}

	if r.step.Cache && r.cache != nil {
		r.cache.Put(r.step, input, res.Captured)
	}
	return res, nil
}

// runOnce performs a single invocation under a fresh basename. Each
// invocation gets its own input copy so parallel jobs never clash on
// generated files.
func (r *Runner) runOnce(ctx context.Context) (res Result, err error) {
	basename := r.newBasename()

	outputDir := r.step.OutputDir
	if outputDir == "" {
		outputDir = basename
	}
	if !filepath.IsAbs(outputDir) {
		outputDir = filepath.Join(r.workdir, outputDir)
	}
	res.OutputDir = outputDir

	// Artifacts move into the output dir whether or not the run succeeded,
	// matching the tool-log debugging workflow.
	defer func() {
		if moveErr := r.collectArtifacts(basename, outputDir); moveErr != nil && err == nil {
			err = moveErr
		}
	}()

	if r.step.Input != "" {
		deck := strings.ReplaceAll(r.step.Input, basenamePlaceholder, basename)
		deckPath := filepath.Join(r.workdir, basename+".in")
		if err := os.WriteFile(deckPath, []byte(deck), 0644); err != nil {
			return res, fmt.Errorf("failed to write input deck: %w", err)
		}
	}

	args := make([]string, 0, len(r.step.Args)+1)
	sawBasename := false
	for _, a := range r.step.Args {
		if strings.Contains(a, basenamePlaceholder) {
			sawBasename = true
		}
		args = append(args, strings.ReplaceAll(a, basenamePlaceholder, basename))
	}
	if !sawBasename {
		args = append(args, basename)
	}

	cmd := exec.CommandContext(ctx, r.step.Binary, args...)
	cmd.Dir = r.workdir
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	runErr := cmd.Run()
	res.Output = out.String()
	res.ExitCode = exitCode(runErr)

	// Some tools report through a log file rather than stdout; fold it in.
	if logData, logErr := os.ReadFile(filepath.Join(r.workdir, basename+".log")); logErr == nil {
		res.Output += string(logData)
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return res, fmt.Errorf("failed to run tool %s: %w", r.step.Binary, runErr)
		}
	}

	if r.step.RetryOn != "" && strings.Contains(res.Output, r.step.RetryOn) {
		// Transient marker present: the caller decides whether to rerun.
		// The marker wins over the exit status; a license failure usually
		// exits non-zero as well.
		return res, nil
	}

	if runErr != nil {
		return res, fmt.Errorf("tool %s exited with code %d", r.step.Binary, res.ExitCode)
	}

	captured, capErr := r.capture(res.Output)
	if capErr != nil {
		return res, capErr
	}
	res.Captured = captured
	return res, nil
}

func (r *Runner) capture(output string) (string, error) {
	re, err := regexp.Compile(r.step.Capture)
	if err != nil {
		return "", fmt.Errorf("invalid capture pattern: %w", err)
	}
	match := re.FindStringSubmatch(output)
	if match == nil {
		return "", ErrNoCapture
	}
	if len(match) > 1 {
		return match[1], nil
	}
	return match[0], nil
}

// collectArtifacts moves the step's artifact glob plus every generated
// <basename>.* file into the output directory.
func (r *Runner) collectArtifacts(basename, outputDir string) error {
	patterns := []string{basename + ".*"}
	if r.step.Artifacts != "" {
		patterns = append(patterns, r.step.Artifacts)
	}

	seen := make(map[string]bool)
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(r.workdir, pattern))
		if err != nil {
			return fmt.Errorf("bad artifacts pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	if len(files) == 0 {
		return nil
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	for _, f := range files {
		dest := filepath.Join(outputDir, filepath.Base(f))
		if f == dest {
			continue
		}
		if err := os.Rename(f, dest); err != nil {
			return fmt.Errorf("failed to move %s: %w", filepath.Base(f), err)
		}
	}
	return nil
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
