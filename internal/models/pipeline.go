// Package models defines the pipeline, job and run types shared across etapa.
package models

// Service is an external dependency a pipeline needs before jobs start,
// for example mongodb. Port is the TCP port the runner waits on; zero means
// the declaration did not resolve and validation rejects it.
type Service struct {
	// Raw is the declaration as written in the pipeline file.
	Raw  string
	Name string
	Host string
	Port int
}

// Addr returns the dialable host:port for the service.
func (s Service) Addr() string {
	host := s.Host
	if host == "" {
		host = "localhost"
	}
	return joinHostPort(host, s.Port)
}

// ToolStep describes an external-tool invocation: render an input deck,
// run the binary, scrape a value out of its output.
type ToolStep struct {
	// Binary is the path of the executable to run.
	Binary string
	// Args are passed to the binary; "{basename}" is substituted with the
	// per-invocation basename.
	Args []string
	// Input is the input deck template written to <basename>.in before the
	// binary runs. "{basename}" is substituted.
	Input string
	// Capture is a regular expression whose first group (or whole match)
	// is scraped from the tool output as the step's result.
	Capture string
	// RetryOn marks transient failures: when this string appears in the
	// output the invocation is retried.
	RetryOn string
	// Retries bounds RetryOn reruns. Zero means the default.
	Retries int
	// Artifacts is a glob of generated files moved into OutputDir.
	Artifacts string
	// OutputDir receives artifacts. Empty means a basename-named directory.
	OutputDir string
	// Cache memoizes results by digest of the rendered input.
	Cache bool
}

// JobSpec is one entry of the jobs.include matrix before expansion.
// Nil slices mean "inherit the top-level phase".
type JobSpec struct {
	Name         string
	Env          []string
	BeforeScript []string
	Script       []string
	Tool         *ToolStep
}

// Pipeline is the parsed pipeline file.
type Pipeline struct {
	Language     string
	Services     []Service
	Env          []string
	Install      []string
	BeforeScript []string
	Script       []string
	AfterScript  []string
	CloneDepth   int
	Tool         *ToolStep
	Jobs         []JobSpec
}

// Job is a concrete, fully merged matrix entry ready to run.
type Job struct {
	Name         string
	Env          []string
	Install      []string
	BeforeScript []string
	Script       []string
	AfterScript  []string
	Tool         *ToolStep
	CloneDepth   int
}
