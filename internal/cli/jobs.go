package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/thenoetrevino/etapa/internal/config"
)

// JobsHandler lists the expanded job matrix.
func JobsHandler(opts Options) int {
	_, pipeline, err := loadPipeline(opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitUsage
	}

	jobs := config.ExpandMatrix(pipeline)
	for _, job := range jobs {
		fmt.Printf("%s\n", job.Name)
		if len(job.Env) > 0 {
			fmt.Printf("  env: %s\n", strings.Join(job.Env, " "))
		}
		for _, cmd := range job.BeforeScript {
			fmt.Printf("  before_script: %s\n", cmd)
		}
		for _, cmd := range job.Script {
			fmt.Printf("  script: %s\n", cmd)
		}
		if job.Tool != nil {
			fmt.Printf("  tool: %s\n", job.Tool.Binary)
		}
	}
	return ExitSuccess
}
