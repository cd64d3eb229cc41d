package cli

import (
	"fmt"
	"os"

	"github.com/thenoetrevino/etapa/internal/config"
)

// ValidateHandler parses and validates the pipeline file, reporting every
// problem found.
func ValidateHandler(opts Options) int {
	path, pipeline, err := loadPipeline(opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitUsage
	}

	if errs := config.Validate(pipeline); len(errs) > 0 {
		reportValidation(errs)
		return ExitValidation
	}

	jobs := config.ExpandMatrix(pipeline)
	fmt.Printf("%s is valid: %d job(s)", path, len(jobs))
	if len(pipeline.Services) > 0 {
		fmt.Printf(", %d service(s)", len(pipeline.Services))
	}
	fmt.Println()
	return ExitSuccess
}
