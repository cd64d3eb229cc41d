package config

import "github.com/thenoetrevino/etapa/internal/models"

// languageDefaults are the phases a language tag contributes when the
// pipeline file leaves them out, the way the CI platforms fill in
// per-language install/script commands.
var languageDefaults = map[string]struct {
	install []string
	script  []string
}{
	"python": {
		install: []string{"pip install -r requirements.txt"},
		script:  []string{"pytest"},
	},
	"go": {
		install: []string{"go mod download"},
		script:  []string{"go test ./..."},
	},
	"node_js": {
		install: []string{"npm install"},
		script:  []string{"npm test"},
	},
}

// applyLanguageDefaults fills empty install/script phases from the language
// tag. Unknown languages contribute nothing.
func applyLanguageDefaults(p *models.Pipeline) {
	defaults, ok := languageDefaults[p.Language]
	if !ok {
		return
	}
	if len(p.Install) == 0 {
		p.Install = append([]string(nil), defaults.install...)
	}
	if len(p.Script) == 0 && p.Tool == nil {
		p.Script = append([]string(nil), defaults.script...)
	}
}
