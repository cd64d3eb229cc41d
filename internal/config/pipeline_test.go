package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// travisYAML mirrors the shape of the pipeline this tool grew out of: a
// python+mongodb suite with a three-job matrix where the example jobs clone
// an external repo and override script.
const travisYAML = `
language: python
services:
  - mongodb
install:
  - wget https://repo.continuum.io/miniconda/Miniconda3-latest-Linux-x86_64.sh -O miniconda.sh
  - bash miniconda.sh -b -p $HOME/miniconda
  - conda env create -f environment.yml
  - source activate stk_test
script: pytest
jobs:
  include:
    - name: pytest
    - name: basic-ea
      before_script: git clone https://github.com/example/basic-ea
      script: python basic-ea/basic_ea.py
    - name: intermediate-ea
      before_script: git clone https://github.com/example/intermediate-ea
      script: python intermediate-ea/intermediate_ea.py
`

func TestParsePipeline(t *testing.T) {
	p, err := parsePipeline([]byte(travisYAML))
	require.NoError(t, err)

	assert.Equal(t, "python", p.Language)
	require.Len(t, p.Services, 1)
	assert.Equal(t, "mongodb", p.Services[0].Name)
	assert.Equal(t, 27017, p.Services[0].Port)

	assert.Len(t, p.Install, 4)
	assert.Equal(t, []string{"pytest"}, p.Script, "scalar script becomes a single command")
	assert.Equal(t, 1, p.CloneDepth, "clone depth defaults to 1")

	require.Len(t, p.Jobs, 3)
	assert.Equal(t, "pytest", p.Jobs[0].Name)
	assert.Empty(t, p.Jobs[0].Script, "first job inherits the default script")
	assert.Equal(t, []string{"git clone https://github.com/example/basic-ea"}, p.Jobs[1].BeforeScript)
	assert.Equal(t, []string{"python intermediate-ea/intermediate_ea.py"}, p.Jobs[2].Script)
}

func TestParseServiceWithPort(t *testing.T) {
	svc := parseService("clickhouse:9000")
	assert.Equal(t, "clickhouse", svc.Name)
	assert.Equal(t, 9000, svc.Port)

	svc = parseService("somethingelse")
	assert.Zero(t, svc.Port, "unknown bare service names resolve to no port")
	assert.Equal(t, "somethingelse", svc.Raw)

	svc = parseService("redis:not-a-port")
	assert.Zero(t, svc.Port)
}

func TestLanguageDefaults(t *testing.T) {
	p, err := parsePipeline([]byte("language: python\nscript: pytest -v"))
	require.NoError(t, err)
	assert.Equal(t, []string{"pytest -v"}, p.Script, "explicit script is kept")
	assert.Equal(t, []string{"pip install -r requirements.txt"}, p.Install)

	p, err = parsePipeline([]byte("language: python"))
	require.NoError(t, err)
	assert.Equal(t, []string{"pytest"}, p.Script, "script falls back to the language default")

	p, err = parsePipeline([]byte("language: cobol\nscript: run-tests"))
	require.NoError(t, err)
	assert.Empty(t, p.Install, "unknown languages contribute nothing")
}

func TestParseToolStep(t *testing.T) {
	p, err := parsePipeline([]byte(`
language: python
tool:
  binary: /opt/modeller/bin/solve
  args: ["-WAIT", "-LOCAL"]
  input: "{basename}.mae\n{basename}-out.maegz\n"
  capture: 'Total Energy =\s+(\S+)'
  retry_on: "Could not check out a license"
  cache: true
`))
	require.NoError(t, err)
	require.NotNil(t, p.Tool)
	assert.Equal(t, "/opt/modeller/bin/solve", p.Tool.Binary)
	assert.Equal(t, []string{"-WAIT", "-LOCAL"}, p.Tool.Args)
	assert.True(t, p.Tool.Cache)
	assert.Empty(t, p.Script, "a tool pipeline needs no script default")
}

func TestFindPipeline(t *testing.T) {
	dir := t.TempDir()

	_, err := FindPipeline(dir)
	assert.Error(t, err, "empty dir has no pipeline")

	travis := filepath.Join(dir, ".travis.yml")
	require.NoError(t, os.WriteFile(travis, []byte("language: python"), 0644))
	path, err := FindPipeline(dir)
	require.NoError(t, err)
	assert.Equal(t, travis, path)

	// .etapa.yml wins over the travis fallback
	etapa := filepath.Join(dir, ".etapa.yml")
	require.NoError(t, os.WriteFile(etapa, []byte("language: python"), 0644))
	path, err = FindPipeline(dir)
	require.NoError(t, err)
	assert.Equal(t, etapa, path)
}

func TestParsePipelineRejectsBadYAML(t *testing.T) {
	_, err := parsePipeline([]byte("script:\n  key: value"))
	assert.Error(t, err, "script must be a string or list")
}
