package roadmap

import (
	"embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/atlaslearn/atlas-backend/internal/pkg/logger"
)

const pipelineEnv = "ROADMAP_PIPELINE_YAML"

//go:embed pipeline.yaml
var pipelineFS embed.FS

// fallback order used when the YAML is missing or invalid
var fallbackStageOrder = []string{
	StageInterview,
	StageSkillEval,
	StageGapDetect,
	StageGraph,
	StageDifficulty,
	StageResources,
	StageProject,
	StageSchedule,
	StageAssembly,
}

type yamlPipelineSpec struct {
	Pipeline string          `yaml:"pipeline"`
	Version  int             `yaml:"version"`
	Stages   []yamlStageSpec `yaml:"stages"`
}

type yamlStageSpec struct {
	Name      string   `yaml:"name"`
	DependsOn []string `yaml:"depends_on"`
	Enabled   *bool    `yaml:"enabled"`
}

type pipelineRuntime struct {
	StageOrder []string
	Version    int
}

var runtimeOnce sync.Once
var runtimeCache *pipelineRuntime
var runtimeErr error

func currentPipelineRuntime(log *logger.Logger) *pipelineRuntime {
	runtimeOnce.Do(func() {
		runtimeCache, runtimeErr = loadPipelineRuntime()
	})
	if runtimeErr != nil {
		if log != nil {
			log.Warn("roadmap: pipeline spec load failed; using fallback", "error", runtimeErr)
		}
		return nil
	}
	return runtimeCache
}

func pipelineStageOrder(log *logger.Logger) []string {
	if rt := currentPipelineRuntime(log); rt != nil && len(rt.StageOrder) > 0 {
		return rt.StageOrder
	}
	return fallbackStageOrder
}

// PipelineVersion is surfaced in every assembled roadmap's meta block.
func PipelineVersion(log *logger.Logger) string {
	if rt := currentPipelineRuntime(log); rt != nil && rt.Version > 0 {
		return fmt.Sprintf("v%d", rt.Version)
	}
	return "v1"
}

func loadPipelineRuntime() (*pipelineRuntime, error) {
	data, err := readPipelineSpec()
	if err != nil {
		return nil, err
	}

	var spec yamlPipelineSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, err
	}

	known := map[string]bool{}
	for _, name := range fallbackStageOrder {
		known[name] = true
	}
	order := make([]string, 0, len(spec.Stages))
	for _, stage := range spec.Stages {
		name := strings.TrimSpace(stage.Name)
		if name == "" {
			continue
		}
		if stage.Enabled != nil && !*stage.Enabled {
			continue
		}
		if !known[name] {
			return nil, fmt.Errorf("unknown pipeline stage %q", name)
		}
		order = append(order, name)
	}
	if len(order) == 0 {
		return nil, fmt.Errorf("pipeline spec declares no stages")
	}

	return &pipelineRuntime{StageOrder: order, Version: spec.Version}, nil
}

func readPipelineSpec() ([]byte, error) {
	if path := strings.TrimSpace(os.Getenv(pipelineEnv)); path != "" {
		return os.ReadFile(path)
	}
	return pipelineFS.ReadFile("pipeline.yaml")
}
