package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mireles/ontoground/internal/agents"
	"github.com/mireles/ontoground/internal/config"
	"github.com/mireles/ontoground/internal/pipeline"
)

var pipelineMapFlag string

var pipelineCmd = &cobra.Command{
	Use:   "pipeline <name> <input>",
	Short: "Run a multi-step curation pipeline",
	Long: `Run a curation pipeline: a YAML-defined sequence of agent steps
where later steps can reference earlier outputs. Pipelines are loaded
from .ontoground/pipelines/ and the global config.

Examples:
  ontoground pipeline extract-and-review "Patient presents with seizures."
  ontoground pipeline list`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPipeline,
}

var pipelineListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available pipelines",
	RunE:  runPipelineList,
}

func loadPipelineRegistry() (*pipeline.Registry, error) {
	registry := pipeline.NewRegistry(pipeline.NewLoader(config.GetPipelinePaths()))
	if err := registry.Refresh(); err != nil {
		return nil, fmt.Errorf("loading pipelines: %w", err)
	}
	return registry, nil
}

func runPipeline(cmd *cobra.Command, args []string) error {
	name := args[0]
	if len(args) < 2 {
		return fmt.Errorf("missing input: usage is 'ontoground pipeline %s <input>'", name)
	}
	input := strings.Join(args[1:], " ")

	pipelines, err := loadPipelineRegistry()
	if err != nil {
		return err
	}
	def, ok := pipelines.Get(name)
	if !ok {
		return fmt.Errorf("%w: %q (try 'ontoground pipeline list')", pipeline.ErrPipelineNotFound, name)
	}

	agentRegistry, err := loadAgentRegistry()
	if err != nil {
		return err
	}

	cfg := config.Get()
	provider, err := buildProvider(cfg)
	if err != nil {
		return err
	}

	m, err := resolveMap(pipelineMapFlag)
	if err != nil {
		return err
	}

	searcher := buildSearcher(cfg)
	executor := agents.NewExecutor(provider, searcher, m.Entities, cfg.WebSearchURL)

	engine := pipeline.NewEngine(agentRegistry, executor, func(mapName string) (map[string]string, error) {
		stepMap, err := resolveMap(mapName)
		if err != nil {
			return nil, err
		}
		return stepMap.Entities, nil
	})

	result, err := engine.Run(cmd.Context(), def, input)
	if err != nil {
		return err
	}

	for _, step := range result.Steps {
		header := fmt.Sprintf("[%s] %s (%d tool calls)", step.Step, step.Agent, step.ToolCalls)
		fmt.Println(toolCallStyle.Render(header))
	}
	fmt.Println(result.Output)
	return nil
}

func runPipelineList(cmd *cobra.Command, args []string) error {
	pipelines, err := loadPipelineRegistry()
	if err != nil {
		return err
	}

	defs := pipelines.List()
	if len(defs) == 0 {
		fmt.Println("No pipelines found. Add YAML files under .ontoground/pipelines/")
		return nil
	}

	for _, def := range defs {
		fmt.Printf("%s  %s\n", agentNameStyle.Render(def.Name), def.Description)
		steps := make([]string, 0, len(def.Steps))
		for _, step := range def.Steps {
			steps = append(steps, step.Name)
		}
		fmt.Printf("    steps: %s\n", strings.Join(steps, " -> "))
		fmt.Printf("    %s\n", def.FilePath)
	}
	return nil
}

func init() {
	pipelineCmd.Flags().StringVar(&pipelineMapFlag, "map", "", "Default vocabulary map for the pipeline's grounding tools")
	pipelineCmd.AddCommand(pipelineListCmd)
	rootCmd.AddCommand(pipelineCmd)
}
