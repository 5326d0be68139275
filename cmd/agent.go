package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mireles/ontoground/internal/agents"
	"github.com/mireles/ontoground/internal/config"
)

var agentMapFlag string

var (
	agentNameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	toolCallStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	builtinStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

var agentCmd = &cobra.Command{
	Use:   "agent <name> <prompt>",
	Short: "Run a curation agent",
	Long: `Run a curation agent with a prompt. Agents combine an LLM with the
grounding tools; built-in agents are always available and custom
agents are loaded from .ontoground/agents/ and the global config.

Examples:
  ontoground agent ontology-mapper "map 'cleft palate' and 'seizures'"
  ontoground agent knowledge-extractor "extract entities from abstract.txt"
  ontoground agent list`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAgent,
}

var agentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available agents",
	RunE:  runAgentList,
}

func loadAgentRegistry() (*agents.Registry, error) {
	registry := agents.NewRegistryWithPaths(config.GetAgentPaths())
	for _, builtin := range agents.Builtins() {
		registry.Register(builtin)
	}
	if err := registry.Refresh(); err != nil {
		return nil, fmt.Errorf("loading agents: %w", err)
	}
	return registry, nil
}

func runAgent(cmd *cobra.Command, args []string) error {
	name := args[0]
	if len(args) < 2 {
		return fmt.Errorf("missing prompt: usage is 'ontoground agent %s <prompt>'", name)
	}
	prompt := strings.Join(args[1:], " ")

	registry, err := loadAgentRegistry()
	if err != nil {
		return err
	}
	def, ok := registry.Get(name)
	if !ok {
		return fmt.Errorf("%w: %q (try 'ontoground agent list')", agents.ErrAgentNotFound, name)
	}

	cfg := config.Get()
	provider, err := buildProvider(cfg)
	if err != nil {
		return err
	}

	m, err := resolveMap(agentMapFlag)
	if err != nil {
		return err
	}

	searcher := buildSearcher(cfg)
	executor := agents.NewExecutor(provider, searcher, m.Entities, cfg.WebSearchURL)

	result, err := executor.Execute(cmd.Context(), def, prompt)
	if err != nil {
		return err
	}

	for _, tc := range result.ToolCalls {
		status := "ok"
		if tc.Error != "" {
			status = "error: " + tc.Error
		}
		fmt.Println(toolCallStyle.Render(fmt.Sprintf("[%s %s] %s", tc.Name, tc.Args, status)))
	}
	fmt.Println(result.Response)
	return nil
}

func runAgentList(cmd *cobra.Command, args []string) error {
	registry, err := loadAgentRegistry()
	if err != nil {
		return err
	}

	for _, def := range registry.List() {
		origin := def.FilePath
		if def.IsBuiltin {
			origin = builtinStyle.Render("built-in")
		}
		fmt.Printf("%s  %s\n", agentNameStyle.Render(def.Name), def.Description)
		fmt.Printf("    %s\n", origin)
	}
	return nil
}

func init() {
	agentCmd.Flags().StringVar(&agentMapFlag, "map", "", "Vocabulary map for the grounding tools")
	agentCmd.AddCommand(agentListCmd)
	rootCmd.AddCommand(agentCmd)
}
