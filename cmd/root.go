package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mireles/ontoground/internal/config"
	"github.com/mireles/ontoground/internal/grounding"
	"github.com/mireles/ontoground/internal/llm"
	"github.com/mireles/ontoground/internal/vocab"
	"github.com/mireles/ontoground/internal/vocabmap"
)

var (
	providerFlag string
	modelFlag    string
	verboseFlag  bool
)

var rootCmd = &cobra.Command{
	Use:   "ontoground",
	Short: "Ground biomedical text against OBO ontologies",
	Long: `Ontoground resolves free-text entity mentions to controlled vocabulary
terms. It searches local SQLite term indexes or the EBI Ontology Lookup
Service, ranks candidates by match quality, and can drive LLM curation
agents that use the grounding engine as a tool.

Supported providers for agent commands:
  openai     - OpenAI API (requires OPENAI_API_KEY)
  anthropic  - Anthropic API (requires ANTHROPIC_API_KEY)`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildSearcher wires the vocabulary registry into a searcher using
// the loaded configuration.
func buildSearcher(cfg *config.Config) *grounding.Searcher {
	registry := vocab.NewRegistry(vocab.Options{
		DataDir:    cfg.DataDir,
		OLSBaseURL: cfg.OLSBaseURL,
		Allow:      cfg.Vocabularies,
	})

	opts := []grounding.Option{
		grounding.WithDefaultLimit(cfg.MaxSearchResults),
		grounding.WithLogger(newLogger()),
	}
	return grounding.NewSearcher(registry, opts...)
}

// newLogger builds the CLI logger. Warnings always show; debug output
// is gated behind --verbose.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verboseFlag {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// buildProvider creates the LLM provider from flags and config.
func buildProvider(cfg *config.Config) (llm.Provider, error) {
	selected := providerFlag
	if selected == "" {
		selected = cfg.DefaultProvider
	}
	if selected == "" {
		selected = "openai"
	}

	model := modelFlag
	if model == "" {
		model = cfg.DefaultModel
	}

	switch strings.ToLower(selected) {
	case "openai":
		if model == "" {
			model = "gpt-4o"
		}
		return llm.NewOpenAI(config.GetOpenAIKey(), model), nil
	case "anthropic":
		if model == "" {
			model = "claude-sonnet-4-20250514"
		}
		return llm.NewAnthropic(config.GetAnthropicKey(), model), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (supported: openai, anthropic)", selected)
	}
}

// resolveMap returns the vocabulary map to use: the named map from
// disk, a disk map called "default", or the built-in biomedical map.
func resolveMap(name string) (*vocabmap.Map, error) {
	registry := vocabmap.NewRegistry(vocabmap.NewLoader(config.GetMapPaths()))
	if err := registry.Refresh(); err != nil {
		return nil, fmt.Errorf("loading vocabulary maps: %w", err)
	}

	if name != "" {
		m, ok := registry.Get(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q (available: %s)",
				vocabmap.ErrMapNotFound, name, strings.Join(mapNames(registry), ", "))
		}
		return m, nil
	}

	if m, ok := registry.Get("default"); ok {
		return m, nil
	}
	return vocabmap.Default(), nil
}

func mapNames(r *vocabmap.Registry) []string {
	names := []string{"default"}
	for _, m := range r.List() {
		if m.Name != "default" {
			names = append(names, m.Name)
		}
	}
	return names
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&providerFlag, "provider", "p", "", "LLM provider (openai, anthropic)")
	rootCmd.PersistentFlags().StringVarP(&modelFlag, "model", "m", "", "Model to use (provider-specific)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Verbose logging")
}
