package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mireles/ontoground/internal/config"
	"github.com/mireles/ontoground/internal/grounding"
)

var (
	searchLimitFlag int
	jsonFlag        bool
)

var (
	termIDStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	labelStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	matchTypeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	confidenceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	noteStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Italic(true)
)

var searchCmd = &cobra.Command{
	Use:   "search <vocabulary> <query>",
	Short: "Search a vocabulary for matching terms",
	Long: `Search a controlled vocabulary for terms matching a query.

The vocabulary is a bare identifier backed by a local index ("mondo",
"hp") or a scheme-qualified handle ("ols:mondo" for the EBI Ontology
Lookup Service).

Examples:
  ontoground search mondo "Marfan syndrome"
  ontoground search hp seizure --limit 5
  ontoground search ols:go "DNA repair" --json`,
	Args: cobra.ExactArgs(2),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	searcher := buildSearcher(cfg)

	results, err := searcher.Search(cmd.Context(), args[0], args[1], searchLimitFlag)
	if err != nil {
		return err
	}

	if jsonFlag {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	printResults(results)
	return nil
}

func printResults(results []grounding.Result) {
	if len(results) == 0 {
		fmt.Println("No results.")
		return
	}

	for _, r := range results {
		if r.IsSentinel() {
			fmt.Printf("%s\n", noteStyle.Render(r.Label))
			if r.Note != "" {
				fmt.Printf("  %s\n", r.Note)
			}
			continue
		}

		fmt.Printf("%s  %s  %s %s\n",
			termIDStyle.Render(r.ID),
			labelStyle.Render(r.Label),
			matchTypeStyle.Render(string(r.MatchType)),
			confidenceStyle.Render(fmt.Sprintf("(%.2f)", r.Confidence)))
		if r.Note != "" {
			fmt.Printf("      %s\n", noteStyle.Render(r.Note))
		}
	}
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimitFlag, "limit", "l", 0, "Maximum number of results (default from config)")
	searchCmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit JSON instead of styled text")
	rootCmd.AddCommand(searchCmd)
}
