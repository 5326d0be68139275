package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mireles/ontoground/internal/config"
	"github.com/mireles/ontoground/internal/grounding"
)

var (
	groundMapFlag  string
	groundFileFlag string
)

var groundCmd = &cobra.Command{
	Use:   "ground [mention]...",
	Short: "Ground entity mentions against the configured vocabularies",
	Long: `Ground a batch of entity mentions. Every mention is searched in
every vocabulary of the active map; matched terms and unmatched
mentions are both reported.

Mentions come from the arguments, from --file (one mention per line),
or from stdin when neither is given.

Examples:
  ontoground ground "cleft palate" "diabetes mellitus"
  ontoground ground --map biomedical --file mentions.txt
  cat mentions.txt | ontoground ground --json`,
	RunE: runGround,
}

func runGround(cmd *cobra.Command, args []string) error {
	mentions, err := collectMentions(args)
	if err != nil {
		return err
	}
	if len(mentions) == 0 {
		return fmt.Errorf("no mentions given")
	}

	m, err := resolveMap(groundMapFlag)
	if err != nil {
		return err
	}

	cfg := config.Get()
	searcher := buildSearcher(cfg)

	outcome, err := searcher.BatchGround(cmd.Context(), mentions, m.Entities)
	if err != nil {
		return err
	}

	if jsonFlag {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(outcome)
	}

	fmt.Print(outcome.Summary())
	return nil
}

// collectMentions gathers mentions from args, --file, or stdin.
func collectMentions(args []string) ([]grounding.Mention, error) {
	var mentions []grounding.Mention

	for _, arg := range args {
		if arg = strings.TrimSpace(arg); arg != "" {
			mentions = append(mentions, grounding.Mention{Text: arg})
		}
	}
	if len(mentions) > 0 {
		return mentions, nil
	}

	var reader *bufio.Scanner
	if groundFileFlag != "" {
		f, err := os.Open(groundFileFlag)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		reader = bufio.NewScanner(f)
	} else {
		reader = bufio.NewScanner(os.Stdin)
	}

	for reader.Scan() {
		line := strings.TrimSpace(reader.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		mentions = append(mentions, grounding.Mention{Text: line})
	}
	return mentions, reader.Err()
}

func init() {
	groundCmd.Flags().StringVar(&groundMapFlag, "map", "", "Vocabulary map to use (default: built-in biomedical map)")
	groundCmd.Flags().StringVarP(&groundFileFlag, "file", "f", "", "File with one mention per line")
	groundCmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit JSON instead of a summary")
	rootCmd.AddCommand(groundCmd)
}
