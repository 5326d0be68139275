package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mireles/ontoground/internal/config"
	"github.com/mireles/ontoground/internal/grounding"
	"github.com/mireles/ontoground/internal/vocab"
)

var indexCmd = &cobra.Command{
	Use:   "index <vocabulary> <terms-file>",
	Short: "Build a local term index for a vocabulary",
	Long: `Build the local SQLite index that backs "obo:" vocabulary handles.

The terms file is tab-separated with one term per line:

  MONDO:0007947<TAB>Marfan syndrome
  MONDO:0005015<TAB>diabetes mellitus

Lines without a tab, and lines starting with '#', are skipped.

Examples:
  ontoground index mondo mondo-terms.tsv
  ontoground index hp hp-terms.tsv`,
	Args: cobra.ExactArgs(2),
	RunE: runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	vocabulary, path := args[0], args[1]

	terms, err := readTerms(path)
	if err != nil {
		return err
	}
	if len(terms) == 0 {
		return fmt.Errorf("no terms found in %s", path)
	}

	cfg := config.Get()
	if err := vocab.BuildIndex(cmd.Context(), cfg.DataDir, vocabulary, terms); err != nil {
		return err
	}

	fmt.Printf("Indexed %d terms for %s at %s\n",
		len(terms), vocabulary, vocab.Path(cfg.DataDir, vocabulary))
	return nil
}

// readTerms parses a two-column TSV of term ID and label.
func readTerms(path string) ([]grounding.Candidate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var terms []grounding.Candidate
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		id, label, ok := strings.Cut(line, "\t")
		if !ok {
			continue
		}
		id = strings.TrimSpace(id)
		label = strings.TrimSpace(label)
		if id == "" || label == "" {
			continue
		}
		terms = append(terms, grounding.Candidate{ID: id, Label: label})
	}
	return terms, scanner.Err()
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
