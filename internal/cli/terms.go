package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docmentor/tread/internal/dictionary"
)

var termsCategory string

var termsCmd = &cobra.Command{
	Use:   "terms",
	Short: "Manage the stored term dictionary",
}

var termsImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import terms from a TOML term file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTermsImport,
}

var termsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored terms",
	RunE:  runTermsList,
}

func init() {
	termsListCmd.Flags().StringVarP(&termsCategory, "category", "c", "", "Filter by category")

	termsCmd.AddCommand(termsImportCmd)
	termsCmd.AddCommand(termsListCmd)
}

func runTermsImport(cmd *cobra.Command, args []string) error {
	terms, err := dictionary.LoadFile(args[0])
	if err != nil {
		return fmt.Errorf("load term file: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	n, err := db.UpsertTerms(terms)
	if err != nil {
		return fmt.Errorf("upsert terms: %w", err)
	}

	total, err := db.CountTerms()
	if err != nil {
		return fmt.Errorf("count terms: %w", err)
	}

	fmt.Printf("imported %d terms (%d stored)\n", n, total)
	return nil
}

func runTermsList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	terms, err := db.ListTerms(termsCategory)
	if err != nil {
		return fmt.Errorf("list terms: %w", err)
	}

	if len(terms) == 0 {
		fmt.Println("No stored terms. The builtin set is always active.")
		return nil
	}

	for _, t := range terms {
		line := fmt.Sprintf("%-30s %.1f", t.Surface, t.Weight)
		if t.Category != "" {
			line += "  [" + t.Category + "]"
		}
		if t.Canonical != "" && t.Canonical != t.Surface {
			line += "  -> " + t.Canonical
		}
		fmt.Println(line)
	}
	fmt.Printf("%d terms\n", len(terms))
	return nil
}
