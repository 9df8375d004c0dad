package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docmentor/tread/internal/config"
	"github.com/docmentor/tread/internal/dictionary"
	"github.com/docmentor/tread/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "tread",
	Short: "Token-importance routing for medical text",
	Long:  "Tread scores medical text for clinical importance, routes high-importance spans to full model computation, and caches routing decisions.",
}

var configPath string

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.tread/config.toml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeCmd)
	rootCmd.AddCommand(termsCmd)
}

// loadConfig resolves the config file path and loads it. A missing
// file yields defaults.
func loadConfig() (config.Config, error) {
	path := configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return config.Config{}, fmt.Errorf("resolve config path: %w", err)
		}
	}
	return config.Load(path)
}

// openDB opens the store at the configured path.
func openDB(cfg config.Config) (*store.DB, error) {
	dbPath := cfg.Database.Path
	if dbPath == "" {
		var err error
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve db path: %w", err)
		}
	}
	return store.Open(dbPath)
}

// buildDictionary layers stored terms and the optional term file over
// the builtin set. Later entries win on surface collisions.
func buildDictionary(cfg config.Config, db *store.DB) (*dictionary.Dictionary, error) {
	stored, err := db.ListTerms("")
	if err != nil {
		return nil, fmt.Errorf("list terms: %w", err)
	}
	terms := append(dictionary.Builtin(), stored...)

	if cfg.Terms.File != "" {
		fileTerms, err := dictionary.LoadFile(cfg.Terms.File)
		if err != nil {
			return nil, fmt.Errorf("load term file: %w", err)
		}
		terms = append(terms, fileTerms...)
	}

	return dictionary.New(terms), nil
}
