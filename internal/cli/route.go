package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/docmentor/tread/internal/document"
	"github.com/docmentor/tread/internal/inference"
	"github.com/docmentor/tread/internal/tread"
)

var (
	routeSections bool
	routeStats    bool
	routeInfer    bool
)

var routeCmd = &cobra.Command{
	Use:   "route [file|-]",
	Short: "Route a document through the importance engine",
	Long:  "Route reads a document from a file or stdin, scores it, and prints the span routing. Use --sections to route each section separately.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRoute,
}

func init() {
	routeCmd.Flags().BoolVar(&routeSections, "sections", false, "Split the document into sections and route each")
	routeCmd.Flags().BoolVar(&routeStats, "stats", false, "Print engine statistics after routing")
	routeCmd.Flags().BoolVar(&routeInfer, "infer", false, "Hand the routed document to the configured inference endpoint")
}

func runRoute(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	text, err := readInput(args)
	if err != nil {
		return err
	}
	if text == "" {
		return fmt.Errorf("empty input")
	}

	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	dict, err := buildDictionary(cfg, db)
	if err != nil {
		return err
	}

	engine := tread.NewEngine(cfg, dict)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if routeSections {
		secs := document.Split(text)
		texts := make([]string, len(secs))
		for i, sec := range secs {
			texts[i] = sec.Text
		}
		results, err := engine.ProcessBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("route: %w", err)
		}
		for i, res := range results {
			fmt.Printf("## section %d [%d,%d)\n", i+1, secs[i].Start, secs[i].End)
			printResult(texts[i], res)
			fmt.Println()
		}
	} else {
		res, err := engine.Process(ctx, text)
		if err != nil {
			return fmt.Errorf("route: %w", err)
		}
		printResult(text, res)

		if routeInfer {
			client, err := inference.NewClient(cfg.Inference)
			if err != nil {
				return err
			}
			resp, err := client.Infer(ctx, text, res)
			if err != nil {
				return fmt.Errorf("infer: %w", err)
			}
			fmt.Printf("\n## inference (%s, %d tokens)\n%s\n", resp.Model, resp.TokensUsed, resp.Content)
		}
	}

	if routeStats {
		fmt.Println()
		fmt.Print(engine.Stats().Report())
	}

	return nil
}

func readInput(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read %s: %w", args[0], err)
	}
	return string(data), nil
}

func printResult(text string, res *tread.RoutingResult) {
	high := res.HighTokens()
	fmt.Printf("fingerprint: %s\n", res.Fingerprint)
	fmt.Printf("tokens: %d (high %d, low %d)\n", res.TokenCount, high, res.TokenCount-high)
	if res.FailOpen {
		fmt.Println("fail-open: routed everything to the high path")
	}
	for _, s := range res.Spans {
		fmt.Printf("  [%4d,%4d) %-4s %.2f  %s\n", s.Start, s.End, s.Path, s.Importance, excerpt(text[s.Start:s.End]))
	}
}

// excerpt flattens a span to a single short line.
func excerpt(s string) string {
	out := make([]rune, 0, 60)
	for _, r := range s {
		if r == '\n' || r == '\t' || r == '\r' {
			r = ' '
		}
		out = append(out, r)
		if len(out) == 60 {
			return string(out) + "..."
		}
	}
	return string(out)
}
