package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"phone-store-be/internal/repository/memory"
	"phone-store-be/pkg/assistant"
	"phone-store-be/pkg/catalog"
	"phone-store-be/pkg/llm/factory"
	"phone-store-be/pkg/textnorm"
)

var (
	catalogPath string
	lexiconPath string
	llmProvider string
	llmModel    string
	llmBaseURL  string
	verbose     bool
	noColor     bool
)

var rootCmd = &cobra.Command{
	Use:   "assistant-cli",
	Short: "Phone store assistant over a local JSON catalog",
	Long: `Runs the product resolution engine in process against a JSON catalog file.
Use "search" for one-off catalog queries and "chat" for a multi-turn conversation.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.NoColor = true
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&catalogPath, "catalog", "f", "data/catalog.json", "JSON catalog file")
	rootCmd.PersistentFlags().StringVar(&lexiconPath, "lexicon", "", "optional YAML lexicon")
	rootCmd.PersistentFlags().StringVar(&llmProvider, "llm", "none", "text generation provider: none, ollama, huggingface")
	rootCmd.PersistentFlags().StringVar(&llmModel, "model", "qwen2.5", "model name for --llm")
	rootCmd.PersistentFlags().StringVar(&llmBaseURL, "llm-url", "", "provider base URL")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print engine logs")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(searchCmd, chatCmd)
}

// newEngine builds the engine with an in-memory context store
func newEngine() (*assistant.Engine, error) {
	items, err := catalog.LoadItems(catalogPath)
	if err != nil {
		return nil, err
	}
	lexicon, err := textnorm.LoadLexicon(lexiconPath)
	if err != nil {
		return nil, err
	}
	provider, err := factory.NewLLMProvider(llmProvider, llmModel, llmBaseURL, os.Getenv("LLM_API_KEY"))
	if err != nil {
		return nil, err
	}

	var out io.Writer = io.Discard
	if verbose {
		out = os.Stderr
	}
	return assistant.New(assistant.Options{
		Catalog:           catalog.NewStaticStore(items, textnorm.New(lexicon).Normalize),
		Contexts:          memory.NewContextRepository(time.Hour),
		Lexicon:           lexicon,
		LLM:               provider,
		GenerationTimeout: 20 * time.Second,
		Logger:            log.New(out, "", log.Ltime),
	}), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		os.Exit(1)
	}
}
