package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/modellens/modellens/pkg/adapter"
	"github.com/modellens/modellens/pkg/catalog"
	"github.com/modellens/modellens/pkg/chart"
	"github.com/modellens/modellens/pkg/config"
	"github.com/modellens/modellens/pkg/dispatch"
	"github.com/modellens/modellens/pkg/render"
	"github.com/modellens/modellens/pkg/tokens"
)

var catalogFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "modellens",
		Short: "Compare how base, instruct and fine-tuned models answer a query",
		Long: `Modellens sends one query to a chosen (model type, provider) pair and
	shows the response next to the model's training characteristics, so base,
	instruct and fine-tuned behavior can be compared across OpenAI, Anthropic
	and Hugging Face.`,
	}

	rootCmd.PersistentFlags().StringVar(&catalogFile, "catalog", "", "path to an alternate model catalog (YAML)")

	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(modelsCmd())
	rootCmd.AddCommand(chartCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func askCmd() *cobra.Command {
	var typeFlag string
	var providerFlag string
	var maxTokens int
	var temperature float64
	var mockFlag bool

	cmd := &cobra.Command{
		Use:   "ask [query]",
		Short: "Send a query to a (model type, provider) pair",
		Long: `Resolves the model registered for the chosen type and provider, sends
	the query, and prints the response with token usage, timing and the
	model's characteristics. Missing query, type or provider are prompted
	for interactively.

	Provider and type spellings are forgiving: "Hugging Face", "huggingface"
	and "HUGGINGFACE" all select the same provider.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			cat, err := loadCatalog(cfg)
			if err != nil {
				return err
			}

			var query string
			if len(args) > 0 {
				query = strings.TrimSpace(args[0])
			}

			in := bufio.NewReader(os.Stdin)
			if query == "" {
				if query, err = promptLine(in, "Enter your query"); err != nil {
					return err
				}
			}
			if typeFlag == "" {
				typeFlag, err = promptChoice(in, "Choose model type", modelTypeNames(), func(s string) error {
					_, err := catalog.ParseModelType(s)
					return err
				})
				if err != nil {
					return err
				}
			}
			if providerFlag == "" {
				providerFlag, err = promptChoice(in, "Choose provider", providerNames(), func(s string) error {
					_, err := catalog.ParseProvider(s)
					return err
				})
				if err != nil {
					return err
				}
			}

			t, err := catalog.ParseModelType(typeFlag)
			if err != nil {
				return err
			}
			p, err := catalog.ParseProvider(providerFlag)
			if err != nil {
				return err
			}

			d, err := buildDispatcher(cfg, cat, mockFlag)
			if err != nil {
				return fmt.Errorf("failed to create adapters: %w", err)
			}

			desc, err := d.Resolve(t, p)
			if err != nil {
				return err
			}

			opts := cfg.Defaults.Options()
			if cmd.Flags().Changed("max-tokens") {
				opts.MaxTokens = maxTokens
			}
			if cmd.Flags().Changed("temperature") {
				opts.Temperature = temperature
			}

			fmt.Printf("Using %s from %s for %s query...\n", desc.Name, desc.Provider.Display(), desc.Type)

			res, desc, genErr := d.Dispatch(context.Background(), t, p, query, opts)
			render.New(os.Stdout).Summary(query, desc, res, genErr)
			return nil
		},
	}

	cmd.Flags().StringVar(&typeFlag, "type", "", "model type (base, instruct, fine_tuned)")
	cmd.Flags().StringVar(&providerFlag, "provider", "", "model provider (openai, huggingface, anthropic)")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "max tokens to generate (defaults to DEFAULT_MAX_TOKENS)")
	cmd.Flags().Float64Var(&temperature, "temperature", 0, "sampling temperature (defaults to DEFAULT_TEMPERATURE)")
	cmd.Flags().BoolVar(&mockFlag, "mock", false, "use deterministic mock adapters instead of live providers")

	return cmd
}

func modelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List registered models and credential status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			cat, err := loadCatalog(cfg)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "MODEL\tTYPE\tPROVIDER\tCONTEXT\tSTATUS")

			for _, desc := range cat.Descriptors() {
				status := "no key"
				if cfg.Credentials.Has(desc.Provider) {
					status = "ready"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
					desc.Name, desc.Type.Display(), desc.Provider.Display(), desc.ContextWindow, status)
			}

			return w.Flush()
		},
	}
}

func chartCmd() *cobra.Command {
	var outFile string

	cmd := &cobra.Command{
		Use:   "chart [model=tokens ...]",
		Short: "Render a token-usage bar chart",
		Long: `Renders a PNG bar chart comparing token usage across models from
	model=tokens pairs, for example:

	modellens chart --out usage.png gpt-3.5-turbo=120 distilgpt2=48`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			usage := make(map[string]int, len(args))
			for _, arg := range args {
				name, value, ok := strings.Cut(arg, "=")
				if !ok || name == "" {
					return fmt.Errorf("invalid pair %q, want model=tokens", arg)
				}
				n, err := strconv.Atoi(value)
				if err != nil {
					return fmt.Errorf("invalid token count in %q: %w", arg, err)
				}
				usage[name] = n
			}

			if err := chart.Render(usage, outFile); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Chart written to %s\n", outFile)
			return nil
		},
	}

	cmd.Flags().StringVar(&outFile, "out", "token_usage.png", "output PNG path")

	return cmd
}

// loadCatalog prefers the --catalog flag, then the config-dir catalog, then
// the builtin table.
func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	path := catalogFile
	if path == "" {
		path = cfg.CatalogPath
	}
	if path == "" {
		return catalog.Default(), nil
	}

	cat, err := catalog.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return cat, nil
}

func buildDispatcher(cfg *config.Config, cat *catalog.Catalog, mock bool) (*dispatch.Dispatcher, error) {
	if mock {
		return dispatch.New(cat,
			adapter.NewMockAdapter(catalog.ProviderOpenAI),
			adapter.NewMockAdapter(catalog.ProviderAnthropic),
			adapter.NewMockAdapter(catalog.ProviderHuggingFace),
		)
	}

	return dispatch.New(cat,
		adapter.NewOpenAIAdapter(cfg.Credentials.For(catalog.ProviderOpenAI)),
		adapter.NewAnthropicAdapter(cfg.Credentials.For(catalog.ProviderAnthropic)),
		adapter.NewHuggingFaceAdapter(cfg.Credentials.For(catalog.ProviderHuggingFace), tokens.Default()),
	)
}

// promptLine reads one line of input, re-asking on empty answers. A partial
// line terminated by EOF still counts as an answer.
func promptLine(in *bufio.Reader, label string) (string, error) {
	for {
		fmt.Printf("%s: ", label)
		line, err := in.ReadString('\n')
		line = strings.TrimSpace(line)
		if line != "" {
			return line, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
	}
}

// promptChoice re-asks until the answer passes validation.
func promptChoice(in *bufio.Reader, label string, choices []string, valid func(string) error) (string, error) {
	prompt := fmt.Sprintf("%s (%s)", label, strings.Join(choices, ", "))
	for {
		answer, err := promptLine(in, prompt)
		if err != nil {
			return "", err
		}
		if err := valid(answer); err != nil {
			fmt.Fprintf(os.Stderr, "invalid choice: %v\n", err)
			continue
		}
		return answer, nil
	}
}

func modelTypeNames() []string {
	return []string{
		catalog.TypeBase.String(),
		catalog.TypeInstruct.String(),
		catalog.TypeFineTuned.String(),
	}
}

func providerNames() []string {
	return []string{
		catalog.ProviderOpenAI.String(),
		catalog.ProviderHuggingFace.String(),
		catalog.ProviderAnthropic.String(),
	}
}
