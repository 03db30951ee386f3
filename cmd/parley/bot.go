package main

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/parleyhq/parley/internal/config"
	"github.com/parleyhq/parley/internal/db"
	"github.com/parleyhq/parley/internal/store"
)

func newBotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bot",
		Short: "Bot management commands",
	}

	cmd.AddCommand(newBotCreateCmd())
	cmd.AddCommand(newBotListCmd())
	cmd.AddCommand(newBotShowCmd())
	return cmd
}

func newBotCreateCmd() *cobra.Command {
	var (
		configPath   string
		name         string
		displayName  string
		description  string
		modelName    string
		provider     string
		systemPrompt string
		temperature  float64
		maxTokens    int
		public       bool
		creatorID    uint
		apiBaseURL   string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a new bot",
		Long: `Registers a bot owned by the given creator. The provider API key is
read from an interactive hidden prompt, or from stdin when piped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			apiKey, err := readAPIKey(cmd)
			if err != nil {
				return err
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			gormDB, err := db.Connect(cfg.Database)
			if err != nil {
				return err
			}

			bot, err := store.CreateBot(gormDB, store.BotCreate{
				Name:         name,
				DisplayName:  displayName,
				Description:  description,
				ModelName:    modelName,
				Provider:     provider,
				SystemPrompt: systemPrompt,
				Temperature:  int(math.Round(temperature * 100)),
				MaxTokens:    maxTokens,
				IsPublic:     public,
				AutoTrigger:  true,
				APIKey:       apiKey,
				APIBaseURL:   apiBaseURL,
				CreatedByID:  creatorID,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created bot %s (ID %d, model %s)\n", bot.Name, bot.ID, bot.ModelName)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "parley.yaml", "path to Parley config file")
	cmd.Flags().StringVar(&name, "name", "", "unique bot name (mention handle)")
	cmd.Flags().StringVar(&displayName, "display-name", "", "human-facing bot name")
	cmd.Flags().StringVar(&description, "description", "", "bot description")
	cmd.Flags().StringVar(&modelName, "model", "", "language model name")
	cmd.Flags().StringVar(&provider, "provider", "", "provider: openai, azure, or a compatible name (with --api-base-url)")
	cmd.Flags().StringVar(&systemPrompt, "system-prompt", "", "system prompt")
	cmd.Flags().Float64Var(&temperature, "temperature", 0.7, "sampling temperature (0.0-2.0)")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "response token budget")
	cmd.Flags().BoolVar(&public, "public", false, "visible to all users")
	cmd.Flags().UintVar(&creatorID, "creator", 0, "user ID of the bot's creator")
	cmd.Flags().StringVar(&apiBaseURL, "api-base-url", "", "override provider endpoint")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("display-name")
	cmd.MarkFlagRequired("creator")
	return cmd
}

// readAPIKey prompts for the provider API key without echoing. A non-tty
// stdin (CI, pipes) falls back to reading one line.
func readAPIKey(cmd *cobra.Command) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(cmd.OutOrStdout(), "Provider API key (hidden, empty to skip): ")
		key, err := term.ReadPassword(fd)
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return "", fmt.Errorf("read api key: %w", err)
		}
		return strings.TrimSpace(string(key)), nil
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text()), nil
	}
	return "", nil
}

func newBotListCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active bots",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			gormDB, err := db.Connect(cfg.Database)
			if err != nil {
				return err
			}

			bots, err := store.ListActiveBots(gormDB)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(bots) == 0 {
				fmt.Fprintln(out, "No active bots.")
				return nil
			}
			fmt.Fprintf(out, "%-5s %-20s %-20s %-18s %-8s %s\n", "ID", "NAME", "MODEL", "PROVIDER", "PUBLIC", "TRIGGER")
			for _, b := range bots {
				fmt.Fprintf(out, "%-5d %-20s %-20s %-18s %-8t %t\n",
					b.ID, b.Name, b.ModelName, b.Provider, b.IsPublic, b.AutoTrigger)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "parley.yaml", "path to Parley config file")
	return cmd
}

func newBotShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show a bot's configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			gormDB, err := db.Connect(cfg.Database)
			if err != nil {
				return err
			}

			bot, err := store.GetBotByName(gormDB, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Name:          %s\n", bot.Name)
			fmt.Fprintf(out, "Display name:  %s\n", bot.DisplayName)
			if bot.Description != "" {
				fmt.Fprintf(out, "Description:   %s\n", bot.Description)
			}
			fmt.Fprintf(out, "Model:         %s\n", bot.ModelName)
			fmt.Fprintf(out, "Provider:      %s\n", bot.Provider)
			fmt.Fprintf(out, "Temperature:   %.2f\n", bot.LogicalTemperature())
			fmt.Fprintf(out, "Max tokens:    %d\n", bot.MaxTokens)
			fmt.Fprintf(out, "Public:        %t\n", bot.IsPublic)
			fmt.Fprintf(out, "Auto-trigger:  %t\n", bot.AutoTrigger)
			fmt.Fprintf(out, "Creator:       user %d\n", bot.CreatedByID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "parley.yaml", "path to Parley config file")
	return cmd
}
