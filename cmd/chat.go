package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/mortgage-agent/internal/agent"
	"github.com/sells-group/mortgage-agent/internal/kb"
	"github.com/sells-group/mortgage-agent/internal/model"
	"github.com/sells-group/mortgage-agent/pkg/anthropic"
)

var chatNoStream bool

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the advisor in the terminal",
	Long:  "Interactive REPL against the advisor. Type /reset to start over, /caps to list the live capability set, /reqs for the requirements summary, /quit to exit.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if cfg.Anthropic.Key == "" {
			return eris.New("anthropic key not configured (set MORTGAGE_ANTHROPIC_KEY)")
		}
		client := anthropic.NewClient(cfg.Anthropic.Key, cfg.Anthropic.RatePerSec)

		store, err := kb.Open(cfg.KB.Path)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Migrate(ctx); err != nil {
			return err
		}

		advisor, err := agent.New(agent.Options{
			Client:    client,
			KB:        store,
			Anthropic: cfg.Anthropic,
			Agent:     cfg.Agent,
		})
		if err != nil {
			return err
		}

		fmt.Println("Mortgage advisor ready. /quit to exit.")
		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				return scanner.Err()
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			switch line {
			case "/quit", "/exit":
				return nil
			case "/reset":
				advisor.Reset()
				fmt.Println("(session reset)")
				continue
			case "/caps":
				fmt.Println(strings.Join(advisor.Capabilities(), ", "))
				continue
			case "/reqs":
				fmt.Println(advisor.Requirements().Summary())
				continue
			}

			result, err := advisor.SendMessage(ctx, line, !chatNoStream, func(e model.Event) {
				switch e.Type {
				case model.EventChunk:
					fmt.Print(e.Content)
				case model.EventToolStart:
					fmt.Printf("\n[%s...]\n", e.ToolName)
				case model.EventToolError:
					fmt.Printf("[%s failed: %s]\n", e.ToolName, e.Error)
				}
			})
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				zap.L().Error("chat turn failed", zap.Error(err))
				fmt.Println("(error: " + err.Error() + ")")
				continue
			}

			if chatNoStream {
				fmt.Println(result.Message)
			} else {
				fmt.Println()
			}
		}
	},
}

func init() {
	chatCmd.Flags().BoolVar(&chatNoStream, "no-stream", false, "wait for complete responses instead of streaming")
	rootCmd.AddCommand(chatCmd)
}
