package main

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/mortgage-agent/internal/kb"
)

var kbCmd = &cobra.Command{
	Use:   "kb",
	Short: "Manage the mortgage knowledge base",
}

var kbInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create and seed the knowledge base",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := kb.Open(cfg.KB.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Migrate(cmd.Context()); err != nil {
			return err
		}
		zap.L().Info("knowledge base ready", zap.String("path", cfg.KB.Path))
		return nil
	},
}

var kbSearchLimit int

var kbSearchCmd = &cobra.Command{
	Use:   "search <question>",
	Short: "Query the knowledge base",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := kb.Open(cfg.KB.Path)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Migrate(cmd.Context()); err != nil {
			return err
		}

		question := strings.Join(args, " ")
		entries, err := store.Search(cmd.Context(), question, kbSearchLimit)
		if err != nil {
			return eris.Wrap(err, "kb search")
		}

		if len(entries) == 0 {
			fmt.Println("no matches")
			return nil
		}
		for i, e := range entries {
			fmt.Printf("%d. %s\n   %s\n", i+1, e.Title, e.Content)
		}
		return nil
	},
}

func init() {
	kbSearchCmd.Flags().IntVar(&kbSearchLimit, "limit", 3, "maximum results")
	kbCmd.AddCommand(kbInitCmd, kbSearchCmd)
	rootCmd.AddCommand(kbCmd)
}
