package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/sandevgo/vndbot/internal/config"
	"github.com/sandevgo/vndbot/pkg/log"
)

var debug bool

var rootCmd = &cobra.Command{
	Use:   "vndbot",
	Short: "VNDBot - RAG bot for internal regulations",
	Long:  `VNDBot answers questions about internal documents through a retrieval-augmented pipeline.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", config.IsDebug(), "enable debug logging")
}

func setupLogger(ctx context.Context) (context.Context, func()) {
	return log.NewContextWithLogger(ctx, debug || config.IsDebug())
}
