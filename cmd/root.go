/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/balancesheet-pro/apiserver/internal/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var logger = log.Default()

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "balancesheet",
	Short: "Personal balance sheet API server",
	Long: `balancesheet records income, expenses, assets and loans per user and
reports cash flow and net worth over a chosen period.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", log.FormatText, "log format (text, json)")

	_ = viper.BindPFlag("LOG_LEVEL", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("LOG_FORMAT", rootCmd.PersistentFlags().Lookup("log-format"))
}

func setupLogging(_ *cobra.Command, _ []string) error {
	viper.AutomaticEnv()

	level, err := log.ParseLevel(viper.GetString("LOG_LEVEL"))
	if err != nil {
		return err
	}
	format, err := log.ParseFormat(viper.GetString("LOG_FORMAT"))
	if err != nil {
		return err
	}

	logger = log.New(log.Config{Level: level, Format: format})
	log.SetDefault(logger)
	return nil
}

func fail(format string, args ...any) error {
	err := fmt.Errorf(format, args...)
	logger.Error(err.Error())
	return err
}
