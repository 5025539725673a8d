/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"

	"github.com/balancesheet-pro/apiserver/config"
	"github.com/balancesheet-pro/apiserver/internal/log"
	"github.com/balancesheet-pro/apiserver/internal/mq"
	"github.com/spf13/cobra"
)

// eventsCmd represents the events command.
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect ledger events on the configured broker",
}

var eventsTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Log every record.created event until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := config.LoadConfig()

		backend, err := mq.NewFromConfig(ctx, cfg.MQ)
		if err != nil {
			return fail("connect mq: %w", err)
		}
		if backend == nil {
			return fail("MQ_BACKEND is not configured")
		}
		defer backend.Close()

		mqLogger := logger.WithComponent(log.ComponentMQ)
		mqLogger.Info("tailing events", "backend", cfg.MQ.Backend, "channel", cfg.MQ.Channel)

		publisher := mq.NewEventPublisher(backend, cfg.MQ.Channel)
		err = publisher.SubscribeRecordCreated(ctx, func(_ context.Context, event mq.RecordCreatedEvent) error {
			mqLogger.Info(mq.EventRecordCreated,
				log.FieldKind, event.Kind,
				log.FieldRecordID, event.ID,
				log.FieldUserID, event.UserID,
				"amount", event.Amount.String(),
				"occurred_at", event.OccurredAt,
			)
			return nil
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			return fail("subscribe: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsTailCmd)
}
