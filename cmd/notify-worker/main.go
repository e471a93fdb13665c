package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mmynk/budgetsync/internal/config"
	"github.com/mmynk/budgetsync/internal/notify"
	"github.com/mmynk/budgetsync/pkg/logging"
)

func main() {
	logging.Setup()

	_ = godotenv.Load()

	cfg := config.Load()
	if cfg.AMQPURL == "" {
		slog.Error("AMQP_URL must be set for the notify worker")
		os.Exit(1)
	}

	client, err := notify.NewAMQPClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		slog.Error("Failed to connect to AMQP", "error", err)
		os.Exit(1)
	}
	defer client.Close()
	slog.Info("AMQP consumer connected", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)

	mailer := notify.NewMailer(notify.MailerConfig{
		APIKey:    cfg.MailerAPIKey,
		BaseURL:   cfg.MailerBaseURL,
		FromEmail: cfg.MailerFromEmail,
		FromName:  cfg.MailerFromName,
		ClientURL: cfg.ClientURL,
		Timeout:   cfg.MailerTimeout,
	})
	if !mailer.Enabled() {
		slog.Warn("Mailer API key not set, invitation emails will be logged and dropped")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	slog.Info("Notify worker started")
	err = client.ConsumeInvites(ctx, func(n *notify.InviteNotification) error {
		if !mailer.Enabled() {
			slog.Info("Dropping invitation email, mailer disabled",
				"invite_id", n.InviteID, "invited_email", n.InvitedEmail)
			return nil
		}
		if err := mailer.SendInvitation(ctx, n); err != nil {
			slog.Error("Failed to send invitation email",
				"invite_id", n.InviteID, "invited_email", n.InvitedEmail, "error", err)
			return err
		}
		slog.Info("Invitation email sent",
			"invite_id", n.InviteID, "invited_email", n.InvitedEmail)
		return nil
	})
	if err != nil && ctx.Err() == nil {
		slog.Error("Consumer stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("Notify worker stopped")
}
