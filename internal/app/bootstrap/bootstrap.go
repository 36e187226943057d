// Package bootstrap wires shared infrastructure for the API server and the
// Lambda entry point so both binaries pick stores and senders the same way.
package bootstrap

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	appconfig "github.com/evrodrive/leadgate/internal/config"
	"github.com/evrodrive/leadgate/internal/leads"
	"github.com/evrodrive/leadgate/internal/notify"
	"github.com/evrodrive/leadgate/pkg/logging"
)

// Repository picks the lead store: DynamoDB when LEADS_TABLE is set, MongoDB
// when MONGO_URI is set, otherwise in-memory for credential-less dev. The
// returned cleanup must be called on shutdown.
func Repository(ctx context.Context, cfg *appconfig.Config, awsCfg *aws.Config, logger *logging.Logger) (leads.Repository, func(), error) {
	noop := func() {}

	if cfg.LeadsTable != "" {
		client := dynamodb.NewFromConfig(*awsCfg)
		logger.Info("using DynamoDB lead storage", "table", cfg.LeadsTable)
		return leads.NewDynamoRepository(client, cfg.LeadsTable, logger), noop, nil
	}

	if cfg.MongoURI != "" {
		client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, noop, err
		}
		cleanup := func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := client.Disconnect(disconnectCtx); err != nil {
				logger.Error("mongo disconnect failed", "error", err)
			}
		}
		pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx, nil); err != nil {
			cleanup()
			return nil, noop, err
		}
		logger.Info("using MongoDB lead storage", "database", cfg.MongoDatabase)
		return leads.NewMongoRepository(client.Database(cfg.MongoDatabase), logger), cleanup, nil
	}

	logger.Warn("no lead store configured, using in-memory repository")
	return leads.NewInMemoryRepository(), noop, nil
}

// EmailSender returns nil when mail credentials are absent; the lead alerter
// logs and skips in that case.
func EmailSender(cfg *appconfig.Config, awsCfg *aws.Config, logger *logging.Logger) notify.EmailSender {
	switch cfg.EmailProvider {
	case "ses":
		if awsCfg == nil {
			return nil
		}
		sender := notify.NewSESSender(sesv2.NewFromConfig(*awsCfg), notify.SESConfig{
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
		if sender == nil {
			return nil
		}
		return sender
	default:
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
		if sender == nil {
			return nil
		}
		return sender
	}
}

// NeedsAWS reports whether the configuration requires an AWS SDK config.
func NeedsAWS(cfg *appconfig.Config) bool {
	return cfg.LeadsTable != "" || cfg.EmailProvider == "ses"
}
