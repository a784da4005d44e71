// Package bootstrap wires the shared backends used by the API server and
// the worker manager from configuration.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"career-counselling/internal/archive"
	"career-counselling/internal/assessment"
	"career-counselling/internal/common/aws"
	"career-counselling/internal/common/config"
	"career-counselling/internal/common/database"
	"career-counselling/internal/common/logger"
	"career-counselling/internal/common/observability"
	"career-counselling/internal/otp"
	"career-counselling/internal/search"
	"career-counselling/internal/store"
	"career-counselling/internal/submission"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"go.uber.org/zap"
)

// Components are the long-lived collaborators shared by both processes.
type Components struct {
	Store       store.Store
	OTP         *otp.Service
	Submissions *submission.Service
	// Index is nil when Elasticsearch is disabled.
	Index   *search.ResultIndex
	Archive archive.Archive

	closers []func() error
}

// Close releases backend connections in reverse order of creation.
func (c *Components) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RetryWithBackoff runs operation until it succeeds or maxRetries attempts
// have failed, doubling the delay after each failure.
func RetryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

// Options tune Build. Zero values give production behaviour.
type Options struct {
	Retries    int
	RetryDelay time.Duration
}

func (o Options) withDefaults() Options {
	if o.Retries == 0 {
		o.Retries = 10
	}
	if o.RetryDelay == 0 {
		o.RetryDelay = 2 * time.Second
	}
	return o
}

// Build connects every enabled backend. On error, anything already opened
// is closed.
func Build(ctx context.Context, cfg *config.Config, obs *observability.Observability, zapLog *zap.Logger, opts Options) (_ *Components, err error) {
	opts = opts.withDefaults()
	log := logger.NewZapAdapter(zapLog)
	c := &Components{}
	defer func() {
		if err != nil {
			_ = c.Close()
		}
	}()

	if err := c.buildStore(ctx, cfg, zapLog, log, opts); err != nil {
		return nil, err
	}

	var awsCfg awssdk.Config
	if needsAWS(cfg) {
		awsCfg, err = aws.LoadConfig(ctx, cfg.Integrations.AWS)
		if err != nil {
			return nil, err
		}
	}

	codes, err := c.buildCodeStore(ctx, cfg, zapLog, opts)
	if err != nil {
		return nil, err
	}
	sender, err := buildSender(cfg, awsCfg, log)
	if err != nil {
		return nil, err
	}
	c.OTP = otp.NewService(cfg.OTP, codes, sender, log)

	if err := c.buildIndex(ctx, cfg, zapLog, opts); err != nil {
		return nil, err
	}

	c.Archive = archive.NopArchive{}
	if s3cfg := cfg.Integrations.AWS.S3; s3cfg.Enabled {
		c.Archive = archive.NewS3Archive(aws.NewS3Client(awsCfg, s3cfg.UsePathStyle), s3cfg.Bucket, s3cfg.Prefix)
		zapLog.Info("S3 archive enabled", zap.String("bucket", s3cfg.Bucket))
	}

	var indexer submission.Indexer
	if c.Index != nil {
		indexer = c.Index
	}
	c.Submissions = submission.NewService(c.Store, assessment.NewEngine(nil), indexer, obs, log)

	return c, nil
}

func (c *Components) buildStore(ctx context.Context, cfg *config.Config, zapLog *zap.Logger, log logger.Logger, opts Options) error {
	if cfg.Storage.Mode != config.StorageModeDB {
		c.Store = store.NewMemory()
		zapLog.Info("using in-memory storage")
		return nil
	}

	var pg *database.PostgresClient
	err := RetryWithBackoff(func() error {
		var err error
		if pg == nil {
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
		}
		return pg.Ping(ctx)
	}, opts.Retries, opts.RetryDelay, zapLog, "PostgreSQL connection")
	if pg != nil {
		c.closers = append(c.closers, pg.Close)
	}
	if err != nil {
		return err
	}

	if cfg.Database.Postgres.AutoMigrate {
		if err := store.Migrate(pg.DB); err != nil {
			return err
		}
		zapLog.Info("database migrations applied")
	}

	c.Store = store.NewLayered(store.NewMemory(), store.NewPostgres(pg.DB), log)
	zapLog.Info("PostgreSQL connected successfully")
	return nil
}

func (c *Components) buildCodeStore(ctx context.Context, cfg *config.Config, zapLog *zap.Logger, opts Options) (otp.CodeStore, error) {
	if !cfg.Database.Redis.Enabled {
		return otp.NewMemoryCodeStore(), nil
	}

	redis := database.NewRedis(cfg.Database.Redis)
	c.closers = append(c.closers, redis.Close)
	err := RetryWithBackoff(func() error {
		return redis.Ping(ctx)
	}, opts.Retries, opts.RetryDelay, zapLog, "Redis connection")
	if err != nil {
		return nil, err
	}
	zapLog.Info("Redis connected successfully")
	return otp.NewRedisCodeStore(redis.Client), nil
}

func (c *Components) buildIndex(ctx context.Context, cfg *config.Config, zapLog *zap.Logger, opts Options) error {
	esCfg := cfg.Database.Elasticsearch
	if !esCfg.Enabled {
		return nil
	}

	es, err := database.NewElasticsearch(esCfg)
	if err != nil {
		return err
	}
	err = RetryWithBackoff(func() error {
		return es.Ping(ctx)
	}, opts.Retries, opts.RetryDelay, zapLog, "Elasticsearch connection")
	if err != nil {
		return err
	}

	c.Index = search.NewResultIndex(es.Client, esCfg.Index)
	if err := c.Index.EnsureIndex(ctx); err != nil {
		zapLog.Warn("failed to ensure result index", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully", zap.String("index", esCfg.Index))
	return nil
}

func buildSender(cfg *config.Config, awsCfg awssdk.Config, log logger.Logger) (otp.Sender, error) {
	senders := make([]otp.Sender, 0, len(cfg.OTP.Channels))
	for _, ch := range cfg.OTP.Channels {
		switch ch {
		case config.ChannelLog:
			senders = append(senders, otp.NewLogSender(log))
		case config.ChannelEmail:
			senders = append(senders, otp.NewSESSender(aws.NewSESClient(awsCfg), cfg.Integrations.AWS.SES.FromEmail))
		case config.ChannelSMS:
			senders = append(senders, otp.NewSNSSender(aws.NewSNSClient(awsCfg), cfg.Integrations.AWS.SNS.SenderID))
		default:
			return nil, fmt.Errorf("unknown otp channel %q", ch)
		}
	}
	return otp.NewMultiSender(log, senders...), nil
}

func needsAWS(cfg *config.Config) bool {
	a := cfg.Integrations.AWS
	return a.SES.Enabled || a.SNS.Enabled || a.S3.Enabled
}
