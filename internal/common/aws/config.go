// internal/common/aws/config.go
package aws

import (
	"context"
	"fmt"

	"career-counselling/internal/common/config"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// LoadConfig builds the shared SDK config. Static keys win over the default
// credential chain when both are set.
func LoadConfig(ctx context.Context, cfg config.AWSConfig) (awssdk.Config, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return awssdk.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	if cfg.Endpoint != "" {
		awsCfg.BaseEndpoint = awssdk.String(cfg.Endpoint)
	}
	return awsCfg, nil
}

func NewSESClient(awsCfg awssdk.Config) *ses.Client {
	return ses.NewFromConfig(awsCfg)
}

func NewSNSClient(awsCfg awssdk.Config) *sns.Client {
	return sns.NewFromConfig(awsCfg)
}

// NewS3Client honours the path-style flag needed by MinIO-style endpoints.
func NewS3Client(awsCfg awssdk.Config, usePathStyle bool) *s3.Client {
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = usePathStyle
	})
}
