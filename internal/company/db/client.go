package db

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-xray-sdk-go/instrumentation/awsv2"
)

// ClientConfig configures the DynamoDB client shared by every request of a process.
type ClientConfig struct {
	Region string
	// Endpoint overrides the service endpoint, e.g. DynamoDB Local.
	Endpoint string
	// ConnectTimeout bounds TCP connection establishment. It is kept below the
	// first SYN retransmission so a dead connection fails fast.
	ConnectTimeout time.Duration
	// RequestTimeout bounds one API call, large enough for a 1 MB page.
	RequestTimeout time.Duration
	EnableTracing  bool
}

// NewClient builds the DynamoDB client. Construct it once per process and
// pass it to NewRepository; it is safe for concurrent use.
func NewClient(ctx context.Context, cfg *ClientConfig) (*dynamodb.Client, error) {
	httpClient := awshttp.NewBuildableClient().
		WithTimeout(cfg.RequestTimeout).
		WithDialerOptions(func(d *net.Dialer) {
			d.Timeout = cfg.ConnectTimeout
		})

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	if cfg.EnableTracing {
		awsv2.AWSV2Instrumentor(&awsCfg.APIOptions)
	}

	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}
