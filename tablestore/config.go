package tablestore

import (
	"net/http"
	"time"

	"github.com/stratusdata/stratus-table-go-sdk/tablestore/async"
	"github.com/stratusdata/stratus-table-go-sdk/tablestore/credentials"
	"github.com/stratusdata/stratus-table-go-sdk/tablestore/retry"
)

type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

type Config struct {
	// The region in which the instance is located.
	Region string

	// The domain name used to access the table service.
	Endpoint *string

	// RetryMaxAttempts specifies the maximum number of attempts an API client
	// will make on an operation that fails with a retryable error.
	RetryMaxAttempts int

	// RetryMaxElapsed bounds the total time spent on one operation across all
	// of its attempts. Zero means no bound.
	RetryMaxElapsed time.Duration

	// RetryMode selects how the default retryer is built. Only
	// retry.RetryModeStandard is implemented; it is also the fallback for
	// unrecognized values. Ignored when Retryer is set.
	RetryMode retry.RetryMode

	// Retryer guides how requests should be retried in case of recoverable
	// failures. Overrides RetryMode / RetryMaxAttempts / RetryMaxElapsed when
	// set.
	Retryer retry.Retryer

	// The HTTP client to invoke API calls with. Defaults to the client's
	// default HTTP implementation if nil.
	HttpClient HTTPClient

	// The credentials provider to use when authorizing requests.
	CredentialsProvider credentials.CredentialsProvider

	// CompletionQueue runs the client's asynchronous calls. When nil the
	// client constructs and owns one, starting CompletionWorkers workers, and
	// drains it on Close.
	CompletionQueue *async.CompletionQueue

	// Number of goroutines processing completions for a client-owned queue.
	CompletionWorkers int

	// Connect timeout
	ConnectTimeout *time.Duration

	// read & write timeout
	ReadWriteTimeout *time.Duration

	// Skip server certificate verification
	InsecureSkipVerify *bool

	// Additional token appended to the User-Agent header
	UserAgent *string
}

func NewConfig() *Config {
	return &Config{}
}

func (c Config) Copy() Config {
	cp := c
	return cp
}

func LoadDefaultConfig() *Config {
	config := &Config{
		RetryMaxAttempts:  retry.DefaultMaxAttempts,
		CompletionWorkers: DefaultCompletionWorkers,
	}
	return config
}

func (c *Config) WithRegion(region string) *Config {
	c.Region = region
	return c
}

func (c *Config) WithEndpoint(endpoint string) *Config {
	c.Endpoint = Ptr(endpoint)
	return c
}

func (c *Config) WithRetryMode(mode retry.RetryMode) *Config {
	c.RetryMode = mode
	return c
}

func (c *Config) WithRetryMaxAttempts(value int) *Config {
	c.RetryMaxAttempts = value
	return c
}

func (c *Config) WithRetryMaxElapsed(value time.Duration) *Config {
	c.RetryMaxElapsed = value
	return c
}

func (c *Config) WithRetryer(retryer retry.Retryer) *Config {
	c.Retryer = retryer
	return c
}

func (c *Config) WithHttpClient(client *http.Client) *Config {
	c.HttpClient = client
	return c
}

func (c *Config) WithCredentialsProvider(provider credentials.CredentialsProvider) *Config {
	c.CredentialsProvider = provider
	return c
}

func (c *Config) WithCompletionQueue(q *async.CompletionQueue) *Config {
	c.CompletionQueue = q
	return c
}

func (c *Config) WithCompletionWorkers(value int) *Config {
	c.CompletionWorkers = value
	return c
}

func (c *Config) WithConnectTimeout(value time.Duration) *Config {
	c.ConnectTimeout = Ptr(value)
	return c
}

func (c *Config) WithReadWriteTimeout(value time.Duration) *Config {
	c.ReadWriteTimeout = Ptr(value)
	return c
}

func (c *Config) WithInsecureSkipVerify(value bool) *Config {
	c.InsecureSkipVerify = Ptr(value)
	return c
}

func (c *Config) WithUserAgent(value string) *Config {
	c.UserAgent = Ptr(value)
	return c
}
