package tablestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/codes"

	"github.com/stratusdata/stratus-table-go-sdk/tablestore/async"
	"github.com/stratusdata/stratus-table-go-sdk/tablestore/credentials"
	"github.com/stratusdata/stratus-table-go-sdk/tablestore/retry"
	"github.com/stratusdata/stratus-table-go-sdk/tablestore/signer"
	"github.com/stratusdata/stratus-table-go-sdk/tablestore/transport"
)

type Options struct {
	Region string

	Endpoint *url.URL

	RetryMaxAttempts int

	Retryer retry.Retryer

	Signer signer.Signer

	CredentialsProvider credentials.CredentialsProvider

	HttpClient HTTPClient

	UserAgent string

	ResponseHandlers []func(*http.Response) error
}

func (c Options) Copy() Options {
	to := c
	to.ResponseHandlers = make([]func(*http.Response) error, len(c.ResponseHandlers))
	copy(to.ResponseHandlers, c.ResponseHandlers)
	return to
}

// Client is a typed client for the table service. All operations, including
// the synchronous ones, run through the client's completion queue; the
// synchronous methods are blocking adapters over the asynchronous path.
type Client struct {
	options Options

	queue    *async.CompletionQueue
	ownQueue bool
	workers  *errgroup.Group
}

func New(cfg *Config, optFns ...func(*Options)) *Client {
	options := Options{
		Region:              cfg.Region,
		RetryMaxAttempts:    cfg.RetryMaxAttempts,
		Retryer:             cfg.Retryer,
		CredentialsProvider: cfg.CredentialsProvider,
		HttpClient:          cfg.HttpClient,
	}
	resolveEndpoint(cfg, &options)
	resolveRetryer(cfg, &options)
	resolveHTTPClient(cfg, &options)
	resolveSigner(cfg, &options)
	resolveCredentials(cfg, &options)
	resolveUserAgent(cfg, &options)

	for _, fn := range optFns {
		fn(&options)
	}

	client := &Client{
		options: options,
	}
	client.resolveQueue(cfg)

	return client
}

// Close drains the client-owned completion queue and waits for its workers.
// A queue supplied through the config is left running; its owner shuts it
// down.
func (c *Client) Close() error {
	if c.ownQueue {
		c.queue.Shutdown()
		return c.workers.Wait()
	}
	return nil
}

func resolveEndpoint(cfg *Config, o *Options) {
	endpoint := ToString(cfg.Endpoint)
	if len(endpoint) == 0 {
		if !isValidRegion(cfg.Region) {
			return
		}
		endpoint = fmt.Sprintf("tables.%s.stratusdata.dev", cfg.Region)
	}
	var scheme string
	if strings.HasPrefix(endpoint, "http://") {
		scheme = "http"
		endpoint = endpoint[len("http://"):]
	} else if strings.HasPrefix(endpoint, "https://") {
		scheme = "https"
		endpoint = endpoint[len("https://"):]
	} else {
		scheme = "https"
	}

	o.Endpoint, _ = url.Parse(fmt.Sprintf("%s://%s", scheme, endpoint))
}

func resolveRetryer(cfg *Config, o *Options) {
	if o.Retryer != nil {
		return
	}
	retryMode := cfg.RetryMode
	if len(retryMode) == 0 {
		retryMode = retry.RetryModeStandard
	}
	standard := func() retry.Retryer {
		return retry.NewStandard(func(ro *retry.RetryOptions) {
			if cfg.RetryMaxAttempts > 0 {
				ro.MaxAttempts = cfg.RetryMaxAttempts
			}
			if cfg.RetryMaxElapsed > 0 {
				ro.MaxElapsed = cfg.RetryMaxElapsed
			}
		})
	}
	switch retryMode {
	case retry.RetryModeStandard:
		o.Retryer = standard()
	default:
		o.Retryer = standard()
	}
}

func resolveHTTPClient(cfg *Config, o *Options) {
	if o.HttpClient != nil {
		return
	}

	o.HttpClient = &http.Client{
		Transport: transport.New(&transport.Config{
			ConnectTimeout:     cfg.ConnectTimeout,
			ReadWriteTimeout:   cfg.ReadWriteTimeout,
			InsecureSkipVerify: cfg.InsecureSkipVerify,
		}),
	}
}

func resolveSigner(cfg *Config, o *Options) {
	if o.Signer != nil {
		return
	}

	o.Signer = &signer.TokenSigner{}
}

func resolveCredentials(cfg *Config, o *Options) {
	if o.CredentialsProvider != nil {
		return
	}

	o.CredentialsProvider = credentials.AnonymousCredentialsProvider{}
}

func resolveUserAgent(cfg *Config, o *Options) {
	o.UserAgent = defaultUserAgent()
	if cfg.UserAgent != nil {
		o.UserAgent = o.UserAgent + "/" + *cfg.UserAgent
	}
}

func (c *Client) resolveQueue(cfg *Config) {
	if cfg.CompletionQueue != nil {
		c.queue = cfg.CompletionQueue
		return
	}

	workers := cfg.CompletionWorkers
	if workers <= 0 {
		workers = DefaultCompletionWorkers
	}
	c.queue = async.NewCompletionQueue()
	c.ownQueue = true
	c.workers = &errgroup.Group{}
	for i := 0; i < workers; i++ {
		c.workers.Go(func() error {
			c.queue.Run()
			return nil
		})
	}
}

func (c *Client) invokeOperation(ctx context.Context, input *OperationInput, optFns []func(*Options)) (output *OperationOutput, err error) {
	options := c.options.Copy()

	for _, fn := range optFns {
		fn(&options)
	}

	handle, err := c.submitOperation(ctx, input, &options, nil)
	if err != nil {
		return nil, &OperationError{
			OperationName: input.OpName,
			Err:           err}
	}

	v, err := handle.Wait(ctx)
	if err != nil {
		return nil, &OperationError{
			OperationName: input.OpName,
			Err:           err}
	}

	return v.(*OperationOutput), nil
}

// submitOperation validates the input and submits a retrying call for it.
// Validation failures surface here, before any attempt is scheduled. done may
// be nil when the caller waits on the handle instead.
func (c *Client) submitOperation(ctx context.Context, input *OperationInput, opts *Options, done func(*OperationOutput, error)) (*async.Handle, error) {
	if err := validateInput(input, opts); err != nil {
		return nil, err
	}

	// Buffer the request body once so every attempt gets a fresh reader.
	var body []byte
	if input.Body != nil {
		var err error
		if body, err = io.ReadAll(input.Body); err != nil {
			return nil, &ClientError{Code: "ReadRequestBodyFail", Message: "cannot read request body", Err: err}
		}
	}

	call := func(ctx context.Context) (any, error) {
		return c.sendRequestOnce(ctx, input, body, opts)
	}

	var cont async.CompletionFunc
	if done != nil {
		cont = func(q *async.CompletionQueue, r async.Result) {
			if r.Err != nil {
				done(nil, &OperationError{OperationName: input.OpName, Err: r.Err})
				return
			}
			done(r.Value.(*OperationOutput), nil)
		}
	}

	return async.Submit(ctx, c.queue, call, opts.Retryer, cont)
}

func validateInput(input *OperationInput, opts *Options) error {
	if input == nil {
		return NewErrParamRequired("input")
	}
	if opts.Endpoint == nil {
		return NewErrParamRequired("Endpoint")
	}
	if len(input.OpName) == 0 {
		return NewErrParamRequired("OperationInput.OpName")
	}
	switch input.Method {
	case "GET", "PUT", "POST", "DELETE", "PATCH":
	default:
		return NewErrParamInvalid("OperationInput.Method")
	}
	if !strings.HasPrefix(input.Path, "/") {
		return NewErrParamInvalid("OperationInput.Path")
	}
	return nil
}

// sendRequestOnce performs a single attempt: build, sign, send, decode the
// error shape of a non-2xx response.
func (c *Client) sendRequestOnce(ctx context.Context, input *OperationInput, body []byte, opts *Options) (*OperationOutput, error) {
	strUrl := fmt.Sprintf("%s://%s%s", opts.Endpoint.Scheme, opts.Endpoint.Host, input.Path)

	if len(input.Parameters) > 0 {
		var buf bytes.Buffer
		for k, v := range input.Parameters {
			if buf.Len() > 0 {
				buf.WriteByte('&')
			}
			buf.WriteString(url.QueryEscape(k))
			if len(v) > 0 {
				buf.WriteString("=" + strings.Replace(url.QueryEscape(v), "+", "%20", -1))
			}
		}
		strUrl += "?" + buf.String()
	}

	request, err := http.NewRequestWithContext(ctx, input.Method, strUrl, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	for k, v := range input.Headers {
		if len(k) > 0 && len(v) > 0 {
			request.Header.Set(k, v)
		}
	}
	request.Header.Set(HTTPHeaderUserAgent, opts.UserAgent)

	cred, err := opts.CredentialsProvider.GetCredentials(ctx)
	if err != nil {
		return nil, &ClientError{Code: "CredentialsFetchFail", Message: "cannot fetch credentials", Err: err}
	}
	signingCtx := &signer.SigningContext{
		Region:      Ptr(opts.Region),
		Request:     request,
		Credentials: &cred,
	}
	if err = opts.Signer.Sign(ctx, signingCtx); err != nil {
		return nil, &ClientError{Code: "SignRequestFail", Message: "cannot sign request", Err: err}
	}

	response, err := opts.HttpClient.Do(request)
	if err != nil {
		return nil, err
	}

	if err = handleResponseServiceError(response); err != nil {
		return nil, err
	}

	for _, fn := range opts.ResponseHandlers {
		if err = fn(response); err != nil {
			return nil, err
		}
	}

	return &OperationOutput{
		Input:      input,
		Status:     response.Status,
		StatusCode: response.StatusCode,
		Body:       response.Body,
		Headers:    response.Header,
	}, nil
}

func handleResponseServiceError(response *http.Response) error {
	if response.StatusCode/100 == 2 {
		return nil
	}

	timestamp, err := time.Parse(http.TimeFormat, response.Header.Get(HTTPHeaderDate))
	if err != nil {
		timestamp = time.Now()
	}

	defer response.Body.Close()
	body, err := io.ReadAll(response.Body)

	se := &ServiceError{
		StatusCode:    response.StatusCode,
		Code:          codeFromHTTPStatus(response.StatusCode),
		RequestID:     response.Header.Get(HTTPHeaderStratusRequestID),
		Timestamp:     timestamp,
		RequestTarget: fmt.Sprintf("%s %s", response.Request.Method, response.Request.URL),
		Snapshot:      body,
	}

	if err != nil {
		se.Message = fmt.Sprintf("The body of the response was not readable, due to: %s", err.Error())
		return se
	}

	var wire struct {
		Error struct {
			Code    int        `json:"code"`
			Status  codes.Code `json:"status"`
			Message string     `json:"message"`
		} `json:"error"`
	}
	if err = json.Unmarshal(body, &wire); err != nil {
		n := len(body)
		if n > 256 {
			n = 256
		}
		se.Message = fmt.Sprintf("Failed to parse error from response body due to: %s. With part response body %s.", err.Error(), string(body[:n]))
		return se
	}

	if wire.Error.Status != codes.OK {
		se.Code = wire.Error.Status
	}
	se.Message = wire.Error.Message
	return se
}

func (c *Client) toClientError(err error, code string, output *OperationOutput) error {
	if err == nil {
		return nil
	}

	return &OperationError{
		OperationName: output.Input.OpName,
		Err: &ClientError{
			Code:    code,
			Message: "execute api error, " + err.Error(),
			Err:     err,
		},
	}
}

func defaultUserAgent() string {
	return fmt.Sprintf("stratus-table-go/%s (%s/%s;%s)", Version(), runtime.GOOS,
		runtime.GOARCH, runtime.Version())
}

func marshalInputBody(v any) (io.Reader, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, &ClientError{Code: "SerializationFail", Message: "cannot marshal request", Err: err}
	}
	return bytes.NewReader(data), nil
}

type outputHandler func(result any, output *OperationOutput) error

func unmarshalOutput(result any, output *OperationOutput, handlers ...outputHandler) error {
	for _, h := range handlers {
		if err := h(result, output); err != nil {
			return err
		}
	}

	if r, ok := result.(ResultCommonInterface); ok {
		r.CopyIn(output.Status, output.StatusCode, output.Headers, output.OpMetadata)
	}

	return nil
}

func discardBody(_ any, output *OperationOutput) error {
	if output.Body != nil {
		defer output.Body.Close()
		if _, err := io.Copy(io.Discard, output.Body); err != nil {
			return err
		}
	}
	return nil
}

func unmarshalBodyJSON(result any, output *OperationOutput) error {
	if output.Body == nil {
		return nil
	}
	defer output.Body.Close()
	body, err := io.ReadAll(output.Body)
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, result)
}
