package communication

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"nami-server/internal/infra/httpserver"
	"nami-server/internal/robot_agent/communication/internal"
	"nami-server/internal/robot_agent/usecases"
	"nami-server/internal/shared_kernel/domain"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const DefaultRequestTimeout = 5 * time.Second

type HTTPDispatchClientOptions struct {
	BaseURL string
	Timeout time.Duration
}

// NewHTTPDispatchClient talks to the robot-facing dispatch API. Requests are
// traced and carry the robot id header.
func NewHTTPDispatchClient(opts HTTPDispatchClientOptions) (*HTTPDispatchClient, error) {
	base, err := url.Parse(strings.TrimSuffix(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing api base %q: %w", opts.BaseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("api base %q must be an absolute url", opts.BaseURL)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	return &HTTPDispatchClient{
		base: base.String(),
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}, nil
}

var _ usecases.DispatchClient = (*HTTPDispatchClient)(nil)

type HTTPDispatchClient struct {
	base   string
	client *http.Client
}

func (c *HTTPDispatchClient) ClaimNext(ctx context.Context, robotID domain.ID, intents []domain.Intent) (domain.Command, bool, error) {
	body := internal.ClaimRequest{RobotID: robotID.String()}
	for _, intent := range intents {
		body.Intents = append(body.Intents, string(intent))
	}

	resp, err := c.do(ctx, http.MethodPost, "/v1/robot/commands/claim", robotID, body)
	if err != nil {
		return domain.Command{}, false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return domain.Command{}, false, nil
	}
	if err := checkStatus(resp); err != nil {
		return domain.Command{}, false, err
	}

	var payload internal.Command
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.Command{}, false, fmt.Errorf("%w: decoding claimed command: %v", domain.ErrConnectivity, err)
	}

	cmd, err := payload.ToDomain()
	if err != nil {
		return domain.Command{}, false, err
	}
	return cmd, true, nil
}

func (c *HTTPDispatchClient) ReportOutcome(ctx context.Context, report usecases.OutcomeReport) error {
	body := internal.CompleteRequest{
		RobotID:    report.RobotID.String(),
		Success:    report.Success,
		RetryCount: report.RetryCount,
	}
	if !report.Success {
		body.ErrorMessage = &report.ErrorMessage
	}

	path := fmt.Sprintf("/v1/robot/commands/%s/complete", url.PathEscape(report.CommandID.String()))
	resp, err := c.do(ctx, http.MethodPost, path, report.RobotID, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return checkStatus(resp)
}

func (c *HTTPDispatchClient) ReportStatus(ctx context.Context, state domain.RobotState) error {
	body := internal.StatusRequest{
		RobotID:     state.RobotID.String(),
		Status:      string(state.Status),
		Location:    state.Location.String(),
		Battery:     state.Battery,
		CurrentTask: state.CurrentTask,
	}

	resp, err := c.do(ctx, http.MethodPut, "/v1/robot/status", state.RobotID, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return checkStatus(resp)
}

func (c *HTTPDispatchClient) do(ctx context.Context, method, path string, robotID domain.ID, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(httpserver.RobotIDHeader, robotID.String())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", domain.ErrConnectivity, method, path, err)
	}
	return resp, nil
}

// checkStatus maps an error response back onto the domain errors. Server
// side failures count as connectivity problems so the poller retries them.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode < http.StatusBadRequest {
		return nil
	}

	message := http.StatusText(resp.StatusCode)
	var body internal.ErrorResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		message = body.Message
	}

	var kind error
	switch {
	case resp.StatusCode == http.StatusBadRequest:
		kind = domain.ErrValidation
	case resp.StatusCode == http.StatusNotFound:
		kind = domain.ErrCommandNotFound
	case resp.StatusCode == http.StatusConflict:
		kind = domain.ErrInvalidTransition
	case resp.StatusCode >= http.StatusInternalServerError:
		kind = domain.ErrConnectivity
	default:
		kind = errors.New(http.StatusText(resp.StatusCode))
	}
	return fmt.Errorf("%w: %d %s", kind, resp.StatusCode, message)
}
