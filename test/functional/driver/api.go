package driver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

type APIDriver struct {
	baseURL string
	client  *http.Client
}

func NewAPIDriver(baseURL string) *APIDriver {
	return &APIDriver{
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

func (d *APIDriver) post(path string, body any) (*http.Response, error) {
	reqBody, err := json.Marshal(body)
	if err != nil {
		panic(err)
	}
	return d.client.Post(d.baseURL+path, "application/json", bytes.NewBuffer(reqBody))
}

func (d *APIDriver) CreateCommand(body map[string]any) (*http.Response, error) {
	return d.post("/v1/robot/commands", body)
}

func (d *APIDriver) GetCommand(id string) (*http.Response, error) {
	return d.client.Get(fmt.Sprintf("%s/v1/robot/commands/%s", d.baseURL, id))
}

func (d *APIDriver) ListCommands(query url.Values) (*http.Response, error) {
	return d.client.Get(fmt.Sprintf("%s/v1/robot/commands?%s", d.baseURL, query.Encode()))
}

func (d *APIDriver) PeekNextCommand() (*http.Response, error) {
	return d.client.Get(d.baseURL + "/v1/robot/commands/next")
}

func (d *APIDriver) ClaimCommand(robotID string, intents ...string) (*http.Response, error) {
	return d.post("/v1/robot/commands/claim", map[string]any{
		"robot_id": robotID,
		"intents":  intents,
	})
}

func (d *APIDriver) ExecuteCommand(id, robotID string) (*http.Response, error) {
	return d.post(fmt.Sprintf("/v1/robot/commands/%s/execute", id), map[string]any{"robot_id": robotID})
}

func (d *APIDriver) CompleteCommand(id, robotID string, success bool, errorMessage string) (*http.Response, error) {
	body := map[string]any{
		"robot_id": robotID,
		"success":  success,
	}
	if errorMessage != "" {
		body["error_message"] = errorMessage
	}
	return d.post(fmt.Sprintf("/v1/robot/commands/%s/complete", id), body)
}

func (d *APIDriver) ConfirmCommand(id string) (*http.Response, error) {
	return d.post(fmt.Sprintf("/v1/robot/commands/%s/confirm", id), map[string]any{})
}

func (d *APIDriver) CancelCommand(id, reason string) (*http.Response, error) {
	body := map[string]any{}
	if reason != "" {
		body["reason"] = reason
	}
	return d.post(fmt.Sprintf("/v1/robot/commands/%s/cancel", id), body)
}

func (d *APIDriver) GetRobotStatus(robotID string) (*http.Response, error) {
	return d.client.Get(fmt.Sprintf("%s/v1/robot/status?robot_id=%s", d.baseURL, url.QueryEscape(robotID)))
}

func (d *APIDriver) GetHealthz() (*http.Response, error) {
	return d.client.Get(d.baseURL + "/healthz")
}

func (d *APIDriver) GetReadyz() (*http.Response, error) {
	return d.client.Get(d.baseURL + "/readyz")
}
