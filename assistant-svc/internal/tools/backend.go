package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// CustomerHeader identifies the caller on user scoped foodie-svc routes.
const CustomerHeader = "X-Customer-ID"

const maxResponseBytes = 1 << 20

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Backend executes a prepared request against foodie-svc on behalf of a
// customer and returns the raw JSON body of a successful response.
type Backend interface {
	Do(ctx context.Context, customerID int, req Request) (json.RawMessage, error)
}

type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   interface{}
}

type HTTPBackend struct {
	baseURL string
	client  HTTPClient
}

func NewHTTPBackend(baseURL string, client HTTPClient) *HTTPBackend {
	return &HTTPBackend{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (b *HTTPBackend) Do(ctx context.Context, customerID int, req Request) (json.RawMessage, error) {
	target := b.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set(CustomerHeader, strconv.Itoa(customerID))

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &TransportError{Status: resp.StatusCode, Err: err}
	}

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, &TransportError{Status: resp.StatusCode, Err: errors.New(strings.TrimSpace(string(data)))}
	case resp.StatusCode >= http.StatusBadRequest:
		return nil, decodeAPIError(resp.StatusCode, data)
	}

	if !json.Valid(data) {
		return nil, &TransportError{Status: resp.StatusCode, Err: errors.New("response is not valid JSON")}
	}
	return json.RawMessage(data), nil
}

func decodeAPIError(status int, data []byte) *APIError {
	var payload struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if err := json.Unmarshal(data, &payload); err != nil || payload.Error == "" {
		payload.Error = strings.TrimSpace(string(data))
		if payload.Error == "" {
			payload.Error = http.StatusText(status)
		}
	}
	if payload.Code == "" {
		payload.Code = "http_" + strconv.Itoa(status)
	}
	return &APIError{Status: status, Code: payload.Code, Message: payload.Error}
}
