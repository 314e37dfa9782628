package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/kinkando/score-admin/model"
	"github.com/kinkando/score-admin/pkg/logger"
	"github.com/labstack/echo/v4"
)

const maxErrorBodySize = 4 << 10

type restClient struct {
	baseURL string
	client  *http.Client
}

type restRequest struct {
	method string
	path   string
	query  url.Values
	header http.Header
	body   any
}

// do sends req and decodes a 2xx JSON answer into out. Any other status is
// returned as *model.BackendError.
func (r *restClient) do(ctx context.Context, req restRequest, out any) error {
	endpoint, err := url.JoinPath(r.baseURL, req.path)
	if err != nil {
		return err
	}
	if len(req.query) > 0 {
		endpoint += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, endpoint, body)
	if err != nil {
		return err
	}
	for key, values := range req.header {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}
	httpReq.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	if req.body != nil {
		httpReq.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	res, err := r.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, model.ErrSignInRequired) {
			return model.ErrSignInRequired
		}
		return fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		backendErr := &model.BackendError{StatusCode: res.StatusCode, Message: readErrorMessage(res.Body)}
		logger.Context(ctx).Warnf("%s %s: %s", req.method, req.path, backendErr.Error())
		return backendErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", req.method, req.path, err)
	}
	return nil
}

func readErrorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBodySize))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var errRes model.ErrorResponse
	if err := json.Unmarshal(raw, &errRes); err == nil && errRes.Message != "" {
		return errRes.Message
	}
	return strings.TrimSpace(string(raw))
}
