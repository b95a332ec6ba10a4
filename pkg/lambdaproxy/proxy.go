// Package lambdaproxy serves API Gateway HTTP API (payload v2) events through
// a fiber application.
package lambdaproxy

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gofiber/fiber/v2"
)

// Handler is the lambda.Start compatible entry point.
type Handler func(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error)

// New returns a Handler that dispatches every event to app. timeout bounds
// a single request; zero disables it.
func New(app *fiber.App, timeout time.Duration) Handler {
	return func(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		httpReq, err := ToHTTPRequest(ctx, req)
		if err != nil {
			return errResp(http.StatusBadRequest, "malformed request"), nil
		}

		ms := -1
		if timeout > 0 {
			ms = int(timeout / time.Millisecond)
		}
		resp, err := app.Test(httpReq, ms)
		if err != nil {
			return errResp(http.StatusGatewayTimeout, "request timed out"), nil
		}
		defer resp.Body.Close()
		return FromHTTPResponse(resp)
	}
}

// ToHTTPRequest rebuilds the original request from the event.
func ToHTTPRequest(ctx context.Context, req events.APIGatewayV2HTTPRequest) (*http.Request, error) {
	var body []byte
	if req.Body != "" {
		if req.IsBase64Encoded {
			b, err := base64.StdEncoding.DecodeString(req.Body)
			if err != nil {
				return nil, fmt.Errorf("decode body: %w", err)
			}
			body = b
		} else {
			body = []byte(req.Body)
		}
	}

	path := req.RawPath
	if path == "" {
		path = req.RequestContext.HTTP.Path
	}
	if path == "" {
		path = "/"
	}
	target := path
	if req.RawQueryString != "" {
		target += "?" + req.RawQueryString
	}
	method := req.RequestContext.HTTP.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, "http://lambda.local"+target, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if len(req.Cookies) > 0 {
		httpReq.Header.Set("Cookie", strings.Join(req.Cookies, "; "))
	}
	if ip := req.RequestContext.HTTP.SourceIP; ip != "" {
		httpReq.Header.Set("X-Forwarded-For", ip)
		httpReq.RemoteAddr = ip + ":0"
	}
	if host := req.Headers["host"]; host != "" {
		httpReq.Host = host
	}
	return httpReq, nil
}

// FromHTTPResponse converts a response into the event reply. Non-text bodies
// are base64 encoded.
func FromHTTPResponse(resp *http.Response) (events.APIGatewayV2HTTPResponse, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, fmt.Errorf("read response: %w", err)
	}

	out := events.APIGatewayV2HTTPResponse{
		StatusCode: resp.StatusCode,
		Headers:    map[string]string{},
	}
	for k, vs := range resp.Header {
		if strings.EqualFold(k, "Set-Cookie") {
			out.Cookies = append(out.Cookies, vs...)
			continue
		}
		out.Headers[strings.ToLower(k)] = strings.Join(vs, ",")
	}

	if isText(resp.Header.Get("Content-Type")) {
		out.Body = string(body)
	} else if len(body) > 0 {
		out.Body = base64.StdEncoding.EncodeToString(body)
		out.IsBase64Encoded = true
	}
	return out, nil
}

func isText(contentType string) bool {
	ct := strings.ToLower(contentType)
	return ct == "" ||
		strings.HasPrefix(ct, "text/") ||
		strings.Contains(ct, "json") ||
		strings.Contains(ct, "xml") ||
		strings.Contains(ct, "javascript")
}

func errResp(status int, msg string) events.APIGatewayV2HTTPResponse {
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    map[string]string{"content-type": "application/json"},
		Body:       fmt.Sprintf(`{"error":%q,"reason":"gateway"}`, msg),
	}
}
