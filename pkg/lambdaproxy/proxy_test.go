package lambdaproxy

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gofiber/fiber/v2"
)

func newApp() *fiber.App {
	app := fiber.New()
	app.Post("/echo/:id", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"id":     c.Params("id"),
			"q":      c.Query("q"),
			"auth":   c.Get(fiber.HeaderAuthorization),
			"body":   string(c.Body()),
			"method": c.Method(),
		})
	})
	app.Get("/bin", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, "application/octet-stream")
		return c.Send([]byte{0x00, 0x01, 0x02})
	})
	return app
}

func TestHandlerRoundTrip(t *testing.T) {
	h := New(newApp(), 0)
	req := events.APIGatewayV2HTTPRequest{
		RawPath:         "/echo/abc",
		RawQueryString:  "q=1",
		Headers:         map[string]string{"authorization": "Bearer t", "content-type": "text/plain"},
		Body:            base64.StdEncoding.EncodeToString([]byte("hello")),
		IsBase64Encoded: true,
	}
	req.RequestContext.HTTP.Method = "POST"

	resp, err := h(context.Background(), req)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status: want=200 got=%d body=%s", resp.StatusCode, resp.Body)
	}
	for _, want := range []string{`"id":"abc"`, `"q":"1"`, `"auth":"Bearer t"`, `"body":"hello"`, `"method":"POST"`} {
		if !strings.Contains(resp.Body, want) {
			t.Fatalf("body: missing %s in %s", want, resp.Body)
		}
	}
	if resp.IsBase64Encoded {
		t.Fatalf("json body should not be base64 encoded")
	}
}

func TestHandlerEncodesBinary(t *testing.T) {
	h := New(newApp(), 0)
	req := events.APIGatewayV2HTTPRequest{RawPath: "/bin"}
	req.RequestContext.HTTP.Method = "GET"

	resp, err := h(context.Background(), req)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !resp.IsBase64Encoded || resp.Body != base64.StdEncoding.EncodeToString([]byte{0, 1, 2}) {
		t.Fatalf("binary body: got encoded=%v body=%q", resp.IsBase64Encoded, resp.Body)
	}
}

func TestHandlerRejectsBadBase64(t *testing.T) {
	h := New(newApp(), 0)
	req := events.APIGatewayV2HTTPRequest{RawPath: "/echo/x", Body: "%%%", IsBase64Encoded: true}
	req.RequestContext.HTTP.Method = "POST"

	resp, _ := h(context.Background(), req)
	if resp.StatusCode != 400 {
		t.Fatalf("status: want=400 got=%d", resp.StatusCode)
	}
}
