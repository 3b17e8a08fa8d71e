package stub

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/tidwall/gjson"
	"go.uber.org/zap/zaptest"
)

func TestCannedUsesLegacyShape(t *testing.T) {
	c := NewCanned(nil)
	c.pick = func(n int) int { return n - 1 }
	resp, err := c.Respond(context.Background(), Request{Text: "hi", Username: "dana", CustomerID: "C-1"})
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if resp.Status != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Status)
	}
	body := gjson.ParseBytes(resp.Body)
	if got := body.Get("message").String(); got != DefaultResponses[len(DefaultResponses)-1] {
		t.Fatalf("unexpected message %q", got)
	}
	if body.Get("username").String() != "dana" || body.Get("customer_id").String() != "C-1" {
		t.Fatalf("unexpected body %s", resp.Body)
	}
}

func TestParseFile(t *testing.T) {
	f, err := ParseFile([]byte(`
responses:
  - "Hello there"
fixtures:
  - match: Balance
    body: '{"answer":"Your balance","tables":[{"headers":["A"],"rows":[["1"]]}]}'
  - match: blocked
    status: 403
    body: '{"answer":"Not allowed"}'
prompt:
  system: "be brief"
`))
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(f.Responses) != 1 || len(f.Fixtures) != 2 {
		t.Fatalf("unexpected file %+v", f)
	}
	if f.Fixtures[0].Status != http.StatusOK || f.Fixtures[1].Status != http.StatusForbidden {
		t.Fatalf("unexpected statuses %d %d", f.Fixtures[0].Status, f.Fixtures[1].Status)
	}
	if f.Prompt.System != "be brief" {
		t.Fatalf("unexpected prompt %+v", f.Prompt)
	}
}

func TestParseFileRejectsBadFixtures(t *testing.T) {
	for _, body := range []string{
		"fixtures:\n  - match: x\n    body: '{nope'\n",
		"fixtures:\n  - body: '{}'\n",
	} {
		if _, err := ParseFile([]byte(body)); err == nil {
			t.Fatalf("expected error for %q", body)
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "responses.yaml")
	if err := os.WriteFile(path, []byte("responses:\n  - one\n  - two\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	f, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(f.Responses) != 2 {
		t.Fatalf("unexpected responses %v", f.Responses)
	}
}

func TestFixturesFirstMatchWins(t *testing.T) {
	fx := NewFixtures([]Fixture{
		{Match: "balance", Status: 200, Body: `{"answer":"first"}`},
		{Match: "bal", Status: 200, Body: `{"answer":"second"}`},
	})
	resp, _ := fx.Respond(context.Background(), Request{Text: "What is my BALANCE?"})
	if resp == nil || gjson.GetBytes(resp.Body, "answer").String() != "first" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp, _ := fx.Respond(context.Background(), Request{Text: "hello"}); resp != nil {
		t.Fatalf("expected no match, got %s", resp.Body)
	}
}

type failingResponder struct{ calls int }

func (f *failingResponder) Respond(context.Context, Request) (*Response, error) {
	f.calls++
	return nil, errors.New("boom")
}

func TestChainSkipsFailures(t *testing.T) {
	failing := &failingResponder{}
	chain := NewChain(zaptest.NewLogger(t), NewFixtures(nil), failing, NewCanned([]string{"only"}))
	resp, err := chain.Respond(context.Background(), Request{Text: "x"})
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if failing.calls != 1 {
		t.Fatalf("failing responder called %d times", failing.calls)
	}
	if gjson.GetBytes(resp.Body, "message").String() != "only" {
		t.Fatalf("unexpected body %s", resp.Body)
	}
}

type fakeCompleter struct {
	req openai.ChatCompletionRequest
}

func (f *fakeCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.req = req
	return openai.ChatCompletionResponse{
		ID: "cmpl-1",
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: "  Branches open at 9.  "}},
		},
	}, nil
}

func TestOpenAIResponder(t *testing.T) {
	fc := &fakeCompleter{}
	o := NewOpenAI(fc, "gpt-4o-mini", PromptConfig{})
	resp, err := o.Respond(context.Background(), Request{Text: "When do you open?"})
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	body := gjson.ParseBytes(resp.Body)
	if body.Get("answer").String() != "Branches open at 9." {
		t.Fatalf("unexpected answer %q", body.Get("answer").String())
	}
	if body.Get("correlationId").String() != "cmpl-1" || body.Get("dataSource.api").String() != "gpt-4o-mini" {
		t.Fatalf("unexpected body %s", resp.Body)
	}
	if len(fc.req.Messages) != 2 || fc.req.Messages[1].Content != "When do you open?" {
		t.Fatalf("unexpected request %+v", fc.req.Messages)
	}
	if fc.req.Messages[0].Content != defaultSystemPrompt || fc.req.MaxTokens != 300 {
		t.Fatalf("defaults not applied: %+v", fc.req)
	}
}

func TestServiceRateLimitsPerCustomer(t *testing.T) {
	svc := NewService(NewCanned(nil), Options{RatePerSecond: 0.001, RateBurst: 1}, zaptest.NewLogger(t))
	ctx := context.Background()

	first, _ := svc.Handle(ctx, Request{Text: "a", CustomerID: "C-1"})
	second, _ := svc.Handle(ctx, Request{Text: "b", CustomerID: "C-1"})
	other, _ := svc.Handle(ctx, Request{Text: "c", CustomerID: "C-2"})

	if first.Status != http.StatusOK || other.Status != http.StatusOK {
		t.Fatalf("unexpected statuses %d %d", first.Status, other.Status)
	}
	if second.Status != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", second.Status)
	}
	if gjson.GetBytes(second.Body, "message").String() != "Too many requests" {
		t.Fatalf("unexpected body %s", second.Body)
	}
}

func TestServiceHonoursContextDuringDelay(t *testing.T) {
	svc := NewService(NewCanned(nil), Options{MinDelay: time.Hour, MaxDelay: time.Hour}, zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.Handle(ctx, Request{Text: "x"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRandomDelayBounds(t *testing.T) {
	for i := 0; i < 100; i++ {
		d := randomDelay(500*time.Millisecond, 1500*time.Millisecond)
		if d < 500*time.Millisecond || d > 1500*time.Millisecond {
			t.Fatalf("delay %v out of range", d)
		}
	}
	if d := randomDelay(time.Second, time.Second); d != time.Second {
		t.Fatalf("unexpected fixed delay %v", d)
	}
}

func TestHandlerChat(t *testing.T) {
	fx := NewFixtures([]Fixture{{Match: "denied", Status: http.StatusForbidden, Body: `{"answer":"no"}`}})
	svc := NewService(NewChain(zaptest.NewLogger(t), fx, NewCanned([]string{"hi"})), Options{}, zaptest.NewLogger(t))
	srv := httptest.NewServer(NewHandler(svc, zaptest.NewLogger(t)))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/v1/chat", "application/json", strings.NewReader(`{"messageText":"access denied?"}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected fixture status 403, got %d", resp.StatusCode)
	}

	resp, err = http.Post(srv.URL+"/api/v1/chat", "application/json", strings.NewReader(`not json`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/api/health")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health returned %d", resp.StatusCode)
	}
}
