package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu     sync.Mutex
	events []CallEvent
}

func (o *recordingObserver) OnCallComplete(e CallEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) last() CallEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events[len(o.events)-1]
}

func responseBody(text string) string {
	return fmt.Sprintf(`{
		"id": "resp_1",
		"object": "response",
		"created_at": 1,
		"status": "completed",
		"model": "gpt-4o-mini",
		"output": [{
			"type": "message",
			"id": "msg_1",
			"status": "completed",
			"role": "assistant",
			"content": [{"type": "output_text", "text": %q, "annotations": []}]
		}]
	}`, text)
}

func testConfig(baseURL string) Config {
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.APIKey = "test-key"
	cfg.BaseURL = baseURL
	cfg.MaxRetries = 0
	return cfg
}

func TestGenerate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, responseBody("hello there"))
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	client := NewOpenAIClient(testConfig(srv.URL), obs)

	resp, err := client.Generate(context.Background(), GenerateRequest{
		Task:         TaskParse,
		SystemPrompt: "be terse",
		UserPrompt:   "hi",
	})
	require.NoError(t, err)
	assert.Equal(t, "hello there", resp.Text)
	assert.Equal(t, "gpt-4o-mini", resp.Model)

	require.Len(t, obs.events, 1)
	assert.True(t, obs.last().Success)
	assert.Equal(t, TaskParse, obs.last().Task)
}

func TestGenerate_ServerErrorExhaustsRetries(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"error": {"message": "boom"}}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	client := NewOpenAIClient(testConfig(srv.URL), obs)

	_, err := client.Generate(context.Background(), GenerateRequest{
		Task:       TaskExtract,
		UserPrompt: "hi",
	})
	assert.ErrorIs(t, err, ErrRetryExhausted)
	assert.Equal(t, 1, calls)
	assert.False(t, obs.last().Success)
}

func TestGenerate_RunsFullRetryPolicyOnServerErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"error": {"message": "boom"}}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 4
	cfg.Tasks[TaskParse] = TaskConfig{Temperature: 0, MaxTokens: 64, TimeoutMs: 2000}

	client := NewOpenAIClient(cfg, nil).(*openaiClient)
	client.backoff = func(int) time.Duration { return time.Millisecond }

	_, err := client.Generate(context.Background(), GenerateRequest{
		Task:       TaskParse,
		UserPrompt: "hi",
	})

	// Every configured attempt runs; the task timeout bounds attempts
	// individually, not the whole schedule.
	assert.Equal(t, 5, calls)
	assert.ErrorIs(t, err, ErrRetryExhausted)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestGenerate_TimeoutMapsToSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		fmt.Fprint(w, responseBody("too late"))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Tasks[TaskParse] = TaskConfig{Temperature: 0, MaxTokens: 64, TimeoutMs: 50}

	client := NewOpenAIClient(cfg, nil)
	_, err := client.Generate(context.Background(), GenerateRequest{
		Task:       TaskParse,
		UserPrompt: "hi",
	})
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestAvailable_NoAPIKey(t *testing.T) {
	cfg := DefaultConfig()
	client := NewOpenAIClient(cfg, nil)
	assert.False(t, client.Available(context.Background()))
}

func TestBackoffDelay_GrowsAndCaps(t *testing.T) {
	assert.Equal(t, 4*time.Second, backoffDelay(1))
	assert.Equal(t, 8*time.Second, backoffDelay(2))
	assert.Equal(t, 16*time.Second, backoffDelay(3))
	assert.Equal(t, 30*time.Second, backoffDelay(4))
	assert.Equal(t, 30*time.Second, backoffDelay(8))
}
