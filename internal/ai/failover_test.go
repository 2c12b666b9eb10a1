package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verbalist/podcast-studio/podcast"
)

// fakeHTTPClient routes requests to per-endpoint handlers and records calls
type fakeHTTPClient struct {
	handlers map[string]func(req *http.Request) (*http.Response, error)
	calls    []string
}

func (f *fakeHTTPClient) Do(req *http.Request) (*http.Response, error) {
	f.calls = append(f.calls, req.URL.String())
	handler, ok := f.handlers[req.URL.String()]
	if !ok {
		return nil, fmt.Errorf("unexpected endpoint %s", req.URL.String())
	}
	return handler(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func completionBody(content string) string {
	return fmt.Sprintf(`{"choices":[{"message":{"content":%q}}]}`, content)
}

func TestFailoverClient_Generate(t *testing.T) {
	providers := []Provider{
		{Name: "first", Endpoint: "https://first.example/v1/chat", Model: "model-a", APIKey: ""},
		{Name: "second", Endpoint: "https://second.example/v1/chat", Model: "model-b", APIKey: "key-b"},
		{Name: "third", Endpoint: "https://third.example/v1/chat", Model: "model-c", APIKey: "key-c"},
	}

	t.Run("skips providers without credentials and falls through failures", func(t *testing.T) {
		client := &fakeHTTPClient{handlers: map[string]func(*http.Request) (*http.Response, error){
			"https://second.example/v1/chat": func(*http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusUnauthorized, `{"error":"invalid key"}`), nil
			},
			"https://third.example/v1/chat": func(*http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, completionBody("[NARRATOR]: Hello")), nil
			},
		}}

		failover := NewFailoverClient(providers, client, zerolog.Nop())
		content, err := failover.Generate(context.Background(), ScriptMessages("space travel"))

		require.NoError(t, err)
		assert.Equal(t, "[NARRATOR]: Hello", content)
		// provider 1 has no key and must not be contacted
		assert.Equal(t, []string{
			"https://second.example/v1/chat",
			"https://third.example/v1/chat",
		}, client.calls)
	})

	t.Run("first success short-circuits the cascade", func(t *testing.T) {
		client := &fakeHTTPClient{handlers: map[string]func(*http.Request) (*http.Response, error){
			"https://second.example/v1/chat": func(*http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, completionBody("done")), nil
			},
		}}

		failover := NewFailoverClient(providers, client, zerolog.Nop())
		content, err := failover.Generate(context.Background(), ScriptMessages("topic"))

		require.NoError(t, err)
		assert.Equal(t, "done", content)
		assert.Equal(t, []string{"https://second.example/v1/chat"}, client.calls)
	})

	t.Run("exhausted cascade returns aggregate error with last cause", func(t *testing.T) {
		client := &fakeHTTPClient{handlers: map[string]func(*http.Request) (*http.Response, error){
			"https://second.example/v1/chat": func(*http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusInternalServerError, `{"error":"boom"}`), nil
			},
			"https://third.example/v1/chat": func(*http.Request) (*http.Response, error) {
				return nil, errors.New("connection refused")
			},
		}}

		failover := NewFailoverClient(providers, client, zerolog.Nop())
		_, err := failover.Generate(context.Background(), ScriptMessages("topic"))

		require.Error(t, err)
		var exhausted *podcast.ProviderExhaustedError
		require.ErrorAs(t, err, &exhausted)
		assert.Contains(t, exhausted.Error(), "third")
		assert.Contains(t, exhausted.Error(), "connection refused")
	})

	t.Run("no provider with credentials", func(t *testing.T) {
		unconfigured := []Provider{
			{Name: "only", Endpoint: "https://only.example/v1/chat", Model: "m"},
		}
		client := &fakeHTTPClient{handlers: map[string]func(*http.Request) (*http.Response, error){}}

		failover := NewFailoverClient(unconfigured, client, zerolog.Nop())
		_, err := failover.Generate(context.Background(), ScriptMessages("topic"))

		require.Error(t, err)
		var exhausted *podcast.ProviderExhaustedError
		require.ErrorAs(t, err, &exhausted)
		assert.Empty(t, client.calls)
	})

	t.Run("malformed response body counts as failure", func(t *testing.T) {
		client := &fakeHTTPClient{handlers: map[string]func(*http.Request) (*http.Response, error){
			"https://second.example/v1/chat": func(*http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, `not json at all`), nil
			},
			"https://third.example/v1/chat": func(*http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, completionBody("recovered")), nil
			},
		}}

		failover := NewFailoverClient(providers, client, zerolog.Nop())
		content, err := failover.Generate(context.Background(), ScriptMessages("topic"))

		require.NoError(t, err)
		assert.Equal(t, "recovered", content)
	})

	t.Run("empty choices counts as failure", func(t *testing.T) {
		client := &fakeHTTPClient{handlers: map[string]func(*http.Request) (*http.Response, error){
			"https://second.example/v1/chat": func(*http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, `{"choices":[]}`), nil
			},
			"https://third.example/v1/chat": func(*http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, completionBody("recovered")), nil
			},
		}}

		failover := NewFailoverClient(providers, client, zerolog.Nop())
		content, err := failover.Generate(context.Background(), ScriptMessages("topic"))

		require.NoError(t, err)
		assert.Equal(t, "recovered", content)
	})
}

func TestScriptMessages(t *testing.T) {
	messages := ScriptMessages("quantum computing")

	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].Role)
	assert.Contains(t, messages[0].Content, "[NARRATOR]:")
	assert.Contains(t, messages[0].Content, "[HOST]:")
	assert.Contains(t, messages[0].Content, "[GUEST]:")
	assert.Equal(t, "user", messages[1].Role)
	assert.Equal(t, "quantum computing", messages[1].Content)
}

func TestScriptMessagesWithArticle(t *testing.T) {
	messages := ScriptMessagesWithArticle("AI safety", "A Title", "Article body text")

	require.Len(t, messages, 2)
	assert.Contains(t, messages[1].Content, "AI safety")
	assert.Contains(t, messages[1].Content, "A Title")
	assert.Contains(t, messages[1].Content, "Article body text")
}
