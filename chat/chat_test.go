package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hrms/directory"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDirectory() directory.Directory {
	return directory.NewDemoDirectory(
		[]directory.SeedPerson{{ID: "EMP001", Name: "Ana"}, {ID: "EMP002", Name: "Ben"}},
		[]directory.ProjectSummary{{ID: 1, Name: "Apollo"}},
	)
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func TestAgentIntents(t *testing.T) {
	ctx := context.Background()
	agent := NewAgent(testDirectory())

	reply, err := agent.HandleChat(ctx, "Please LIST every Employee")
	require.NoError(t, err)
	assert.Equal(t, ReplyEmployees, reply.Type)
	require.NotNil(t, reply.Count)
	assert.Equal(t, 2, *reply.Count)

	reply, err = agent.HandleChat(ctx, "which projects are running?")
	require.NoError(t, err)
	assert.Equal(t, ReplyProjects, reply.Type)
	assert.Equal(t, 1, *reply.Count)

	reply, err = agent.HandleChat(ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, ReplyEcho, reply.Type)
	assert.Equal(t, "hello", reply.Message)
}

func TestServiceForwardsToAIService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "hi there", body["message"])
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"session_id":"s-1","response":{"text":"hello"}}`))
	}))
	defer srv.Close()

	svc := NewService(NewAgent(testDirectory()), srv.URL+"/", time.Second, quietLogger())
	reply, err := svc.Chat(context.Background(), "hi there")
	require.NoError(t, err)
	assert.Equal(t, ReplyAI, reply.Type)
	assert.Equal(t, "s-1", reply.SessionID)

	raw, err := json.Marshal(reply.Response)
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"hello"}`, string(raw))
}

func TestServiceSurfacesUpstreamStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"detail":"model loading"}`))
	}))
	defer srv.Close()

	svc := NewService(NewAgent(testDirectory()), srv.URL, time.Second, quietLogger())
	_, err := svc.Chat(context.Background(), "hi")

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusServiceUnavailable, upstream.Status)
	assert.Equal(t, "model loading", upstream.Message)
}

func TestServiceFallsBackWhenUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	svc := NewService(NewAgent(testDirectory()), url, time.Second, quietLogger())
	reply, err := svc.Chat(context.Background(), "list employees")
	require.NoError(t, err)
	assert.Equal(t, ReplyEmployees, reply.Type)
}

func TestServiceWithoutAIService(t *testing.T) {
	svc := NewService(NewAgent(testDirectory()), "", 0, quietLogger())

	_, err := svc.Chat(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	reply, err := svc.Chat(context.Background(), "ping")
	require.NoError(t, err)
	assert.Equal(t, ReplyEcho, reply.Type)
}
