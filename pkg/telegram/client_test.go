package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ldostudio/backend/internal/model"
)

func TestNewClient_DisabledWhenUnconfigured(t *testing.T) {
	if c := NewClient("", "123"); c != nil {
		t.Error("expected nil client without a token")
	}
	if c := NewClient("token", ""); c != nil {
		t.Error("expected nil client without a chat id")
	}
}

func TestNotifyNewRequest_SendsSummary(t *testing.T) {
	var gotPath string
	var gotChatID, gotText string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		gotChatID = r.FormValue("chat_id")
		gotText = r.FormValue("text")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	c := NewClientWithBaseURL("bot-token", "chat-42", server.URL)
	err := c.NotifyNewRequest(context.Background(), &model.ClientRequest{
		ID:       9,
		Name:     "Mia",
		Contact:  "mia@example.com",
		Category: "web",
		Message:  "Need a site",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/botbot-token/sendMessage" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotChatID != "chat-42" {
		t.Errorf("unexpected chat id %q", gotChatID)
	}
	for _, want := range []string{"#9", "Mia", "mia@example.com", "web", "Need a site"} {
		if !strings.Contains(gotText, want) {
			t.Errorf("message %q missing %q", gotText, want)
		}
	}
}

func TestNotifyNewRequest_OmitsEmptyCategory(t *testing.T) {
	var gotText string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		gotText = r.FormValue("text")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	c := NewClientWithBaseURL("t", "c", server.URL)
	err := c.NotifyNewRequest(context.Background(), &model.ClientRequest{
		ID: 1, Name: "A", Contact: "a@b.c", Message: "hi",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(gotText, "Category") {
		t.Errorf("message %q should omit empty category", gotText)
	}
}

func TestNotifyNewRequest_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	}))
	defer server.Close()

	c := NewClientWithBaseURL("t", "c", server.URL)
	err := c.NotifyNewRequest(context.Background(), &model.ClientRequest{ID: 1, Name: "A", Contact: "a", Message: "m"})
	if err == nil {
		t.Fatal("expected error for ok=false response")
	}
	if !strings.Contains(err.Error(), "chat not found") {
		t.Errorf("error %q should carry the API description", err)
	}
}

func TestNotifyNewRequest_CanceledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClientWithBaseURL("t", "c", server.URL)
	err := c.NotifyNewRequest(ctx, &model.ClientRequest{ID: 1, Name: "A", Contact: "a", Message: "m"})
	if err == nil {
		t.Fatal("expected error for canceled context")
	}
}
