package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus/hooks/test"
)

func newTestTelegram(t *testing.T, handler http.HandlerFunc) *TelegramNotifier {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	logger, _ := test.NewNullLogger()
	tn := NewTelegramNotifier("TOKEN", "42", "", logger)
	tn.BaseURL = srv.URL
	tn.Backoff = time.Millisecond
	return tn
}

func TestTelegramSend(t *testing.T) {
	var got map[string]string
	var path string
	tn := newTestTelegram(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"ok":true}`))
	})

	if err := tn.Send(context.Background(), "<b>hi</b>"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if path != "/botTOKEN/sendMessage" {
		t.Errorf("unexpected path %q", path)
	}
	if got["chat_id"] != "42" || got["text"] != "<b>hi</b>" || got["parse_mode"] != "HTML" {
		t.Errorf("unexpected payload %+v", got)
	}
}

func TestTelegramSendWithRetry(t *testing.T) {
	var calls atomic.Int32
	tn := newTestTelegram(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	})

	if err := tn.SendWithRetry(context.Background(), "hello", 3); err != nil {
		t.Fatalf("SendWithRetry: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestTelegramSendWithRetry_Exhausted(t *testing.T) {
	var calls atomic.Int32
	tn := newTestTelegram(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	})

	err := tn.SendWithRetry(context.Background(), "hello", 2)
	if err == nil || !strings.Contains(err.Error(), "all 3 retries exhausted") {
		t.Errorf("expected exhausted error, got %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestTelegramNotify_PrefixesSubject(t *testing.T) {
	var got map[string]string
	tn := newTestTelegram(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
	})
	if err := tn.Notify(context.Background(), "Daily <digest>", "body"); err != nil {
		t.Fatal(err)
	}
	if got["text"] != "<b>Daily &lt;digest&gt;</b>\n\nbody" {
		t.Errorf("unexpected text %q", got["text"])
	}
}

func TestStartPolling(t *testing.T) {
	oldTimeout := PollTimeout
	PollTimeout = time.Second
	defer func() { PollTimeout = oldTimeout }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var polls atomic.Int32
	sent := make(chan string, 4)
	tn := newTestTelegram(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			if polls.Add(1) == 1 {
				w.Write([]byte(`{"ok":true,"result":[
					{"update_id":10,"message":{"text":"from a stranger","chat":{"id":7}}},
					{"update_id":11,"message":{"text":"  /status ","chat":{"id":42}}}
				]}`))
				return
			}
			if got := r.URL.Query().Get("offset"); got != "12" {
				t.Errorf("expected offset 12, got %s", got)
			}
			w.Write([]byte(`{"ok":true,"result":[]}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			var p map[string]string
			json.NewDecoder(r.Body).Decode(&p)
			sent <- p["text"]
		}
	})

	received := make(chan string, 4)
	done := make(chan struct{})
	go func() {
		tn.StartPolling(ctx, func(_ context.Context, text string) string {
			received <- text
			return "reply to " + text
		})
		close(done)
	}()

	select {
	case text := <-sent:
		if text != "reply to /status" {
			t.Errorf("unexpected reply %q", text)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reply sent")
	}
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("polling did not stop")
	}
	close(received)
	var texts []string
	for r := range received {
		texts = append(texts, r)
	}
	if len(texts) != 1 || texts[0] != "/status" {
		t.Errorf("expected only the configured chat's message, got %v", texts)
	}
}

func TestEmailNotify(t *testing.T) {
	logger, _ := test.NewNullLogger()
	n := NewEmailNotifier("smtp.example.com", "587", "user", "pass", "bot@example.com", []string{"owner@example.com"}, logger)

	var gotAddr string
	var gotMail *email.Email
	n.send = func(e *email.Email, addr string, auth smtp.Auth) error {
		gotAddr, gotMail = addr, e
		if auth == nil {
			t.Error("expected auth when username is set")
		}
		return nil
	}

	if err := n.Notify(context.Background(), "Digest", "<b>Cash:</b> $45,000 &amp; rising"); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if gotAddr != "smtp.example.com:587" {
		t.Errorf("unexpected addr %q", gotAddr)
	}
	if gotMail.Subject != "Digest" || gotMail.From != "bot@example.com" || gotMail.To[0] != "owner@example.com" {
		t.Errorf("unexpected envelope %+v", gotMail)
	}
	if string(gotMail.Text) != "Cash: $45,000 & rising" {
		t.Errorf("unexpected text part %q", gotMail.Text)
	}
	if !strings.Contains(string(gotMail.HTML), "<b>Cash:</b>") {
		t.Errorf("html part should keep formatting, got %q", gotMail.HTML)
	}
	if _, err := gotMail.Bytes(); err != nil {
		t.Errorf("message does not render: %v", err)
	}
}

func TestEmailNotify_Error(t *testing.T) {
	logger, _ := test.NewNullLogger()
	n := NewEmailNotifier("smtp.example.com", "25", "", "", "a@b.c", []string{"d@e.f"}, logger)
	n.send = func(*email.Email, string, smtp.Auth) error { return errors.New("connection refused") }

	if err := n.Notify(context.Background(), "s", "b"); err == nil {
		t.Error("expected error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := n.Notify(ctx, "s", "b"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
