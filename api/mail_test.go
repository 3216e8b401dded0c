package main

import (
	"bytes"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/premkumarpatil-1304/primetradeai-assesment/internal/data"
)

func TestComposeWelcome(t *testing.T) {
	m := newMailer("localhost", 2525, "", "", "Tasks <no-reply@example.com>")

	msg, err := m.compose("a@x.com", "user_welcome.tmpl", map[string]string{"Email": "a@x.com", "Role": "admin"})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if got := msg.GetHeader("Subject"); len(got) != 1 || got[0] != "Welcome to the task manager" {
		t.Fatalf("unexpected subject %v", got)
	}
	if got := msg.GetHeader("To"); len(got) != 1 || got[0] != "a@x.com" {
		t.Fatalf("unexpected recipient %v", got)
	}

	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		t.Fatalf("write message: %v", err)
	}
	body := buf.String()
	for _, want := range []string{"text/plain", "text/html", "admin"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected message to contain %q", want)
		}
	}
}

func TestComposeUnknownTemplate(t *testing.T) {
	m := newMailer("localhost", 2525, "", "", "no-reply@example.com")
	if _, err := m.compose("a@x.com", "missing.tmpl", nil); err == nil {
		t.Fatal("expected error for missing template")
	}
}

func TestBackgroundRecoversPanic(t *testing.T) {
	app := &application{}
	var ran atomic.Bool
	app.background(func() { panic("boom") })
	app.background(func() { ran.Store(true) })

	done := make(chan struct{})
	go func() {
		app.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("background tasks did not finish")
	}
	if !ran.Load() {
		t.Fatal("expected second task to run")
	}
}

func TestRegistrationNoticeWithoutMailer(t *testing.T) {
	app := &application{}
	app.sendRegistrationNotice(&data.User{Email: "a@x.com", Role: data.RoleUser})
	app.wg.Wait()
}
