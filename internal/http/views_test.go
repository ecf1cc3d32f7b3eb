package http

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"neon-portal/internal/domain"
)

func renderString(t *testing.T, render func(*bytes.Buffer) error) string {
	t.Helper()
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func TestDashboardPageRendersSessionAndCanvas(t *testing.T) {
	sess := domain.Session{ID: "u1", Name: "Ann", Age: 30, Email: "ann@x.com"}
	body := renderString(t, func(buf *bytes.Buffer) error {
		return DashboardPage(sess, "Profile updated successfully!").Render(context.Background(), buf)
	})

	for _, want := range []string{
		"<!doctype html>",
		"<title>Dashboard</title>",
		"<h2>Welcome, Ann!</h2>",
		`<p class="notice" role="status">Profile updated successfully!</p>`,
		"<p>Email: ann@x.com</p>",
		"<p>Age: 30</p>",
		`<canvas id="game" width="600" height="400"></canvas>`,
		`"/dashboard/game"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
	if strings.Contains(body, `class="error"`) {
		t.Errorf("dashboard should not render an error block")
	}
}

func TestSignupPageKeepsInputAndPostsStrength(t *testing.T) {
	body := renderString(t, func(buf *bytes.Buffer) error {
		view := SignupView{Name: `Ann "A"`, Age: "30", Email: "ann@x.com", Error: "Passwords do not match."}
		return SignupPage(view).Render(context.Background(), buf)
	})

	for _, want := range []string{
		`value="Ann &#34;A&#34;"`,
		`value="30"`,
		`<p class="error" role="alert">Passwords do not match.</p>`,
		`fetch("/api/password-strength", {`,
		`method: "POST"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("signup page missing %q", want)
		}
	}
	if strings.Contains(body, "password-strength?password=") {
		t.Errorf("signup page must not put the password in the URL")
	}
}

func TestPagesStopOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	if err := LoginPage(LoginView{}).Render(ctx, &buf); err == nil {
		t.Fatalf("expected render to fail on a canceled context")
	}
	if buf.Len() != 0 {
		t.Fatalf("expected nothing written, got %q", buf.String())
	}
}
