package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestRenderHTMLKeepsLineBreaks(t *testing.T) {
	got, err := RenderHTML("Hola Ana, esta es tu rutina para el día Martes:\n\n1. Sentadilla\n4 series de 10 repeticiones\nPeso: Moderado")
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	html := string(got)
	if !strings.Contains(html, "<br") {
		t.Errorf("expected hard line breaks, got %s", html)
	}
	if !strings.Contains(html, "Sentadilla") || !strings.Contains(html, "Peso: Moderado") {
		t.Errorf("content missing from %s", html)
	}
}

func TestRenderHTMLEscapesRawHTML(t *testing.T) {
	got, err := RenderHTML("Press <script>alert(1)</script>")
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	if strings.Contains(string(got), "<script>") {
		t.Errorf("raw html should not pass through: %s", got)
	}
}

func TestNewMailerWithoutKeyIsDisabled(t *testing.T) {
	m := NewMailer("", "gym@example.com")
	if _, err := m.Send(context.Background(), Email{To: "ana@example.com"}); !errors.Is(err, ErrMailerDisabled) {
		t.Errorf("Send err = %v, want ErrMailerDisabled", err)
	}
}

func TestResendMailerRequiresRecipient(t *testing.T) {
	m := NewResendMailer("re_test", "gym@example.com")
	if _, err := m.Send(context.Background(), Email{Subject: "x"}); err == nil {
		t.Error("expected error without recipient")
	}
}

func TestRenderHTMLLinksURLs(t *testing.T) {
	got, err := RenderHTML("Temporizador: https://rutinas.example/training-timer/abc/Martes?token=t1")
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	if !strings.Contains(string(got), `<a href="https://rutinas.example/training-timer/abc/Martes?token=t1">`) {
		t.Errorf("expected timer link anchor, got %s", got)
	}
}
