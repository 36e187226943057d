package recaptcha

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestVerifyDisabledSkipsNetwork(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	client := New(Config{Enabled: false}, WithEndpoint(srv.URL))
	if err := client.Verify(context.Background(), "any-token"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if called {
		t.Fatal("expected no siteverify call when disabled")
	}
}

func TestVerifyMissingSecret(t *testing.T) {
	client := New(Config{Enabled: true, Threshold: 0.5})
	err := client.Verify(context.Background(), "token")
	if err == nil {
		t.Fatal("expected error for missing secret")
	}
	if err.Error() != "Missing reCAPTCHA secret" {
		t.Fatalf("unexpected error message: %q", err.Error())
	}
}

func TestVerifySuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("unexpected content type %q", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostForm.Get("secret") != "shh" {
			t.Errorf("expected secret to be sent, got %q", r.PostForm.Get("secret"))
		}
		if r.PostForm.Get("response") != "tok-123" {
			t.Errorf("expected token to be sent, got %q", r.PostForm.Get("response"))
		}
		w.Write([]byte(`{"success":true,"score":0.9}`))
	}))
	defer srv.Close()

	client := New(Config{Enabled: true, Secret: "shh", Threshold: 0.5}, WithEndpoint(srv.URL))
	if err := client.Verify(context.Background(), "tok-123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestVerifyRejectsUnsuccessful(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false}`))
	}))
	defer srv.Close()

	client := New(Config{Enabled: true, Secret: "shh", Threshold: 0.5}, WithEndpoint(srv.URL))
	err := client.Verify(context.Background(), "tok")
	if !errors.Is(err, ErrVerificationFailed) {
		t.Fatalf("expected ErrVerificationFailed, got %v", err)
	}
}

func TestVerifyRejectsLowScore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"score":0.2}`))
	}))
	defer srv.Close()

	client := New(Config{Enabled: true, Secret: "shh", Threshold: 0.5}, WithEndpoint(srv.URL))
	err := client.Verify(context.Background(), "tok")
	if !errors.Is(err, ErrVerificationFailed) {
		t.Fatalf("expected ErrVerificationFailed, got %v", err)
	}
}

func TestVerifyAcceptsSuccessWithoutScore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	client := New(Config{Enabled: true, Secret: "shh", Threshold: 0.5}, WithEndpoint(srv.URL))
	if err := client.Verify(context.Background(), "tok"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
