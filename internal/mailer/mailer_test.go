package mailer

import (
	"bytes"
	"strings"
	"testing"
)

func TestBodyTemplateRenders(t *testing.T) {
	var buf bytes.Buffer
	err := bodyTemplate.Execute(&buf, bodyData{Date: "30/08/2026", Cities: 15})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	html := buf.String()
	if !strings.Contains(html, "30/08/2026") {
		t.Error("body missing forecast date")
	}
	if !strings.Contains(html, `dir="rtl"`) {
		t.Error("body missing RTL direction")
	}
}

func TestCredentialsFromEnv(t *testing.T) {
	t.Setenv(EnvSMTPUser, "")
	t.Setenv(EnvSMTPPass, "")
	if _, err := CredentialsFromEnv(); err == nil {
		t.Error("expected error for missing credentials")
	}

	t.Setenv(EnvSMTPUser, "bot@example.com")
	t.Setenv(EnvSMTPPass, "hunter2")
	creds, err := CredentialsFromEnv()
	if err != nil {
		t.Fatalf("CredentialsFromEnv: %v", err)
	}
	if creds.User != "bot@example.com" || creds.Pass != "hunter2" {
		t.Errorf("creds = %+v", creds)
	}
}
