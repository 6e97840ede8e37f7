package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("APP_SECRET_SESSION", "a-long-enough-session-secret")
	t.Setenv("CRM_ACCESS_TOKEN", "crm-token")
	t.Setenv("LINK_CLIENT_ID", "client-id")
	t.Setenv("LINK_SECRET", "secret")
	t.Setenv("LINK_PUBLIC_KEY", "public-key")
	t.Setenv("LINK_PRODUCTS", "payment_initiation, transactions")
	t.Setenv("LINK_COUNTRY_CODES", "GB")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Addr != ":8000" {
		t.Fatalf("unexpected addr %q", cfg.Addr)
	}
	if cfg.Environment != "sandbox" {
		t.Fatalf("unexpected environment %q", cfg.Environment)
	}
	if len(cfg.Products) != 2 || cfg.Products[1] != "transactions" {
		t.Fatalf("unexpected products %v", cfg.Products)
	}
	if cfg.SessionStore != "memory" {
		t.Fatalf("unexpected session store %q", cfg.SessionStore)
	}
}

func TestLoadRejectsMissingCredentials(t *testing.T) {
	t.Setenv("APP_SECRET_SESSION", "a-long-enough-session-secret")
	t.Setenv("CRM_ACCESS_TOKEN", "")
	t.Setenv("LINK_CLIENT_ID", "")
	t.Setenv("LINK_SECRET", "")
	t.Setenv("LINK_PUBLIC_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoadRecipientPresetDefault(t *testing.T) {
	preset, err := LoadRecipientPreset("")
	if err != nil {
		t.Fatal(err)
	}
	if preset.Name != "Harry Potter" {
		t.Fatalf("unexpected default recipient %q", preset.Name)
	}
	if preset.Address.Country != "GB" {
		t.Fatalf("unexpected country %q", preset.Address.Country)
	}
}

func TestLoadRecipientPresetFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipient.yaml")
	content := []byte(`name: Ron Weasley
iban: GB29NWBK60161331926819
address:
  street:
    - The Burrow
  city: Ottery St Catchpole
  postal_code: "22222"
  country: GB
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	preset, err := LoadRecipientPreset(path)
	if err != nil {
		t.Fatal(err)
	}
	if preset.Name != "Ron Weasley" {
		t.Fatalf("unexpected recipient %q", preset.Name)
	}
}

func TestLoadRecipientPresetInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipient.yaml")
	if err := os.WriteFile(path, []byte("name: only-a-name\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRecipientPreset(path); err == nil {
		t.Fatal("expected validation error for incomplete preset")
	}
}
