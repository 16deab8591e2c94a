package config

import "testing"

func TestLoadDefaultsToExplicitDevOrigin(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "")

	Load()

	if len(AppEnv.AllowedOrigins) != 1 || AppEnv.AllowedOrigins[0] != "http://localhost:5173" {
		t.Fatalf("unexpected default origins: %v", AppEnv.AllowedOrigins)
	}
	for _, origin := range AppEnv.AllowedOrigins {
		if origin == "*" {
			t.Fatal("wildcard origin cannot be combined with credentialed CORS")
		}
	}
}

func TestLoadParsesOriginList(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://shop.example.com, https://admin.example.com")

	Load()

	if len(AppEnv.AllowedOrigins) != 2 {
		t.Fatalf("expected 2 origins, got %v", AppEnv.AllowedOrigins)
	}
	if AppEnv.AllowedOrigins[0] != "https://shop.example.com" ||
		AppEnv.AllowedOrigins[1] != "https://admin.example.com" {
		t.Fatalf("unexpected origins: %v", AppEnv.AllowedOrigins)
	}
}
