package config

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "0123456789abcdef",
	}))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cfg.Port != "8080" || !cfg.IsDevelopment() || cfg.LogLevel != "info" {
		t.Fatalf("unexpected server defaults: %+v", cfg)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("expected 24h TTL, got %s", cfg.TokenTTL)
	}
	if !reflect.DeepEqual(cfg.ResourceModels, []string{"food", "clothes"}) {
		t.Fatalf("unexpected models: %v", cfg.ResourceModels)
	}
	if cfg.SignIn.MaxAttempts != 5 || cfg.SignIn.Window != 15*time.Minute {
		t.Fatalf("unexpected throttle defaults: %+v", cfg.SignIn)
	}
	if cfg.Audit.Workers != 4 {
		t.Fatalf("unexpected audit workers: %d", cfg.Audit.Workers)
	}
	if cfg.Mongo.Database != "resource_api" || cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("unexpected store defaults: %+v %+v", cfg.Mongo, cfg.Redis)
	}
}

func TestParse_Overrides(t *testing.T) {
	cfg, err := Parse(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":      "0123456789abcdef",
		"ENV":             "production",
		"TOKEN_TTL":       "1h",
		"RESOURCE_MODELS": "food,clothes,tools",
		"POLICY_FILE":     "/etc/resource-api/policy.yaml",
		"REDIS_DB":        "3",
	}))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.IsDevelopment() || cfg.TokenTTL != time.Hour || len(cfg.ResourceModels) != 3 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.PolicyFile != "/etc/resource-api/policy.yaml" || cfg.Redis.DB != 3 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestParse_RequiresSecret(t *testing.T) {
	for _, env := range []map[string]string{
		{},
		{"JWT_SECRET": "short"},
	} {
		if _, err := Parse(context.Background(), envconfig.MapLookuper(env)); err == nil {
			t.Fatalf("expected an error for %v", env)
		}
	}
}
