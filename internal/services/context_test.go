package services_test

import (
	"context"
	"testing"

	"mediameta/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithAssetID(ctx, "asset-42")
	ctx = services.WithJob(ctx, "extract-video")
	ctx = services.WithRequestID(ctx, "req-123")

	if id, ok := services.AssetIDFromContext(ctx); !ok || id != "asset-42" {
		t.Fatalf("unexpected asset id: %v %v", id, ok)
	}
	if job, ok := services.JobFromContext(ctx); !ok || job != "extract-video" {
		t.Fatalf("unexpected job: %v %v", job, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithJob(ctx, "")
	ctx = services.WithAssetID(ctx, "")
	if _, ok := services.JobFromContext(ctx); ok {
		t.Fatal("expected no job value")
	}
	if _, ok := services.AssetIDFromContext(ctx); ok {
		t.Fatal("expected no asset id value")
	}
}
