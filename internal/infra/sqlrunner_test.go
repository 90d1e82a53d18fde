package infra

import (
	"errors"
	"strings"
	"testing"

	"flyergen/internal/sqlinline"
)

func TestExtractMarker(t *testing.T) {
	marker, trimmed, err := extractMarker(sqlinline.QSelectQuota)
	if err != nil {
		t.Fatalf("extractMarker returned error: %v", err)
	}
	if marker != "9d61c3a7-5e2f-4b08-a4d1-3f87e6b0c254" {
		t.Fatalf("marker = %q", marker)
	}
	if strings.Contains(trimmed, "--sql") {
		t.Fatalf("marker line was not stripped: %q", trimmed)
	}
	if !strings.Contains(trimmed, "from quota_records") {
		t.Fatalf("query body lost: %q", trimmed)
	}
}

func TestExtractMarkerRejectsUnmarkedQuery(t *testing.T) {
	_, _, err := extractMarker("select 1;")
	if !errors.Is(err, errMissingMarker) {
		t.Fatalf("error = %v, want errMissingMarker", err)
	}
}

func TestEveryInlineQueryCarriesMarker(t *testing.T) {
	queries := map[string]string{
		"reserve quota":      sqlinline.QReserveQuota,
		"commit quota":       sqlinline.QCommitQuota,
		"select quota":       sqlinline.QSelectQuota,
		"set user plan":      sqlinline.QSetUserPlan,
		"insert usage event": sqlinline.QInsertUsageEvent,
	}
	for name, query := range queries {
		if _, _, err := extractMarker(query); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}
}
