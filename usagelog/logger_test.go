package usagelog

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"battleroyale/capacity"
)

func TestEmitStampsIdentityFields(t *testing.T) {
	var out bytes.Buffer
	logger := NewLogger(&out, "eu-west-2", "battle-royale")
	logger.now = func() time.Time {
		return time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	}

	tracker := capacity.NewTracker()
	emitted := logger.Emit(context.Background(), "join-game", "alice", tracker.Snapshot())

	if emitted.Timestamp != "2025-03-14T09:26:53Z" {
		t.Errorf("Unexpected timestamp %q", emitted.Timestamp)
	}
	if emitted.Module != "join-game" || emitted.UserID != "alice" {
		t.Errorf("Expected module and actor stamped, got %q/%q", emitted.Module, emitted.UserID)
	}
	if emitted.Table != "battle-royale" || emitted.Region != "eu-west-2" {
		t.Errorf("Expected table and region stamped, got %q/%q", emitted.Table, emitted.Region)
	}
	if emitted.RequestID == "" {
		t.Error("Expected a generated request id")
	}

	var parsed map[string]any
	if err := json.Unmarshal(out.Bytes(), &parsed); err != nil {
		t.Fatalf("Emitted line is not valid JSON: %v", err)
	}
	for _, field := range []string{"timestamp", "module", "operations", "user_id", "rcu", "wcu", "table", "status", "latency_ms", "region", "request_id", "table_usage"} {
		if _, ok := parsed[field]; !ok {
			t.Errorf("Expected field %q on the emitted record", field)
		}
	}
	// Clean records omit the failure-only and index-only fields.
	for _, field := range []string{"error", "gsi_usage"} {
		if _, ok := parsed[field]; ok {
			t.Errorf("Expected field %q omitted from a clean record", field)
		}
	}
	if ops, ok := parsed["operations"].([]any); !ok || len(ops) != 0 {
		t.Errorf("Expected operations as an empty array, got %v", parsed["operations"])
	}
}

func TestEmitWritesOneLinePerRecord(t *testing.T) {
	var out bytes.Buffer
	logger := NewLogger(&out, "us-east-1", "battle-royale")

	tracker := capacity.NewTracker()
	logger.Emit(context.Background(), "query-user-games", "bob", tracker.Snapshot())
	logger.Emit(context.Background(), "query-user-games", "carol", tracker.Snapshot())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(lines))
	}
	for _, line := range lines {
		var rec capacity.Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Errorf("Line is not a JSON record: %v", err)
		}
	}
}

type mockS3API struct {
	putFunc func(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

func (m *mockS3API) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	return m.putFunc(ctx, params, optFns...)
}

func TestEmitArchivesToS3(t *testing.T) {
	var captured *s3.PutObjectInput
	archiver := &S3Archiver{
		Client: &mockS3API{
			putFunc: func(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
				captured = params
				return &s3.PutObjectOutput{}, nil
			},
		},
		Bucket: "usage-archive",
	}

	var out bytes.Buffer
	logger := NewLogger(&out, "us-east-1", "battle-royale").WithArchiver(archiver)

	tracker := capacity.NewTracker()
	emitted := logger.Emit(context.Background(), "join-game", "alice", tracker.Snapshot())

	if captured == nil {
		t.Fatal("Expected the record archived")
	}
	if *captured.Bucket != "usage-archive" {
		t.Errorf("Expected archive bucket, got %q", *captured.Bucket)
	}
	day := time.Now().UTC().Format("2006-01-02")
	wantKey := "usage/" + day + "/" + emitted.RequestID + ".json"
	if *captured.Key != wantKey {
		t.Errorf("Expected key %q, got %q", wantKey, *captured.Key)
	}
	if *captured.ContentType != "application/json" {
		t.Errorf("Expected JSON content type, got %q", *captured.ContentType)
	}

	body, err := io.ReadAll(captured.Body)
	if err != nil {
		t.Fatalf("Failed to read archived body: %v", err)
	}
	if !bytes.Equal(bytes.TrimSpace(out.Bytes()), body) {
		t.Error("Expected the archived body to match the emitted line")
	}
}
