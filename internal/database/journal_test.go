package database

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/predictdash/predict-relay/internal/config"
)

type execCall struct {
	sql  string
	args []any
}

type fakeExecer struct {
	calls []execCall
	err   error
}

func (f *fakeExecer) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.calls = append(f.calls, execCall{sql: sql, args: args})
	return pgconn.CommandTag{}, f.err
}

func TestJournal_Disabled(t *testing.T) {
	j, err := Open(context.Background(), config.DBConfig{}, nil)
	if err != nil {
		t.Fatalf("Open() with no host: %v", err)
	}
	if j.Enabled() {
		t.Error("journal should be disabled")
	}

	// Must not panic.
	j.Record(context.Background(), Entry{RequestID: "r1", Action: ActionSubmit})
	if err := j.Migrate(context.Background()); err != nil {
		t.Errorf("Migrate() = %v, want nil", err)
	}
	if err := j.Ping(context.Background()); err != nil {
		t.Errorf("Ping() = %v, want nil", err)
	}
	j.Close()

	var nilJournal *Journal
	nilJournal.Record(context.Background(), Entry{})
}

func TestJournal_Record(t *testing.T) {
	fake := &fakeExecer{}
	j := NewJournal(nil, nil)
	j.db = fake
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	j.now = func() time.Time { return fixed }

	j.Record(context.Background(), Entry{
		RequestID:  "req-1",
		Action:     ActionSubmit,
		StatusCode: 200,
		Request:    []byte(`{"data":{}}`),
	})

	if len(fake.calls) != 1 {
		t.Fatalf("Exec calls = %d, want 1", len(fake.calls))
	}
	call := fake.calls[0]
	if !strings.Contains(call.sql, "INSERT INTO order_journal") {
		t.Errorf("sql = %q", call.sql)
	}
	if call.args[0] != "req-1" || call.args[1] != "submit" || call.args[2] != 200 {
		t.Errorf("args = %v", call.args[:3])
	}
	if call.args[3] != `{"data":{}}` {
		t.Errorf("request body = %v", call.args[3])
	}
	if call.args[4] != nil {
		t.Errorf("empty response body should be NULL, got %v", call.args[4])
	}
	if call.args[5] != fixed {
		t.Errorf("created_at = %v, want %v", call.args[5], fixed)
	}
}

func TestJournal_RecordErrorIsSwallowed(t *testing.T) {
	fake := &fakeExecer{err: errors.New("connection refused")}
	j := NewJournal(nil, nil)
	j.db = fake

	j.Record(context.Background(), Entry{RequestID: "req-2", Action: ActionRemove})
	if len(fake.calls) != 1 {
		t.Errorf("Exec calls = %d, want 1", len(fake.calls))
	}
}

func TestJournal_RecordAfterCancel(t *testing.T) {
	fake := &fakeExecer{}
	j := NewJournal(nil, nil)
	j.db = fake

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	j.Record(ctx, Entry{RequestID: "req-3", Action: ActionSubmit})

	if len(fake.calls) != 1 {
		t.Errorf("Exec calls = %d, want 1", len(fake.calls))
	}
}

func TestJournal_Migrate(t *testing.T) {
	fake := &fakeExecer{}
	j := NewJournal(nil, nil)
	j.db = fake

	if err := j.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if len(fake.calls) != 1 || !strings.Contains(fake.calls[0].sql, "CREATE TABLE IF NOT EXISTS order_journal") {
		t.Errorf("calls = %+v", fake.calls)
	}

	fake.err = errors.New("permission denied")
	if err := j.Migrate(context.Background()); err == nil || !strings.Contains(err.Error(), "create journal table") {
		t.Errorf("Migrate() error = %v", err)
	}
}
