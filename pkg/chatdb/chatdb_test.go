package chatdb

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// mapResolver is a canned Resolver for tests.
type mapResolver map[string]string

func (m mapResolver) ResolveHandle(addr string) string {
	if addr == "" {
		return "Unknown"
	}
	if name, ok := m[addr]; ok {
		return name
	}
	return addr
}

// newFixtureDB writes a minimal Messages-schema database and returns its path.
func newFixtureDB(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "chat.db")
	db, err := sql.Open("sqlite", "file:"+path)
	if err != nil {
		t.Fatalf("opening fixture db: %v", err)
	}
	defer db.Close()

	schema := []string{
		`CREATE TABLE handle (ROWID INTEGER PRIMARY KEY, id TEXT)`,
		`CREATE TABLE chat (ROWID INTEGER PRIMARY KEY, display_name TEXT, chat_identifier TEXT)`,
		`CREATE TABLE chat_handle_join (chat_id INTEGER, handle_id INTEGER)`,
		`CREATE TABLE message (ROWID INTEGER PRIMARY KEY, is_from_me INTEGER, date INTEGER, handle_id INTEGER, text TEXT, attributedBody BLOB)`,
		`CREATE TABLE chat_message_join (chat_id INTEGER, message_id INTEGER)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("creating schema: %v", err)
		}
	}

	inserts := []struct {
		stmt string
		args []interface{}
	}{
		{`INSERT INTO handle (ROWID, id) VALUES (1, ?)`, []interface{}{"+15550101234"}},
		{`INSERT INTO handle (ROWID, id) VALUES (2, ?)`, []interface{}{"sam@example.com"}},

		// Chat 1 is a group of both handles with no custom name; chat 2 is
		// one-on-one with handle 1.
		{`INSERT INTO chat (ROWID, display_name, chat_identifier) VALUES (1, '', 'chat100')`, nil},
		{`INSERT INTO chat (ROWID, display_name, chat_identifier) VALUES (2, '', '+15550101234')`, nil},
		{`INSERT INTO chat_handle_join (chat_id, handle_id) VALUES (1, 1), (1, 2), (2, 1)`, nil},

		// One day after the 2001 epoch, in nanoseconds.
		{`INSERT INTO message (ROWID, is_from_me, date, handle_id, text) VALUES (1, 0, 86400000000000, 1, 'hey there')`, nil},
		{`INSERT INTO chat_message_join (chat_id, message_id) VALUES (2, 1)`, nil},

		// Chat-less message buckets by handle.
		{`INSERT INTO message (ROWID, is_from_me, date, handle_id, text) VALUES (2, 1, 86400000000000, 1, 'on my way')`, nil},

		// Group message with no text column, body blob instead.
		{`INSERT INTO message (ROWID, is_from_me, date, handle_id, text, attributedBody) VALUES (3, 0, 86400000000000, 2, NULL, ?)`,
			[]interface{}{append([]byte{0x04, 0xff}, []byte("from the blob")...)}},
		{`INSERT INTO chat_message_join (chat_id, message_id) VALUES (1, 3)`, nil},

		// NULL date: must be dropped.
		{`INSERT INTO message (ROWID, is_from_me, date, handle_id, text) VALUES (4, 0, NULL, 1, 'lost')`, nil},
	}
	for _, in := range inserts {
		if _, err := db.Exec(in.stmt, in.args...); err != nil {
			t.Fatalf("inserting fixture row: %v", err)
		}
	}
	return path
}

func TestOpenMissingDatabase(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "nope.db"), nil)
	if err == nil {
		t.Fatal("Open on a missing path returned no error")
	}
}

func TestOpenSnapshotRemovedOnClose(t *testing.T) {
	src, err := Open(context.Background(), newFixtureDB(t), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	snapshot := src.snapshot
	if _, err := os.Stat(snapshot); err != nil {
		t.Fatalf("snapshot missing while open: %v", err)
	}
	if err := src.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := os.Stat(snapshot); !os.IsNotExist(err) {
		t.Errorf("snapshot still present after Close: %v", err)
	}
}

func TestLoadMessages(t *testing.T) {
	src, err := Open(context.Background(), newFixtureDB(t), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer src.Close()

	resolver := mapResolver{"+15550101234": "Alex"}
	records, err := src.LoadMessages(context.Background(), resolver)
	if err != nil {
		t.Fatalf("LoadMessages: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("got %d records, want 3 (NULL-date row dropped)", len(records))
	}

	byKey := make(map[string]int)
	for _, r := range records {
		byKey[r.ConversationKey]++
	}
	for _, key := range []string{"chat:1", "chat:2", "handle:1"} {
		if byKey[key] != 1 {
			t.Errorf("key %q appears %d times, want 1", key, byKey[key])
		}
	}

	wantDay := time.Date(2001, time.January, 2, 0, 0, 0, 0, time.UTC)
	for _, r := range records {
		if !r.Timestamp.Equal(wantDay) {
			t.Errorf("record %q timestamp = %v, want %v", r.ConversationKey, r.Timestamp, wantDay)
		}
		switch r.ConversationKey {
		case "chat:2":
			if r.ConversationName != "Alex" {
				t.Errorf("one-on-one chat name = %q, want Alex", r.ConversationName)
			}
			if r.IsFromMe {
				t.Error("chat:2 record marked as from me")
			}
		case "chat:1":
			if r.ConversationName != "Alex, sam@example.com" {
				t.Errorf("group chat name = %q, want participant label", r.ConversationName)
			}
			if r.Text != "from the blob" {
				t.Errorf("blob-backed text = %q, want %q", r.Text, "from the blob")
			}
		case "handle:1":
			if !r.IsFromMe {
				t.Error("handle:1 record not marked as from me")
			}
			if r.Text != "on my way" {
				t.Errorf("handle:1 text = %q", r.Text)
			}
		}
	}
}
