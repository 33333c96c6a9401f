// Package chatdb reads the macOS Messages database (chat.db) and produces
// the normalized message records the stats engine consumes. It always works
// from a temporary snapshot of the live database so Messages.app is never
// disturbed, and it drops any message whose date cannot be parsed.
package chatdb

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/otherjamesbrown/wrapped-cli/pkg/contacts"
	"github.com/otherjamesbrown/wrapped-cli/pkg/logging"
	"github.com/otherjamesbrown/wrapped-cli/pkg/stats"
)

// Resolver maps a raw handle address (phone or email) to a display name.
// contacts.Directory is the production implementation.
type Resolver interface {
	ResolveHandle(addr string) string
}

// chatInfo carries the resolved display name for one chat row.
type chatInfo struct {
	name    string
	isGroup bool
}

// Source is a read-only view over a snapshot of chat.db.
type Source struct {
	db       *sql.DB
	snapshot string
	log      logging.Logger
	loc      *time.Location
}

// Open snapshots the Messages database at dbPath into the system temp
// directory and opens the copy read-only. Callers must Close the Source to
// release the connection and delete the snapshot.
func Open(ctx context.Context, dbPath string, logger logging.Logger) (*Source, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("messages database not found at %s: %w", dbPath, err)
	}

	snapshot := filepath.Join(os.TempDir(), "wrapped-chatdb-"+uuid.NewString()+".db")
	if err := copyFile(dbPath, snapshot); err != nil {
		return nil, fmt.Errorf("snapshotting messages database: %w", err)
	}

	db, err := sql.Open("sqlite", "file:"+snapshot+"?mode=ro")
	if err != nil {
		os.Remove(snapshot)
		return nil, fmt.Errorf("opening messages snapshot: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		os.Remove(snapshot)
		return nil, fmt.Errorf("verifying messages snapshot: %w", err)
	}

	logger.Debug("opened messages snapshot",
		logging.F("source", dbPath), logging.F("snapshot", snapshot))

	return &Source{db: db, snapshot: snapshot, log: logger, loc: time.Local}, nil
}

// copyFile copies src to dst, creating or truncating dst.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

// Close releases the database connection and removes the snapshot.
func (s *Source) Close() error {
	err := s.db.Close()
	if rmErr := os.Remove(s.snapshot); rmErr != nil && err == nil {
		err = rmErr
	}
	return err
}

// LoadMessages reads every message in the snapshot and maps each one to a
// conversation: chat-linked messages bucket by chat (group or named
// thread), the rest by handle, and messages with neither get a
// record-unique fallback key so nothing is silently merged.
func (s *Source) LoadMessages(ctx context.Context, resolver Resolver) ([]stats.MessageRecord, error) {
	handleNames, err := s.loadHandleNames(ctx, resolver)
	if err != nil {
		return nil, err
	}
	chats, err := s.loadChats(ctx, handleNames)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT m.ROWID, m.is_from_me, m.date, m.handle_id, m.text, m.attributedBody, cmj.chat_id
		FROM message m
		LEFT JOIN chat_message_join cmj ON cmj.message_id = m.ROWID
		WHERE m.handle_id IS NOT NULL OR cmj.chat_id IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var records []stats.MessageRecord
	dropped := 0
	for rows.Next() {
		var (
			rowID    int64
			isFromMe sql.NullInt64
			date     sql.NullInt64
			handleID sql.NullInt64
			text     sql.NullString
			body     []byte
			chatID   sql.NullInt64
		)
		if err := rows.Scan(&rowID, &isFromMe, &date, &handleID, &text, &body, &chatID); err != nil {
			return nil, fmt.Errorf("scanning message row: %w", err)
		}

		// The engine requires a timestamp on every record it sees.
		if !date.Valid {
			dropped++
			continue
		}
		ts := AppleTime(date.Int64).In(s.loc)

		var key, name string
		switch {
		case chatID.Valid:
			info, ok := chats[chatID.Int64]
			if !ok {
				info = chatInfo{name: fmt.Sprintf("Chat #%d", chatID.Int64)}
			}
			key = fmt.Sprintf("chat:%d", chatID.Int64)
			name = info.name
		case handleID.Valid:
			key = fmt.Sprintf("handle:%d", handleID.Int64)
			name = handleNames[handleID.Int64]
			if name == "" {
				name = "Unknown"
			}
		default:
			key = fmt.Sprintf("unknown:%d", rowID)
			name = "Unknown"
		}

		msgText := text.String
		if strings.TrimSpace(msgText) == "" && len(body) > 0 {
			msgText = ExtractBlobText(body)
		}

		records = append(records, stats.MessageRecord{
			IsFromMe:         isFromMe.Valid && isFromMe.Int64 != 0,
			Timestamp:        ts,
			ConversationKey:  key,
			ConversationName: name,
			Text:             msgText,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading messages: %w", err)
	}

	s.log.Info("loaded messages",
		logging.F("count", len(records)), logging.F("dropped_undated", dropped))
	return records, nil
}

// loadHandleNames resolves every handle row to a display name.
func (s *Source) loadHandleNames(ctx context.Context, resolver Resolver) (map[int64]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT ROWID, id FROM handle`)
	if err != nil {
		return nil, fmt.Errorf("querying handles: %w", err)
	}
	defer rows.Close()

	names := make(map[int64]string)
	for rows.Next() {
		var rowID int64
		var addr sql.NullString
		if err := rows.Scan(&rowID, &addr); err != nil {
			return nil, fmt.Errorf("scanning handle row: %w", err)
		}
		names[rowID] = resolver.ResolveHandle(addr.String)
	}
	return names, rows.Err()
}

// loadChats builds display names for every chat row. Group chats keep their
// custom name when set, otherwise a label is assembled from participants;
// one-on-one chats use the single participant's resolved name.
func (s *Source) loadChats(ctx context.Context, handleNames map[int64]string) (map[int64]chatInfo, error) {
	participants, err := s.loadParticipants(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT ROWID, display_name, chat_identifier FROM chat`)
	if err != nil {
		return nil, fmt.Errorf("querying chats: %w", err)
	}
	defer rows.Close()

	chats := make(map[int64]chatInfo)
	for rows.Next() {
		var rowID int64
		var displayName, identifier sql.NullString
		if err := rows.Scan(&rowID, &displayName, &identifier); err != nil {
			return nil, fmt.Errorf("scanning chat row: %w", err)
		}

		handleIDs := participants[rowID]
		isGroup := len(handleIDs) > 1

		var name string
		switch {
		case isGroup && strings.TrimSpace(displayName.String) != "":
			name = displayName.String
		case isGroup:
			names := make([]string, 0, len(handleIDs))
			for _, hid := range handleIDs {
				n := handleNames[hid]
				if n == "" {
					n = "Unknown"
				}
				names = append(names, n)
			}
			name = contacts.GroupLabel(names, rowID)
		case len(handleIDs) == 1:
			name = handleNames[handleIDs[0]]
		}
		if name == "" {
			name = firstNonEmpty(displayName.String, identifier.String, fmt.Sprintf("Chat #%d", rowID))
		}

		chats[rowID] = chatInfo{name: name, isGroup: isGroup}
	}
	return chats, rows.Err()
}

// loadParticipants groups chat_handle_join rows by chat, preserving row
// order so group labels are stable.
func (s *Source) loadParticipants(ctx context.Context) (map[int64][]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT chat_id, handle_id FROM chat_handle_join`)
	if err != nil {
		return nil, fmt.Errorf("querying chat participants: %w", err)
	}
	defer rows.Close()

	participants := make(map[int64][]int64)
	for rows.Next() {
		var chatID, handleID sql.NullInt64
		if err := rows.Scan(&chatID, &handleID); err != nil {
			return nil, fmt.Errorf("scanning participant row: %w", err)
		}
		if !chatID.Valid || !handleID.Valid {
			continue
		}
		participants[chatID.Int64] = append(participants[chatID.Int64], handleID.Int64)
	}
	return participants, rows.Err()
}

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
