package contacts

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/otherjamesbrown/wrapped-cli/pkg/logging"
)

// Directory maps normalized handle addresses to contact display names.
type Directory struct {
	names map[string]string
	log   logging.Logger
}

// NewDirectory returns a Directory with a pre-built name table. Useful for
// tests and for callers that resolve names from another source.
func NewDirectory(names map[string]string, logger logging.Logger) *Directory {
	if names == nil {
		names = make(map[string]string)
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Directory{names: names, log: logger}
}

// LoadDirectory reads every AddressBook source database under sourcesDir
// (each source is a subdirectory holding a *.abcddb sqlite file) and builds
// the address-to-name table. The first name recorded for an address wins.
//
// A missing sources directory yields an empty Directory, not an error: the
// report degrades to raw addresses. Individual databases that fail to open
// or query are logged and skipped, since schema versions vary across macOS
// releases.
func LoadDirectory(ctx context.Context, sourcesDir string, logger logging.Logger) (*Directory, error) {
	dir := NewDirectory(nil, logger)

	entries, err := os.ReadDir(sourcesDir)
	if err != nil {
		if os.IsNotExist(err) {
			dir.log.Warn("contacts sources directory not found, names will be raw addresses",
				logging.F("dir", sourcesDir))
			return dir, nil
		}
		return nil, fmt.Errorf("reading contacts sources dir: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		matches, err := filepath.Glob(filepath.Join(sourcesDir, entry.Name(), "*.abcddb"))
		if err != nil {
			continue
		}
		for _, dbPath := range matches {
			if err := dir.loadSource(ctx, dbPath); err != nil {
				dir.log.Warn("skipping unreadable contacts database",
					logging.F("path", dbPath), logging.Err(err))
			}
		}
	}

	dir.log.Debug("loaded contacts", logging.F("entries", len(dir.names)))
	return dir, nil
}

// loadSource reads phone and email mappings from one .abcddb file.
func (d *Directory) loadSource(ctx context.Context, dbPath string) error {
	db, err := sql.Open("sqlite", "file:"+dbPath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("opening contacts db: %w", err)
	}
	defer db.Close()

	phoneQuery := `
		SELECT pn.ZFULLNUMBER, r.ZFIRSTNAME, r.ZLASTNAME, r.ZORGANIZATION
		FROM ZABCDPHONENUMBER pn
		JOIN ZABCDRECORD r ON pn.ZOWNER = r.Z_PK`
	if err := d.loadAddressRows(ctx, db, phoneQuery, NormalizePhone); err != nil {
		// Schema may differ across macOS versions; emails may still work.
		d.log.Debug("contacts phone query failed", logging.F("path", dbPath), logging.Err(err))
	}

	emailQuery := `
		SELECT em.ZADDRESS, r.ZFIRSTNAME, r.ZLASTNAME, r.ZORGANIZATION
		FROM ZABCDEMAILADDRESS em
		JOIN ZABCDRECORD r ON em.ZOWNER = r.Z_PK`
	if err := d.loadAddressRows(ctx, db, emailQuery, NormalizeEmail); err != nil {
		d.log.Debug("contacts email query failed", logging.F("path", dbPath), logging.Err(err))
	}

	return nil
}

// loadAddressRows runs one address query and records its name mappings.
func (d *Directory) loadAddressRows(ctx context.Context, db *sql.DB, query string, normalize func(string) string) error {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var addr, first, last, org sql.NullString
		if err := rows.Scan(&addr, &first, &last, &org); err != nil {
			return err
		}
		if !addr.Valid || addr.String == "" {
			continue
		}
		norm := normalize(addr.String)
		if norm == "" {
			continue
		}
		name := contactName(first.String, last.String, org.String)
		if name == "" {
			continue
		}
		if _, exists := d.names[norm]; !exists {
			d.names[norm] = name
		}
	}
	return rows.Err()
}

// contactName assembles "First Last", falling back to the organization.
func contactName(first, last, org string) string {
	parts := make([]string, 0, 2)
	if strings.TrimSpace(first) != "" {
		parts = append(parts, strings.TrimSpace(first))
	}
	if strings.TrimSpace(last) != "" {
		parts = append(parts, strings.TrimSpace(last))
	}
	name := strings.Join(parts, " ")
	if name == "" {
		name = strings.TrimSpace(org)
	}
	if name == "" {
		return ""
	}
	return NormalizeDisplayName(name)
}

// Len reports how many addresses resolve to a name.
func (d *Directory) Len() int {
	return len(d.names)
}

// ResolveHandle returns the contact name for a handle address, or the raw
// address when no contact matches. Empty addresses resolve to "Unknown".
func (d *Directory) ResolveHandle(addr string) string {
	if addr == "" {
		return "Unknown"
	}
	if name, ok := d.names[NormalizeAddress(addr)]; ok {
		return name
	}
	return addr
}
