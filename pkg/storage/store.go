// Package storage is the server-side source of truth: one SQLite database
// holding the current document of every tenant website plus the history of
// saved revisions. Document bodies are stored as zstd-compressed JSON.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/oklog/ulid/v2"

	"github.com/tarekmohameddev/taearifv3-sub012/pkg/db"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/log"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/model"
)

// DatabaseFile is the file name of the store inside the storage directory.
const DatabaseFile = "documents.db"

const encodingZstd = "zstd"

// Revision describes one saved version of a tenant document.
type Revision struct {
	ID          string    `json:"id"`
	WebsiteName string    `json:"websiteName"`
	Username    string    `json:"username"`
	Size        int       `json:"size"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Stats summarizes the store.
type Stats struct {
	Documents int   `json:"documents"`
	Revisions int   `json:"revisions"`
	Bytes     int64 `json:"bytes"`
}

// Store persists tenant documents.
type Store struct {
	db     *sql.DB
	enc    *zstd.Encoder
	dec    *zstd.Decoder
	logger *log.Logger
	now    func() time.Time
}

// OpenDir opens the store inside dir.
func OpenDir(dir string) (*Store, error) {
	return Open(filepath.Join(dir, DatabaseFile))
}

// Open opens or creates the database at path and applies pending
// migrations.
func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 30000",
		"PRAGMA cache_size = -16000",
		"PRAGMA temp_store = memory",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("applying pragma %q: %w", pragma, err)
		}
	}
	if err := db.InitializeDatabase(conn); err != nil {
		conn.Close()
		return nil, err
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}

	return &Store{
		db:     conn,
		enc:    enc,
		dec:    dec,
		logger: log.ForService("storage"),
		now:    time.Now,
	}, nil
}

// Close releases the database and the codecs.
func (s *Store) Close() error {
	s.dec.Close()
	if err := s.enc.Close(); err != nil {
		s.logger.Warnf("closing zstd encoder: %v", err)
	}
	return s.db.Close()
}

// DB exposes the connection for migration tooling.
func (s *Store) DB() *sql.DB { return s.db }

// Load returns the current document of websiteName, or
// model.ErrTenantNotFound.
func (s *Store) Load(ctx context.Context, websiteName string) (*model.TenantDocument, error) {
	var encoding string
	var body []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT encoding, body FROM tenant_documents WHERE website_name = ?", websiteName,
	).Scan(&encoding, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", websiteName, model.ErrTenantNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", websiteName, err)
	}
	return s.decode(encoding, body)
}

// Save applies a save payload on top of the stored document and records a
// revision. The static/dynamic and active-theme exclusions are enforced
// again here. Per-base component settings of the stored document are
// carried over since the payload does not hold them.
func (s *Store) Save(ctx context.Context, p model.SavePayload) (Revision, error) {
	if p.WebsiteName == "" {
		return Revision{}, errors.New("save payload has no website name")
	}
	doc, err := p.Sanitized().Document()
	if err != nil {
		return Revision{}, err
	}
	prev, err := s.Load(ctx, p.WebsiteName)
	switch {
	case err == nil:
		doc.Components = prev.Components
		if doc.Username == "" {
			doc.Username = prev.Username
		}
	case !errors.Is(err, model.ErrTenantNotFound):
		return Revision{}, err
	}
	return s.put(ctx, doc, p.TenantID)
}

// Put stores doc as the current document of its website, replacing any
// previous one.
func (s *Store) Put(ctx context.Context, doc *model.TenantDocument) (Revision, error) {
	if doc == nil || doc.WebsiteName == "" {
		return Revision{}, errors.New("document has no website name")
	}
	return s.put(ctx, doc, "")
}

func (s *Store) put(ctx context.Context, doc *model.TenantDocument, tenantID string) (Revision, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return Revision{}, fmt.Errorf("encoding document: %w", err)
	}
	body := s.enc.EncodeAll(raw, nil)
	now := s.now()
	rev := Revision{
		ID:          ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		WebsiteName: doc.WebsiteName,
		Username:    doc.Username,
		Size:        len(raw),
		CreatedAt:   now,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Revision{}, fmt.Errorf("beginning transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil {
				s.logger.Warnf("rolling back save of %s: %v", doc.WebsiteName, err)
			}
		}
	}()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO tenant_documents (website_name, username, tenant_id, revision, encoding, body, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (website_name) DO UPDATE SET
			username = excluded.username,
			tenant_id = CASE WHEN excluded.tenant_id = '' THEN tenant_documents.tenant_id ELSE excluded.tenant_id END,
			revision = excluded.revision,
			encoding = excluded.encoding,
			body = excluded.body,
			updated_at = excluded.updated_at
	`, doc.WebsiteName, doc.Username, tenantID, rev.ID, encodingZstd, body, now.Unix()); err != nil {
		return Revision{}, fmt.Errorf("storing document %s: %w", doc.WebsiteName, err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO tenant_revisions (id, website_name, username, encoding, body, size, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rev.ID, rev.WebsiteName, rev.Username, encodingZstd, body, rev.Size, now.Unix()); err != nil {
		return Revision{}, fmt.Errorf("storing revision of %s: %w", doc.WebsiteName, err)
	}
	if err := tx.Commit(); err != nil {
		return Revision{}, fmt.Errorf("committing save of %s: %w", doc.WebsiteName, err)
	}
	committed = true

	s.logger.Debugf("stored %s revision %s (%d bytes, %d compressed)", doc.WebsiteName, rev.ID, len(raw), len(body))
	return rev, nil
}

// Revisions lists the revisions of websiteName, newest first. A limit of
// zero or less returns all of them.
func (s *Store) Revisions(ctx context.Context, websiteName string, limit int) ([]Revision, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, website_name, username, size, created_at
		FROM tenant_revisions
		WHERE website_name = ?
		ORDER BY id DESC
		LIMIT ?
	`, websiteName, limit)
	if err != nil {
		return nil, fmt.Errorf("querying revisions of %s: %w", websiteName, err)
	}
	defer rows.Close()

	var out []Revision
	for rows.Next() {
		var r Revision
		var created int64
		if err := rows.Scan(&r.ID, &r.WebsiteName, &r.Username, &r.Size, &created); err != nil {
			return nil, fmt.Errorf("scanning revision: %w", err)
		}
		r.CreatedAt = time.Unix(created, 0)
		out = append(out, r)
	}
	return out, rows.Err()
}

// RevisionDocument returns the document saved as revision id.
func (s *Store) RevisionDocument(ctx context.Context, id string) (*model.TenantDocument, error) {
	if _, err := ulid.ParseStrict(id); err != nil {
		return nil, fmt.Errorf("invalid revision id %q: %w", id, err)
	}
	var encoding string
	var body []byte
	err := s.db.QueryRowContext(ctx, "SELECT encoding, body FROM tenant_revisions WHERE id = ?", id).Scan(&encoding, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("revision %s: %w", id, model.ErrTenantNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading revision %s: %w", id, err)
	}
	return s.decode(encoding, body)
}

// WebsiteNames lists the stored websites in name order.
func (s *Store) WebsiteNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT website_name FROM tenant_documents ORDER BY website_name")
	if err != nil {
		return nil, fmt.Errorf("listing websites: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// Stats counts documents and revisions.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tenant_documents").Scan(&st.Documents); err != nil {
		return st, err
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*), COALESCE(SUM(LENGTH(body)), 0) FROM tenant_revisions").Scan(&st.Revisions, &st.Bytes); err != nil {
		return st, err
	}
	return st, nil
}

// Optimize runs SQLite maintenance: query planner statistics and a WAL
// checkpoint.
func (s *Store) Optimize(ctx context.Context) error {
	for _, stmt := range []string{"PRAGMA optimize", "PRAGMA wal_checkpoint(TRUNCATE)"} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", stmt, err)
		}
	}
	return nil
}

func (s *Store) decode(encoding string, body []byte) (*model.TenantDocument, error) {
	raw := body
	if encoding == encodingZstd {
		var err error
		raw, err = s.dec.DecodeAll(body, nil)
		if err != nil {
			return nil, fmt.Errorf("decompressing document: %w", err)
		}
	}
	doc, err := model.ParseDocument(raw)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, model.ErrMalformedDocument
	}
	return doc, nil
}
