// Package documentstore is the boundary to the remote document database. The
// engine treats it as an async document source keyed by collection name; the
// only write it ever performs is persisting geocoded coordinates back onto a
// site.
package documentstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	CollectionSites  = "sites"
	CollectionPoles  = "poles"
	CollectionStyles = "style_preferences"
)

var (
	ErrNoRows      = errors.New("no rows in result set")
	ErrStoreFailed = errors.New("could not store data")
	ErrNoID        = errors.New("document contains no id")
)

// Document is one raw record from a collection. Fields are arbitrary; typed
// mapping happens in the catalog loader.
type Document struct {
	ID   string
	Data map[string]any
}

//go:generate moq -rm -out documentstore_mock.go . Store
type Store interface {
	Fetch(ctx context.Context, collection string) ([]Document, error)
	UpdateSitePosition(ctx context.Context, siteID string, latitude, longitude float64) error
}

type Config struct {
	host     string
	user     string
	password string
	port     string
	dbname   string
	sslmode  string
}

func NewConfig(host, user, password, port, dbname, sslmode string) Config {
	return Config{
		host:     host,
		user:     user,
		password: password,
		port:     port,
		dbname:   dbname,
		sslmode:  sslmode,
	}
}

func (c Config) ConnStr() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", c.user, c.password, c.host, c.port, c.dbname, c.sslmode)
}

func NewPool(ctx context.Context, config Config) (*pgxpool.Pool, error) {
	p, err := pgxpool.New(ctx, config.ConnStr())
	if err != nil {
		return nil, err
	}

	err = p.Ping(ctx)
	if err != nil {
		return nil, err
	}

	return p, nil
}

type PgStore struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, config Config) (*PgStore, error) {
	pool, err := NewPool(ctx, config)
	if err != nil {
		return nil, err
	}

	return &PgStore{pool: pool}, nil
}

func NewWithPool(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

func (s *PgStore) Initialize(ctx context.Context) error {
	return s.createTables(ctx)
}

func (s *PgStore) Close() {
	s.pool.Close()
}

func (s *PgStore) createTables(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS documents (
			collection  TEXT  NOT NULL,
			doc_id      TEXT  NOT NULL,
			data        JSONB NOT NULL,
			location    POINT NULL,
			created_on  timestamp with time zone NOT NULL DEFAULT CURRENT_TIMESTAMP,
			modified_on timestamp with time zone NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT pkey_documents_unique PRIMARY KEY (collection, doc_id)
		);

		CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents (collection);
	`)

	return err
}

// Fetch returns every document of a collection. A stored location is merged
// into the data map under latitude/longitude, so callers see one flat record.
func (s *PgStore) Fetch(ctx context.Context, collection string) ([]Document, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT doc_id, data, location, modified_on
		FROM documents
		WHERE collection = @collection
		ORDER BY doc_id
	`, pgx.NamedArgs{"collection": collection})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make([]Document, 0)

	for rows.Next() {
		var docID string
		var data json.RawMessage
		var location pgtype.Point
		var modifiedOn pgtype.Timestamptz

		err := rows.Scan(&docID, &data, &location, &modifiedOn)
		if err != nil {
			return nil, err
		}

		m := map[string]any{}
		err = json.Unmarshal(data, &m)
		if err != nil {
			return nil, err
		}

		if location.Valid {
			m["latitude"] = location.P.Y
			m["longitude"] = location.P.X
		}
		if modifiedOn.Valid {
			m["modifiedOn"] = modifiedOn.Time
		}

		docs = append(docs, Document{ID: docID, Data: m})
	}

	return docs, rows.Err()
}

func (s *PgStore) UpdateSitePosition(ctx context.Context, siteID string, latitude, longitude float64) error {
	if siteID == "" {
		return ErrNoID
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE documents
		SET location = point(@lon, @lat), modified_on = CURRENT_TIMESTAMP
		WHERE collection = @collection AND doc_id = @doc_id
	`, pgx.NamedArgs{
		"collection": CollectionSites,
		"doc_id":     siteID,
		"lat":        latitude,
		"lon":        longitude,
	})
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}

	return nil
}

// Upsert stores a document, stamping modified_on on conflict. Coordinates in
// the data map move into the location column on the way in.
func (s *PgStore) Upsert(ctx context.Context, collection string, doc Document) error {
	if doc.ID == "" {
		return ErrNoID
	}

	data := make(map[string]any, len(doc.Data))
	for k, v := range doc.Data {
		data[k] = v
	}

	lat, latOK := asFloat(data["latitude"])
	lon, lonOK := asFloat(data["longitude"])
	delete(data, "latitude")
	delete(data, "longitude")

	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrStoreFailed, err.Error())
	}

	args := pgx.NamedArgs{
		"collection": collection,
		"doc_id":     doc.ID,
		"data":       string(b),
	}

	locationExpr := "NULL"
	if latOK && lonOK {
		locationExpr = "point(@lon, @lat)"
		args["lat"] = lat
		args["lon"] = lon
	}

	_, err = s.pool.Exec(ctx, fmt.Sprintf(`
		INSERT INTO documents (collection, doc_id, data, location)
		VALUES (@collection, @doc_id, @data, %s)
		ON CONFLICT (collection, doc_id) DO UPDATE
		SET data = EXCLUDED.data, location = EXCLUDED.location, modified_on = CURRENT_TIMESTAMP
	`, locationExpr), args)

	return err
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}
