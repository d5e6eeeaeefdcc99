package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq" // PostgreSQL driver
	"go.uber.org/zap"

	"rfp-intake/internal/apperr"
	"rfp-intake/internal/models"
)

const uniqueViolation = "23505"

const documentColumns = `id, file_name, file_type, file_size, uploaded_at, processed,
    title, agency, rfp_number, due_date, estimated_value, contract_term, contact_person,
    opportunity_score, key_dates, requirements, ai_analysis, full_text`

// DB is the Postgres-backed Store.
type DB struct {
	connection *sql.DB
	log        *zap.Logger
}

func NewDB(dataSourceName string, log *zap.Logger) (*DB, error) {
	db, err := sql.Open("postgres", dataSourceName)
	if err != nil {
		return nil, err
	}

	// Connection pool tuning
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	if log == nil {
		log = zap.NewNop()
	}
	return &DB{connection: db, log: log.Named("storage")}, nil
}

func (db *DB) Close() error {
	if err := db.connection.Close(); err != nil {
		db.log.Error("closing the database connection", zap.Error(err))
		return err
	}
	return nil
}

// EnsureSchema creates the users and documents tables when missing.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.connection.ExecContext(ctx, SchemaSQL); err != nil {
		return apperr.Wrap(apperr.Store, err, "create schema")
	}
	return nil
}

func (db *DB) CreateUser(ctx context.Context, u models.NewUser) (*models.User, error) {
	user := &models.User{Username: u.Username, Password: u.Password}
	query := `INSERT INTO users (username, password) VALUES ($1, $2) RETURNING id`
	err := db.connection.QueryRowContext(ctx, query, u.Username, u.Password).Scan(&user.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, apperr.Newf(apperr.Store, "username %q already exists", u.Username)
		}
		return nil, apperr.Wrap(apperr.Store, err, "create user")
	}
	return user, nil
}

func (db *DB) GetUser(ctx context.Context, id int) (*models.User, error) {
	query := `SELECT id, username, password FROM users WHERE id = $1`
	return db.scanUser(db.connection.QueryRowContext(ctx, query, id), fmt.Sprintf("user %d", id))
}

func (db *DB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT id, username, password FROM users WHERE username = $1`
	return db.scanUser(db.connection.QueryRowContext(ctx, query, username), fmt.Sprintf("user %q", username))
}

func (db *DB) scanUser(row *sql.Row, what string) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Username, &user.Password)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Newf(apperr.NotFound, "%s not found", what)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Store, err, "get "+what)
	}
	return user, nil
}

func (db *DB) CreateDocument(ctx context.Context, d models.NewDocument) (*models.Document, error) {
	query := `INSERT INTO documents (file_name, file_type, file_size, uploaded_at, processed)
              VALUES ($1, $2, $3, NOW(), false)
              RETURNING ` + documentColumns
	doc, err := scanDocument(db.connection.QueryRowContext(ctx, query, d.FileName, d.FileType, d.FileSize))
	if err != nil {
		return nil, apperr.Wrap(apperr.Store, err, "create document")
	}
	return doc, nil
}

func (db *DB) GetDocument(ctx context.Context, id int) (*models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	doc, err := scanDocument(db.connection.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Newf(apperr.NotFound, "document %d not found", id)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Store, err, fmt.Sprintf("get document %d", id))
	}
	return doc, nil
}

// UpdateDocument merges the patch with COALESCE so nil patch fields keep
// the stored column value.
func (db *DB) UpdateDocument(ctx context.Context, id int, patch models.DocumentPatch) (*models.Document, error) {
	keyDates, err := jsonParam(patch.KeyDates, patch.KeyDates == nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.Store, err, "encode key dates")
	}
	requirements, err := jsonParam(patch.Requirements, patch.Requirements == nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.Store, err, "encode requirements")
	}
	aiAnalysis, err := jsonParam(patch.AIAnalysis, patch.AIAnalysis == nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.Store, err, "encode ai analysis")
	}

	query := `UPDATE documents SET
                processed         = COALESCE($2::boolean, processed),
                title             = COALESCE($3::text, title),
                agency            = COALESCE($4::text, agency),
                rfp_number        = COALESCE($5::text, rfp_number),
                due_date          = COALESCE($6::text, due_date),
                estimated_value   = COALESCE($7::text, estimated_value),
                contract_term     = COALESCE($8::text, contract_term),
                contact_person    = COALESCE($9::text, contact_person),
                opportunity_score = COALESCE($10::integer, opportunity_score),
                key_dates         = COALESCE($11::jsonb, key_dates),
                requirements      = COALESCE($12::jsonb, requirements),
                ai_analysis       = COALESCE($13::jsonb, ai_analysis),
                full_text         = COALESCE($14::text, full_text)
              WHERE id = $1
              RETURNING ` + documentColumns

	doc, err := scanDocument(db.connection.QueryRowContext(ctx, query, id,
		patch.Processed,
		patch.Title,
		patch.Agency,
		patch.RFPNumber,
		patch.DueDate,
		patch.EstimatedValue,
		patch.ContractTerm,
		patch.ContactPerson,
		patch.OpportunityScore,
		keyDates,
		requirements,
		aiAnalysis,
		patch.FullText,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Newf(apperr.NotFound, "document %d not found", id)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Store, err, fmt.Sprintf("update document %d", id))
	}
	return doc, nil
}

func (db *DB) ListDocuments(ctx context.Context) ([]*models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents ORDER BY id`
	rows, err := db.connection.QueryContext(ctx, query)
	if err != nil {
		return nil, apperr.Wrap(apperr.Store, err, "list documents")
	}
	defer rows.Close()

	docs := []*models.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, apperr.Wrap(apperr.Store, err, "scan document")
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.Store, err, "list documents")
	}
	return docs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*models.Document, error) {
	doc := &models.Document{}
	var keyDates, requirements, aiAnalysis []byte

	err := row.Scan(
		&doc.ID, &doc.FileName, &doc.FileType, &doc.FileSize, &doc.UploadedAt, &doc.Processed,
		&doc.Title, &doc.Agency, &doc.RFPNumber, &doc.DueDate, &doc.EstimatedValue,
		&doc.ContractTerm, &doc.ContactPerson, &doc.OpportunityScore,
		&keyDates, &requirements, &aiAnalysis, &doc.FullText,
	)
	if err != nil {
		return nil, err
	}

	if keyDates != nil {
		if err := json.Unmarshal(keyDates, &doc.KeyDates); err != nil {
			return nil, fmt.Errorf("decode key_dates: %w", err)
		}
	}
	if requirements != nil {
		doc.Requirements = &models.Requirements{}
		if err := json.Unmarshal(requirements, doc.Requirements); err != nil {
			return nil, fmt.Errorf("decode requirements: %w", err)
		}
	}
	if aiAnalysis != nil {
		doc.AIAnalysis = &models.AIAnalysis{}
		if err := json.Unmarshal(aiAnalysis, doc.AIAnalysis); err != nil {
			return nil, fmt.Errorf("decode ai_analysis: %w", err)
		}
	}
	return doc, nil
}

// jsonParam encodes v as a JSON text parameter, or SQL NULL when absent.
func jsonParam(v any, absent bool) (any, error) {
	if absent {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
