package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/rbxup/internal/models"
	"github.com/desertthunder/rbxup/internal/shared"
)

// ReuploadRepository implements models.Repository[*models.ReuploadRecord].
//
// Handles reupload history CRUD with soft delete support and batch/status queries.
type ReuploadRepository struct {
	db *sql.DB
}

// NewReuploadRepository creates a new ReuploadRepository with the given database connection
func NewReuploadRepository(db *sql.DB) *ReuploadRepository {
	return &ReuploadRepository{db: db}
}

var _ models.Repository[*models.ReuploadRecord] = (*ReuploadRepository)(nil)

// Create inserts a new history record with a generated ID and sequence
func (r *ReuploadRepository) Create(record *models.ReuploadRecord) error {
	sequence, err := NextSequence(r.db, "reuploads")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	record.SetID(shared.GenerateID())
	record.SetSequence(sequence)

	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO reuploads (
			id, sequence, batch_id, source_id, new_id, asset_kind,
			name, status, error_message, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var newID any
	if id := record.NewID(); id != nil {
		newID = *id
	}

	var errorMessage any = record.ErrorMessage()
	if errorMessage == "" {
		errorMessage = nil
	}

	_, err = r.db.Exec(query,
		record.ID(),
		record.Sequence(),
		record.BatchID(),
		record.SourceID(),
		newID,
		record.AssetKind(),
		record.Name(),
		record.Status(),
		errorMessage,
		record.CreatedAt(),
		record.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert reupload record: %w", err)
	}

	return nil
}

// Get retrieves a history record by ID, excluding soft-deleted rows
func (r *ReuploadRepository) Get(id string) (*models.ReuploadRecord, error) {
	query := selectColumns + ` WHERE id = ? AND deleted_at IS NULL`

	row := r.db.QueryRow(query, id)
	record, err := scanRecord(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("reupload record not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan reupload record: %w", err)
	}
	return record, nil
}

// Update modifies an existing history record
func (r *ReuploadRepository) Update(record *models.ReuploadRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	record.SetUpdatedAt(now)

	query := `
		UPDATE reuploads
		SET new_id = ?, status = ?, error_message = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	var newID any
	if id := record.NewID(); id != nil {
		newID = *id
	}

	var errorMessage any = record.ErrorMessage()
	if errorMessage == "" {
		errorMessage = nil
	}

	result, err := r.db.Exec(query, newID, record.Status(), errorMessage, now, record.ID())
	if err != nil {
		return fmt.Errorf("failed to update reupload record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("reupload record not found or already deleted: %s", record.ID())
	}

	return nil
}

// Delete soft-deletes a history record by ID
func (r *ReuploadRepository) Delete(id string) error {
	query := `
		UPDATE reuploads
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete reupload record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("reupload record not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves history records matching the given criteria, excluding
// soft-deleted rows. Supported criteria: batch_id, status, source_id.
func (r *ReuploadRepository) List(criteria map[string]any) ([]*models.ReuploadRecord, error) {
	query := selectColumns + ` WHERE deleted_at IS NULL`
	args := []any{}

	if batchID, ok := criteria["batch_id"].(string); ok && batchID != "" {
		query += " AND batch_id = ?"
		args = append(args, batchID)
	}

	if status, ok := criteria["status"].(string); ok && status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}

	if sourceID, ok := criteria["source_id"].(int64); ok && sourceID != 0 {
		query += " AND source_id = ?"
		args = append(args, sourceID)
	}

	query += " ORDER BY sequence DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reupload records: %w", err)
	}
	defer rows.Close()

	var records []*models.ReuploadRecord
	for rows.Next() {
		record, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reupload record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

const selectColumns = `
	SELECT
		id, sequence, batch_id, source_id, new_id, asset_kind,
		name, status, error_message, created_at, updated_at, deleted_at
	FROM reuploads
`

// scanRecord hydrates one row via the provided Scan function, shared between
// QueryRow and Rows iteration.
func scanRecord(scan func(dest ...any) error) (*models.ReuploadRecord, error) {
	var (
		id           string
		sequence     int
		batchID      string
		sourceID     int64
		newID        sql.NullInt64
		assetKind    string
		name         string
		status       string
		errorMessage sql.NullString
		createdAt    time.Time
		updatedAt    time.Time
		deletedAt    sql.NullTime
	)

	err := scan(
		&id, &sequence, &batchID, &sourceID, &newID, &assetKind,
		&name, &status, &errorMessage, &createdAt, &updatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	record := models.NewReuploadRecord(sequence, batchID, sourceID, assetKind, name, status)
	record.SetID(id)
	record.SetCreatedAt(createdAt)
	record.SetUpdatedAt(updatedAt)

	if newID.Valid {
		n := newID.Int64
		record.SetNewID(&n)
	}
	if errorMessage.Valid {
		record.SetErrorMessage(errorMessage.String)
	}
	if deletedAt.Valid {
		record.SetDeletedAt(&deletedAt.Time)
	}

	return record, nil
}
