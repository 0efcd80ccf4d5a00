package models

import (
	"fmt"
	"time"
)

// ReuploadRecord is one migrated asset in the persisted history.
//
// A record is written per batch item regardless of outcome; failed items keep
// their error message so a batch can be audited or retried later.
type ReuploadRecord struct {
	id           string
	sequence     int
	batchID      string
	sourceID     int64
	newID        *int64
	assetKind    string
	name         string
	status       string
	errorMessage string
	createdAt    time.Time
	updatedAt    time.Time
	deletedAt    *time.Time
}

// NewReuploadRecord creates a history record for one batch item.
func NewReuploadRecord(sequence int, batchID string, sourceID int64, assetKind, name, status string) *ReuploadRecord {
	now := time.Now()
	return &ReuploadRecord{
		sequence:  sequence,
		batchID:   batchID,
		sourceID:  sourceID,
		assetKind: assetKind,
		name:      name,
		status:    status,
		createdAt: now,
		updatedAt: now,
	}
}

func (r *ReuploadRecord) ID() string            { return r.id }
func (r *ReuploadRecord) Sequence() int         { return r.sequence }
func (r *ReuploadRecord) BatchID() string       { return r.batchID }
func (r *ReuploadRecord) SourceID() int64       { return r.sourceID }
func (r *ReuploadRecord) NewID() *int64         { return r.newID }
func (r *ReuploadRecord) AssetKind() string     { return r.assetKind }
func (r *ReuploadRecord) Name() string          { return r.name }
func (r *ReuploadRecord) Status() string        { return r.status }
func (r *ReuploadRecord) ErrorMessage() string  { return r.errorMessage }
func (r *ReuploadRecord) CreatedAt() time.Time  { return r.createdAt }
func (r *ReuploadRecord) UpdatedAt() time.Time  { return r.updatedAt }
func (r *ReuploadRecord) DeletedAt() *time.Time { return r.deletedAt }

func (r *ReuploadRecord) SetID(id string)            { r.id = id }
func (r *ReuploadRecord) SetSequence(n int)          { r.sequence = n }
func (r *ReuploadRecord) SetNewID(id *int64)         { r.newID = id }
func (r *ReuploadRecord) SetStatus(status string)    { r.status = status }
func (r *ReuploadRecord) SetErrorMessage(msg string) { r.errorMessage = msg }
func (r *ReuploadRecord) SetCreatedAt(t time.Time)   { r.createdAt = t }
func (r *ReuploadRecord) SetUpdatedAt(t time.Time)   { r.updatedAt = t }
func (r *ReuploadRecord) SetDeletedAt(t *time.Time)  { r.deletedAt = t }

// Validate checks that the record has the fields every history row requires.
func (r *ReuploadRecord) Validate() error {
	if r.batchID == "" {
		return fmt.Errorf("reupload record requires a batch id")
	}
	if r.sourceID <= 0 {
		return fmt.Errorf("reupload record requires a positive source asset id")
	}
	if r.status == "" {
		return fmt.Errorf("reupload record requires a status")
	}
	return nil
}
