package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/pimsync/connector/internal/domain/export"
)

// ExportModel is the persistence model of one export run.
type ExportModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key"`
	ChannelID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Status    string     `gorm:"type:varchar(20);not null"`
	StartedAt time.Time  `gorm:"not null;index"`
	EndedAt   *time.Time `gorm:""`
}

// TableName returns the table name for GORM
func (ExportModel) TableName() string {
	return "exports"
}

// ToDomain converts the persistence model to a domain Export.
func (m *ExportModel) ToDomain() *export.Export {
	return &export.Export{
		ID:        m.ID,
		ChannelID: m.ChannelID,
		Status:    export.Status(m.Status),
		StartedAt: m.StartedAt,
		EndedAt:   m.EndedAt,
	}
}

// FromDomain populates the persistence model from a domain Export.
func (m *ExportModel) FromDomain(e *export.Export) {
	m.ID = e.ID
	m.ChannelID = e.ChannelID
	m.Status = string(e.Status)
	m.StartedAt = e.StartedAt
	m.EndedAt = e.EndedAt
}

// ExportLineModel is the per-unit progress row of a run.
type ExportLineModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key"`
	ExportID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	ObjectID    uuid.UUID  `gorm:"type:uuid;not null"`
	ProcessedAt *time.Time `gorm:""`
	Error       string     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ExportLineModel) TableName() string {
	return "export_lines"
}

// ToDomain converts the persistence model to a domain Line.
func (m *ExportLineModel) ToDomain() export.Line {
	return export.Line{
		ID:          m.ID,
		ExportID:    m.ExportID,
		ObjectID:    m.ObjectID,
		ProcessedAt: m.ProcessedAt,
		Error:       m.Error,
	}
}

// FromDomain populates the persistence model from a domain Line.
func (m *ExportLineModel) FromDomain(line export.Line) {
	m.ID = line.ID
	m.ExportID = line.ExportID
	m.ObjectID = line.ObjectID
	m.ProcessedAt = line.ProcessedAt
	m.Error = line.Error
}

// ExportErrorModel is one entry of a run's append-only error log.
type ExportErrorModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key"`
	ExportID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Message        string    `gorm:"type:text;not null"`
	ParametersJSON string    `gorm:"column:parameters;type:jsonb"`
	CreatedAt      time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ExportErrorModel) TableName() string {
	return "export_errors"
}

// ToDomain converts the persistence model to a domain Error.
func (m *ExportErrorModel) ToDomain() (export.Error, error) {
	var parameters map[string]string
	if m.ParametersJSON != "" {
		if err := json.Unmarshal([]byte(m.ParametersJSON), &parameters); err != nil {
			return export.Error{}, err
		}
	}
	return export.Error{
		ID:         m.ID,
		ExportID:   m.ExportID,
		Message:    m.Message,
		Parameters: parameters,
		CreatedAt:  m.CreatedAt,
	}, nil
}

// FromDomain populates the persistence model from a domain Error.
func (m *ExportErrorModel) FromDomain(e export.Error) error {
	m.ID = e.ID
	m.ExportID = e.ExportID
	m.Message = e.Message
	m.CreatedAt = e.CreatedAt
	if e.Parameters != nil {
		raw, err := json.Marshal(e.Parameters)
		if err != nil {
			return err
		}
		m.ParametersJSON = string(raw)
	}
	return nil
}
