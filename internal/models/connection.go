package models

import (
	"time"

	"github.com/google/uuid"
)

// Connection is a registered target database, persisted in the metadata store.
// The password is stored AES-GCM encrypted and never serialized.
type Connection struct {
	ID                uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name              string    `json:"name" gorm:"not null"`
	Dialect           string    `json:"dialect" gorm:"not null"` // postgres, mysql, sqlite, mssql
	Host              string    `json:"host"`
	Port              int       `json:"port"`
	Username          string    `json:"username"`
	PasswordEncrypted string    `json:"-"`
	Database          string    `json:"database"`
	FilePath          string    `json:"file_path"` // sqlite only
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (c *Connection) Prepare() {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
}
