package repositories

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"schemabridge/internal/models"
)

// ConnectionRepository persists registered target databases in the metadata store.
type ConnectionRepository struct {
	db *gorm.DB
}

func NewConnectionRepository(db *gorm.DB) *ConnectionRepository {
	return &ConnectionRepository{db: db}
}

func (r *ConnectionRepository) Create(conn *models.Connection) error {
	conn.Prepare()
	return r.db.Create(conn).Error
}

func (r *ConnectionRepository) GetByID(id uuid.UUID) (*models.Connection, error) {
	var conn models.Connection
	err := r.db.First(&conn, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

func (r *ConnectionRepository) List() ([]models.Connection, error) {
	var conns []models.Connection
	if err := r.db.Order("created_at").Find(&conns).Error; err != nil {
		return nil, err
	}
	return conns, nil
}

func (r *ConnectionRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Connection{}, "id = ?", id).Error
}
