package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"schemabridge/internal/database"
	"schemabridge/internal/models"
	"schemabridge/internal/repositories"
	"schemabridge/internal/utils"
)

// RegisterConnectionRequest is the payload for registering a target database.
type RegisterConnectionRequest struct {
	Name     string `json:"name" binding:"required"`
	Dialect  string `json:"dialect" binding:"required"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	Database string `json:"database"`
	FilePath string `json:"file_path"`
}

// ConnectionService manages registered target databases and their live
// sessions. Sessions open lazily on first use and are reused until the
// connection is disconnected.
type ConnectionService struct {
	connRepo *repositories.ConnectionRepository
	cache    *repositories.RedisRepository
	log      *logrus.Logger

	mu       sync.Mutex
	sessions map[uuid.UUID]*database.Session
}

func NewConnectionService(connRepo *repositories.ConnectionRepository, cache *repositories.RedisRepository, log *logrus.Logger) *ConnectionService {
	return &ConnectionService{
		connRepo: connRepo,
		cache:    cache,
		log:      log,
		sessions: make(map[uuid.UUID]*database.Session),
	}
}

// Register validates and persists a connection. The password is encrypted
// before it touches the store; no session is opened yet.
func (s *ConnectionService) Register(req RegisterConnectionRequest) (*models.Connection, error) {
	dialect, err := database.ParseDialect(req.Dialect)
	if err != nil {
		return nil, err
	}
	if dialect == database.SQLite {
		if req.FilePath == "" {
			return nil, fmt.Errorf("file_path is required for sqlite connections")
		}
	} else if req.Host == "" || req.Database == "" {
		return nil, fmt.Errorf("host and database are required for %s connections", dialect)
	}

	encrypted := ""
	if req.Password != "" {
		encrypted, err = utils.EncryptString(req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt password: %w", err)
		}
	}

	conn := &models.Connection{
		Name:              req.Name,
		Dialect:           string(dialect),
		Host:              req.Host,
		Port:              req.Port,
		Username:          req.Username,
		PasswordEncrypted: encrypted,
		Database:          req.Database,
		FilePath:          req.FilePath,
	}
	if err := s.connRepo.Create(conn); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"connection": conn.ID, "dialect": conn.Dialect}).Info("connection registered")
	return conn, nil
}

// List returns every registered connection.
func (s *ConnectionService) List() ([]models.Connection, error) {
	return s.connRepo.List()
}

// Get returns one registered connection, or nil when unknown.
func (s *ConnectionService) Get(id uuid.UUID) (*models.Connection, error) {
	return s.connRepo.GetByID(id)
}

// Session returns the live session for a connection, opening and pinging it
// on first use.
func (s *ConnectionService) Session(ctx context.Context, id uuid.UUID) (*database.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		return sess, nil
	}

	conn, err := s.connRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if conn == nil {
		return nil, fmt.Errorf("connection %s not found", id)
	}

	password := ""
	if conn.PasswordEncrypted != "" {
		password, err = utils.DecryptString(conn.PasswordEncrypted)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt connection password: %w", err)
		}
	}

	dialect, err := database.ParseDialect(conn.Dialect)
	if err != nil {
		return nil, err
	}
	db, err := database.OpenTarget(database.TargetConfig{
		Dialect:  dialect,
		Host:     conn.Host,
		Port:     conn.Port,
		Username: conn.Username,
		Password: password,
		Database: conn.Database,
		FilePath: conn.FilePath,
	})
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("target database unreachable: %w", err)
	}

	sess := database.NewSession(conn.ID, dialect, db)
	s.sessions[id] = sess
	s.log.WithFields(logrus.Fields{"connection": id, "dialect": dialect}).Info("session opened")
	return sess, nil
}

// Disconnect closes the live session, drops the cached discovery snapshot
// and deletes the registration.
func (s *ConnectionService) Disconnect(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	if sess, ok := s.sessions[id]; ok {
		if err := sess.Close(); err != nil {
			s.log.WithError(err).Warn("error closing session")
		}
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.InvalidateSnapshot(ctx, id); err != nil {
			s.log.WithError(err).Warn("failed to invalidate discovery snapshot")
		}
	}
	return s.connRepo.Delete(id)
}

// CloseAll tears down every live session, used on server shutdown.
func (s *ConnectionService) CloseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		if err := sess.Close(); err != nil {
			s.log.WithError(err).Warn("error closing session")
		}
		delete(s.sessions, id)
	}
}
