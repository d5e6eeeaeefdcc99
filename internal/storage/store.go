package storage

import (
	"context"

	"rfp-intake/internal/models"
)

// Store persists users and documents. Implementations report unknown ids
// with an apperr.NotFound error and backend failures with apperr.Store.
type Store interface {
	CreateUser(ctx context.Context, u models.NewUser) (*models.User, error)
	GetUser(ctx context.Context, id int) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	CreateDocument(ctx context.Context, d models.NewDocument) (*models.Document, error)
	GetDocument(ctx context.Context, id int) (*models.Document, error)
	UpdateDocument(ctx context.Context, id int, patch models.DocumentPatch) (*models.Document, error)
	ListDocuments(ctx context.Context) ([]*models.Document, error)

	Close() error
}
