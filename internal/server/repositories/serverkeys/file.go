package serverkeys

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/gophattend/internal/common"
	"github.com/dmitrijs2005/gophattend/internal/filex"
	"github.com/dmitrijs2005/gophattend/internal/server/models"
)

type fileRecord struct {
	PublicKey  string    `json:"public_key"`
	PrivateKey string    `json:"private_key"`
	Sealed     bool      `json:"sealed,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// FileRepository keeps the identity in a JSON file readable only by the
// owner.
type FileRepository struct {
	path string
}

func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

func (r *FileRepository) Get(ctx context.Context) (*models.ServerIdentity, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("read key file: %w", err)
	}

	var rec fileRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode key file %s: %w", r.path, err)
	}
	if rec.PublicKey == "" || rec.PrivateKey == "" {
		return nil, fmt.Errorf("key file %s: %w", r.path, common.ErrInvalidKey)
	}

	return &models.ServerIdentity{
		PublicKey:  rec.PublicKey,
		PrivateKey: rec.PrivateKey,
		Sealed:     rec.Sealed,
		CreatedAt:  rec.CreatedAt,
	}, nil
}

func (r *FileRepository) Save(ctx context.Context, id *models.ServerIdentity) error {
	data, err := json.MarshalIndent(fileRecord{
		PublicKey:  id.PublicKey,
		PrivateKey: id.PrivateKey,
		Sealed:     id.Sealed,
		CreatedAt:  id.CreatedAt,
	}, "", "  ")
	if err != nil {
		return err
	}

	if err := filex.WritePrivateFile(r.path, data); err != nil {
		return fmt.Errorf("write key file: %w", err)
	}
	return nil
}
