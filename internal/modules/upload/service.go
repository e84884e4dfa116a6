package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"resortbooking/internal/domain"
	"resortbooking/internal/repository"
)

const (
	MaxFileSize    = 10 * 1024 * 1024
	UploadsBaseDir = "./uploads"
	URLBase        = "/api/v1/uploads"
)

var allowedMimeTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

// Service stores payment receipts on local disk and records their metadata.
type Service struct {
	repo    Repository
	baseDir string
	log     *logrus.Logger
}

func NewService(repo Repository, baseDir string, log *logrus.Logger) *Service {
	if baseDir == "" {
		baseDir = UploadsBaseDir
	}
	return &Service{repo: repo, baseDir: baseDir, log: log}
}

// Upload saves the file under baseDir/YYYY/MM/DD and returns its record. The record ID is the
// reference a payment keeps.
func (s *Service) Upload(ctx context.Context, userID string, fh *multipart.FileHeader) (*domain.Upload, error) {
	if fh.Size == 0 {
		return nil, ErrEmptyFile
	}
	if fh.Size > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	return s.store(ctx, userID, fh.Filename, fh.Size, file)
}

func (s *Service) store(ctx context.Context, userID, name string, size int64, file io.ReadSeeker) (*domain.Upload, error) {
	head := make([]byte, 512)
	n, _ := io.ReadFull(file, head)
	mimeType := strings.Split(http.DetectContentType(head[:n]), ";")[0]
	ext, ok := allowedMimeTypes[mimeType]
	if !ok {
		return nil, ErrInvalidMimeType
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind upload: %w", err)
	}

	now := time.Now().UTC()
	relDir := fmt.Sprintf("%d/%02d/%02d", now.Year(), now.Month(), now.Day())
	absDir := filepath.Join(s.baseDir, relDir)
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	id := uuid.NewString()
	filename := id + "_" + sanitizeName(name) + ext
	absPath := filepath.Join(absDir, filename)

	dst, err := os.Create(absPath)
	if err != nil {
		return nil, fmt.Errorf("create upload file: %w", err)
	}
	written, err := io.Copy(dst, io.LimitReader(file, MaxFileSize+1))
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(absPath)
		return nil, fmt.Errorf("write upload file: %w", err)
	}
	if written > MaxFileSize {
		_ = os.Remove(absPath)
		return nil, ErrFileTooLarge
	}

	rec := &domain.Upload{
		ID:           id,
		UserID:       userID,
		OriginalName: filepath.Base(name),
		FilePath:     filepath.ToSlash(filepath.Join(relDir, filename)),
		FileURL:      URLBase + "/" + id + "/file",
		MimeType:     mimeType,
		Size:         written,
		CreatedAt:    now,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		_ = os.Remove(absPath)
		return nil, fmt.Errorf("save upload record: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"upload_id": id,
		"user_id":   userID,
		"mime_type": mimeType,
		"size":      written,
	}).Info("upload: receipt stored")
	return rec, nil
}

// Get returns the record if identity may see it. Admins see every receipt.
func (s *Service) Get(ctx context.Context, identity domain.Identity, id string) (*domain.Upload, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if rec.UserID != identity.UserID && identity.Role != domain.RoleAdmin {
		return nil, ErrNotOwner
	}
	return rec, nil
}

// Path is the absolute location of rec on disk.
func (s *Service) Path(rec *domain.Upload) string {
	return filepath.Join(s.baseDir, filepath.FromSlash(rec.FilePath))
}

func sanitizeName(name string) string {
	name = filepath.Base(name)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return '_'
	}, name)
	if len(name) > 40 {
		name = name[:40]
	}
	if name == "" || name == "_" {
		return "receipt"
	}
	return name
}
