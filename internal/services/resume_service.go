package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/offerready/interviewai/internal/models"
	"github.com/offerready/interviewai/internal/repositories/postgres"
	"github.com/offerready/interviewai/internal/storage"
	"github.com/offerready/interviewai/internal/utils"
)

const maxResumeSize = 10 << 20 // 10 MiB

var allowedResumeTypes = map[string]bool{
	"application/pdf": true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"text/plain": true,
}

type UploadResumeParams struct {
	UserID   string
	FileName string
	MimeType string
	Size     int
	Body     io.Reader
}

// ResumeService stores uploaded resume files in object storage and keeps the
// metadata rows for per-user listing.
type ResumeService interface {
	Upload(ctx context.Context, p UploadResumeParams) (*models.ResumeFile, error)
	List(ctx context.Context, userID string, limit int) ([]models.ResumeFile, error)
	// DownloadURL returns a short-lived signed URL for a stored file.
	DownloadURL(ctx context.Context, objectKey string) (string, error)
}

type resumeService struct {
	files    postgres.ResumeFileRepository
	uploader storage.Uploader
	signer   storage.Signer
	log      *logrus.Entry
}

func NewResumeService(files postgres.ResumeFileRepository, uploader storage.Uploader, signer storage.Signer, log *logrus.Entry) ResumeService {
	return &resumeService{files: files, uploader: uploader, signer: signer, log: log}
}

func (s *resumeService) Upload(ctx context.Context, p UploadResumeParams) (*models.ResumeFile, error) {
	const op = "ResumeService.Upload"

	if s.uploader == nil {
		return nil, utils.E(utils.CodeUnavailable, op, "resume storage is not configured", nil)
	}
	if strings.TrimSpace(p.UserID) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user id is required", nil)
	}
	if p.Size <= 0 || p.Size > maxResumeSize {
		return nil, utils.E(utils.CodeInvalidArgument, op, "file size must be between 1 byte and 10MB", nil)
	}
	if !allowedResumeTypes[p.MimeType] {
		return nil, utils.E(utils.CodeInvalidArgument, op, "unsupported file type: "+p.MimeType, nil)
	}

	ext := path.Ext(p.FileName)
	objectKey := fmt.Sprintf("resumes/%s/%s%s", p.UserID, uuid.NewString(), ext)

	storedPath, err := s.uploader.Upload(ctx, objectKey, p.MimeType, io.LimitReader(p.Body, maxResumeSize))
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to store file", err)
	}

	file := &models.ResumeFile{
		ID:       uuid.NewString(),
		UserID:   p.UserID,
		FileName: p.FileName,
		FilePath: storedPath,
		FileSize: p.Size,
		MimeType: p.MimeType,
		UploadAt: time.Now().UTC(),
	}
	if err := s.files.Insert(ctx, file); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to record file", err)
	}

	s.log.WithFields(logrus.Fields{
		"user_id":   p.UserID,
		"file_path": storedPath,
		"size":      p.Size,
	}).Info("resume uploaded")

	return file, nil
}

func (s *resumeService) List(ctx context.Context, userID string, limit int) ([]models.ResumeFile, error) {
	const op = "ResumeService.List"

	rows, err := s.files.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list files", err)
	}
	return rows, nil
}

func (s *resumeService) DownloadURL(ctx context.Context, objectKey string) (string, error) {
	const op = "ResumeService.DownloadURL"

	if s.signer == nil {
		return "", utils.E(utils.CodeUnavailable, op, "resume storage is not configured", nil)
	}
	url, err := s.signer.SignedGetURL(ctx, objectKey, 15*time.Minute)
	if err != nil {
		return "", utils.E(utils.CodeInternal, op, "failed to sign url", err)
	}
	return url, nil
}
