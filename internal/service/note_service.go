package service

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"time"

	"github.com/noteshare/noteshare-backend/internal/models"
	"github.com/noteshare/noteshare-backend/internal/repository"
	"github.com/noteshare/noteshare-backend/pkg/email"
	"github.com/noteshare/noteshare-backend/pkg/jwt"
	"github.com/noteshare/noteshare-backend/pkg/storage"
	"github.com/noteshare/noteshare-backend/pkg/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const downloadLinkExpiry = 15 * time.Minute

type UploadNoteInput struct {
	Title       string
	Description string
	Subject     string
	Level       string
	Price       float64
}

type NoteService struct {
	noteRepo       *repository.NoteRepository
	purchaseRepo   *repository.PurchaseRepository
	reviewRepo     *repository.ReviewRepository
	storage        storage.FileStorage
	emailService   *email.EmailService
	downloadSecret []byte
	logger         *zap.Logger
}

func NewNoteService(
	noteRepo *repository.NoteRepository,
	purchaseRepo *repository.PurchaseRepository,
	reviewRepo *repository.ReviewRepository,
	fileStorage storage.FileStorage,
	emailService *email.EmailService,
	downloadSecret string,
	logger *zap.Logger,
) *NoteService {
	return &NoteService{
		noteRepo:       noteRepo,
		purchaseRepo:   purchaseRepo,
		reviewRepo:     reviewRepo,
		storage:        fileStorage,
		emailService:   emailService,
		downloadSecret: []byte(downloadSecret),
		logger:         logger,
	}
}

func (s *NoteService) List(q models.NoteListQuery) (*models.NoteListResponse, error) {
	notes, total, err := s.noteRepo.List(q)
	if err != nil {
		return nil, err
	}
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	return &models.NoteListResponse{
		Notes: notes,
		Total: total,
		Page:  q.Page,
		Limit: q.Limit,
	}, nil
}

// GetPublished returns one published note and bumps its view counter.
func (s *NoteService) GetPublished(id uint) (*models.Note, error) {
	note, err := s.noteRepo.GetPublishedByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.noteRepo.IncrementViews(note.ID); err != nil {
		s.logger.Warn("failed to bump note views", zap.Uint("note_id", note.ID), zap.Error(err))
	}
	return note, nil
}

// Upload stores the file and creates the note in pending status. Notes are
// published only through moderation, never automatically.
func (s *NoteService) Upload(seller *models.User, input UploadNoteInput, fileHeader *multipart.FileHeader) (*models.Note, error) {
	if input.Title == "" {
		return nil, NewValidationError("title is required")
	}
	if input.Subject == "" {
		return nil, NewValidationError("subject is required")
	}
	if input.Price < models.MinNotePrice {
		return nil, NewValidationError("minimum price is $0.99")
	}
	if input.Price > models.MaxNotePrice {
		return nil, NewValidationError("maximum price is $99.99")
	}
	if fileHeader == nil {
		return nil, NewValidationError("file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	key := fmt.Sprintf("notes/%d/%s%s", seller.ID, mustRandomKey(), filepath.Ext(fileHeader.Filename))

	if err := s.storage.Upload(key, file, fileHeader.Size, contentType); err != nil {
		return nil, fmt.Errorf("failed to store note file: %w", err)
	}

	note := &models.Note{
		SellerID:    seller.ID,
		Title:       input.Title,
		Description: input.Description,
		Subject:     input.Subject,
		Level:       input.Level,
		Price:       input.Price,
		Status:      models.NoteStatusPending,
		FileKey:     key,
		FileName:    fileHeader.Filename,
		FileSize:    fileHeader.Size,
		MimeType:    contentType,
	}
	if err := s.noteRepo.Create(note); err != nil {
		// best effort: don't leave an orphaned file behind
		if delErr := s.storage.Delete(key); delErr != nil {
			s.logger.Warn("failed to remove orphaned file", zap.String("key", key), zap.Error(delErr))
		}
		return nil, err
	}

	if s.emailService != nil {
		go func() {
			if err := s.emailService.SendModerationAlert(note.ID, note.Title, seller.ID); err != nil {
				s.logger.Warn("moderation alert email failed", zap.Error(err))
			}
		}()
	}

	return note, nil
}

// Download produces a time-limited retrieval handle for a purchased note.
// Sellers can always download their own files.
func (s *NoteService) Download(user *models.User, noteID uint) (*models.DownloadResponse, error) {
	note, err := s.noteRepo.GetByID(noteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if note.SellerID != user.ID {
		if _, err := s.purchaseRepo.GetCompletedForNoteAndBuyer(note.ID, user.ID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrForbidden
			}
			return nil, err
		}
	}

	expiresAt := time.Now().Add(downloadLinkExpiry)

	url, err := s.storage.PresignedURL(note.FileKey, downloadLinkExpiry)
	if err != nil {
		return nil, err
	}
	if url == "" {
		// local storage: sign a one-file download token served by our own
		// streaming endpoint
		token, err := jwt.GenerateDownloadToken(s.downloadSecret, jwt.DownloadClaims{
			FileKey:  note.FileKey,
			FileName: note.FileName,
			MimeType: note.MimeType,
			UserID:   user.ID,
		})
		if err != nil {
			return nil, err
		}
		url = "/api/notes/download/" + token
	}

	return &models.DownloadResponse{
		URL:       url,
		FileName:  note.FileName,
		ExpiresAt: expiresAt,
	}, nil
}

// OpenByToken resolves a signed download token to the underlying file.
func (s *NoteService) OpenByToken(token string) (io.ReadCloser, *jwt.DownloadClaims, error) {
	claims, err := jwt.ValidateDownloadToken(s.downloadSecret, token)
	if err != nil {
		return nil, nil, ErrUnauthorized
	}

	rc, err := s.storage.Open(claims.FileKey)
	if err != nil {
		return nil, nil, ErrNotFound
	}
	return rc, claims, nil
}

func (s *NoteService) GetReviews(noteID uint) ([]models.Review, error) {
	if _, err := s.noteRepo.GetPublishedByID(noteID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.reviewRepo.GetByNote(noteID)
}

func (s *NoteService) GetSellerNotes(sellerID uint) ([]models.Note, error) {
	return s.noteRepo.GetBySeller(sellerID)
}

// CreateReview accepts a review from a buyer with a completed purchase and
// refreshes the note's average rating.
func (s *NoteService) CreateReview(user *models.User, noteID uint, req models.CreateReviewRequest) (*models.Review, error) {
	note, err := s.noteRepo.GetPublishedByID(noteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if _, err := s.purchaseRepo.GetCompletedForNoteAndBuyer(note.ID, user.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrForbidden
		}
		return nil, err
	}

	exists, err := s.reviewRepo.ExistsForNoteAndUser(note.ID, user.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyReviewed
	}

	review := &models.Review{
		NoteID:  note.ID,
		UserID:  user.ID,
		Rating:  req.Rating,
		Comment: req.Comment,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		return nil, err
	}

	if err := s.noteRepo.RefreshRating(note.ID); err != nil {
		s.logger.Warn("failed to refresh note rating", zap.Uint("note_id", note.ID), zap.Error(err))
	}
	return review, nil
}

func mustRandomKey() string {
	token, err := utils.GenerateSessionToken()
	if err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return token[:16]
}
