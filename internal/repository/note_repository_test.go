package repository

import (
	"fmt"
	"testing"

	"github.com/noteshare/noteshare-backend/internal/models"
	"github.com/noteshare/noteshare-backend/pkg/database"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))
	return db
}

func seedNote(t *testing.T, db *gorm.DB, sellerID uint, title string, price float64, status models.NoteStatus) *models.Note {
	t.Helper()
	note := &models.Note{
		SellerID: sellerID,
		Title:    title,
		Subject:  "math",
		Level:    "university",
		Price:    price,
		Status:   status,
		FileKey:  "notes/" + title,
		FileName: title + ".pdf",
		FileSize: 100,
		MimeType: "application/pdf",
	}
	require.NoError(t, db.Create(note).Error)
	return note
}

func seedSeller(t *testing.T, db *gorm.DB, telegramID int64) *models.User {
	t.Helper()
	user := &models.User{
		TelegramID:   telegramID,
		FirstName:    fmt.Sprintf("seller%d", telegramID),
		Plan:         models.PlanFree,
		Credits:      models.DefaultFreeCredits,
		ReferralCode: fmt.Sprintf("SELL%04d", telegramID),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestListOnlyReturnsPublished(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNoteRepository(db)
	seller := seedSeller(t, db, 1)

	seedNote(t, db, seller.ID, "published", 5, models.NoteStatusPublished)
	seedNote(t, db, seller.ID, "pending", 5, models.NoteStatusPending)
	seedNote(t, db, seller.ID, "rejected", 5, models.NoteStatusRejected)

	notes, total, err := repo.List(models.NoteListQuery{})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, notes, 1)
	require.Equal(t, "published", notes[0].Title)
}

func TestListSortAllowList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNoteRepository(db)
	seller := seedSeller(t, db, 1)

	seedNote(t, db, seller.ID, "cheap", 1.99, models.NoteStatusPublished)
	seedNote(t, db, seller.ID, "expensive", 49.99, models.NoteStatusPublished)

	notes, _, err := repo.List(models.NoteListQuery{Sort: "price", Order: "asc"})
	require.NoError(t, err)
	require.Equal(t, "cheap", notes[0].Title)

	notes, _, err = repo.List(models.NoteListQuery{Sort: "price", Order: "desc"})
	require.NoError(t, err)
	require.Equal(t, "expensive", notes[0].Title)

	// unknown sort keys fall back to created_at instead of reaching SQL
	notes, total, err := repo.List(models.NoteListQuery{Sort: "price; DROP TABLE notes"})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, notes, 2)
}

func TestListFiltersAndPagination(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNoteRepository(db)
	seller := seedSeller(t, db, 1)

	for i := 0; i < 5; i++ {
		seedNote(t, db, seller.ID, fmt.Sprintf("calculus %d", i), float64(i)+1.99, models.NoteStatusPublished)
	}
	biology := seedNote(t, db, seller.ID, "cells", 3.99, models.NoteStatusPublished)
	require.NoError(t, db.Model(biology).Update("subject", "biology").Error)

	notes, total, err := repo.List(models.NoteListQuery{Subject: "biology"})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "cells", notes[0].Title)

	notes, total, err = repo.List(models.NoteListQuery{Search: "CALCULUS"})
	require.NoError(t, err)
	require.Equal(t, int64(5), total)
	require.Len(t, notes, 5)

	notes, total, err = repo.List(models.NoteListQuery{MinPrice: 3, MaxPrice: 5})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, notes, 3)

	notes, total, err = repo.List(models.NoteListQuery{Page: 2, Limit: 4})
	require.NoError(t, err)
	require.Equal(t, int64(6), total)
	require.Len(t, notes, 2)
}

func TestRefreshRating(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNoteRepository(db)
	seller := seedSeller(t, db, 1)
	buyer1 := seedSeller(t, db, 2)
	buyer2 := seedSeller(t, db, 3)

	note := seedNote(t, db, seller.ID, "rated", 5, models.NoteStatusPublished)
	require.NoError(t, db.Create(&models.Review{NoteID: note.ID, UserID: buyer1.ID, Rating: 5}).Error)
	require.NoError(t, db.Create(&models.Review{NoteID: note.ID, UserID: buyer2.ID, Rating: 2}).Error)

	require.NoError(t, repo.RefreshRating(note.ID))

	var stored models.Note
	require.NoError(t, db.First(&stored, note.ID).Error)
	require.Equal(t, 3.5, stored.AvgRating)
}
