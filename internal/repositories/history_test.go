package repositories

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/resumatch/resumatch/internal/models"
)

func newTestRepo(t *testing.T) HistoryRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.HistoryRecord{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return NewHistoryRepository(db)
}

func TestRecordAssignsID(t *testing.T) {
	repo := newTestRepo(t)

	rec := &models.HistoryRecord{JobDescription: "Go developer", MatchScore: 50}
	require.NoError(t, repo.Record(rec))
	assert.NotEqual(t, uuid.Nil, rec.ID)
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestListAllMostRecentFirst(t *testing.T) {
	repo := newTestRepo(t)
	base := time.Now().Add(-time.Hour)

	for i, jd := range []string{"first", "second", "third"} {
		require.NoError(t, repo.Record(&models.HistoryRecord{
			RoleTemplate:   "backend",
			JobDescription: jd,
			MatchScore:     float64(i * 10),
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
		}))
	}

	all, err := repo.ListAll(0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].JobDescription)
	assert.Equal(t, "second", all[1].JobDescription)
	assert.Equal(t, "first", all[2].JobDescription)
	assert.Equal(t, "backend", all[0].RoleTemplate)
	assert.Equal(t, 20.0, all[0].MatchScore)

	limited, err := repo.ListAll(2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "third", limited[0].JobDescription)
}

func TestListAllEmpty(t *testing.T) {
	repo := newTestRepo(t)

	all, err := repo.ListAll(10)
	require.NoError(t, err)
	assert.Empty(t, all)
}
