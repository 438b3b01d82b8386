package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"finconsole/config"
	"finconsole/models"
)

func openMemory(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, Use(db))
	t.Cleanup(func() {
		_ = sqlDB.Close()
		Database = DbInstance{}
	})
}

func TestRecordCommitAndRecentCommits(t *testing.T) {
	openMemory(t)

	RecordCommit(models.CommitAudit{SessionID: "S1", Kind: "saving", Action: models.ActionCreate, OwnerID: "U001", Outcome: models.OutcomeSuccess})
	RecordCommit(models.CommitAudit{SessionID: "S1", Kind: "fd", Action: models.ActionDelete, OwnerID: "U002", Outcome: models.OutcomeFailed})
	RecordCommit(models.CommitAudit{SessionID: "S2", Kind: "rd", Action: models.ActionUpdate, OwnerID: "U003", Outcome: models.OutcomeSuccess})

	audits, err := RecentCommits("S1", 10)
	require.NoError(t, err)
	require.Len(t, audits, 2)
	assert.Equal(t, "fd", audits[0].Kind)
	assert.Equal(t, models.OutcomeFailed, audits[0].Outcome)
	assert.Equal(t, "saving", audits[1].Kind)
}

func TestTrackLogin(t *testing.T) {
	openMemory(t)

	TrackLogin("admin", "S1", "127.0.0.1", "curl", true)
	var logins []models.AdminLogin
	require.NoError(t, Database.Db.Find(&logins).Error)
	require.Len(t, logins, 1)
	assert.True(t, logins[0].Success)
	assert.Equal(t, "S1", logins[0].SessionID)
}

func TestHelpersWithoutConnection(t *testing.T) {
	Database = DbInstance{}
	RecordCommit(models.CommitAudit{Kind: "saving"})
	TrackLogin("admin", "", "", "", false)
	audits, err := RecentCommits("S1", 5)
	assert.NoError(t, err)
	assert.Empty(t, audits)
}

func TestDialector(t *testing.T) {
	for _, driver := range []string{"postgres", "mysql", "sqlite", ""} {
		d, err := dialector(&config.Config{DBDriver: driver, DBName: "console.db"})
		require.NoError(t, err, driver)
		assert.NotNil(t, d)
	}
	_, err := dialector(&config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}
