package utils

import (
	"github.com/fmujezinovic/mojblog/internal/models"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func InitDatabase(dbPath string) (*gorm.DB, error) {
	if dbPath == "" {
		dbPath = "blog.db"
	}
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&models.Post{},
		&models.Page{},
		&models.Category{},
		&models.Subscriber{},
		&models.Campaign{},
		&models.User{},
		&models.Setting{},
	)
	if err != nil {
		return nil, err
	}

	// --- FTS5 Setup ---
	// A plain FTS table, not a contentless one: the application layer keeps
	// it in sync on every post create/update/delete.
	ftsTableSQL := `
	CREATE VIRTUAL TABLE IF NOT EXISTS posts_fts USING fts5(
		title,
		content
	);`
	if err := db.Exec(ftsTableSQL).Error; err != nil {
		return nil, err
	}

	if err := seedSettings(db); err != nil {
		return nil, err
	}
	if err := seedAdminUser(db); err != nil {
		return nil, err
	}

	return db, nil
}

// seedSettings populates the database with default settings if they don't exist.
func seedSettings(db *gorm.DB) error {
	defaultSettings := map[string]string{
		"site_title":         "Moj blog",
		"site_logo":          "",
		"site_description":   "Osebni blog",
		"api_token":          "",
		"openai_base_url":    "",
		"openai_token":       "",
		"openai_model":       "gpt-4o-mini",
		"github_repo":        "",
		"github_branch":      "main",
		"github_token":       "",
		"github_backup_cron": "",
		"webdav_url":         "",
		"webdav_user":        "",
		"webdav_password":    "",
		"webdav_backup_cron": "",
		"backup_password":    "",
	}

	for key, value := range defaultSettings {
		setting := models.Setting{Key: key}
		result := db.FirstOrCreate(&setting, models.Setting{Key: key})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			// Only set the value if the record was just created
			setting.Value = value
			db.Save(&setting)
		}
	}

	return nil
}

// seedAdminUser creates the initial dashboard account when no user exists.
// The default password must be changed through the settings page.
func seedAdminUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.User{
		Email:        "admin@localhost",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}
	return db.Create(&admin).Error
}
