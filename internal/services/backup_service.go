package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/fmujezinovic/mojblog/internal/constants"
	"github.com/fmujezinovic/mojblog/internal/models"

	"github.com/google/go-github/v39/github"
	"github.com/yeka/zip"
	"golang.org/x/oauth2"
)

var ErrBackupNoChange = errors.New("no changes since last backup")

// BackupService exports posts, pages, categories and settings as an
// encrypted zip and ships it to GitHub and/or a WebDAV server. A content
// hash skips uploads when nothing changed.
type BackupService struct {
	PostService     *PostService
	PageService     *PageService
	CategoryService *CategoryService
	SettingService  *SettingService
}

func NewBackupService(postService *PostService, pageService *PageService, categoryService *CategoryService, settingService *SettingService) *BackupService {
	return &BackupService{
		PostService:     postService,
		PageService:     pageService,
		CategoryService: categoryService,
		SettingService:  settingService,
	}
}

func (s *BackupService) generateBackupDataAndHash() (*models.SiteBackup, string, error) {
	posts, err := s.PostService.GetAllPostsForBackup()
	if err != nil {
		return nil, "", fmt.Errorf("failed to export posts: %w", err)
	}

	pages, err := s.PageService.GetAllPagesForBackup()
	if err != nil {
		return nil, "", fmt.Errorf("failed to export pages: %w", err)
	}

	categories, err := s.CategoryService.GetAllCategories()
	if err != nil {
		return nil, "", fmt.Errorf("failed to export categories: %w", err)
	}
	categoryNames := make([]string, len(categories))
	for i, c := range categories {
		categoryNames[i] = c.Name
	}

	settings, err := s.SettingService.GetAllSettings()
	if err != nil {
		return nil, "", fmt.Errorf("failed to export settings: %w", err)
	}

	// The hash markers themselves must not influence the hash.
	delete(settings, constants.SettingGithubLastBackupHash)
	delete(settings, constants.SettingWebdavLastBackupHash)

	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	stableSettings := make(map[string]string)
	for _, k := range keys {
		stableSettings[k] = settings[k]
	}

	backupData := &models.SiteBackup{
		Posts:      posts,
		Pages:      pages,
		Categories: categoryNames,
		Settings:   stableSettings,
	}

	jsonData, err := json.Marshal(backupData)
	if err != nil {
		return nil, "", fmt.Errorf("failed to serialize backup: %w", err)
	}

	hash := sha256.Sum256(jsonData)
	return backupData, hex.EncodeToString(hash[:]), nil
}

func (s *BackupService) BackupToGithub(repoName, branch, token string) error {
	backupData, newHash, err := s.generateBackupDataAndHash()
	if err != nil {
		return err
	}

	lastHash, _ := s.SettingService.GetSetting(constants.SettingGithubLastBackupHash)
	if newHash == lastHash {
		return ErrBackupNoChange
	}

	backupContent, err := s.createEncryptedBackup(backupData)
	if err != nil {
		return fmt.Errorf("failed to create backup archive: %w", err)
	}

	parts := strings.Split(repoName, "/")
	if len(parts) != 2 {
		return fmt.Errorf("invalid repository name, expected 'user/repo'")
	}
	owner, repo := parts[0], parts[1]
	path := fmt.Sprintf("mojblog_backup_%s.zip", time.Now().Format("20060102150405"))
	message := "Automated backup from mojblog"

	ctx := context.Background()
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)
	client := github.NewClient(tc)

	opts := &github.RepositoryContentFileOptions{
		Message: &message,
		Content: backupContent,
		Branch:  &branch,
	}

	_, _, err = client.Repositories.CreateFile(ctx, owner, repo, path, opts)
	if err != nil {
		fileContent, _, _, getErr := client.Repositories.GetContents(ctx, owner, repo, path, &github.RepositoryContentGetOptions{Ref: branch})
		if getErr != nil {
			return fmt.Errorf("failed to create backup file and could not read the existing one: %w", err)
		}
		opts.SHA = fileContent.SHA
		_, _, updateErr := client.Repositories.UpdateFile(ctx, owner, repo, path, opts)
		if updateErr != nil {
			return fmt.Errorf("failed to update existing GitHub backup file: %w", updateErr)
		}
	}

	return s.SettingService.UpdateSettings(map[string]string{
		constants.SettingGithubLastBackupHash: newHash,
	})
}

func (s *BackupService) BackupToWebdav(url, user, password string) error {
	backupData, newHash, err := s.generateBackupDataAndHash()
	if err != nil {
		return err
	}

	lastHash, _ := s.SettingService.GetSetting(constants.SettingWebdavLastBackupHash)
	if newHash == lastHash {
		return ErrBackupNoChange
	}

	backupContent, err := s.createEncryptedBackup(backupData)
	if err != nil {
		return fmt.Errorf("failed to create backup archive: %w", err)
	}

	fileName := fmt.Sprintf("mojblog_backup_%s.zip", time.Now().Format("20060102150405"))
	if !strings.HasSuffix(url, "/") {
		url += "/"
	}
	fullURL := url + fileName

	req, err := http.NewRequest(http.MethodPut, fullURL, bytes.NewReader(backupContent))
	if err != nil {
		return fmt.Errorf("failed to create WebDAV request: %w", err)
	}

	if user != "" && password != "" {
		req.SetBasicAuth(user, password)
	}
	req.Header.Set("Content-Type", "application/zip")

	client := &http.Client{Timeout: 120 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to upload to WebDAV server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("WebDAV server returned %s: %s", resp.Status, string(body))
	}

	return s.SettingService.UpdateSettings(map[string]string{
		constants.SettingWebdavLastBackupHash: newHash,
	})
}

func (s *BackupService) createEncryptedBackup(backupData *models.SiteBackup) ([]byte, error) {
	password, err := s.SettingService.GetSetting(constants.SettingBackupPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup password: %w", err)
	}
	if password == "" {
		return nil, fmt.Errorf("backup password is not set; refusing to create an unencrypted backup")
	}

	jsonData, err := json.MarshalIndent(backupData, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize backup: %w", err)
	}

	buf := new(bytes.Buffer)
	zipWriter := zip.NewWriter(buf)
	zipFile, err := zipWriter.Encrypt("backup.json", password, zip.AES256Encryption)
	if err != nil {
		return nil, fmt.Errorf("failed to create encrypted zip entry: %w", err)
	}
	if _, err := zipFile.Write(jsonData); err != nil {
		return nil, fmt.Errorf("failed to write encrypted zip entry: %w", err)
	}
	if err := zipWriter.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize zip: %w", err)
	}

	return buf.Bytes(), nil
}

func (s *BackupService) TestGithubConnection(repoName, token string) error {
	if repoName == "" || token == "" {
		return fmt.Errorf("repository name and token are required")
	}

	parts := strings.Split(repoName, "/")
	if len(parts) != 2 {
		return fmt.Errorf("invalid repository name, expected 'user/repo'")
	}
	owner, repo := parts[0], parts[1]

	ctx := context.Background()
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	client := github.NewClient(tc)

	_, _, err := client.Repositories.Get(ctx, owner, repo)
	if err != nil {
		_, _, userErr := client.Users.Get(ctx, "")
		if userErr != nil {
			return fmt.Errorf("cannot reach GitHub and the token is invalid: %v", userErr)
		}
		return fmt.Errorf("cannot access the GitHub repository (check name and permissions): %v", err)
	}

	return nil
}

func (s *BackupService) TestWebdavConnection(url, user, password string) error {
	if url == "" {
		return fmt.Errorf("server address is required")
	}

	req, err := http.NewRequest("OPTIONS", url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}

	if user != "" && password != "" {
		req.SetBasicAuth(user, password)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to WebDAV server: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	return fmt.Errorf("WebDAV server returned %s", resp.Status)
}
