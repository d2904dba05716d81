package constants

const (
	// Context Keys
	ContextKeyIsLoggedIn = "isLoggedIn"
	ContextKeySettings   = "settings"
	ContextKeyUserID     = "userID"

	// Session Keys
	SessionKeyUserID       = "user_id"
	SessionKeySuccessFlash = "success_flash"

	// Setting Keys
	SettingSiteTitle       = "site_title"
	SettingSiteDescription = "site_description"
	SettingSiteLogo        = "site_logo"
	SettingAPIToken        = "api_token"
	SettingOpenAIBaseURL   = "openai_base_url"
	SettingOpenAIToken     = "openai_token"
	SettingOpenAIModel     = "openai_model"

	// Backup Setting Keys
	SettingGithubRepo           = "github_repo"
	SettingGithubBranch         = "github_branch"
	SettingGithubToken          = "github_token"
	SettingGithubBackupCron     = "github_backup_cron"
	SettingGithubLastBackupHash = "github_last_backup_hash"
	SettingWebdavURL            = "webdav_url"
	SettingWebdavUser           = "webdav_user"
	SettingWebdavPassword       = "webdav_password"
	SettingWebdavBackupCron     = "webdav_backup_cron"
	SettingWebdavLastBackupHash = "webdav_last_backup_hash"
	SettingBackupPassword       = "backup_password"

	// Tables addressable by the content loader.
	TablePosts = "posts"
	TablePages = "pages"
)
