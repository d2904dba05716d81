package tasks

import (
	"errors"
	"log"
	"runtime/debug"
	"sync"
	"time"

	"github.com/fmujezinovic/mojblog/internal/constants"
	"github.com/fmujezinovic/mojblog/internal/services"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the recurring jobs: publishing scheduled drafts and the
// remote backups. Backup schedules come from the settings table, so the
// whole task set is rebuilt whenever settings change.
type Scheduler struct {
	cron           *cron.Cron
	settingService *services.SettingService
	backupService  *services.BackupService
	postService    *services.PostService
	mu             sync.Mutex
}

func NewScheduler(settingService *services.SettingService, backupService *services.BackupService, postService *services.PostService) *Scheduler {
	return &Scheduler{
		cron:           cron.New(),
		settingService: settingService,
		backupService:  backupService,
		postService:    postService,
	}
}

func (s *Scheduler) Start() {
	log.Println("scheduler starting")
	s.ReloadTasks()
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		s.cron.Stop()
	}
}

// ReloadTasks tears the cron instance down and rebuilds every job from the
// current settings.
func (s *Scheduler) ReloadTasks() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		s.cron.Stop()
	}
	s.cron = cron.New()

	settings, err := s.settingService.GetAllSettings()
	if err != nil {
		log.Printf("failed to load settings for scheduler: %v", err)
		return
	}

	// Scheduled publishing runs every minute regardless of settings.
	if _, err := s.cron.AddFunc("* * * * *", recoveryWrapper(s.publishScheduled)); err != nil {
		log.Printf("failed to schedule publish task: %v", err)
	}

	s.addBackupTask(settings, constants.SettingGithubBackupCron, "GitHub", func() error {
		repo := settings[constants.SettingGithubRepo]
		branch := settings[constants.SettingGithubBranch]
		token := settings[constants.SettingGithubToken]
		if repo == "" || branch == "" || token == "" {
			return errors.New("GitHub backup is not fully configured")
		}
		return s.backupService.BackupToGithub(repo, branch, token)
	})

	s.addBackupTask(settings, constants.SettingWebdavBackupCron, "WebDAV", func() error {
		url := settings[constants.SettingWebdavURL]
		user := settings[constants.SettingWebdavUser]
		password := settings[constants.SettingWebdavPassword]
		if url == "" {
			return errors.New("WebDAV URL is not configured")
		}
		return s.backupService.BackupToWebdav(url, user, password)
	})

	s.cron.Start()
	log.Printf("scheduler reloaded with %d tasks", len(s.cron.Entries()))
}

func (s *Scheduler) publishScheduled() {
	published, err := s.postService.PublishScheduled(time.Now())
	if err != nil {
		log.Printf("scheduled publish run failed: %v", err)
		return
	}
	if published > 0 {
		log.Printf("published %d scheduled post(s)", published)
	}
}

func (s *Scheduler) addBackupTask(settings map[string]string, cronKey, taskName string, backupFunc func() error) {
	spec := settings[cronKey]
	if spec == "" {
		return
	}

	job := func() {
		log.Printf("starting scheduled %s backup", taskName)
		err := backupFunc()
		switch {
		case errors.Is(err, services.ErrBackupNoChange):
			log.Printf("%s backup skipped: no changes since last run", taskName)
		case err != nil:
			log.Printf("%s backup failed: %v", taskName, err)
		default:
			log.Printf("%s backup finished", taskName)
		}
	}

	if _, err := s.cron.AddFunc(spec, recoveryWrapper(job)); err != nil {
		log.Printf("failed to schedule %s backup (%q): %v", taskName, spec, err)
		return
	}
	log.Printf("scheduled %s backup with spec %q", taskName, spec)
}

func recoveryWrapper(job func()) func() {
	return func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("scheduled task panicked: %v\n%s", r, debug.Stack())
			}
		}()
		job()
	}
}
