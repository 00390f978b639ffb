package services

import (
	"context"
	"log"
	"time"

	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/config"

	"github.com/robfig/cron/v3"
)

// jobTimeout bounds a single background run
const jobTimeout = 5 * time.Minute

// CronService runs the periodic maintenance jobs
type CronService struct {
	cron  *cron.Cron
	refs  *ReferenceService
	files *FileService
	cfg   config.CronConfig
}

// NewCronService creates a new cron service. Schedules use the standard
// five field syntax or descriptors such as "@every 15m".
func NewCronService(refs *ReferenceService, files *FileService, cfg config.CronConfig) *CronService {
	return &CronService{
		cron:  cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
		refs:  refs,
		files: files,
		cfg:   cfg,
	}
}

// Start registers the jobs and starts the scheduler
func (s *CronService) Start() error {
	if s.cfg.ReferenceRefresh != "" {
		if _, err := s.cron.AddFunc(s.cfg.ReferenceRefresh, s.RefreshReferenceCache); err != nil {
			return err
		}
	}
	if s.cfg.FilePurge != "" {
		if _, err := s.cron.AddFunc(s.cfg.FilePurge, s.PurgeFiles); err != nil {
			return err
		}
	}

	s.cron.Start()
	log.Printf("🚀 CronService started [%d jobs]", len(s.cron.Entries()))
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	log.Println("🛑 CronService stopped")
}

// RefreshReferenceCache reloads cached application types and officers
func (s *CronService) RefreshReferenceCache() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.refs.RefreshCache(ctx); err != nil {
		log.Printf("❌ Reference cache refresh failed: %v", err)
	}
}

// PurgeFiles drops metadata of long deleted files
func (s *CronService) PurgeFiles() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := s.files.PurgeInactive(ctx, s.cfg.FileRetention)
	if err != nil {
		log.Printf("❌ File purge failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("✅ Purged %d deleted file records", n)
	}
}
