package app

import (
	"log"

	"storyforge/internal/blob"
	"storyforge/internal/gateway/config"
)

// initArchive picks the blob archive backend. S3 (minio locally) when the
// config is complete, otherwise an in-memory store; archival is best effort
// either way.
func initArchive(cfg *config.Config) blob.Store {
	if cfg.Archive.CanUseS3() {
		s3Store, err := blob.NewS3Store(blob.S3Config{
			Endpoint:  cfg.Archive.Endpoint,
			Region:    cfg.Archive.Region,
			AccessKey: cfg.Archive.AccessKey,
			SecretKey: cfg.Archive.SecretKey,
			Bucket:    cfg.Archive.Bucket,
			UseSSL:    cfg.Archive.UseSSL,
		})
		if err == nil {
			log.Printf("archive store: s3 bucket=%s endpoint=%s", cfg.Archive.Bucket, cfg.Archive.Endpoint)
			return s3Store
		}
		log.Printf("archive store: s3 init failed, using in-memory fallback: %v", err)
	} else if cfg.Archive.Enabled {
		log.Printf("archive store: using in-memory fallback (s3 config incomplete)")
	}
	return blob.NewMemoryStore()
}
