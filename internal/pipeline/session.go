package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	api "github.com/katube/audio-archiver/api/v1alpha1"
)

const (
	downloadsSubdir = "downloads"
	metadataSubdir  = "metadata"
	resultsFileName = "download_results.json"
)

// Session is one isolated working directory tree for a single job's
// downloaded audio and metadata sidecars. It is private to the job that
// created it and is never deleted by the pipeline.
type Session struct {
	Name         string
	Dir          string
	DownloadsDir string
	MetadataDir  string
}

// SessionManager creates session directories under a fixed output root.
type SessionManager struct {
	outputDir string
}

func NewSessionManager(outputDir string) *SessionManager {
	return &SessionManager{outputDir: outputDir}
}

// Create builds the session directory tree. An empty name derives one from
// the current timestamp.
func (m *SessionManager) Create(name string) (*Session, error) {
	if name == "" {
		name = fmt.Sprintf("download_session_%s", time.Now().Format("20060102_150405"))
	}

	session := &Session{
		Name:         name,
		Dir:          filepath.Join(m.outputDir, name),
		DownloadsDir: filepath.Join(m.outputDir, name, downloadsSubdir),
		MetadataDir:  filepath.Join(m.outputDir, name, metadataSubdir),
	}

	for _, dir := range []string{session.Dir, session.DownloadsDir, session.MetadataDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating session directory %s: %w", dir, err)
		}
	}

	return session, nil
}

// WriteResults persists the overall result document at the session root.
func (s *Session) WriteResults(result *api.Result) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.Dir, resultsFileName), data, 0644)
}
