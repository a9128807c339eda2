package json

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

var ErrCacheMiss = errors.New("no cached document")

type IJsonClient interface {
	Export(value any, fileName string) error
	Import(fileName string, value any) error
	Age(fileName string) (time.Duration, error)
	IsStale(fileName string, maxAge time.Duration) bool
	Remove(fileName string) error
}

// JsonClient stores JSON documents as files under WorkingFolderPath.
type JsonClient struct {
	WorkingFolderPath string
	Logger            *logrus.Logger

	now func() time.Time
}

func NewJsonClient(workingFolderPath string, logger *logrus.Logger) *JsonClient {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &JsonClient{
		WorkingFolderPath: workingFolderPath,
		Logger:            logger,
		now:               time.Now,
	}
}

func (jsonClient *JsonClient) path(fileName string) string {
	return filepath.Join(jsonClient.WorkingFolderPath, fileName)
}

// Export writes value to fileName, creating the working folder when needed. The file is
// written to a temporary name first so readers never see a partial document.
func (jsonClient *JsonClient) Export(value any, fileName string) error {
	content, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("json.Export: marshalling %s: %w", fileName, err)
	}
	if err := os.MkdirAll(jsonClient.WorkingFolderPath, 0o755); err != nil {
		return fmt.Errorf("json.Export: %w", err)
	}

	jsonFilePath := jsonClient.path(fileName)
	temporary, err := os.CreateTemp(jsonClient.WorkingFolderPath, fileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("json.Export: %w", err)
	}
	if _, err := temporary.Write(content); err != nil {
		temporary.Close()
		os.Remove(temporary.Name())
		return fmt.Errorf("json.Export: writing %s: %w", fileName, err)
	}
	if err := temporary.Close(); err != nil {
		os.Remove(temporary.Name())
		return fmt.Errorf("json.Export: %w", err)
	}
	if err := os.Rename(temporary.Name(), jsonFilePath); err != nil {
		os.Remove(temporary.Name())
		return fmt.Errorf("json.Export: %w", err)
	}

	jsonClient.Logger.Debugf("Wrote %d bytes to %s", len(content), jsonFilePath)
	return nil
}

// Import decodes fileName into value. A missing file gives ErrCacheMiss.
func (jsonClient *JsonClient) Import(fileName string, value any) error {
	jsonFilePath := jsonClient.path(fileName)

	content, err := os.ReadFile(jsonFilePath)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrCacheMiss, jsonFilePath)
	}
	if err != nil {
		return fmt.Errorf("json.Import: %w", err)
	}

	if err := json.Unmarshal(content, value); err != nil {
		return fmt.Errorf("json.Import: decoding %s: %w", jsonFilePath, err)
	}
	return nil
}

// Age is the time since fileName was last written.
func (jsonClient *JsonClient) Age(fileName string) (time.Duration, error) {
	info, err := os.Stat(jsonClient.path(fileName))
	if errors.Is(err, os.ErrNotExist) {
		return 0, fmt.Errorf("%w: %s", ErrCacheMiss, fileName)
	}
	if err != nil {
		return 0, err
	}
	return jsonClient.now().Sub(info.ModTime()), nil
}

// IsStale reports whether fileName is missing, unreadable or older than maxAge.
func (jsonClient *JsonClient) IsStale(fileName string, maxAge time.Duration) bool {
	age, err := jsonClient.Age(fileName)
	if err != nil {
		jsonClient.Logger.Debugf("Cache file %s unavailable: %v", fileName, err)
		return true
	}
	return age > maxAge
}

func (jsonClient *JsonClient) Remove(fileName string) error {
	err := os.Remove(jsonClient.path(fileName))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("json.Remove: %w", err)
	}
	return nil
}
