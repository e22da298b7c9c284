package schedule

import (
	"auroscope/internal/providers"
	"auroscope/internal/schedule/interfaces"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"
)

// State survives restarts so a report is never sent twice for the same day.
type State struct {
	LastSentDate string    `json:"lastSentDate"`
	LastRunAt    time.Time `json:"lastRunAt"`
	LastError    string    `json:"lastError,omitempty"`
}

type FileManager struct {
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileManager(compressor interfaces.CompressorInterface, logger providers.Logger) *FileManager {
	return &FileManager{
		compressor: compressor,
		logger:     logger,
	}
}

func (f *FileManager) SaveToFile(fileName string, state *State) error {
	jsonData, err := json.Marshal(state)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	if err = os.MkdirAll(filepath.Dir(fileName), 0755); err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

func (f *FileManager) Close() {
	f.compressor.Close()
}

// LoadFromFile returns an empty state when the file does not exist yet.
func (f *FileManager) LoadFromFile(fileName string) (*State, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return &State{}, nil
		}
		return nil, err
	}

	decompressed, err := f.compressor.Decompress(data)
	if err != nil {
		f.logger.Warnf(providers.TypeApp, "State file %s is not compressed, reading it as plain JSON", fileName)
		decompressed = data
	}

	var state State
	if err := json.Unmarshal(decompressed, &state); err != nil {
		return nil, err
	}
	return &state, nil
}
