package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/ludo-technologies/siteaudit/domain"
)

// LoadRawRun reads a crawl-results file. Both the envelope shape
// ({"source_url": ..., "pages": [...]}) and a bare page array are accepted;
// older crawler versions wrote the latter.
func LoadRawRun(path string) (*domain.RawRun, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.NewFileNotFoundError(path, err)
		}
		return nil, domain.NewInvalidInputError(fmt.Sprintf("reading %s", path), err)
	}

	var run domain.RawRun
	if err := json.Unmarshal(data, &run); err == nil {
		return &run, nil
	}

	var pages []domain.RawPage
	if err := json.Unmarshal(data, &pages); err != nil {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("parsing %s: not a crawl-results document", path), err)
	}
	return &domain.RawRun{Pages: pages}, nil
}
