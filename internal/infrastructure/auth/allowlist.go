package auth

import (
	"errors"
	"fmt"
	"os"

	"github.com/ideation/backend/internal/domain/identity"
	"gopkg.in/yaml.v3"
)

// allowListFile is the on-disk layout of the sign-up allow-list:
//
//	emails:
//	  - ada@example.com
//	domains:
//	  - example.org
type allowListFile struct {
	Emails  []string `yaml:"emails"`
	Domains []string `yaml:"domains"`
}

// LoadAllowList reads the sign-up allow-list from a YAML file. An empty path
// returns an open list that admits everyone.
func LoadAllowList(path string) (*identity.AllowList, error) {
	if path == "" {
		return identity.NewAllowList(nil, nil), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("allow-list file %s does not exist", path)
		}
		return nil, fmt.Errorf("failed to read allow-list: %w", err)
	}
	return ParseAllowList(data)
}

// ParseAllowList decodes an allow-list document
func ParseAllowList(data []byte) (*identity.AllowList, error) {
	var file allowListFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse allow-list: %w", err)
	}
	return identity.NewAllowList(file.Emails, file.Domains), nil
}
