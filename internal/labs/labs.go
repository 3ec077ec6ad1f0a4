// Package labs stores the reference lab and the candidate labs in YAML files.
package labs

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/spigell/labmatch/internal/profile"
)

const filePerm = 0o644

// Store reads and writes the reference and candidate files. Every call goes to disk.
type Store struct {
	referencePath string
	labsPath      string
	logger        *zap.Logger
}

func New(referencePath, labsPath string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		referencePath: strings.TrimSpace(referencePath),
		labsPath:      strings.TrimSpace(labsPath),
		logger:        logger,
	}
}

// Reference loads the reference lab. It returns nil without error when none is configured.
func (s *Store) Reference() (*profile.Organization, error) {
	if s.referencePath == "" {
		return nil, nil
	}

	org, err := LoadReference(s.referencePath)
	if err != nil {
		return nil, err
	}
	if org != nil {
		s.warn(org)
	}
	return org, nil
}

// Labs loads the candidate labs. Entries without a name are skipped with a warning.
func (s *Store) Labs() (*profile.Organizations, error) {
	if s.labsPath == "" {
		return &profile.Organizations{}, nil
	}

	orgs, err := Load(s.labsPath)
	if err != nil {
		return nil, err
	}

	valid := orgs.Items[:0]
	for i, org := range orgs.Items {
		if err := org.Validate(); err != nil {
			s.logger.Warn("skipping lab entry",
				zap.String("path", s.labsPath),
				zap.Int("index", i),
				zap.Error(err),
			)
			continue
		}
		s.warn(org)
		valid = append(valid, org)
	}
	orgs.Items = valid

	return orgs, nil
}

// Append adds labs to the candidate file, assigning IDs to labs without one.
func (s *Store) Append(add ...*profile.Organization) error {
	if s.labsPath == "" {
		return errors.New("labs file is not configured")
	}

	for _, org := range add {
		if err := org.Validate(); err != nil {
			return err
		}
	}

	orgs, err := Load(s.labsPath)
	if err != nil {
		return err
	}

	for _, org := range add {
		if strings.TrimSpace(org.ID) == "" {
			org.ID = uuid.NewString()
		}
		orgs.Items = append(orgs.Items, org)
	}

	if err := ToFile(s.labsPath, orgs); err != nil {
		return err
	}

	s.logger.Info("appended labs",
		zap.String("path", s.labsPath),
		zap.Strings("labs", (&profile.Organizations{Items: add}).Names()),
		zap.Int("total", orgs.Len()),
	)
	return nil
}

// SaveReference replaces the reference lab.
func (s *Store) SaveReference(org *profile.Organization) error {
	if s.referencePath == "" {
		return errors.New("reference file is not configured")
	}
	if err := org.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(org.ID) == "" {
		org.ID = uuid.NewString()
	}

	data, err := yaml.Marshal(org)
	if err != nil {
		return fmt.Errorf("encode reference lab: %w", err)
	}
	if err := os.WriteFile(s.referencePath, data, filePerm); err != nil {
		return fmt.Errorf("write reference file: %w", err)
	}

	s.logger.Info("saved reference lab", zap.String("path", s.referencePath), zap.String("lab", org.Label()))
	return nil
}

func (s *Store) warn(org *profile.Organization) {
	for _, warning := range org.ScoreWarnings() {
		s.logger.Warn("lab score out of conventional range",
			zap.String("lab", org.Label()),
			zap.String("warning", warning),
		)
	}
}

// LoadReference reads a single profile from path. A missing or empty file yields nil.
func LoadReference(path string) (*profile.Organization, error) {
	data, err := read(path)
	if err != nil || data == nil {
		return nil, err
	}

	var org profile.Organization
	if err := yaml.Unmarshal(data, &org); err != nil {
		return nil, fmt.Errorf("decode reference file %q: %w", path, err)
	}
	if err := org.Validate(); err != nil {
		return nil, fmt.Errorf("reference file %q: %w", path, err)
	}
	return &org, nil
}

// Load reads the candidate collection from path. A missing or empty file yields an empty collection.
func Load(path string) (*profile.Organizations, error) {
	data, err := read(path)
	if err != nil {
		return nil, err
	}

	orgs := &profile.Organizations{}
	if data == nil {
		return orgs, nil
	}

	if err := yaml.Unmarshal(data, orgs); err != nil {
		return nil, fmt.Errorf("decode labs file %q: %w", path, err)
	}
	return orgs, nil
}

// ToFile writes the collection to path, replacing its content.
func ToFile(path string, orgs *profile.Organizations) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(orgs); err != nil {
		return fmt.Errorf("encode labs: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode labs: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), filePerm); err != nil {
		return fmt.Errorf("write labs file: %w", err)
	}
	return nil
}

func read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	return data, nil
}
