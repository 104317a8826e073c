package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"pharmacy/m/domain"
	"pharmacy/m/internal/auth"
	"pharmacy/m/internal/store"
)

// LoadMedicationsFile ingests the catalog CSV at path. A missing file is logged and skipped.
func LoadMedicationsFile(ctx context.Context, s *store.Store, path string, log zerolog.Logger) (int, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Warn().Str("path", path).Msg("medication catalog not found, skipping seed")
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("open catalog: %w", err)
	}
	defer file.Close()
	return LoadMedications(ctx, s, file, log)
}

// LoadMedications reads code,name,active_ingredient,concentration,dosage_form,presentation
// rows after a header line and inserts the ones whose code is not catalogued yet.
func LoadMedications(ctx context.Context, s *store.Store, r io.Reader, log zerolog.Logger) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	// Skip header
	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, nil
		}
		return 0, fmt.Errorf("read catalog header: %w", err)
	}

	rows := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Warn().Err(err).Msg("unable to read medication row")
			continue
		}
		if len(record) < 6 {
			continue
		}
		med := domain.Medication{
			Code:             strings.TrimSpace(record[0]),
			Name:             strings.TrimSpace(record[1]),
			ActiveIngredient: strings.TrimSpace(record[2]),
			Concentration:    strings.TrimSpace(record[3]),
			DosageForm:       strings.TrimSpace(record[4]),
			Presentation:     strings.TrimSpace(record[5]),
		}
		if med.Code == "" || med.Name == "" {
			continue
		}

		created, err := s.CreateMedicationIfAbsent(ctx, &med)
		if err != nil {
			log.Warn().Err(err).Str("code", med.Code).Msg("unable to insert medication")
			continue
		}
		if created {
			rows++
		}
	}

	log.Info().Int("rows", rows).Msg("seeded medication catalog")
	return rows, nil
}

// EnsureUser creates an active login unless the username is taken. It reports whether a
// user was created.
func EnsureUser(ctx context.Context, s *store.Store, username, password, fullName string) (bool, error) {
	if strings.TrimSpace(username) == "" {
		return false, fmt.Errorf("username: %w", domain.ErrValidation)
	}
	if _, err := s.UserByUsername(ctx, username); err == nil {
		return false, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, err
	}
	u := domain.User{Username: username, PasswordHash: hash, FullName: strings.TrimSpace(fullName), Active: true}
	if err := s.CreateUser(ctx, &u); err != nil {
		return false, err
	}
	return true, nil
}
