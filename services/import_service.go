package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"tea-techniques-api/models"
	"tea-techniques-api/repositories"
)

type ImportOptions struct {
	// Strict aborts on the first bad record and rolls the whole
	// transaction back.
	Strict bool
	// Progress receives one line per processed record when non-nil.
	Progress io.Writer
}

// ImportService reconciles a canonical JSON technique catalog with the
// store in one atomic operation. Running it twice on the same input
// yields the same final state.
type ImportService interface {
	Import(ctx context.Context, r io.Reader, opts ImportOptions) (*models.ImportSummary, error)
}

type importService struct {
	store *repositories.Store
}

func NewImportService(store *repositories.Store) ImportService {
	return &importService{store: store}
}

// decodeCatalog accepts either a bare JSON array of technique records or
// an object of the form {"techniques": [...]}.
func decodeCatalog(r io.Reader) ([]models.TechniqueRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimLeftFunc(string(data), func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if strings.HasPrefix(trimmed, "[") {
		var records []models.TechniqueRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, err
		}
		return records, nil
	}

	var wrapper struct {
		Techniques []models.TechniqueRecord `json:"techniques"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, err
	}
	return wrapper.Techniques, nil
}

func (s *importService) Import(ctx context.Context, r io.Reader, opts ImportOptions) (*models.ImportSummary, error) {
	records, err := decodeCatalog(r)
	if err != nil {
		return nil, models.NewUnprocessableEntity(fmt.Sprintf("cannot parse catalog: %v", err))
	}

	summary := &models.ImportSummary{Errors: []models.ImportRecordError{}}

	txErr := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		rc := &reconciler{store: tx}
		for i := range records {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			record := &records[i]
			name := record.Name
			if name == "" {
				name = fmt.Sprintf("record %d", i)
			}

			if verr := validateRecord(record); verr != nil {
				s.recordFailure(summary, name, verr, opts)
				if opts.Strict {
					return verr
				}
				continue
			}

			savepoint := fmt.Sprintf("import_record_%d", i)
			tx.DB.SavePoint(savepoint)
			created, err := rc.upsertByName(ctx, record)
			if err != nil {
				tx.DB.RollbackTo(savepoint)
				apiErr := repositories.TranslateError(err)
				s.recordFailure(summary, name, apiErr, opts)
				if opts.Strict {
					return err
				}
				continue
			}

			if created {
				summary.Created++
			} else {
				summary.Updated++
			}
			s.progress(opts, "%s: %s\n", name, statusWord(created))
			log.Debug().Str("technique", name).Bool("created", created).Msg("imported record")
		}
		return nil
	})
	if txErr != nil {
		return summary, txErr
	}

	s.progress(opts, "done: %d created, %d updated, %d skipped, %d errors\n",
		summary.Created, summary.Updated, summary.Skipped, len(summary.Errors))
	return summary, nil
}

func (s *importService) recordFailure(summary *models.ImportSummary, name string, apiErr *models.APIError, opts ImportOptions) {
	message := apiErr.Detail
	if message == "" {
		parts := make([]string, 0, len(apiErr.Fields))
		for field, msgs := range apiErr.Fields {
			parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(msgs, "; ")))
		}
		message = strings.Join(parts, "; ")
	}
	summary.Errors = append(summary.Errors, models.ImportRecordError{
		Name:    name,
		Kind:    apiErr.ErrorType,
		Message: message,
	})
	summary.Skipped++
	s.progress(opts, "%s: skipped (%s)\n", name, apiErr.ErrorType)
	log.Warn().Str("technique", name).Str("kind", apiErr.ErrorType).Str("error", message).
		Msg("record rejected")
}

func (s *importService) progress(opts ImportOptions, format string, args ...interface{}) {
	if opts.Progress != nil {
		fmt.Fprintf(opts.Progress, format, args...)
	}
}

func statusWord(created bool) string {
	if created {
		return "created"
	}
	return "updated"
}
