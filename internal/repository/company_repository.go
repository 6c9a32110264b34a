package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/psw4/psw-backend/internal/apperrors"
	"github.com/psw4/psw-backend/internal/model"
	"github.com/rs/zerolog"
)

const companyColumns = `isin, name, ticker, country, currency, market, share_type, delisted, delisted_date`

// CompanyRepository reads the masterlist in the foundation database.
type CompanyRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewCompanyRepository creates a CompanyRepository.
func NewCompanyRepository(db *sql.DB, log zerolog.Logger) *CompanyRepository {
	return &CompanyRepository{
		db:  db,
		log: log.With().Str("repository", "company").Logger(),
	}
}

// GetByISIN returns the masterlist record with an exact ISIN match.
// Returns apperrors.ErrCompanyNotFound when there is none.
func (r *CompanyRepository) GetByISIN(ctx context.Context, isin string) (model.Company, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+companyColumns+` FROM masterlist WHERE isin = ?`, isin)

	company, err := scanCompany(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Company{}, apperrors.ErrCompanyNotFound
	}
	if err != nil {
		return model.Company{}, fmt.Errorf("failed to query masterlist: %w", err)
	}
	return company, nil
}

// GetByISINs returns the masterlist records for the given ISINs keyed by ISIN,
// in a single query. ISINs without a record are absent from the map.
func (r *CompanyRepository) GetByISINs(ctx context.Context, isins []string) (map[string]model.Company, error) {
	result := make(map[string]model.Company, len(isins))
	if len(isins) == 0 {
		return result, nil
	}

	marks, args := placeholders(isins)
	query := `SELECT ` + companyColumns + ` FROM masterlist WHERE isin IN (` + marks + `)`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query masterlist: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan masterlist row: %w", err)
		}
		result[company.ISIN] = company
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating masterlist rows: %w", err)
	}

	r.log.Debug().Int("requested", len(isins)).Int("found", len(result)).Msg("batched masterlist lookup")
	return result, nil
}

// List returns masterlist records ordered by name. Delisted companies are
// included only when includeDelisted is set.
func (r *CompanyRepository) List(ctx context.Context, includeDelisted bool) ([]model.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM masterlist`
	if !includeDelisted {
		query += ` WHERE delisted = FALSE`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query masterlist: %w", err)
	}
	defer rows.Close()

	companies := []model.Company{}
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan masterlist row: %w", err)
		}
		companies = append(companies, company)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating masterlist rows: %w", err)
	}
	return companies, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompany(s rowScanner) (model.Company, error) {
	var c model.Company
	var delistedDate sql.NullString

	if err := s.Scan(
		&c.ISIN,
		&c.Name,
		&c.Ticker,
		&c.Country,
		&c.Currency,
		&c.Market,
		&c.ShareType,
		&c.Delisted,
		&delistedDate,
	); err != nil {
		return model.Company{}, err
	}

	var err error
	c.DelistedDate, err = parseNullTime(delistedDate)
	if err != nil {
		return model.Company{}, err
	}
	return c, nil
}
