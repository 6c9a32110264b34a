package service

import (
	"context"
	"errors"

	"github.com/psw4/psw-backend/internal/apperrors"
	"github.com/psw4/psw-backend/internal/model"
	"github.com/psw4/psw-backend/internal/money"
	"github.com/psw4/psw-backend/internal/repository"
	"github.com/rs/zerolog"
)

// Placeholder values for dividend rows whose ISIN is not in the masterlist.
const (
	UnknownCompanyName = "Unknown Company"
	UnknownTicker      = "N/A"
)

// UnknownCompany is returned by lookups that find nothing.
var UnknownCompany = model.CompanyInfo{
	Name:     UnknownCompanyName,
	Ticker:   UnknownTicker,
	Currency: money.SEK,
}

// CompanyService resolves ISINs to masterlist display data.
// Lookups never fail: a miss or a read error yields UnknownCompany.
type CompanyService struct {
	companyRepo *repository.CompanyRepository
	log         zerolog.Logger
}

// NewCompanyService creates a CompanyService.
func NewCompanyService(companyRepo *repository.CompanyRepository, log zerolog.Logger) *CompanyService {
	return &CompanyService{
		companyRepo: companyRepo,
		log:         log.With().Str("service", "company").Logger(),
	}
}

// Lookup returns the name and ticker of the company with the given ISIN.
//
// Currency is always SEK: amounts in the dividend log are already converted,
// so the masterlist currency is not carried into enrichment.
func (s *CompanyService) Lookup(ctx context.Context, isin string) model.CompanyInfo {
	if isin == "" {
		return UnknownCompany
	}

	company, err := s.companyRepo.GetByISIN(ctx, isin)
	if err != nil {
		if !errors.Is(err, apperrors.ErrCompanyNotFound) {
			s.log.Error().Err(err).Str("isin", isin).Msg("company lookup failed")
		}
		return UnknownCompany
	}
	return toCompanyInfo(company)
}

// LookupMany resolves a batch of ISINs with one query. Every non-empty
// requested ISIN is present in the result.
func (s *CompanyService) LookupMany(ctx context.Context, isins []string) map[string]model.CompanyInfo {
	unique := make([]string, 0, len(isins))
	seen := make(map[string]bool, len(isins))
	for _, isin := range isins {
		if isin == "" || seen[isin] {
			continue
		}
		seen[isin] = true
		unique = append(unique, isin)
	}

	result := make(map[string]model.CompanyInfo, len(unique))
	companies, err := s.companyRepo.GetByISINs(ctx, unique)
	if err != nil {
		s.log.Error().Err(err).Int("isins", len(unique)).Msg("batched company lookup failed")
		companies = nil
	}

	for _, isin := range unique {
		if company, ok := companies[isin]; ok {
			result[isin] = toCompanyInfo(company)
		} else {
			result[isin] = UnknownCompany
		}
	}
	return result
}

// GetCompany returns the full masterlist record.
func (s *CompanyService) GetCompany(ctx context.Context, isin string) (model.Company, error) {
	return s.companyRepo.GetByISIN(ctx, isin)
}

// ListCompanies returns masterlist records ordered by name.
func (s *CompanyService) ListCompanies(ctx context.Context, includeDelisted bool) ([]model.Company, error) {
	return s.companyRepo.List(ctx, includeDelisted)
}

func toCompanyInfo(c model.Company) model.CompanyInfo {
	return model.CompanyInfo{
		Name:     c.Name,
		Ticker:   c.Ticker,
		Currency: money.SEK,
	}
}
