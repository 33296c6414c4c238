package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fsdevblog/smsbroker/internal/domain"
	"github.com/fsdevblog/smsbroker/internal/pricing"
	"github.com/fsdevblog/smsbroker/internal/repository/repoargs"
	"github.com/fsdevblog/smsbroker/pkg/uow"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	defaultServicesTTL  = 10 * time.Minute
	defaultCountriesTTL = 30 * time.Minute
)

type cached[T any] struct {
	value     T
	fetchedAt time.Time
}

func (c *cached[T]) fresh(now time.Time, ttl time.Duration) bool {
	return !c.fetchedAt.IsZero() && now.Sub(c.fetchedAt) < ttl
}

// CatalogService справочники провайдера и цены для ролей.
type CatalogService struct {
	provider     ProviderClient
	settingsRepo SettingsRepository
	servicesTTL  time.Duration
	countriesTTL time.Duration
	now          func() time.Time
	l            *logrus.Entry

	mu        sync.Mutex
	services  cached[[]pricing.Service]
	countries cached[pricing.Countries]
}

func NewCatalogService(u uow.UOW, client ProviderClient, l *logrus.Logger) (*CatalogService, error) {
	settingsRepo, err := uow.GetRepositoryAs[SettingsRepository](u, uow.RepositoryName(repoargs.SettingsRepoName))
	if err != nil {
		return nil, err
	}
	return &CatalogService{
		provider:     client,
		settingsRepo: settingsRepo,
		servicesTTL:  defaultServicesTTL,
		countriesTTL: defaultCountriesTTL,
		now:          time.Now,
		l: l.WithFields(logrus.Fields{
			"component": "service",
			"module":    "catalog",
		}),
	}, nil
}

func (s *CatalogService) SetTTL(services, countries time.Duration) *CatalogService {
	s.servicesTTL = services
	s.countriesTTL = countries
	return s
}

func (s *CatalogService) SetClock(now func() time.Time) *CatalogService {
	s.now = now
	return s
}

// Services список сервисов провайдера. Кешируется на servicesTTL. При ошибке провайдера
// отдается устаревший кеш, если он есть.
func (s *CatalogService) Services(ctx context.Context) ([]pricing.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.services.fresh(s.now(), s.servicesTTL) {
		return s.services.value, nil
	}
	raw, err := s.provider.Services(ctx)
	if err != nil {
		if s.services.value != nil {
			s.l.WithError(err).Warn("services fetch failed, using stale cache")
			return s.services.value, nil
		}
		return nil, fmt.Errorf("fetch services: %w", err)
	}
	s.services = cached[[]pricing.Service]{value: pricing.ParseServices(raw), fetchedAt: s.now()}
	return s.services.value, nil
}

// Countries справочник стран. Кешируется на countriesTTL.
func (s *CatalogService) Countries(ctx context.Context) (pricing.Countries, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.countries.fresh(s.now(), s.countriesTTL) {
		return s.countries.value, nil
	}
	raw, err := s.provider.Countries(ctx)
	if err != nil {
		if s.countries.value != nil {
			s.l.WithError(err).Warn("countries fetch failed, using stale cache")
			return s.countries.value, nil
		}
		return nil, fmt.Errorf("fetch countries: %w", err)
	}
	s.countries = cached[pricing.Countries]{value: pricing.ParseCountries(raw), fetchedAt: s.now()}
	return s.countries.value, nil
}

// SearchServices ищет сервисы по подстроке или псевдониму.
func (s *CatalogService) SearchServices(ctx context.Context, query string) ([]pricing.Service, error) {
	services, err := s.Services(ctx)
	if err != nil {
		return nil, err
	}
	return pricing.MatchServices(query, services), nil
}

// ProfitPercent текущая наценка. Если настройка не задана или повреждена, используется
// pricing.DefaultProfitPercent.
func (s *CatalogService) ProfitPercent(ctx context.Context) (decimal.Decimal, error) {
	def := decimal.NewFromInt(pricing.DefaultProfitPercent)
	raw, err := s.settingsRepo.GetSetting(ctx, repoargs.SettingProfitPercent)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return def, nil
		}
		return decimal.Zero, fmt.Errorf("get profit percent: %w", err)
	}
	pct, parseErr := decimal.NewFromString(raw)
	if parseErr != nil {
		s.l.WithError(parseErr).WithField("value", raw).Warn("invalid profit percent setting")
		return def, nil
	}
	return pricing.ClampProfit(pct), nil
}

// SetProfitPercent сохраняет наценку, приведенную к допустимому диапазону, и возвращает ее.
func (s *CatalogService) SetProfitPercent(ctx context.Context, pct decimal.Decimal) (decimal.Decimal, error) {
	pct = pricing.ClampProfit(pct)
	if err := s.settingsRepo.SetSetting(ctx, repoargs.SettingProfitPercent, pct.String()); err != nil {
		return decimal.Zero, fmt.Errorf("set profit percent: %w", err)
	}
	s.l.WithField("profitPercent", pct.String()).Info("profit percent changed")
	return pct, nil
}

// Prices варианты покупки номера для сервиса serviceCode с ценой для роли role.
func (s *CatalogService) Prices(ctx context.Context, role domain.RoleType, serviceCode string) ([]pricing.Option, error) {
	if serviceCode == "" {
		return nil, domain.ErrInvalidArguments
	}

	service := pricing.Service{Code: serviceCode, Name: serviceCode}
	if services, err := s.Services(ctx); err == nil {
		for _, svc := range services {
			if svc.Code == serviceCode {
				service = svc
				break
			}
		}
	} else {
		s.l.WithError(err).Warn("services unavailable for price labels")
	}

	countries, err := s.Countries(ctx)
	if err != nil {
		s.l.WithError(err).Warn("countries unavailable for price labels")
		countries = pricing.Countries{}
	}

	raw, err := s.provider.Prices(ctx, serviceCode)
	if err != nil {
		return nil, fmt.Errorf("fetch prices for %s: %w", serviceCode, err)
	}

	pct, err := s.ProfitPercent(ctx)
	if err != nil {
		return nil, err
	}
	return pricing.ApplyRole(pricing.ParsePrices(raw, service, countries), role, pct), nil
}

// Quote возвращает самый дешевый вариант сервиса для страны и провайдера.
// Если такого варианта нет, возвращает domain.ErrRecordNotFound.
func (s *CatalogService) Quote(
	ctx context.Context,
	role domain.RoleType,
	serviceCode, countryCode, providerID string,
) (*pricing.Option, error) {
	opts, err := s.Prices(ctx, role, serviceCode)
	if err != nil {
		return nil, err
	}

	var best *pricing.Option
	for i := range opts {
		opt := opts[i]
		if !opt.Matches(countryCode, providerID) || !opt.Priced {
			continue
		}
		if best == nil || opt.Price.LessThan(best.Price) {
			best = &opt
		}
	}
	if best == nil {
		return nil, fmt.Errorf("quote %s/%s/%s: %w", serviceCode, countryCode, providerID, domain.ErrRecordNotFound)
	}
	return best, nil
}

func (s *CatalogService) ProviderBalance(ctx context.Context) (decimal.Decimal, error) {
	balance, err := s.provider.Balance(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("provider balance: %w", err)
	}
	return balance, nil
}
