package services

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"user-service/internal/entities"
	"user-service/internal/repositories"
)

const (
	topDistributionLimit  = 10
	registrationTrendDays = 30
)

type ReportServiceInterface interface {
	GetUserAnalytics(ctx context.Context) (*entities.UserAnalytics, error)
}

type reportService struct {
	reportRepo repositories.ReportRepositoryInterface
	logger     *zap.Logger
}

func NewReportService(reportRepo repositories.ReportRepositoryInterface, logger *zap.Logger) ReportServiceInterface {
	return &reportService{reportRepo: reportRepo, logger: logger}
}

// GetUserAnalytics выполняет агрегаты параллельно; первая ошибка отменяет остальные.
func (s *reportService) GetUserAnalytics(ctx context.Context) (*entities.UserAnalytics, error) {
	var a entities.UserAnalytics
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		a.TotalUsers, err = s.reportRepo.CountUsers(gctx)
		return err
	})
	g.Go(func() (err error) {
		a.AverageAge, err = s.reportRepo.AverageAge(gctx)
		return err
	})
	g.Go(func() (err error) {
		a.GenderDistribution, err = s.reportRepo.Distribution(gctx, repositories.DimensionGender, 0)
		return err
	})
	g.Go(func() (err error) {
		a.CountryDistribution, err = s.reportRepo.Distribution(gctx, repositories.DimensionCountry, topDistributionLimit)
		return err
	})
	g.Go(func() (err error) {
		a.AgeDistribution, err = s.reportRepo.AgeGroups(gctx)
		return err
	})
	g.Go(func() (err error) {
		a.LanguageDistribution, err = s.reportRepo.Distribution(gctx, repositories.DimensionLanguage, 0)
		return err
	})
	g.Go(func() (err error) {
		a.TimezoneDistribution, err = s.reportRepo.Distribution(gctx, repositories.DimensionTimezone, topDistributionLimit)
		return err
	})
	g.Go(func() (err error) {
		a.RegistrationTrend, err = s.reportRepo.RegistrationTrend(gctx, registrationTrendDays)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("Ошибка расчета статистики пользователей", zap.Error(err))
		return nil, err
	}
	return &a, nil
}
