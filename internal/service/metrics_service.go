package service

import (
	"context"
	"fmt"

	"github.com/hostelhub/hostel-api/internal/model"
	"github.com/hostelhub/hostel-api/internal/projection"
	"go.uber.org/zap"
)

// MetricsService feeds the admin dashboard. It only reads.
type MetricsService struct {
	users     UserStore
	landlords LandlordStore
	hostels   HostelStore
	bookings  BookingStore
	reports   ReportStore
	logger    *zap.Logger
}

func NewMetricsService(
	users UserStore,
	landlords LandlordStore,
	hostels HostelStore,
	bookings BookingStore,
	reports ReportStore,
	logger *zap.Logger,
) *MetricsService {
	return &MetricsService{
		users:     users,
		landlords: landlords,
		hostels:   hostels,
		bookings:  bookings,
		reports:   reports,
		logger:    logger,
	}
}

func (s *MetricsService) Dashboard(ctx context.Context, admin model.Actor) (*projection.Dashboard, error) {
	if err := requireRole(admin, model.RoleAdmin); err != nil {
		return nil, err
	}
	return s.Snapshot(ctx)
}

// Snapshot computes the dashboard without an actor, for background jobs
func (s *MetricsService) Snapshot(ctx context.Context) (*projection.Dashboard, error) {
	var (
		c   projection.Counts
		err error
	)

	if c.Users, err = s.users.CountByRoleAndStatus(ctx); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if c.Landlords, err = s.landlords.CountByStatus(ctx); err != nil {
		return nil, fmt.Errorf("count landlords: %w", err)
	}
	if c.Hostels, err = s.hostels.Counts(ctx); err != nil {
		return nil, fmt.Errorf("count hostels: %w", err)
	}
	if c.Bookings, err = s.bookings.CountByStatus(ctx); err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}
	if c.OpenReports, err = s.reports.CountOpen(ctx); err != nil {
		return nil, fmt.Errorf("count open reports: %w", err)
	}

	d := projection.BuildDashboard(c)

	s.logger.Debug("Metrics snapshot computed",
		zap.Int("total_hostels", d.TotalHostels),
		zap.Int("verification_rate", d.VerificationRate),
	)

	return &d, nil
}
