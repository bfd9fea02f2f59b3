package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"librarium/internal/dto"
	"librarium/internal/models"
	"librarium/internal/repositories"
)

// recentActivityLimit bounds the recent-loans list on the dashboard.
const recentActivityLimit = 10

// SnapshotCache stores recent dashboard snapshots. Implementations must be
// fail-open: a broken cache degrades to live reads, never to an error.
type SnapshotCache interface {
	Get(ctx context.Context) (*dto.DashboardSnapshot, bool)
	Set(ctx context.Context, snapshot *dto.DashboardSnapshot)
}

// StatsService computes the dashboard snapshot.
type StatsService interface {
	Snapshot(ctx context.Context) (*dto.DashboardSnapshot, error)
}

type statsService struct {
	userRepo   repositories.UserRepository
	authorRepo repositories.AuthorRepository
	bookRepo   repositories.BookRepository
	loanRepo   repositories.LoanRepository
	cache      SnapshotCache
}

// NewStatsService wires the aggregator. cache may be nil.
func NewStatsService(
	userRepo repositories.UserRepository,
	authorRepo repositories.AuthorRepository,
	bookRepo repositories.BookRepository,
	loanRepo repositories.LoanRepository,
	cache SnapshotCache,
) StatsService {
	return &statsService{
		userRepo:   userRepo,
		authorRepo: authorRepo,
		bookRepo:   bookRepo,
		loanRepo:   loanRepo,
		cache:      cache,
	}
}

// Snapshot fans out the seven independent reads concurrently and joins them
// into one response. The reads are not synchronized with ledger writes, so
// the result is a best-effort view; it is display-only and refreshed by the
// UI every 30 seconds.
func (s *statsService) Snapshot(ctx context.Context) (*dto.DashboardSnapshot, error) {
	if s.cache != nil {
		if snapshot, ok := s.cache.Get(ctx); ok {
			return snapshot, nil
		}
	}

	var (
		totalBooks     int64
		availableBooks int64
		totalAuthors   int64
		totalUsers     int64
		activeBorrows  int64
		recent         []models.Loan
		overdue        []models.Loan
	)

	var g errgroup.Group
	g.Go(func() (err error) {
		totalBooks, err = s.bookRepo.Count(nil)
		return err
	})
	g.Go(func() (err error) {
		availableBooks, err = s.bookRepo.CountAvailable(nil)
		return err
	})
	g.Go(func() (err error) {
		totalAuthors, err = s.authorRepo.Count(nil)
		return err
	})
	g.Go(func() (err error) {
		totalUsers, err = s.userRepo.Count(nil)
		return err
	})
	g.Go(func() (err error) {
		activeBorrows, err = s.loanRepo.CountOpen(nil)
		return err
	})
	g.Go(func() (err error) {
		recent, err = s.loanRepo.ListRecent(nil, recentActivityLimit)
		return err
	})
	g.Go(func() (err error) {
		overdue, err = s.loanRepo.ListOverdue(nil, time.Now().UTC())
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	overdueActivities := dto.NewLoanActivities(overdue)
	snapshot := &dto.DashboardSnapshot{
		Summary: dto.DashboardSummary{
			TotalBooks:     totalBooks,
			AvailableBooks: availableBooks,
			BorrowedBooks:  totalBooks - availableBooks,
			TotalAuthors:   totalAuthors,
			TotalUsers:     totalUsers,
			ActiveBorrows:  activeBorrows,
			OverdueCount:   int64(len(overdueActivities)),
		},
		RecentActivity: dto.NewLoanActivities(recent),
		OverdueBooks:   overdueActivities,
	}

	if s.cache != nil {
		s.cache.Set(ctx, snapshot)
	}
	return snapshot, nil
}
