package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"studiobook/internal/domain"
)

type MockRuleRepository struct {
	mock.Mock
}

func (m *MockRuleRepository) ListByStudio(ctx context.Context, studioID int64) ([]domain.AvailabilityRule, error) {
	args := m.Called(ctx, studioID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AvailabilityRule), args.Error(1)
}

func (m *MockRuleRepository) Create(ctx context.Context, rule *domain.AvailabilityRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockRuleRepository) GetByID(ctx context.Context, id int64) (*domain.AvailabilityRule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AvailabilityRule), args.Error(1)
}

func (m *MockRuleRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestResolver(rules *MockRuleRepository) *Resolver {
	return NewResolver(rules, 9*60, 18*60)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCoverageFor_NoRules_WeekdayDefaultWindow(t *testing.T) {
	repo := new(MockRuleRepository)
	repo.On("ListByStudio", mock.Anything, int64(1)).Return([]domain.AvailabilityRule{}, nil)

	// 2026-09-07 is a Monday
	cov, err := newTestResolver(repo).CoverageFor(context.Background(), 1, date(2026, 9, 7))

	assert.NoError(t, err)
	assert.Equal(t, ModeDefault, cov.Mode)
	assert.True(t, cov.Covers(9*60, 10*60))
	assert.True(t, cov.Covers(17*60, 18*60))
	assert.False(t, cov.Covers(8*60, 9*60))
	assert.False(t, cov.Covers(18*60, 19*60))
}

func TestCoverageFor_NoRules_WeekendClosed(t *testing.T) {
	repo := new(MockRuleRepository)
	repo.On("ListByStudio", mock.Anything, int64(1)).Return([]domain.AvailabilityRule{}, nil)

	// 2026-09-05 is a Saturday
	cov, err := newTestResolver(repo).CoverageFor(context.Background(), 1, date(2026, 9, 5))

	assert.NoError(t, err)
	assert.Equal(t, ModeDefault, cov.Mode)
	assert.Empty(t, cov.Windows)
	assert.False(t, cov.Covers(12*60, 13*60))
}

func TestCoverageFor_RecurringRuleMatchesWeekday(t *testing.T) {
	repo := new(MockRuleRepository)
	repo.On("ListByStudio", mock.Anything, int64(1)).Return([]domain.AvailabilityRule{
		{
			StudioID:    1,
			Kind:        domain.RuleRecurring,
			Weekdays:    []int{int(time.Monday), int(time.Wednesday)},
			StartMinute: 10 * 60,
			EndMinute:   20 * 60,
		},
	}, nil)

	cov, err := newTestResolver(repo).CoverageFor(context.Background(), 1, date(2026, 9, 7)) // Monday

	assert.NoError(t, err)
	assert.Equal(t, ModeRules, cov.Mode)
	assert.True(t, cov.Covers(10*60, 11*60))
	assert.True(t, cov.Covers(19*60, 20*60))
	assert.False(t, cov.Covers(9*60, 10*60))
}

func TestCoverageFor_RulesExist_NoMatchMeansClosed(t *testing.T) {
	repo := new(MockRuleRepository)
	repo.On("ListByStudio", mock.Anything, int64(1)).Return([]domain.AvailabilityRule{
		{
			StudioID:    1,
			Kind:        domain.RuleRecurring,
			Weekdays:    []int{int(time.Tuesday)},
			StartMinute: 9 * 60,
			EndMinute:   18 * 60,
		},
	}, nil)

	// Monday: a rule set exists but nothing applies, no default fallback
	cov, err := newTestResolver(repo).CoverageFor(context.Background(), 1, date(2026, 9, 7))

	assert.NoError(t, err)
	assert.Equal(t, ModeRules, cov.Mode)
	assert.Empty(t, cov.Windows)
}

func TestCoverageFor_DatedRuleMatchesExactDate(t *testing.T) {
	special := date(2026, 9, 5) // a Saturday
	repo := new(MockRuleRepository)
	repo.On("ListByStudio", mock.Anything, int64(1)).Return([]domain.AvailabilityRule{
		{
			StudioID:    1,
			Kind:        domain.RuleDated,
			Date:        &special,
			StartMinute: 12 * 60,
			EndMinute:   16 * 60,
		},
	}, nil)

	r := newTestResolver(repo)

	cov, err := r.CoverageFor(context.Background(), 1, special)
	assert.NoError(t, err)
	assert.True(t, cov.Covers(12*60, 13*60))

	cov, err = r.CoverageFor(context.Background(), 1, date(2026, 9, 12))
	assert.NoError(t, err)
	assert.Empty(t, cov.Windows)
}

func TestCoverageFor_UnionOfOverlappingRules(t *testing.T) {
	repo := new(MockRuleRepository)
	repo.On("ListByStudio", mock.Anything, int64(1)).Return([]domain.AvailabilityRule{
		{Kind: domain.RuleRecurring, Weekdays: []int{int(time.Monday)}, StartMinute: 8 * 60, EndMinute: 12 * 60},
		{Kind: domain.RuleRecurring, Weekdays: []int{int(time.Monday)}, StartMinute: 11 * 60, EndMinute: 15 * 60},
	}, nil)

	cov, err := newTestResolver(repo).CoverageFor(context.Background(), 1, date(2026, 9, 7))

	assert.NoError(t, err)
	assert.Len(t, cov.Windows, 2)
	assert.True(t, cov.Covers(8*60, 9*60))
	assert.True(t, cov.Covers(14*60, 15*60))
	// inside the overlap of the two windows
	assert.True(t, cov.Covers(11*60, 12*60))
}

func TestCoverage_CoversNeedsFullContainment(t *testing.T) {
	cov := Coverage{Mode: ModeRules, Windows: []domain.Window{{StartMinute: 9*60 + 30, EndMinute: 18 * 60}}}

	// the 9:00 slot is only half inside the window
	assert.False(t, cov.Covers(9*60, 10*60))
	assert.True(t, cov.Covers(10*60, 11*60))
}
