package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/rentaltax/internal/config"
	"github.com/stwalsh4118/rentaltax/internal/jurisdiction"
	"github.com/stwalsh4118/rentaltax/internal/logger"
	"github.com/stwalsh4118/rentaltax/internal/models"
	"github.com/stwalsh4118/rentaltax/internal/repository"
	"github.com/stwalsh4118/rentaltax/internal/store"
)

// MockTaxReturnRepository is a mock implementation of TaxReturnRepository for testing
type MockTaxReturnRepository struct {
	mock.Mock
}

func (m *MockTaxReturnRepository) FindByID(ctx context.Context, id string) (*models.TaxReturn, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TaxReturn), args.Error(1)
}

func (m *MockTaxReturnRepository) List(ctx context.Context) ([]*models.TaxReturn, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TaxReturn), args.Error(1)
}

func (m *MockTaxReturnRepository) Save(ctx context.Context, taxReturn *models.TaxReturn) error {
	args := m.Called(ctx, taxReturn)
	return args.Error(0)
}

// MockSummaryService is a mock implementation of SummaryService for testing
type MockSummaryService struct {
	mock.Mock
}

func (m *MockSummaryService) Summary(ctx context.Context, workpaperID string, actor models.Actor) (*models.RentalSummary, error) {
	args := m.Called(ctx, workpaperID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RentalSummary), args.Error(1)
}

func (m *MockSummaryService) Summaries(ctx context.Context, taxYear string, actor models.Actor) ([]*models.RentalSummary, error) {
	args := m.Called(ctx, taxYear, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RentalSummary), args.Error(1)
}

func newMockedTaxReturnService(repo repository.TaxReturnRepository, summaries SummaryService) TaxReturnService {
	log := logger.NewNop()
	settings := NewSettingsService(
		repository.NewSettingsRepository(store.NewMemoryStore()),
		config.TaxConfig{TaxYear: testTaxYear, InterestDeductibilityRate: dec("0.8")},
		log,
	)
	return NewTaxReturnService(repo, summaries, settings, jurisdiction.DefaultRegistry(), log)
}

func mappingSummaries() []*models.RentalSummary {
	return []*models.RentalSummary{
		{PropertyID: "p1", PropertyType: models.ClassificationResidential, TotalIncome: dec("10000"), DeductibleExpenses: dec("3000"), NetIncome: dec("7000")},
		{PropertyID: "p2", PropertyType: models.ClassificationResidential, TotalIncome: dec("20000"), DeductibleExpenses: dec("4000"), NetIncome: dec("16000")},
		{PropertyID: "p3", PropertyType: models.ClassificationCommercial, TotalIncome: dec("8000"), DeductibleExpenses: dec("3000"), NetIncome: dec("5000")},
	}
}

func TestTaxReturnService_GenerateMapsSummaries(t *testing.T) {
	// Arrange
	mockRepo := new(MockTaxReturnRepository)
	mockSummaries := new(MockSummaryService)
	service := newMockedTaxReturnService(mockRepo, mockSummaries)
	ctx := context.Background()

	mockSummaries.On("Summaries", ctx, testTaxYear, alice).Return(mappingSummaries(), nil)
	mockRepo.On("Save", ctx, mock.AnythingOfType("*models.TaxReturn")).Return(nil)

	// Act
	taxReturn, err := service.Generate(ctx, GenerateRequest{Jurisdiction: models.JurisdictionNZIRD}, alice)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, models.TaxReturnDraft, taxReturn.Status)
	assert.Equal(t, "alice", taxReturn.TaxpayerID)
	assert.Equal(t, testTaxYear, taxReturn.TaxYear)

	section := taxReturn.RentalSection()
	require.NotNil(t, section)
	want := map[string]string{
		jurisdiction.FieldQ22D: "30000",
		jurisdiction.FieldQ22E: "7000",
		jurisdiction.FieldQ22H: "23000",
		jurisdiction.FieldQ22I: "0",
		jurisdiction.FieldQ24:  "5000",
	}
	for key, value := range want {
		got, ok := section.Fields.Amount(key)
		require.True(t, ok, key)
		assert.True(t, got.Equal(dec(value)), "%s: want %s, got %s", key, value, got)
	}
	assert.Len(t, section.Schedule, 3)
	assert.False(t, taxReturn.Validation.HasBlocking())
	mockRepo.AssertExpectations(t)
	mockSummaries.AssertExpectations(t)
}

func TestTaxReturnService_GenerateUnsupportedJurisdiction(t *testing.T) {
	// Arrange
	mockRepo := new(MockTaxReturnRepository)
	mockSummaries := new(MockSummaryService)
	service := newMockedTaxReturnService(mockRepo, mockSummaries)

	// Act
	taxReturn, err := service.Generate(context.Background(), GenerateRequest{Jurisdiction: "AU-ATO"}, alice)

	// Assert
	assert.Nil(t, taxReturn)
	assert.ErrorIs(t, err, ErrUnsupportedJurisdiction)
	assert.EqualError(t, err, "Unsupported jurisdiction: AU-ATO")
	// Nothing is summarised or persisted for an unknown jurisdiction
	mockSummaries.AssertNotCalled(t, "Summaries")
	mockRepo.AssertNotCalled(t, "Save")
}

func TestTaxReturnService_GenerateStoreFailure(t *testing.T) {
	// Arrange
	mockRepo := new(MockTaxReturnRepository)
	mockSummaries := new(MockSummaryService)
	service := newMockedTaxReturnService(mockRepo, mockSummaries)
	ctx := context.Background()

	mockSummaries.On("Summaries", ctx, "2024/2025", alice).Return([]*models.RentalSummary{}, nil)
	mockRepo.On("Save", ctx, mock.Anything).Return(store.ErrVersionConflict)

	// Act
	_, err := service.Generate(ctx, GenerateRequest{TaxYear: "2024/2025"}, alice)

	// Assert
	assert.ErrorIs(t, err, store.ErrVersionConflict)
	mockRepo.AssertExpectations(t)
}

func TestTaxReturnService_LockRefusalKeepsStatus(t *testing.T) {
	// Arrange
	mockRepo := new(MockTaxReturnRepository)
	service := newMockedTaxReturnService(mockRepo, new(MockSummaryService))
	ctx := context.Background()

	stored := &models.TaxReturn{
		ID:           "tr-1",
		Jurisdiction: models.JurisdictionNZIRD,
		Status:       models.TaxReturnComplete,
		Validation:   models.NewValidation(),
	}
	mockRepo.On("FindByID", ctx, "tr-1").Return(stored, nil)
	mockRepo.On("Save", ctx, mock.MatchedBy(func(tr *models.TaxReturn) bool {
		return tr.Status == models.TaxReturnComplete
	})).Return(nil)

	// Act
	taxReturn, err := service.Lock(ctx, "tr-1", alice)

	// Assert
	assert.Nil(t, taxReturn)
	require.Error(t, err)
	assert.EqualError(t, err, "Cannot lock: blocking validation issues exist")
	refused, ok := IsLockRefused(err)
	require.True(t, ok)
	assert.Equal(t, []string{MsgRentalSectionMissing}, refused.Validation.Blocking)
	assert.Equal(t, models.TaxReturnComplete, stored.Status)
	mockRepo.AssertExpectations(t)
}

func TestTaxReturnService_NotFound(t *testing.T) {
	mockRepo := new(MockTaxReturnRepository)
	service := newMockedTaxReturnService(mockRepo, new(MockSummaryService))
	ctx := context.Background()

	// Repository returns nil, nil when no return is found
	mockRepo.On("FindByID", ctx, "nope").Return(nil, nil)

	_, err := service.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrTaxReturnNotFound)
	_, err = service.Validate(ctx, "nope", alice)
	assert.ErrorIs(t, err, ErrTaxReturnNotFound)
	_, err = service.Lock(ctx, "nope", alice)
	assert.EqualError(t, err, "Tax return not found")
}

func TestTaxReturnService_LoadFailureIsWrapped(t *testing.T) {
	mockRepo := new(MockTaxReturnRepository)
	service := newMockedTaxReturnService(mockRepo, new(MockSummaryService))
	ctx := context.Background()
	boom := errors.New("connection reset")

	mockRepo.On("FindByID", ctx, "tr-1").Return(nil, boom)

	_, err := service.Get(ctx, "tr-1")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrTaxReturnNotFound)
}

func TestTaxReturnService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)

	_, wp := createRental(t, svc, NewProperty{DisplayName: "Flat"})
	_, err := svc.Workpapers.UpdateInputs(ctx, wp.ID, WorkpaperInputs{GrossRentalIncome: decPtr("20000"), DaysRented: intPtr(365)}, alice)
	require.NoError(t, err)
	_, err = svc.Expenses.Add(ctx, wp.ID, NewExpenseLine{Category: models.CategoryInterest, Amount: dec("5000")}, alice)
	require.NoError(t, err)

	taxReturn, err := svc.TaxReturns.Generate(ctx, GenerateRequest{
		Jurisdiction: models.JurisdictionNZIRD,
		Inputs:       models.RentalInputs{InterestReasonSelection: "Rental property"},
	}, alice)
	require.NoError(t, err)
	assert.Equal(t, models.TaxReturnDraft, taxReturn.Status)
	q23b, ok := taxReturn.RentalSection().Fields.Amount(jurisdiction.FieldQ23B)
	require.True(t, ok)
	assert.True(t, q23b.Equal(dec("4000")))

	// Draft cannot be locked.
	_, err = svc.TaxReturns.Lock(ctx, taxReturn.ID, alice)
	assert.ErrorIs(t, err, ErrTaxReturnNotComplete)
	assert.EqualError(t, err, "Tax return must be in Complete status to lock. Current: Draft")

	// A Locked target goes through the lock gate.
	_, err = svc.TaxReturns.Transition(ctx, taxReturn.ID, models.TaxReturnLocked, alice)
	assert.ErrorIs(t, err, ErrTaxReturnNotComplete)

	for _, step := range []models.TaxReturnStatus{models.TaxReturnReadyToReview, models.TaxReturnDraft, models.TaxReturnComplete} {
		_, err = svc.TaxReturns.Transition(ctx, taxReturn.ID, step, alice)
		require.NoError(t, err, step)
	}

	_, err = svc.TaxReturns.Transition(ctx, taxReturn.ID, models.TaxReturnDraft, alice)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	validation, err := svc.TaxReturns.Validate(ctx, taxReturn.ID, alice)
	require.NoError(t, err)
	assert.Empty(t, validation.Blocking)

	locked, err := svc.TaxReturns.Lock(ctx, taxReturn.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, models.TaxReturnLocked, locked.Status)

	_, err = svc.TaxReturns.Transition(ctx, taxReturn.ID, models.TaxReturnComplete, alice)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	all, err := svc.TaxReturns.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, models.TaxReturnLocked, all[0].Status)
}

func TestValidateCompliance(t *testing.T) {
	registry := jurisdiction.DefaultRegistry()

	tests := []struct {
		name      string
		taxReturn *models.TaxReturn
		blocking  []string
	}{
		{
			name:      "missing rental section",
			taxReturn: &models.TaxReturn{Jurisdiction: models.JurisdictionNZIRD},
			blocking:  []string{MsgRentalSectionMissing},
		},
		{
			name: "unknown jurisdiction",
			taxReturn: &models.TaxReturn{
				Jurisdiction: "XX",
				Sections:     map[string]*models.RentalSection{models.RentalSectionKey: {Fields: models.Fields{}}},
			},
			blocking: []string{"Unsupported jurisdiction: XX"},
		},
		{
			name: "delegates to the jurisdiction",
			taxReturn: &models.TaxReturn{
				Jurisdiction: models.JurisdictionNZIRD,
				Sections: map[string]*models.RentalSection{models.RentalSectionKey: {Fields: models.Fields{
					jurisdiction.FieldQ22A: models.AmountField(dec("1")),
					jurisdiction.FieldQ22D: models.AmountField(dec("1")),
					jurisdiction.FieldQ22E: models.AmountField(dec("0")),
					jurisdiction.FieldQ22G: models.AmountField(dec("0")),
					jurisdiction.FieldQ22H: models.AmountField(dec("1")),
				}}},
			},
			blocking: []string{"Required field IR3.Q22.I is missing."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ValidateCompliance(registry, tt.taxReturn)
			assert.Equal(t, tt.blocking, v.Blocking)
		})
	}
}
