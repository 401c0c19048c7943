package lifecycle_test

import (
	"civicfix/backend/internal/models"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) CreateComplaintWithAudit(c *models.Complaint, entry *models.StatusAuditEntry) error {
	args := m.Called(c, entry)
	return args.Error(0)
}

func (m *MockStorage) GetComplaintByID(id string) (*models.Complaint, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Complaint), args.Error(1)
}

func (m *MockStorage) GetComplaintByTrackingCode(code string) (*models.Complaint, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Complaint), args.Error(1)
}

func (m *MockStorage) ListComplaints(status, department string) ([]models.Complaint, error) {
	args := m.Called(status, department)
	return args.Get(0).([]models.Complaint), args.Error(1)
}

func (m *MockStorage) ApplyTransition(id, fromStatus, resolutionImageURL string, entry *models.StatusAuditEntry) error {
	args := m.Called(id, fromStatus, resolutionImageURL, entry)
	return args.Error(0)
}

func (m *MockStorage) ListAuditTrail(trackingCode string) ([]models.StatusAuditEntry, error) {
	args := m.Called(trackingCode)
	return args.Get(0).([]models.StatusAuditEntry), args.Error(1)
}

func (m *MockStorage) AdjustReporterTrust(reporterID string, delta int) (int, error) {
	args := m.Called(reporterID, delta)
	return args.Int(0), args.Error(1)
}

func (m *MockStorage) GetReporterProfile(reporterID string) (*models.ReporterProfile, error) {
	args := m.Called(reporterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReporterProfile), args.Error(1)
}

func (m *MockStorage) AddUpvote(id, voterID string) (int, error) {
	args := m.Called(id, voterID)
	return args.Int(0), args.Error(1)
}

func (m *MockStorage) SaveFeedback(id string, rating int, text string) error {
	args := m.Called(id, rating, text)
	return args.Error(0)
}

func (m *MockStorage) PublishAuditEvent(entry models.StatusAuditEntry) error {
	args := m.Called(entry)
	return args.Error(0)
}
