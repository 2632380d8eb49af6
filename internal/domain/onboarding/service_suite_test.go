package onboarding_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"hrcore/internal/domain/address"
	"hrcore/internal/domain/apperr"
	"hrcore/internal/domain/banking"
	"hrcore/internal/domain/emergency"
	"hrcore/internal/domain/identity"
	"hrcore/internal/domain/onboarding"
	"hrcore/internal/domain/onboarding/mocks"
	"hrcore/internal/platform/clock"
)

// fakeRecords serves a fixed list for one sub-record category.
type fakeRecords[Req, Rec any] struct {
	list []Rec
	err  error
}

func (f *fakeRecords[Req, Rec]) Add(_ context.Context, _, _ string, _ Req, _ string) (Rec, error) {
	var zero Rec
	return zero, f.err
}

func (f *fakeRecords[Req, Rec]) List(context.Context, string, string) ([]Rec, error) {
	return f.list, f.err
}

type ServiceSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	employees *mocks.MockEmployeeStore
	addresses *fakeRecords[address.Request, address.Address]
	contacts  *fakeRecords[emergency.Request, emergency.Contact]
	documents *fakeRecords[identity.Request, identity.Document]
	accounts  *fakeRecords[banking.Request, banking.Account]
	svc       *onboarding.Service
	ctx       context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.employees = mocks.NewMockEmployeeStore(s.ctrl)
	s.addresses = &fakeRecords[address.Request, address.Address]{}
	s.contacts = &fakeRecords[emergency.Request, emergency.Contact]{}
	s.documents = &fakeRecords[identity.Request, identity.Document]{}
	s.accounts = &fakeRecords[banking.Request, banking.Account]{}
	s.svc = onboarding.NewService(onboarding.Deps{
		Employees: s.employees,
		Addresses: s.addresses,
		Contacts:  s.contacts,
		Documents: s.documents,
		Accounts:  s.accounts,
		Clock:     &clock.Fixed{T: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)},
	})
	s.ctx = context.Background()
}

func (s *ServiceSuite) fillAll() {
	s.addresses.list = []address.Address{{ID: "a1", IsActive: true}}
	s.contacts.list = []emergency.Contact{{ID: "c1", IsActive: true}}
	s.documents.list = []identity.Document{{ID: "d1", DocumentTypeCode: "USA_PASSPORT", IsActive: true}}
	s.accounts.list = []banking.Account{{ID: "b1", IsActive: true}}
}

func pending() onboarding.Employee {
	return onboarding.Employee{ID: "emp-1", CountryCode: "USA", Status: onboarding.StatusPendingOnboarding, Version: 1}
}

func (s *ServiceSuite) TestStatusUnknownEmployee() {
	s.employees.EXPECT().GetEmployee(gomock.Any(), tenant, "emp-1").Return(onboarding.Employee{}, apperr.ErrNotFound)

	_, err := s.svc.Status(s.ctx, tenant, "emp-1")
	s.ErrorIs(err, apperr.ErrEmployeeNotFound)
}

func (s *ServiceSuite) TestStatusStoreFailure() {
	boom := errors.New("connection reset")
	s.employees.EXPECT().GetEmployee(gomock.Any(), tenant, "emp-1").Return(onboarding.Employee{}, boom)

	_, err := s.svc.Status(s.ctx, tenant, "emp-1")
	s.ErrorIs(err, boom)
	s.False(apperr.IsKind(err, apperr.KindNotFound))
}

func (s *ServiceSuite) TestStatusPropagatesSubRecordFailure() {
	s.employees.EXPECT().GetEmployee(gomock.Any(), tenant, "emp-1").Return(pending(), nil)
	boom := errors.New("list failed")
	s.accounts.err = boom

	_, err := s.svc.Status(s.ctx, tenant, "emp-1")
	s.ErrorIs(err, boom)
}

func (s *ServiceSuite) TestTaxInfoFromTaxDocument() {
	s.employees.EXPECT().GetEmployee(gomock.Any(), tenant, "emp-1").Return(pending(), nil).Times(2)

	snap, err := s.svc.Status(s.ctx, tenant, "emp-1")
	s.Require().NoError(err)
	s.False(snap.HasTaxInfo)
	s.Equal([]string{"USA_SSN"}, snap.MissingRequiredDocuments)

	s.documents.list = []identity.Document{{ID: "d1", DocumentTypeCode: "USA_SSN", IsActive: true}}
	snap, err = s.svc.Status(s.ctx, tenant, "emp-1")
	s.Require().NoError(err)
	s.True(snap.HasTaxInfo)
	s.Empty(snap.MissingRequiredDocuments)
}

func (s *ServiceSuite) TestStartDuplicate() {
	s.employees.EXPECT().SaveEmployee(gomock.Any(), tenant, gomock.Any()).Return(onboarding.Employee{}, apperr.ErrConflict)

	_, _, err := s.svc.Start(s.ctx, tenant, onboarding.StartRequest{
		FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", CountryCode: "USA",
	}, actor)
	s.ErrorIs(err, onboarding.ErrDuplicateEmployee)
}

func (s *ServiceSuite) TestStartValidatesBeforeSaving() {
	_, _, err := s.svc.Start(s.ctx, tenant, onboarding.StartRequest{FirstName: "Jane"}, actor)
	s.True(apperr.IsKind(err, apperr.KindValidation))
}

func (s *ServiceSuite) TestCompleteRetriesOnConflict() {
	s.fillAll()
	active := pending()
	active.Status = onboarding.StatusActive

	gomock.InOrder(
		s.employees.EXPECT().GetEmployee(gomock.Any(), tenant, "emp-1").Return(pending(), nil),
		s.employees.EXPECT().SaveEmployee(gomock.Any(), tenant, gomock.Any()).Return(onboarding.Employee{}, apperr.ErrConflict),
		s.employees.EXPECT().GetEmployee(gomock.Any(), tenant, "emp-1").Return(pending(), nil),
		s.employees.EXPECT().SaveEmployee(gomock.Any(), tenant, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, e onboarding.Employee) (onboarding.Employee, error) {
				s.Equal(onboarding.StatusActive, e.Status)
				s.Equal(actor, e.OnboardedBy)
				s.NotNil(e.OnboardedAt)
				e.Version++
				return e, nil
			}),
		s.employees.EXPECT().GetEmployee(gomock.Any(), tenant, "emp-1").Return(active, nil),
	)

	snap, err := s.svc.Complete(s.ctx, tenant, "emp-1", actor)
	s.Require().NoError(err)
	s.Equal(onboarding.StatusActive, snap.Status)
}

func (s *ServiceSuite) TestCompleteActiveSkipsSave() {
	active := pending()
	active.Status = onboarding.StatusActive
	s.employees.EXPECT().GetEmployee(gomock.Any(), tenant, "emp-1").Return(active, nil).Times(2)
	s.employees.EXPECT().SaveEmployee(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	snap, err := s.svc.Complete(s.ctx, tenant, "emp-1", actor)
	s.Require().NoError(err)
	s.Equal(onboarding.StatusActive, snap.Status)
}

func (s *ServiceSuite) TestCompleteGateOrder() {
	s.fillAll()
	s.contacts.list = nil
	s.accounts.list = nil
	s.employees.EXPECT().GetEmployee(gomock.Any(), tenant, "emp-1").Return(pending(), nil)

	_, err := s.svc.Complete(s.ctx, tenant, "emp-1", actor)
	var e *apperr.Error
	s.Require().ErrorAs(err, &e)
	s.Equal(onboarding.StepEmergencyContact, e.MissingStep)
}
