package ledger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/projalloc/projalloc/internal/dependencies/mocks"
	"github.com/projalloc/projalloc/internal/model"
	"github.com/projalloc/projalloc/internal/storage/memory"
)

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	s.controller = NewController(s.storage, s.clock, &sync.Mutex{})
	s.ctx = context.Background()

	_ = s.storage.SaveUser(s.ctx, &model.User{ID: "staff-1", Name: "Dr Smith", Role: model.RoleStaff})
	_ = s.storage.SaveUser(s.ctx, &model.User{ID: "student-1", Name: "Alice", Role: model.RoleStudent})
	_ = s.storage.SaveUser(s.ctx, &model.User{ID: "student-2", Name: "Bob", Role: model.RoleStudent})
}

func (s *ControllerSuite) saveProject(id model.ProjectID, availability model.Availability) {
	_ = s.storage.SaveProject(s.ctx, &model.Project{
		ID:           id,
		Title:        "Project " + string(id),
		Description:  "desc",
		OwnerID:      "staff-1",
		Availability: availability,
	})
}

// RegisterInterest tests

func (s *ControllerSuite) TestRegisterInterestSucceeds() {
	s.saveProject("project-1", model.AvailabilityOpen)

	reg, err := s.controller.RegisterInterest(s.ctx, "project-1", "student-1")
	s.Require().NoError(err)

	s.NotEmpty(reg.ID)
	s.Equal(model.ProjectID("project-1"), reg.ProjectID)
	s.Equal(model.UserID("student-1"), reg.StudentID)
	s.Equal(model.RegistrationInterested, reg.State)
}

func (s *ControllerSuite) TestRegisterInterestIsIdempotent() {
	s.saveProject("project-1", model.AvailabilityOpen)

	first, err := s.controller.RegisterInterest(s.ctx, "project-1", "student-1")
	s.Require().NoError(err)

	second, err := s.controller.RegisterInterest(s.ctx, "project-1", "student-1")
	s.Require().NoError(err)
	s.Equal(first.ID, second.ID)

	regs, _ := s.storage.ListRegistrationsByStudent(s.ctx, "student-1")
	s.Len(regs, 1)
}

func (s *ControllerSuite) TestRegisterInterestRejectsClosedProject() {
	s.saveProject("project-1", model.AvailabilityClosed)

	_, err := s.controller.RegisterInterest(s.ctx, "project-1", "student-1")
	s.ErrorIs(err, model.ErrProjectClosed)
}

func (s *ControllerSuite) TestRegisterInterestExistingPairWinsOverClosure() {
	s.saveProject("project-1", model.AvailabilityOpen)
	first, _ := s.controller.RegisterInterest(s.ctx, "project-1", "student-1")

	// Close the project after the registration exists
	project, _ := s.storage.GetProject(s.ctx, "project-1")
	project.Availability = model.AvailabilityClosed
	_ = s.storage.SaveProject(s.ctx, project)

	again, err := s.controller.RegisterInterest(s.ctx, "project-1", "student-1")
	s.Require().NoError(err)
	s.Equal(first.ID, again.ID)
}

func (s *ControllerSuite) TestRegisterInterestRejectsStaff() {
	s.saveProject("project-1", model.AvailabilityOpen)

	_, err := s.controller.RegisterInterest(s.ctx, "project-1", "staff-1")
	s.ErrorIs(err, model.ErrNotStudent)
}

func (s *ControllerSuite) TestRegisterInterestRejectsUnknownProject() {
	_, err := s.controller.RegisterInterest(s.ctx, "nonexistent", "student-1")
	s.ErrorIs(err, model.ErrProjectNotFound)
}

// BatchRegister tests

func (s *ControllerSuite) TestBatchRegisterMixedOutcomes() {
	s.saveProject("project-1", model.AvailabilityOpen)
	s.saveProject("project-2", model.AvailabilityClosed)
	s.saveProject("project-3", model.AvailabilityOpen)

	report, err := s.controller.BatchRegister(s.ctx, []model.ProjectID{"project-1", "project-2", "project-3"}, "student-1")
	s.Require().NoError(err)

	s.Equal(2, report.Accepted)
	s.Equal(1, report.Rejected)
	s.Require().Len(report.Outcomes, 3)

	s.True(report.Outcomes[0].Accepted)
	s.NotNil(report.Outcomes[0].Registration)

	s.False(report.Outcomes[1].Accepted)
	s.Equal(model.ProjectID("project-2"), report.Outcomes[1].ProjectID)
	s.ErrorIs(report.Outcomes[1].Err, model.ErrProjectClosed)

	s.True(report.Outcomes[2].Accepted)
}

func (s *ControllerSuite) TestBatchRegisterAllRejectedStillReports() {
	report, err := s.controller.BatchRegister(s.ctx, []model.ProjectID{"missing-1", "missing-2"}, "student-1")
	s.Require().NoError(err)

	s.Equal(0, report.Accepted)
	s.Equal(2, report.Rejected)
	for _, outcome := range report.Outcomes {
		s.ErrorIs(outcome.Err, model.ErrProjectNotFound)
	}
}

// ListForStudent tests

func (s *ControllerSuite) TestListForStudentJoinsDisplayData() {
	s.saveProject("project-1", model.AvailabilityOpen)
	_, _ = s.controller.RegisterInterest(s.ctx, "project-1", "student-1")

	views, err := s.controller.ListForStudent(s.ctx, "student-1")
	s.Require().NoError(err)
	s.Require().Len(views, 1)

	s.Equal("Alice", views[0].StudentName)
	s.Equal("Project project-1", views[0].ProjectTitle)
	s.Equal("Dr Smith", views[0].StaffName)
}

func (s *ControllerSuite) TestListForStudentRejectsStaff() {
	_, err := s.controller.ListForStudent(s.ctx, "staff-1")
	s.ErrorIs(err, model.ErrNotStudent)
}

func (s *ControllerSuite) TestListForStudentEmpty() {
	views, err := s.controller.ListForStudent(s.ctx, "student-1")
	s.Require().NoError(err)
	s.Empty(views)
}

// ListForOwner tests

func (s *ControllerSuite) TestListForOwnerCoversAllOwnedProjects() {
	s.saveProject("project-1", model.AvailabilityOpen)
	s.saveProject("project-2", model.AvailabilityOpen)
	_, _ = s.controller.RegisterInterest(s.ctx, "project-1", "student-1")
	_, _ = s.controller.RegisterInterest(s.ctx, "project-1", "student-2")
	_, _ = s.controller.RegisterInterest(s.ctx, "project-2", "student-1")

	views, err := s.controller.ListForOwner(s.ctx, "staff-1")
	s.Require().NoError(err)
	s.Len(views, 3)
}

func (s *ControllerSuite) TestListForOwnerExcludesOtherOwners() {
	_ = s.storage.SaveUser(s.ctx, &model.User{ID: "staff-2", Name: "Dr Jones", Role: model.RoleStaff})
	s.saveProject("project-1", model.AvailabilityOpen)
	_ = s.storage.SaveProject(s.ctx, &model.Project{
		ID: "project-9", Title: "Other", Description: "desc",
		OwnerID: "staff-2", Availability: model.AvailabilityOpen,
	})
	_, _ = s.controller.RegisterInterest(s.ctx, "project-1", "student-1")
	_, _ = s.controller.RegisterInterest(s.ctx, "project-9", "student-2")

	views, err := s.controller.ListForOwner(s.ctx, "staff-1")
	s.Require().NoError(err)
	s.Require().Len(views, 1)
	s.Equal(model.ProjectID("project-1"), views[0].Registration.ProjectID)
}

func (s *ControllerSuite) TestListForOwnerRejectsStudent() {
	_, err := s.controller.ListForOwner(s.ctx, "student-1")
	s.ErrorIs(err, model.ErrNotStaff)
}

// IsStudentAssigned tests

func (s *ControllerSuite) TestIsStudentAssigned() {
	s.saveProject("project-1", model.AvailabilityOpen)
	reg, _ := s.controller.RegisterInterest(s.ctx, "project-1", "student-1")

	assigned, err := s.controller.IsStudentAssigned(s.ctx, "student-1")
	s.Require().NoError(err)
	s.False(assigned)

	reg.State = model.RegistrationAssigned
	_ = s.storage.SaveRegistration(s.ctx, reg)

	assigned, err = s.controller.IsStudentAssigned(s.ctx, "student-1")
	s.Require().NoError(err)
	s.True(assigned)
}
