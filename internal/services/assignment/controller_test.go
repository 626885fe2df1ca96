package assignment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/projalloc/projalloc/internal/dependencies/mocks"
	"github.com/projalloc/projalloc/internal/model"
	"github.com/projalloc/projalloc/internal/services/ledger"
	"github.com/projalloc/projalloc/internal/storage/memory"
)

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	controller *Controller
	ledger     *ledger.Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	alloc := &sync.Mutex{}
	s.controller = NewController(s.storage, s.clock, alloc)
	s.ledger = ledger.NewController(s.storage, s.clock, alloc)
	s.ctx = context.Background()

	_ = s.storage.SaveUser(s.ctx, &model.User{ID: "staff-1", Name: "Dr Smith", Role: model.RoleStaff})
	_ = s.storage.SaveUser(s.ctx, &model.User{ID: "staff-2", Name: "Dr Jones", Role: model.RoleStaff})
	_ = s.storage.SaveUser(s.ctx, &model.User{ID: "student-1", Name: "Alice", Role: model.RoleStudent})
	_ = s.storage.SaveUser(s.ctx, &model.User{ID: "student-2", Name: "Bob", Role: model.RoleStudent})
}

func (s *ControllerSuite) saveProject(id model.ProjectID, owner model.UserID) {
	_ = s.storage.SaveProject(s.ctx, &model.Project{
		ID:           id,
		Title:        "Project " + string(id),
		Description:  "desc",
		OwnerID:      owner,
		Availability: model.AvailabilityOpen,
	})
}

// Assign tests

func (s *ControllerSuite) TestAssignSucceeds() {
	s.saveProject("project-1", "staff-1")
	reg, _ := s.ledger.RegisterInterest(s.ctx, "project-1", "student-1")

	result, err := s.controller.Assign(s.ctx, reg.ID, "staff-1")
	s.Require().NoError(err)

	s.Equal(model.RegistrationAssigned, result.Registration.State)
	s.Equal(model.AvailabilityClosed, result.Project.Availability)
}

func (s *ControllerSuite) TestAssignPersistsBothRecords() {
	s.saveProject("project-1", "staff-1")
	reg, _ := s.ledger.RegisterInterest(s.ctx, "project-1", "student-1")

	_, err := s.controller.Assign(s.ctx, reg.ID, "staff-1")
	s.Require().NoError(err)

	storedReg, _ := s.storage.GetRegistration(s.ctx, reg.ID)
	s.Equal(model.RegistrationAssigned, storedReg.State)

	storedProject, _ := s.storage.GetProject(s.ctx, "project-1")
	s.Equal(model.AvailabilityClosed, storedProject.Availability)
}

func (s *ControllerSuite) TestAssignRejectsNonOwner() {
	s.saveProject("project-1", "staff-1")
	reg, _ := s.ledger.RegisterInterest(s.ctx, "project-1", "student-1")

	_, err := s.controller.Assign(s.ctx, reg.ID, "staff-2")
	s.ErrorIs(err, model.ErrNotProjectOwner)
}

func (s *ControllerSuite) TestAssignRejectsUnknownRegistration() {
	_, err := s.controller.Assign(s.ctx, "nonexistent", "staff-1")
	s.ErrorIs(err, model.ErrRegistrationNotFound)
}

func (s *ControllerSuite) TestSecondAssignmentOnSameProjectConflicts() {
	s.saveProject("project-1", "staff-1")
	first, _ := s.ledger.RegisterInterest(s.ctx, "project-1", "student-1")
	second, _ := s.ledger.RegisterInterest(s.ctx, "project-1", "student-2")

	_, err := s.controller.Assign(s.ctx, first.ID, "staff-1")
	s.Require().NoError(err)

	_, err = s.controller.Assign(s.ctx, second.ID, "staff-1")
	s.ErrorIs(err, model.ErrProjectClosed)
}

func (s *ControllerSuite) TestAssignedStudentCannotBeAssignedElsewhere() {
	s.saveProject("project-1", "staff-1")
	s.saveProject("project-2", "staff-2")
	first, _ := s.ledger.RegisterInterest(s.ctx, "project-1", "student-1")
	second, _ := s.ledger.RegisterInterest(s.ctx, "project-2", "student-1")

	_, err := s.controller.Assign(s.ctx, first.ID, "staff-1")
	s.Require().NoError(err)

	_, err = s.controller.Assign(s.ctx, second.ID, "staff-2")
	s.ErrorIs(err, model.ErrStudentAlreadyAssigned)
}

func (s *ControllerSuite) TestAssignOnRetiredProjectConflicts() {
	s.saveProject("project-1", "staff-1")
	reg, _ := s.ledger.RegisterInterest(s.ctx, "project-1", "student-1")

	project, _ := s.storage.GetProject(s.ctx, "project-1")
	project.Availability = model.AvailabilityClosed
	_ = s.storage.SaveProject(s.ctx, project)

	_, err := s.controller.Assign(s.ctx, reg.ID, "staff-1")
	s.ErrorIs(err, model.ErrProjectClosed)
}

func (s *ControllerSuite) TestCompetingRegistrationsRemainRecorded() {
	s.saveProject("project-1", "staff-1")
	first, _ := s.ledger.RegisterInterest(s.ctx, "project-1", "student-1")
	second, _ := s.ledger.RegisterInterest(s.ctx, "project-1", "student-2")

	_, err := s.controller.Assign(s.ctx, first.ID, "staff-1")
	s.Require().NoError(err)

	// The losing registration stays on the ledger, still interested
	stored, err := s.storage.GetRegistration(s.ctx, second.ID)
	s.Require().NoError(err)
	s.Equal(model.RegistrationInterested, stored.State)
}

// Concurrency tests

func (s *ControllerSuite) TestConcurrentAssignsOnSameProjectAdmitExactlyOne() {
	s.saveProject("project-1", "staff-1")

	var regs []*model.Registration
	students := []model.UserID{"student-1", "student-2"}
	for _, student := range students {
		reg, err := s.ledger.RegisterInterest(s.ctx, "project-1", student)
		s.Require().NoError(err)
		regs = append(regs, reg)
	}

	errs := make([]error, len(regs))
	var wg sync.WaitGroup
	for i, reg := range regs {
		wg.Add(1)
		go func(i int, id model.RegistrationID) {
			defer wg.Done()
			_, errs[i] = s.controller.Assign(s.ctx, id, "staff-1")
		}(i, reg.ID)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			s.ErrorIs(err, model.ErrProjectClosed)
		}
	}
	s.Equal(1, succeeded)

	project, _ := s.storage.GetProject(s.ctx, "project-1")
	s.Equal(model.AvailabilityClosed, project.Availability)
}

func (s *ControllerSuite) TestConcurrentAssignsForSameStudentAdmitExactlyOne() {
	s.saveProject("project-1", "staff-1")
	s.saveProject("project-2", "staff-1")
	first, _ := s.ledger.RegisterInterest(s.ctx, "project-1", "student-1")
	second, _ := s.ledger.RegisterInterest(s.ctx, "project-2", "student-1")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []model.RegistrationID{first.ID, second.ID} {
		wg.Add(1)
		go func(i int, id model.RegistrationID) {
			defer wg.Done()
			_, errs[i] = s.controller.Assign(s.ctx, id, "staff-1")
		}(i, id)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			s.ErrorIs(err, model.ErrStudentAlreadyAssigned)
		}
	}
	s.Equal(1, succeeded)
}
