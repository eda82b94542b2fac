package services

import (
	"errors"
	"time"

	"github.com/h4ks-com/croptrack/internal/models"
	"github.com/h4ks-com/croptrack/internal/repository"
	"github.com/shopspring/decimal"
)

var (
	ErrIrrigationNotFound = errors.New("irrigation schedule not found")
)

// DefaultIrrigationHour is the local hour new schedules default to, tomorrow.
const DefaultIrrigationHour = 6

type IrrigationInput struct {
	ScheduledDate     *time.Time
	DurationMinutes   int
	WaterAmountLiters *decimal.Decimal
	Notes             string
}

// IrrigationBoard is the irrigation page: everything still pending and
// what was finished today.
type IrrigationBoard struct {
	Pending        []models.IrrigationSchedule
	CompletedToday []models.IrrigationSchedule
}

type IrrigationService struct {
	cropRepo       *repository.CropRepository
	irrigationRepo *repository.IrrigationRepository
	clock          Clock
}

func NewIrrigationService(
	cropRepo *repository.CropRepository,
	irrigationRepo *repository.IrrigationRepository,
	clock Clock,
) *IrrigationService {
	return &IrrigationService{
		cropRepo:       cropRepo,
		irrigationRepo: irrigationRepo,
		clock:          clock,
	}
}

// DefaultScheduledDate is tomorrow at 06:00 local time.
func (s *IrrigationService) DefaultScheduledDate() time.Time {
	return s.clock.TomorrowAt(DefaultIrrigationHour)
}

// IrrigationForm is the initial state of an empty add-irrigation form.
type IrrigationForm struct {
	Crop          *models.Crop
	ScheduledDate time.Time
}

func (s *IrrigationService) NewScheduleForm(cropID, ownerID uint) (*IrrigationForm, error) {
	crop, err := s.cropRepo.FindForOwner(cropID, ownerID)
	if err != nil {
		return nil, err
	}
	if crop == nil {
		return nil, ErrCropNotFound
	}
	return &IrrigationForm{Crop: crop, ScheduledDate: s.DefaultScheduledDate()}, nil
}

func (s *IrrigationService) AddSchedule(cropID, ownerID uint, input IrrigationInput) (*models.IrrigationSchedule, error) {
	crop, err := s.cropRepo.FindForOwner(cropID, ownerID)
	if err != nil {
		return nil, err
	}
	if crop == nil {
		return nil, ErrCropNotFound
	}

	scheduled := s.DefaultScheduledDate()
	if input.ScheduledDate != nil {
		scheduled = *input.ScheduledDate
	}

	schedule := &models.IrrigationSchedule{
		CropID:          crop.ID,
		ScheduledDate:   scheduled.UTC(),
		DurationMinutes: input.DurationMinutes,
		Notes:           input.Notes,
	}
	if input.WaterAmountLiters != nil {
		schedule.WaterAmountLiters = decimal.NewNullDecimal(*input.WaterAmountLiters)
	}

	if err := s.irrigationRepo.Create(schedule); err != nil {
		return nil, err
	}

	schedule.Crop = *crop
	return schedule, nil
}

// CompleteIrrigation marks a schedule done and stamps it with the current
// time. Completing an already completed schedule is allowed and moves the
// stamp forward.
func (s *IrrigationService) CompleteIrrigation(id, ownerID uint) (*models.IrrigationSchedule, error) {
	schedule, err := s.irrigationRepo.FindForOwner(id, ownerID)
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return nil, ErrIrrigationNotFound
	}

	schedule.MarkCompleted(s.clock.Now())
	if err := s.irrigationRepo.Update(schedule); err != nil {
		return nil, err
	}

	return schedule, nil
}

// CountDue counts the owner's pending schedules whose time has passed.
func (s *IrrigationService) CountDue(ownerID uint) (int64, error) {
	return s.irrigationRepo.CountDueForOwner(ownerID, s.clock.Now())
}

func (s *IrrigationService) GetBoard(ownerID uint) (*IrrigationBoard, error) {
	pending, err := s.irrigationRepo.ListPendingForOwner(ownerID)
	if err != nil {
		return nil, err
	}

	from, to := s.clock.DayBounds()
	completed, err := s.irrigationRepo.ListCompletedForOwner(ownerID, from, to)
	if err != nil {
		return nil, err
	}

	return &IrrigationBoard{
		Pending:        pending,
		CompletedToday: completed,
	}, nil
}

func (s *IrrigationService) SearchSchedules(filter repository.IrrigationFilter, page repository.Page) ([]models.IrrigationSchedule, int64, error) {
	return s.irrigationRepo.Search(filter, page)
}
