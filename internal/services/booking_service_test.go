package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"fairway/internal/common"
	"fairway/internal/events"
	"fairway/internal/models"
	"fairway/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type BookingServiceTestSuite struct {
	suite.Suite
	slots     *MockTeeTimeSlotRepository
	bookings  *MockBookingRepository
	publisher *MockPublisher
	tx        *fakeTransactor
	service   BookingService
	tenantID  uuid.UUID
}

func (suite *BookingServiceTestSuite) SetupTest() {
	suite.slots = &MockTeeTimeSlotRepository{}
	suite.bookings = &MockBookingRepository{}
	suite.publisher = &MockPublisher{}
	suite.tx = &fakeTransactor{repos: repositories.TxRepositories{Slots: suite.slots, Bookings: suite.bookings}}
	suite.service = NewBookingService(suite.tx, suite.slots, suite.bookings, suite.publisher, time.Second)
	suite.tenantID = uuid.New()

	suite.slots.Test(suite.T())
	suite.bookings.Test(suite.T())
	suite.publisher.Test(suite.T())
}

func (suite *BookingServiceTestSuite) TearDownTest() {
	suite.slots.AssertExpectations(suite.T())
	suite.bookings.AssertExpectations(suite.T())
	suite.publisher.AssertExpectations(suite.T())
}

func TestBookingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BookingServiceTestSuite))
}

func (suite *BookingServiceTestSuite) slot(max, booked int) *models.TeeTimeSlot {
	return &models.TeeTimeSlot{
		ID:             uuid.New(),
		TenantID:       suite.tenantID,
		Date:           time.Date(2026, 7, 11, 0, 0, 0, 0, time.UTC),
		StartTime:      "08:10",
		MaxPlayers:     max,
		BookedPlayers:  booked,
		PricePerPlayer: decimal.RequireFromString("45.50"),
		CartFee:        decimal.RequireFromString("12.25"),
		IsAvailable:    true,
	}
}

func (suite *BookingServiceTestSuite) userRequest(slotID uuid.UUID, players int) *models.CreateBookingRequest {
	userID := uuid.New()
	return &models.CreateBookingRequest{TeeTimeSlotID: slotID, Players: players, UserID: &userID}
}

func (suite *BookingServiceTestSuite) TestCreate_ConfirmsAndFreezesPrice() {
	slot := suite.slot(4, 1)
	reserved := *slot
	reserved.BookedPlayers = 4
	req := suite.userRequest(slot.ID, 3)
	req.CartRequested = true

	suite.slots.On("GetByID", mock.Anything, suite.tenantID, slot.ID).Return(slot, nil).Once()
	suite.slots.On("ReserveSeats", mock.Anything, suite.tenantID, slot.ID, 3).Return(&reserved, true, nil).Once()
	suite.bookings.On("Create", mock.Anything, mock.MatchedBy(func(b *models.Booking) bool {
		return b.Status == models.BookingConfirmed &&
			b.TotalPrice.StringFixed(2) == "173.25" &&
			b.UserID != nil && b.GuestName == nil
	})).Return(nil).Once()
	suite.publisher.On("Publish", mock.Anything, events.BookingCreated, mock.AnythingOfType("events.BookingEvent")).Return(nil).Once()

	booking, err := suite.service.Create(context.Background(), suite.tenantID, req)
	suite.Require().NoError(err)
	suite.Equal(models.BookingConfirmed, booking.Status)
	suite.Equal("173.25", booking.TotalPrice.StringFixed(2))
	suite.Equal(1, suite.tx.calls)
}

func (suite *BookingServiceTestSuite) TestCreate_CapacityExceeded() {
	// max 4, booked 3: two players do not fit.
	slot := suite.slot(4, 3)
	req := suite.userRequest(slot.ID, 2)

	suite.slots.On("GetByID", mock.Anything, suite.tenantID, slot.ID).Return(slot, nil).Twice()
	suite.slots.On("ReserveSeats", mock.Anything, suite.tenantID, slot.ID, 2).Return(nil, false, nil).Once()

	booking, err := suite.service.Create(context.Background(), suite.tenantID, req)
	suite.Nil(booking)
	suite.ErrorIs(err, common.ErrCapacityExceeded)
	var appErr *common.AppError
	suite.Require().True(errors.As(err, &appErr))
	suite.Contains(appErr.Message, "1 left, 2 requested")
	suite.True(suite.tx.rolledBack)
	suite.bookings.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *BookingServiceTestSuite) TestCreate_SlotDisabledDuringTransaction() {
	slot := suite.slot(4, 0)
	disabled := *slot
	disabled.IsAvailable = false
	req := suite.userRequest(slot.ID, 1)

	suite.slots.On("GetByID", mock.Anything, suite.tenantID, slot.ID).Return(slot, nil).Once()
	suite.slots.On("ReserveSeats", mock.Anything, suite.tenantID, slot.ID, 1).Return(nil, false, nil).Once()
	suite.slots.On("GetByID", mock.Anything, suite.tenantID, slot.ID).Return(&disabled, nil).Once()

	_, err := suite.service.Create(context.Background(), suite.tenantID, req)
	suite.ErrorIs(err, common.ErrNotFound)
}

func (suite *BookingServiceTestSuite) TestCreate_UnknownOrUnavailableSlot() {
	missing := uuid.New()
	suite.slots.On("GetByID", mock.Anything, suite.tenantID, missing).Return(nil, common.NotFound("tee time")).Once()
	_, err := suite.service.Create(context.Background(), suite.tenantID, suite.userRequest(missing, 1))
	suite.ErrorIs(err, common.ErrNotFound)

	slot := suite.slot(4, 0)
	slot.IsAvailable = false
	suite.slots.On("GetByID", mock.Anything, suite.tenantID, slot.ID).Return(slot, nil).Once()
	_, err = suite.service.Create(context.Background(), suite.tenantID, suite.userRequest(slot.ID, 1))
	suite.ErrorIs(err, common.ErrNotFound)
	suite.Zero(suite.tx.calls)
}

func (suite *BookingServiceTestSuite) TestCreate_RejectsInvalidInput() {
	slot := suite.slot(2, 0)
	suite.slots.On("GetByID", mock.Anything, suite.tenantID, slot.ID).Return(slot, nil)

	name, email, phone := "Pat Guest", "pat@example.com", "555-0100"
	badEmail := "pat at example"
	longNotes := strings.Repeat("n", models.MaxBookingNotesLength+1)

	tests := []struct {
		name string
		req  *models.CreateBookingRequest
	}{
		{"zero players", suite.userRequest(slot.ID, 0)},
		{"more than slot max", suite.userRequest(slot.ID, 3)},
		{"no booker", &models.CreateBookingRequest{TeeTimeSlotID: slot.ID, Players: 1}},
		{"guest missing phone", &models.CreateBookingRequest{TeeTimeSlotID: slot.ID, Players: 1, GuestName: name, GuestEmail: email}},
		{"guest bad email", &models.CreateBookingRequest{TeeTimeSlotID: slot.ID, Players: 1, GuestName: name, GuestEmail: badEmail, GuestPhone: phone}},
		{"notes too long", func() *models.CreateBookingRequest {
			r := suite.userRequest(slot.ID, 1)
			r.Notes = &longNotes
			return r
		}()},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.service.Create(context.Background(), suite.tenantID, tt.req)
			suite.ErrorIs(err, common.ErrInvalidInput)
		})
	}
	suite.Zero(suite.tx.calls)
}

func (suite *BookingServiceTestSuite) TestCreate_GuestBooking() {
	slot := suite.slot(4, 0)
	reserved := *slot
	reserved.BookedPlayers = 2
	name, email, phone := "Pat Guest", "pat@example.com", "555-0100"
	req := &models.CreateBookingRequest{TeeTimeSlotID: slot.ID, Players: 2, GuestName: name, GuestEmail: email, GuestPhone: phone}

	suite.slots.On("GetByID", mock.Anything, suite.tenantID, slot.ID).Return(slot, nil).Once()
	suite.slots.On("ReserveSeats", mock.Anything, suite.tenantID, slot.ID, 2).Return(&reserved, true, nil).Once()
	suite.bookings.On("Create", mock.Anything, mock.MatchedBy(func(b *models.Booking) bool {
		return b.UserID == nil && *b.GuestEmail == email && b.TotalPrice.StringFixed(2) == "91.00"
	})).Return(nil).Once()
	suite.publisher.On("Publish", mock.Anything, events.BookingCreated, mock.Anything).Return(errors.New("broker down")).Once()

	booking, err := suite.service.Create(context.Background(), suite.tenantID, req)
	suite.Require().NoError(err, "publish failures must not fail the booking")
	suite.Equal(2, booking.Players)
}

func (suite *BookingServiceTestSuite) TestCreate_ContentionIsRetryable() {
	slot := suite.slot(4, 0)
	req := suite.userRequest(slot.ID, 1)

	suite.slots.On("GetByID", mock.Anything, suite.tenantID, slot.ID).Return(slot, nil).Once()
	suite.slots.On("ReserveSeats", mock.Anything, suite.tenantID, slot.ID, 1).
		Return(nil, false, repositories.MapError(&pgconn.PgError{Code: "55P03"})).Once()

	_, err := suite.service.Create(context.Background(), suite.tenantID, req)
	suite.ErrorIs(err, common.ErrRetryable)
	suite.True(suite.tx.rolledBack)
}

func (suite *BookingServiceTestSuite) TestCreate_DeadlineIsRetryable() {
	slot := suite.slot(4, 0)
	req := suite.userRequest(slot.ID, 1)

	suite.slots.On("GetByID", mock.Anything, suite.tenantID, slot.ID).Return(slot, nil).Once()
	suite.slots.On("ReserveSeats", mock.Anything, suite.tenantID, slot.ID, 1).
		Return(nil, false, fmt.Errorf("reserve: %w", context.DeadlineExceeded)).Once()

	_, err := suite.service.Create(context.Background(), suite.tenantID, req)
	suite.ErrorIs(err, common.ErrRetryable)
}

func (suite *BookingServiceTestSuite) booking(status models.BookingStatus, players int) *models.Booking {
	return &models.Booking{
		ID:            uuid.New(),
		TenantID:      suite.tenantID,
		TeeTimeSlotID: uuid.New(),
		Players:       players,
		Status:        status,
		TotalPrice:    decimal.RequireFromString("91.00"),
	}
}

func (suite *BookingServiceTestSuite) TestCancel_ReleasesSeats() {
	b := suite.booking(models.BookingConfirmed, 2)
	now := time.Now()

	suite.bookings.On("GetForUpdate", mock.Anything, suite.tenantID, b.ID).Return(b, nil).Once()
	suite.slots.On("ReleaseSeats", mock.Anything, suite.tenantID, b.TeeTimeSlotID, 2).Return(nil).Once()
	suite.bookings.On("UpdateStatus", mock.Anything, suite.tenantID, b.ID, models.BookingCancelled).Return(now, nil).Once()
	suite.publisher.On("Publish", mock.Anything, events.BookingStatusChanged, mock.MatchedBy(func(e events.BookingEvent) bool {
		return e.PreviousStatus == models.BookingConfirmed && e.Status == models.BookingCancelled && e.SeatsReleased == 2
	})).Return(nil).Once()

	change, err := suite.service.Cancel(context.Background(), suite.tenantID, b.ID)
	suite.Require().NoError(err)
	suite.Equal(models.BookingConfirmed, change.PreviousStatus)
	suite.Equal(models.BookingCancelled, change.Booking.Status)
	suite.Equal(2, change.SeatsReleased)
	suite.Equal(now, change.Booking.UpdatedAt)
}

func (suite *BookingServiceTestSuite) TestCancel_AlreadyCancelledIsNoop() {
	b := suite.booking(models.BookingCancelled, 2)
	suite.bookings.On("GetForUpdate", mock.Anything, suite.tenantID, b.ID).Return(b, nil).Once()

	change, err := suite.service.Cancel(context.Background(), suite.tenantID, b.ID)
	suite.Require().NoError(err)
	suite.Zero(change.SeatsReleased)
	suite.slots.AssertNotCalled(suite.T(), "ReleaseSeats", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.publisher.AssertNotCalled(suite.T(), "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BookingServiceTestSuite) TestUpdateStatus_InvalidTransitions() {
	tests := []struct {
		from, to models.BookingStatus
	}{
		{models.BookingCompleted, models.BookingCancelled},
		{models.BookingCancelled, models.BookingConfirmed},
		{models.BookingPending, models.BookingCompleted},
		{models.BookingConfirmed, models.BookingPending},
	}
	for _, tt := range tests {
		b := suite.booking(tt.from, 1)
		suite.bookings.On("GetForUpdate", mock.Anything, suite.tenantID, b.ID).Return(b, nil).Once()

		_, err := suite.service.UpdateStatus(context.Background(), suite.tenantID, b.ID, tt.to)
		suite.ErrorIs(err, common.ErrInvalidInput, "%s -> %s", tt.from, tt.to)
	}
	suite.slots.AssertNotCalled(suite.T(), "ReleaseSeats", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BookingServiceTestSuite) TestUpdateStatus_CompleteKeepsCapacity() {
	b := suite.booking(models.BookingConfirmed, 3)
	suite.bookings.On("GetForUpdate", mock.Anything, suite.tenantID, b.ID).Return(b, nil).Once()
	suite.bookings.On("UpdateStatus", mock.Anything, suite.tenantID, b.ID, models.BookingCompleted).Return(time.Now(), nil).Once()
	suite.publisher.On("Publish", mock.Anything, events.BookingStatusChanged, mock.Anything).Return(nil).Once()

	change, err := suite.service.UpdateStatus(context.Background(), suite.tenantID, b.ID, models.BookingCompleted)
	suite.Require().NoError(err)
	suite.Zero(change.SeatsReleased)
}

func (suite *BookingServiceTestSuite) TestUpdateStatus_UnknownStatus() {
	_, err := suite.service.UpdateStatus(context.Background(), suite.tenantID, uuid.New(), models.BookingStatus("no-show"))
	suite.ErrorIs(err, common.ErrInvalidInput)
	suite.Zero(suite.tx.calls)
}

func (suite *BookingServiceTestSuite) TestUpdateStatus_OtherTenantNotFound() {
	id := uuid.New()
	suite.bookings.On("GetForUpdate", mock.Anything, suite.tenantID, id).Return(nil, common.NotFound("booking")).Once()

	_, err := suite.service.UpdateStatus(context.Background(), suite.tenantID, id, models.BookingCancelled)
	suite.ErrorIs(err, common.ErrNotFound)
}

func (suite *BookingServiceTestSuite) TestListForAdmin_Paginates() {
	status := models.BookingConfirmed
	suite.bookings.On("ListForAdmin", mock.Anything, suite.tenantID, models.BookingFilter{Status: &status, Limit: 50, Offset: 0}).
		Return([]*models.Booking{}, nil).Once()

	_, err := suite.service.ListForAdmin(context.Background(), suite.tenantID, models.BookingFilter{Status: &status, Offset: -3})
	suite.NoError(err)

	bad := models.BookingStatus("lost")
	_, err = suite.service.ListForAdmin(context.Background(), suite.tenantID, models.BookingFilter{Status: &bad})
	suite.ErrorIs(err, common.ErrInvalidInput)
}
