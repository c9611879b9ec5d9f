package model

import "github.com/Freeeeeet/tutor_scheduler/internal/apperror"

var (
	ErrSlotNotFound     = apperror.NotFound("time slot not found")
	ErrSlotFull         = apperror.Conflict("slot is already full")
	ErrSlotOverlap      = apperror.Conflict("slot overlaps with existing slot")
	ErrSlotNotAvailable = apperror.Conflict("slot is not available")
	ErrSlotHasBookings  = apperror.Conflict("cannot delete slot with active bookings")
	ErrCapacityBelowUse = apperror.Conflict("max_students cannot be less than current bookings")
	ErrSlotStarted      = apperror.Conflict("slot has already started")

	ErrBookingNotFound          = apperror.NotFound("booking not found")
	ErrAlreadyBooked            = apperror.Conflict("student already booked this slot")
	ErrAlreadyConfirmed         = apperror.Conflict("booking is already confirmed")
	ErrCannotConfirmCancelled   = apperror.Conflict("cannot confirm cancelled booking")
	ErrCannotConfirmCompleted   = apperror.Conflict("cannot confirm completed booking")
	ErrAlreadyCancelled         = apperror.Conflict("booking is already cancelled")
	ErrCannotCancelCompleted    = apperror.Conflict("cannot cancel completed booking")
	ErrCanOnlyCompleteConfirmed = apperror.Conflict("can only complete confirmed bookings")

	ErrTeacherNotFound = apperror.NotFound("teacher not found")
	ErrStudentNotFound = apperror.NotFound("student not found")
	ErrEmailTaken      = apperror.Conflict("email already registered")
	ErrSlugTaken       = apperror.Conflict("slug already taken")
	ErrTelegramLinked  = apperror.Conflict("telegram account already linked")

	ErrInvalidCredentials = apperror.Unauthorized("invalid credentials")

	ErrInvalidInterval = apperror.Validation("start_time must be before end_time")
	ErrSlotInPast      = apperror.Validation("start_time must be in the future")
	ErrInvalidCapacity = apperror.Validation("max_students must be between 1 and 10")
	ErrInvalidPrice    = apperror.Validation("price must be non-negative")
	ErrTextTooLong     = apperror.Validation("text fields must be at most 500 characters")
	ErrInvalidPage     = apperror.Validation("page must be >= 1")
)

func NewValidationError(msg string) error {
	return apperror.Validation(msg)
}
