package models

// Booking lifecycle statuses. Canceled is terminal; bookings are
// canceled rather than deleted so history survives.
const (
	StatusHold      = "hold"
	StatusConfirmed = "confirmed"
	StatusCanceled  = "canceled"
)

const (
	// SlotStepMinutes шаг сетки бронирования
	SlotStepMinutes = 30

	// SeriesStepDays недельный шаг регулярной серии
	SeriesStepDays = 7

	// MaxPaymentDescriptionLen лимит описания платежа в ЮKassa
	MaxPaymentDescriptionLen = 128

	// DefaultScheduleCacheTTL время жизни кэша расписания дня в секундах
	DefaultScheduleCacheTTL = 5 * 60

	// DefaultExportRangeDays диапазон экспорта расписания по умолчанию
	DefaultExportRangeDays = 14
)
