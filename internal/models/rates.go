package models

// RateSlot is one time range with an hourly rate in rubles.
type RateSlot struct {
	StartTime ClockTime `yaml:"start_time" json:"start_time"`
	EndTime   ClockTime `yaml:"end_time" json:"end_time"`
	PriceRub  int64     `yaml:"price_rub" json:"price_rub"`
}

// RateTable holds rate slots per day class. Slots within one list may
// overlap; overlapping slots both contribute to the price.
type RateTable struct {
	Weekday []RateSlot `yaml:"weekday" json:"weekday"`
	Weekend []RateSlot `yaml:"weekend" json:"weekend"`
}

// HasRates reports whether at least one rate slot is configured.
func (t *RateTable) HasRates() bool {
	if t == nil {
		return false
	}
	return len(t.Weekday) > 0 || len(t.Weekend) > 0
}

// ForDate returns the slot list for the date's day class.
func (t *RateTable) ForDate(d Date) ([]RateSlot, error) {
	if t == nil {
		return nil, nil
	}
	weekend, err := d.IsWeekend()
	if err != nil {
		return nil, err
	}
	if weekend {
		return t.Weekend, nil
	}
	return t.Weekday, nil
}
