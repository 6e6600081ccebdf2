package usecase

import (
	"fmt"
	"strconv"
	"strings"

	"mycomentor/pkg/envdata"
	"mycomentor/services/notification/internal/entity"
)

// Thresholds are the environmental alert boundaries. The defaults follow
// common oyster-mushroom growing guidance but every value is configurable.
type Thresholds struct {
	TempHigh    float64
	TempLow     float64
	HumidityMin float64
	PHMin       float64
	PHMax       float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		TempHigh:    27,
		TempLow:     15,
		HumidityMin: 75,
		PHMin:       5,
		PHMax:       7,
	}
}

// CheckEnvironmentalConditions evaluates the reading against the store's
// thresholds and adds one warning per violated rule. Missing or unparsable
// fields are skipped.
func (s *Store) CheckEnvironmentalConditions(reading envdata.Reading) {
	if temp, ok := parseField(reading.Temperature); ok {
		if temp > s.thresholds.TempHigh {
			s.Add(entity.NotificationInput{
				Type:    entity.TypeWarning,
				Title:   "High Temperature Alert",
				Message: fmt.Sprintf("Current temperature is %s°C, which is above optimal range.", reading.Temperature),
				Icon:    entity.IconThermometer,
			})
		} else if temp < s.thresholds.TempLow {
			s.Add(entity.NotificationInput{
				Type:    entity.TypeWarning,
				Title:   "Low Temperature Alert",
				Message: fmt.Sprintf("Current temperature is %s°C, which is below optimal range.", reading.Temperature),
				Icon:    entity.IconThermometer,
			})
		}
	}

	if humidity, ok := parseField(reading.Humidity); ok && humidity < s.thresholds.HumidityMin {
		s.Add(entity.NotificationInput{
			Type:    entity.TypeWarning,
			Title:   "Low Humidity Alert",
			Message: fmt.Sprintf("Current humidity is %s%%, which is below optimal range.", reading.Humidity),
			Icon:    entity.IconWater,
		})
	}

	if ph, ok := parseField(reading.PH); ok && (ph < s.thresholds.PHMin || ph > s.thresholds.PHMax) {
		s.Add(entity.NotificationInput{
			Type:    entity.TypeWarning,
			Title:   "pH Level Alert",
			Message: fmt.Sprintf("Current pH is %s, which is outside optimal range.", reading.PH),
			Icon:    entity.IconFlask,
		})
	}
}

func parseField(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}
