package usecase

import (
	"testing"

	"mycomentor/pkg/envdata"
	"mycomentor/pkg/kvstore"
	"mycomentor/pkg/logger"
	"mycomentor/services/notification/internal/entity"

	"github.com/stretchr/testify/assert"
)

func newRuleStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	store := NewStore(kvstore.NewMemoryStore(), "notifications:rules", logger.New(), opts...)
	t.Cleanup(store.Close)
	return store
}

func TestCheckEnvironmentalConditions_HighTemperature(t *testing.T) {
	store := newRuleStore(t)

	store.CheckEnvironmentalConditions(envdata.Reading{Temperature: "30"})

	list := store.List()
	assert.Len(t, list, 1)
	assert.Equal(t, "High Temperature Alert", list[0].Title)
	assert.Equal(t, "Current temperature is 30°C, which is above optimal range.", list[0].Message)
	assert.Equal(t, entity.TypeWarning, list[0].Type)
	assert.Equal(t, entity.IconThermometer, list[0].Icon)
}

func TestCheckEnvironmentalConditions_LowTemperature(t *testing.T) {
	store := newRuleStore(t)

	store.CheckEnvironmentalConditions(envdata.Reading{Temperature: "10"})

	list := store.List()
	assert.Len(t, list, 1)
	assert.Equal(t, "Low Temperature Alert", list[0].Title)
	assert.Equal(t, "Current temperature is 10°C, which is below optimal range.", list[0].Message)
}

func TestCheckEnvironmentalConditions_LowHumidity(t *testing.T) {
	store := newRuleStore(t)

	store.CheckEnvironmentalConditions(envdata.Reading{Humidity: "60"})

	list := store.List()
	assert.Len(t, list, 1)
	assert.Equal(t, "Low Humidity Alert", list[0].Title)
	assert.Equal(t, "Current humidity is 60%, which is below optimal range.", list[0].Message)
	assert.Equal(t, entity.IconWater, list[0].Icon)
}

func TestCheckEnvironmentalConditions_PHOutOfRange(t *testing.T) {
	store := newRuleStore(t)

	store.CheckEnvironmentalConditions(envdata.Reading{PH: "8.5"})
	store.CheckEnvironmentalConditions(envdata.Reading{PH: "4"})

	list := store.List()
	assert.Len(t, list, 2)
	assert.Equal(t, "pH Level Alert", list[0].Title)
	assert.Equal(t, "Current pH is 4, which is outside optimal range.", list[0].Message)
	assert.Equal(t, "Current pH is 8.5, which is outside optimal range.", list[1].Message)
	assert.Equal(t, entity.IconFlask, list[0].Icon)
}

func TestCheckEnvironmentalConditions_AllWithinRange(t *testing.T) {
	store := newRuleStore(t)

	store.CheckEnvironmentalConditions(envdata.Reading{Temperature: "20", Humidity: "80", PH: "6"})

	assert.Empty(t, store.List())
}

func TestCheckEnvironmentalConditions_MultipleViolations(t *testing.T) {
	store := newRuleStore(t)

	store.CheckEnvironmentalConditions(envdata.Reading{Temperature: "30", Humidity: "50", PH: "9"})

	list := store.List()
	assert.Len(t, list, 3)
	for _, n := range list {
		assert.Equal(t, entity.TypeWarning, n.Type)
		assert.False(t, n.Read)
	}
}

func TestCheckEnvironmentalConditions_BoundaryValuesDoNotAlert(t *testing.T) {
	store := newRuleStore(t)

	// Exact thresholds are in range.
	store.CheckEnvironmentalConditions(envdata.Reading{Temperature: "27"})
	store.CheckEnvironmentalConditions(envdata.Reading{Temperature: "15"})
	store.CheckEnvironmentalConditions(envdata.Reading{Humidity: "75"})
	store.CheckEnvironmentalConditions(envdata.Reading{PH: "5"})
	store.CheckEnvironmentalConditions(envdata.Reading{PH: "7"})

	assert.Empty(t, store.List())
}

func TestCheckEnvironmentalConditions_SkipsUnparsableFields(t *testing.T) {
	store := newRuleStore(t)

	store.CheckEnvironmentalConditions(envdata.Reading{Temperature: "n/a", Humidity: "", PH: "--"})

	assert.Empty(t, store.List())
}

func TestCheckEnvironmentalConditions_CustomThresholds(t *testing.T) {
	store := newRuleStore(t, WithThresholds(Thresholds{
		TempHigh:    35,
		TempLow:     5,
		HumidityMin: 40,
		PHMin:       3,
		PHMax:       9,
	}))

	store.CheckEnvironmentalConditions(envdata.Reading{Temperature: "30", Humidity: "50", PH: "8.5"})
	assert.Empty(t, store.List())

	store.CheckEnvironmentalConditions(envdata.Reading{Temperature: "36"})
	assert.Len(t, store.List(), 1)
}
