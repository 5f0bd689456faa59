package wizard

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/dmitrijs2005/poputka/internal/client/models"
	"github.com/dmitrijs2005/poputka/internal/common"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

// fillBishkekOsh walks the whole flow for a driver going Bishkek to Osh.
func fillBishkekOsh(t *testing.T) *Wizard {
	t.Helper()
	w := New()

	require.NoError(t, w.SetRole(models.RoleDriver))
	require.NoError(t, w.Next())
	require.NoError(t, w.Next(), "type is optional")
	require.NoError(t, w.SetOrigin(ResolveCity("1")))
	require.NoError(t, w.Next())
	require.NoError(t, w.SetDestination(ResolveCity("osh")))
	require.NoError(t, w.Next())
	require.NoError(t, w.SetDate("2024-06-01"))
	require.NoError(t, w.Next())
	require.NoError(t, w.SetTime("08:00"))
	require.NoError(t, w.Next())
	require.NoError(t, w.SetSeats(3))
	require.NoError(t, w.Next())
	require.NoError(t, w.Next(), "price is optional")
	require.True(t, w.IsLast())
	require.True(t, w.CanProceed(), "comment is optional")
	return w
}

func TestWizard_BishkekToOshPayload(t *testing.T) {
	w := fillBishkekOsh(t)

	p, err := w.Payload()
	require.NoError(t, err)
	require.Equal(t, models.TripCreate{
		Role:           models.RoleDriver,
		Origin:         "Bishkek",
		Destination:    "Osh",
		DepartureDate:  "2024-06-01",
		Departure:      models.DepartAt{Clock: "08:00"},
		NumberOfPeople: 3,
	}, p)

	b, err := json.Marshal(p)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"role": "driver", "type": null,
		"origin": "Bishkek", "destination": "Osh",
		"departure_date": "2024-06-01", "departure_time": "08:00", "departure_now": false,
		"number_of_people": 3, "suggested_price": null, "comment": null
	}`, string(b))
}

func TestWizard_NextBlockedUntilStepComplete(t *testing.T) {
	w := New()
	require.False(t, w.CanProceed())
	require.ErrorIs(t, w.Next(), ErrIncomplete)
	require.Equal(t, StepRole, w.Current())

	require.NoError(t, w.SetRole(models.RolePassenger))
	require.NoError(t, w.Next())
	require.NoError(t, w.Next())
	require.Equal(t, StepOrigin, w.Current())
	require.ErrorIs(t, w.Next(), ErrIncomplete)
	require.Error(t, w.SetOrigin("   "))
	require.ErrorIs(t, w.Next(), ErrIncomplete)
}

func TestWizard_TimeStepAcceptsNow(t *testing.T) {
	w := New()
	w.current = StepTime
	require.False(t, w.CanProceed())

	w.SetDepartureNow(true)
	require.True(t, w.CanProceed())

	require.NoError(t, w.SetTime("7:05"))
	require.False(t, w.Draft().DepartureNow, "picking a time clears now")
	require.Equal(t, "07:05", w.Draft().DepartureTime)

	require.Error(t, w.SetTime("25:00"))
	require.Error(t, w.SetTime("noon"))
}

func TestWizard_SeatsMustBePositive(t *testing.T) {
	w := New()
	w.current = StepSeats
	require.ErrorIs(t, w.SetSeats(0), ErrInvalid)
	require.False(t, w.CanProceed())
	require.NoError(t, w.SetSeats(1))
	require.True(t, w.CanProceed())
}

func TestWizard_BackAndGoTo(t *testing.T) {
	w := fillBishkekOsh(t)
	require.Equal(t, StepComment, w.Highest())

	require.NoError(t, w.GoTo(StepOrigin))
	require.Equal(t, StepOrigin, w.Current())
	require.NoError(t, w.GoTo(StepComment))
	require.True(t, w.Back())
	require.Equal(t, StepPrice, w.Current())

	fresh := New()
	require.False(t, fresh.Back())
	require.ErrorIs(t, fresh.GoTo(StepType), ErrStepLocked)
	require.ErrorIs(t, fresh.GoTo(Step(42)), ErrStepLocked)
}

func TestWizard_GoingBackKeepsHighestStep(t *testing.T) {
	w := New()
	require.NoError(t, w.SetRole(models.RoleDriver))
	require.NoError(t, w.Next())
	require.NoError(t, w.Next())
	require.Equal(t, StepOrigin, w.Highest())

	require.NoError(t, w.GoTo(StepRole))
	require.Equal(t, StepOrigin, w.Highest())
	require.NoError(t, w.GoTo(StepOrigin))
	require.ErrorIs(t, w.GoTo(StepDestination), ErrStepLocked)
}

func TestWizard_LastStepHasNoNext(t *testing.T) {
	w := fillBishkekOsh(t)
	require.ErrorIs(t, w.Next(), ErrLastStep)
}

func TestWizard_Summary(t *testing.T) {
	w := New()
	_, ok := w.Summary(StepRole)
	require.False(t, ok)
	s, ok := w.Summary(StepType)
	require.True(t, ok)
	require.Equal(t, "Not specified", s)

	w = fillBishkekOsh(t)
	require.NoError(t, w.SetType(ptr(models.TripTypeHitchRide)))
	require.NoError(t, w.SetPrice(ptr(1500)))
	w.SetComment("  no smoking ")

	want := map[Step]string{
		StepRole:        "Driver",
		StepType:        "Hitch ride",
		StepOrigin:      "Bishkek",
		StepDestination: "Osh",
		StepDate:        "2024-06-01",
		StepTime:        "08:00",
		StepSeats:       "3 seats",
		StepPrice:       "1500 som",
		StepComment:     "Added",
	}
	for _, step := range Steps {
		got, ok := w.Summary(step)
		require.True(t, ok, step.String())
		require.Equal(t, want[step], got, step.String())
	}

	w.SetDepartureNow(true)
	s, _ = w.Summary(StepTime)
	require.Equal(t, "Now", s)
}

func TestWizard_PayloadOptionalFields(t *testing.T) {
	w := fillBishkekOsh(t)
	require.NoError(t, w.SetType(ptr(models.TripTypeDelivery)))
	require.NoError(t, w.SetPrice(ptr(800)))
	w.SetComment(" two bags ")
	w.SetDepartureNow(true)

	p, err := w.Payload()
	require.NoError(t, err)
	require.Equal(t, models.TripTypeDelivery, *p.Type)
	require.Equal(t, 800, *p.SuggestedPrice)
	require.Equal(t, "two bags", *p.Comment)
	require.Equal(t, models.DepartNow{}, p.Departure)

	require.NoError(t, w.SetPrice(ptr(0)))
	p, err = w.Payload()
	require.NoError(t, err)
	require.Nil(t, p.SuggestedPrice, "a zero price is sent as null")
}

func TestWizard_PayloadRequiresCoreFields(t *testing.T) {
	w := New()
	_, err := w.Payload()
	require.ErrorIs(t, err, common.ErrMissingField)
	require.ErrorContains(t, err, "role, origin, destination, departure_date")

	require.NoError(t, w.SetRole(models.RoleDriver))
	require.NoError(t, w.SetOrigin("Osh"))
	require.NoError(t, w.SetDestination("Naryn"))
	_, err = w.Payload()
	require.ErrorContains(t, err, "departure_date")

	require.NoError(t, w.SetDate("2024-07-01"))
	p, err := w.Payload()
	require.NoError(t, err)
	require.Equal(t, 1, p.NumberOfPeople)
	require.Equal(t, models.DepartNow{}, p.Departure)
}

func TestWizard_Validation(t *testing.T) {
	w := New()
	require.ErrorIs(t, w.SetRole("pilot"), ErrInvalid)
	require.ErrorIs(t, w.SetType(ptr(models.TripType("bus"))), ErrInvalid)
	require.ErrorIs(t, w.SetDate("01.06.2024"), ErrInvalid)
	require.ErrorIs(t, w.SetPrice(ptr(-1)), ErrInvalid)
	require.NoError(t, w.SetType(nil))
}

func TestWizard_SetDateIn(t *testing.T) {
	w := New()
	now := time.Date(2024, 5, 31, 23, 0, 0, 0, time.UTC)
	w.SetDateIn(now, 1)
	require.Equal(t, "2024-06-01", w.Draft().DepartureDate)
}

func TestResolveCity(t *testing.T) {
	require.Equal(t, "Bishkek", ResolveCity("1"))
	require.Equal(t, "Kyzyl-Kiya", ResolveCity("12"))
	require.Equal(t, "13", ResolveCity("13"))
	require.Equal(t, "Jalal-Abad", ResolveCity(" jalal-abad "))
	require.Equal(t, "Cholpon-Ata", ResolveCity("  Cholpon-Ata  "))
}
