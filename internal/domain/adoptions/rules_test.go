package adoptions

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"shire-of-paws/internal/platform/validation"
)

func TestValidate_EmptyDraft(t *testing.T) {
	errs := Validate(validation.New(), Draft{})
	require.Equal(t, validation.FieldErrors{
		"requesterFirstName": "First name is required",
		"requesterLastName":  "Last name is required",
		"requesterEmail":     "Email is required",
		"housingType":        "Please select your housing type",
		"householdSize":      "Household size is required",
		"motivation":         "Please tell us why you want to adopt",
	}, errs)
}

func TestValidate_ValidDraft(t *testing.T) {
	require.Empty(t, Validate(validation.New(), validDraft()))
}

func TestValidate_FieldMessages(t *testing.T) {
	v := validation.New()
	cases := []struct {
		field, value, want string
	}{
		{"requesterEmail", "frodo@shire", "Email is invalid"},
		{"requesterEmail", "fro do@shire.me", "Email is invalid"},
		{"housingType", "CASTLE", "Housing type is invalid"},
		{"householdSize", "abc", "Household size must be a number"},
		{"householdSize", "0", "Household size must be at least 1"},
		{"householdSize", "21", "Household size must be at most 20"},
		{"motivation", "too short", "Please provide at least 50 characters"},
		{"daytimeLocation", "home", "Please provide at least 30 characters"},
	}
	for _, tc := range cases {
		d := validDraft()
		require.NoError(t, d.Set(tc.field, tc.value))
		require.Equal(t, tc.want, Validate(v, d)[tc.field], "%s=%q", tc.field, tc.value)
	}
}

func TestValidate_DaytimeLocationOptional(t *testing.T) {
	d := validDraft()
	d.DaytimeLocation = "   "
	require.Empty(t, Validate(validation.New(), d))
}

func TestValidate_MotivationBoundaryProperty(t *testing.T) {
	v := validation.New()
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(40, 60).Draw(t, "len")
		pad := rapid.IntRange(0, 5).Draw(t, "pad")

		d := validDraft()
		d.Motivation = strings.Repeat(" ", pad) + strings.Repeat("a", n) + strings.Repeat(" ", pad)
		_, has := Validate(v, d)["motivation"]

		// los espacios alrededor no cuentan
		if n < 50 && !has {
			t.Fatalf("len %d should fail", n)
		}
		if n >= 50 && has {
			t.Fatalf("len %d should pass", n)
		}
	})
}

func TestBuildPayload_ConvertsHouseholdSize(t *testing.T) {
	d := validDraft()
	d.HouseholdSize = " 3 "
	d.RequesterEmail = " frodo@shire.me "

	p := BuildPayload(d, " dog-1 ")
	require.Equal(t, 3, p.HouseholdSize)
	require.Equal(t, "frodo@shire.me", p.RequesterEmail)
	require.Equal(t, "dog-1", p.DogID)
	require.Equal(t, HousingHouse, p.HousingType)
}

func TestDraftSet_UnknownField(t *testing.T) {
	var d Draft
	require.ErrorIs(t, d.Set("dogName", "x"), ErrInvalidInput)
}
