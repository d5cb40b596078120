package validation

import (
	"testing"

	"github.com/hostelhub/hostel-api/internal/apperror"
	"github.com/hostelhub/hostel-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type address struct {
	City      string   `json:"city" validate:"notblank"`
	Longitude *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
}

type payload struct {
	Name    string             `json:"name" validate:"required,max=5"`
	Kind    model.RoomType     `json:"kind" validate:"roomtype"`
	Reason  model.ReportReason `json:"reason" validate:"reportreason"`
	Address address            `json:"address"`
	Tags    []string           `json:"tags" validate:"min=1"`
}

func TestStructFieldPaths(t *testing.T) {
	v := New()
	lon := 200.0

	err := v.Struct(payload{
		Name:    "far too long",
		Kind:    "penthouse",
		Reason:  "boredom",
		Address: address{City: "   ", Longitude: &lon},
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	assert.Equal(t, map[string]string{
		"name":              "must be at most 5 characters",
		"kind":              "is not a known room type",
		"reason":            "is not a known report reason",
		"address.city":      "is required",
		"address.longitude": "must be less than or equal to 180",
		"tags":              "must have at least 1 item(s)",
	}, apperror.FieldsOf(err))
}

func TestStructValid(t *testing.T) {
	err := New().Struct(payload{
		Name:    "Ok",
		Kind:    model.RoomSingle,
		Reason:  model.ReasonScam,
		Address: address{City: "Juja"},
		Tags:    []string{"wifi"},
	})
	assert.NoError(t, err)
}
