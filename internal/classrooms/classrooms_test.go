package classrooms_test

import (
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/ecoscore/internal/classrooms"
	"github.com/JaimeStill/ecoscore/pkg/faults"
	"github.com/JaimeStill/ecoscore/pkg/query"
	"github.com/JaimeStill/ecoscore/pkg/validation"
)

func TestParseDivision(t *testing.T) {
	for _, d := range classrooms.Divisions() {
		got, err := classrooms.ParseDivision(string(d))
		require.NoError(t, err)
		assert.Equal(t, d, got)
	}

	_, err := classrooms.ParseDivision("University")
	assert.ErrorIs(t, err, classrooms.ErrInvalidDivision)
	assert.ErrorIs(t, err, faults.ErrValidation)

	_, err = classrooms.ParseDivision("elementary")
	assert.Error(t, err, "division names are case sensitive")
}

func TestDivisionsReturnsCopy(t *testing.T) {
	list := classrooms.Divisions()
	require.Len(t, list, 5)
	list[0] = "mutated"

	assert.Equal(t, classrooms.DivisionPreSchool, classrooms.Divisions()[0])
}

func TestIndex(t *testing.T) {
	a := classrooms.Classroom{ID: uuid.New(), Name: "1A"}
	b := classrooms.Classroom{ID: uuid.New(), Name: "2B"}

	idx := classrooms.Index([]classrooms.Classroom{a, b})

	assert.Len(t, idx, 2)
	assert.Equal(t, "2B", idx[b.ID].Name)
}

func TestFiltersFromQuery(t *testing.T) {
	t.Run("all params present", func(t *testing.T) {
		f, err := classrooms.FiltersFromQuery(url.Values{
			"division": {"High School"},
			"active":   {"true"},
			"search":   {"10"},
		})
		require.NoError(t, err)

		require.NotNil(t, f.Division)
		assert.Equal(t, classrooms.DivisionHigh, *f.Division)
		require.NotNil(t, f.Active)
		assert.True(t, *f.Active)
		require.NotNil(t, f.Search)
		assert.Equal(t, "10", *f.Search)
	})

	t.Run("empty params yield nil fields", func(t *testing.T) {
		f, err := classrooms.FiltersFromQuery(url.Values{})
		require.NoError(t, err)

		assert.Nil(t, f.Division)
		assert.Nil(t, f.Active)
		assert.Nil(t, f.Search)
	})

	t.Run("unknown division rejected", func(t *testing.T) {
		_, err := classrooms.FiltersFromQuery(url.Values{"division": {"Kindergarten"}})
		assert.ErrorIs(t, err, faults.ErrValidation)
	})

	t.Run("malformed active rejected", func(t *testing.T) {
		_, err := classrooms.FiltersFromQuery(url.Values{"active": {"maybe"}})

		var verr *faults.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "active", verr.Field)
	})
}

func TestFiltersApply(t *testing.T) {
	proj := query.
		NewProjectionMap("public", "classrooms", "cr").
		Project("division", "Division").
		Project("is_active", "IsActive").
		Project("name", "Name").
		Project("grade", "Grade")

	div := classrooms.DivisionMiddle
	active := true
	f := classrooms.Filters{Division: &div, Active: &active}

	sql, args := f.Apply(query.NewBuilder(proj)).Build()

	assert.Contains(t, sql, "cr.division = $1")
	assert.Contains(t, sql, "cr.is_active = $2")
	assert.Len(t, args, 2)
}

func TestRegisterRules(t *testing.T) {
	v := validation.New()
	require.NoError(t, classrooms.RegisterRules(v))

	type command struct {
		Division classrooms.Division `json:"division" validate:"required,division"`
	}

	assert.NoError(t, v.Struct(command{Division: classrooms.DivisionHigh}))

	err := v.Struct(command{Division: "Kindergarten"})
	require.Error(t, err)
	assert.ErrorIs(t, err, faults.ErrValidation)
	assert.Equal(t, "division must be one of the known divisions", err.Error())
}
