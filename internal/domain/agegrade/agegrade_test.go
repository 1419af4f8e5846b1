package agegrade_test

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/okian/agegrade/internal/domain/agegrade"
	"github.com/okian/agegrade/internal/domain/interp"
	"github.com/okian/agegrade/internal/domain/standards"
	. "github.com/smartystreets/goconvey/convey"
)

func scenarioTable() *standards.Gendered {
	men := standards.Table{
		Distances: []float64{5, 10},
		Standards: []float64{1200, 2500},
		AgeFactors: map[int][]float64{
			5:   {0.70, 0.72},
			50:  {0.90, 0.92},
			100: {0.30, 0.28},
		},
	}
	women := standards.Table{
		Distances: []float64{5, 10, 21.0975},
		Standards: []float64{1350, 2800, 6000},
		AgeFactors: map[int][]float64{
			40: {0.95, 0.96, 0.97},
		},
	}
	return &standards.Gendered{Men: men, Women: women}
}

func TestScoreScenario(t *testing.T) {
	Convey("Given a male aged 50 running 7.5 km in 1800 s", t, func() {
		grade, err := agegrade.Score(scenarioTable(), "M", 50, 7.5, 1800)

		Convey("Then the standard and factor are interpolated", func() {
			So(err, ShouldBeNil)
			So(grade.StandardSeconds, ShouldEqual, 1850)
			So(grade.Factor, ShouldAlmostEqual, 0.91, 1e-12)
			So(grade.AgeKey, ShouldEqual, 50)
			So(grade.Degraded(), ShouldBeFalse)
		})

		Convey("Then the percent matches the closed form", func() {
			So(grade.Percent, ShouldAlmostEqual, 1850.0/(1800.0*0.91), 1e-9)
			So(grade.Percent, ShouldAlmostEqual, 1.1294, 1e-4)
		})
	})

	Convey("Given a lower-case gender code", t, func() {
		upper, err := agegrade.Score(scenarioTable(), "F", 40, 10, 3000)
		So(err, ShouldBeNil)
		lower, err := agegrade.Score(scenarioTable(), "f", 40, 10, 3000)
		So(err, ShouldBeNil)
		So(lower, ShouldResemble, upper)
		So(upper.StandardSeconds, ShouldEqual, 2800)
		So(upper.Factor, ShouldEqual, 0.96)
	})
}

func TestScoreInvalidInput(t *testing.T) {
	Convey("Given invalid numeric input", t, func() {
		table := scenarioTable()

		Convey("When the elapsed time is zero", func() {
			_, err := agegrade.Score(table, "M", 50, 5, 0)
			So(errors.Is(err, agegrade.ErrInvalidInput), ShouldBeTrue)
		})

		Convey("When values are negative, NaN or infinite", func() {
			cases := [][2]float64{
				{-5, 1800}, {0, 1800}, {math.NaN(), 1800},
				{5, -1}, {5, math.NaN()}, {5, math.Inf(1)}, {math.Inf(1), 1800},
			}
			for _, c := range cases {
				_, err := agegrade.Score(table, "M", 50, c[0], c[1])
				So(errors.Is(err, agegrade.ErrInvalidInput), ShouldBeTrue)
			}
		})

		Convey("When the age is NaN", func() {
			_, err := agegrade.Score(table, "M", math.NaN(), 5, 1800)
			So(errors.Is(err, agegrade.ErrInvalidInput), ShouldBeTrue)
		})

		Convey("When extrapolation drives the standard below zero", func() {
			// 1200 + (0.1-5)*260 < 0
			_, err := agegrade.Score(table, "M", 50, 0.1, 30)
			So(errors.Is(err, agegrade.ErrInvalidInput), ShouldBeTrue)
		})

		Convey("When the gender is not recognized", func() {
			_, err := agegrade.Score(table, "X", 50, 5, 1800)
			So(errors.Is(err, agegrade.ErrInvalidGender), ShouldBeTrue)
		})
	})
}

func TestResolve(t *testing.T) {
	Convey("Given the scenario table", t, func() {
		table := scenarioTable()

		Convey("When the age has no factor row", func() {
			res, err := agegrade.Resolve(table, "M", 37, 5)

			Convey("Then the factor falls back to 1.0 with a warning", func() {
				So(err, ShouldBeNil)
				So(res.Factor, ShouldEqual, 1.0)
				So(res.StandardSeconds, ShouldEqual, 1200)
				So(res.Warnings, ShouldHaveLength, 1)
				So(errors.Is(res.Warnings[0], agegrade.ErrMissingAgeFactor), ShouldBeTrue)
			})
		})

		Convey("When ages fall outside the table range", func() {
			for _, pair := range [][2]float64{{4, 5}, {0, 5}, {101, 100}, {130, 100}} {
				outside, err := agegrade.Resolve(table, "M", pair[0], 7.5)
				So(err, ShouldBeNil)
				bound, err := agegrade.Resolve(table, "M", pair[1], 7.5)
				So(err, ShouldBeNil)
				So(outside.AgeKey, ShouldEqual, bound.AgeKey)
				So(outside.Factor, ShouldEqual, bound.Factor)
			}
		})

		Convey("When the age is fractional", func() {
			res, err := agegrade.Resolve(table, "M", 50.8, 5)

			Convey("Then only the truncated age drives the factor", func() {
				So(err, ShouldBeNil)
				So(res.AgeKey, ShouldEqual, 50)
				So(res.Factor, ShouldEqual, 0.90)
			})
		})

		Convey("When the distance is outside the reference range", func() {
			below, err := agegrade.Resolve(table, "M", 50, 4)
			So(err, ShouldBeNil)
			So(below.StandardSeconds, ShouldEqual, interp.Linear(4, 5, 10, 1200, 2500))
			So(below.Factor, ShouldAlmostEqual, interp.Linear(4, 5, 10, 0.90, 0.92), 1e-12)

			above, err := agegrade.Resolve(table, "F", 40, 42.195)
			So(err, ShouldBeNil)
			So(above.StandardSeconds, ShouldEqual, interp.Linear(42.195, 10, 21.0975, 2800, 6000))
		})

		Convey("When resolving at every reference distance", func() {
			w := table.Women
			for i, d := range w.Distances {
				res, err := agegrade.Resolve(table, "F", 40, d)
				So(err, ShouldBeNil)
				So(res.StandardSeconds, ShouldEqual, w.Standards[i])
				So(res.Factor, ShouldEqual, w.AgeFactors[40][i])
			}
		})
	})

	Convey("Given a single-distance table", t, func() {
		one := standards.Table{
			Distances:  []float64{10},
			Standards:  []float64{2500},
			AgeFactors: map[int][]float64{60: {0.8}},
		}
		table := &standards.Gendered{Men: one, Women: one}

		for _, d := range []float64{1, 10, 100} {
			res, err := agegrade.Resolve(table, "F", 60, d)
			So(err, ShouldBeNil)
			So(res.StandardSeconds, ShouldEqual, 2500)
			So(res.Factor, ShouldEqual, 0.8)
		}
	})

	Convey("Given an empty table", t, func() {
		_, err := agegrade.Resolve(&standards.Gendered{}, "M", 40, 5)
		So(errors.Is(err, agegrade.ErrInvalidTable), ShouldBeTrue)
		So(errors.Is(err, interp.ErrInvalidTable), ShouldBeTrue)
	})
}

func TestFormulaEquivalence(t *testing.T) {
	Convey("Given random positive inputs", t, func() {
		rng := rand.New(rand.NewSource(7)) //nolint:gosec // deterministic test data

		for i := 0; i < 1000; i++ {
			d := 0.1 + rng.Float64()*100
			elapsed := 10 + rng.Float64()*30000
			std := 10 + rng.Float64()*20000
			f := 0.2 + rng.Float64()*0.8

			full := agegrade.Percent(d, elapsed, std, f)
			simple := agegrade.PercentSimplified(elapsed, std, f)
			So(scalar.EqualWithinRel(full, simple, 1e-9), ShouldBeTrue)
		}
	})
}
