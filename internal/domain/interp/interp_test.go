package interp_test

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/okian/agegrade/internal/domain/interp"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBracket(t *testing.T) {
	Convey("Given ascending samples", t, func() {
		xs := []float64{1, 5, 10, 21.0975, 42.195}

		Convey("When x is below or at the first sample", func() {
			for _, x := range []float64{-3, 0.5, 1} {
				i, j, err := interp.Bracket(x, xs)
				So(err, ShouldBeNil)
				So([]int{i, j}, ShouldResemble, []int{0, 1})
			}
		})

		Convey("When x is above or at the last sample", func() {
			for _, x := range []float64{42.195, 50, 100} {
				i, j, err := interp.Bracket(x, xs)
				So(err, ShouldBeNil)
				So([]int{i, j}, ShouldResemble, []int{3, 4})
			}
		})

		Convey("When x is strictly inside a segment", func() {
			i, j, err := interp.Bracket(7.5, xs)
			So(err, ShouldBeNil)
			So([]int{i, j}, ShouldResemble, []int{1, 2})
		})

		Convey("When x equals an interior knot", func() {
			i, j, err := interp.Bracket(10, xs)

			Convey("Then the left segment is picked", func() {
				So(err, ShouldBeNil)
				So([]int{i, j}, ShouldResemble, []int{1, 2})
			})
		})
	})

	Convey("Given a single sample", t, func() {
		for _, x := range []float64{0, 5, 99} {
			i, j, err := interp.Bracket(x, []float64{5})
			So(err, ShouldBeNil)
			So([]int{i, j}, ShouldResemble, []int{0, 0})
		}
	})

	Convey("Given two samples", t, func() {
		i, j, err := interp.Bracket(100, []float64{5, 10})
		So(err, ShouldBeNil)
		So([]int{i, j}, ShouldResemble, []int{0, 1})
	})

	Convey("Given no samples", t, func() {
		_, _, err := interp.Bracket(1, nil)
		So(errors.Is(err, interp.ErrInvalidTable), ShouldBeTrue)
	})
}

func TestLinear(t *testing.T) {
	Convey("Given two points", t, func() {
		So(interp.Linear(7.5, 5, 10, 1200, 2500), ShouldEqual, 1850)
		So(interp.Linear(5, 5, 10, 1200, 2500), ShouldEqual, 1200)
		So(interp.Linear(15, 5, 10, 1200, 2500), ShouldEqual, 3800)
		So(interp.Linear(0, 5, 10, 1200, 2500), ShouldEqual, -100)

		Convey("When the x values coincide", func() {
			So(interp.Linear(7, 5, 5, 1200, 2500), ShouldEqual, 1200)
		})
	})
}

func TestByTable(t *testing.T) {
	Convey("Given a sparse standards curve", t, func() {
		xs := []float64{1, 5, 10, 21.0975, 42.195}
		ys := []float64{130, 780, 1620, 3540, 7480}

		Convey("When evaluated exactly at each knot", func() {
			for i, x := range xs {
				y, err := interp.ByTable(x, xs, ys)
				So(err, ShouldBeNil)
				So(y, ShouldEqual, ys[i])
			}
		})

		Convey("When evaluated between knots", func() {
			y, err := interp.ByTable(7.5, xs, ys)
			So(err, ShouldBeNil)
			So(y, ShouldEqual, 1200)
		})

		Convey("When evaluated below the first knot", func() {
			y, err := interp.ByTable(0.5, xs, ys)
			So(err, ShouldBeNil)
			So(y, ShouldEqual, interp.Linear(0.5, 1, 5, 130, 780))
		})

		Convey("When evaluated above the last knot", func() {
			y, err := interp.ByTable(50, xs, ys)
			So(err, ShouldBeNil)
			So(scalar.EqualWithinRel(y, interp.Linear(50, 21.0975, 42.195, 3540, 7480), 1e-12), ShouldBeTrue)
		})

		Convey("When the values are misaligned", func() {
			_, err := interp.ByTable(5, xs, ys[:2])
			So(errors.Is(err, interp.ErrInvalidTable), ShouldBeTrue)
		})
	})

	Convey("Given a single-sample curve", t, func() {
		for _, x := range []float64{0.1, 5, 1000} {
			y, err := interp.ByTable(x, []float64{5}, []float64{0.93})
			So(err, ShouldBeNil)
			So(y, ShouldEqual, 0.93)
		}
	})

	Convey("Given an empty curve", t, func() {
		_, err := interp.ByTable(5, nil, nil)
		So(errors.Is(err, interp.ErrInvalidTable), ShouldBeTrue)
	})
}
