package racetime_test

import (
	"errors"
	"testing"

	"github.com/okian/agegrade/pkg/racetime"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseElapsed(t *testing.T) {
	Convey("Given finishing times in the accepted layouts", t, func() {
		cases := map[string]float64{
			"01:30:45":  5445,
			"00:20:30":  1230,
			"02:00:00":  7200,
			"00:00:01":  1,
			"20:30":     1230,
			"5:07.5":    307.5,
			"1800":      1800,
			"1799.25":   1799.25,
			" 3:05:00 ": 11100,
			"125:00":    7500,
		}
		for in, want := range cases {
			got, err := racetime.ParseElapsed(in)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, want)
		}
	})

	Convey("Given malformed times", t, func() {
		for _, in := range []string{"", "invalid", "1:2:3:4", "10:61", "1:60:00", "-5", "a:10", "10:xx", "NaN", "1:-2:00"} {
			_, err := racetime.ParseElapsed(in)
			So(errors.Is(err, racetime.ErrInvalidTime), ShouldBeTrue)
		}
	})

	Convey("Given clock values with non-finite seconds", t, func() {
		for _, in := range []string{"05:NaN", "1:00:nan", "20:Inf", "1:00:+Inf"} {
			_, err := racetime.ParseElapsed(in)
			So(errors.Is(err, racetime.ErrInvalidTime), ShouldBeTrue)
		}
	})

	Convey("Given clock values with signed fields", t, func() {
		for _, in := range []string{"-0:30", "+1:00:00", "1:+05:00", "10:+30", "10:-0"} {
			_, err := racetime.ParseElapsed(in)
			So(errors.Is(err, racetime.ErrInvalidTime), ShouldBeTrue)
		}
	})
}

func TestFormatClock(t *testing.T) {
	Convey("Given durations in seconds", t, func() {
		So(racetime.FormatClock(1850), ShouldEqual, "00:30:50")
		So(racetime.FormatClock(5445.9), ShouldEqual, "01:30:45")
		So(racetime.FormatClock(0), ShouldEqual, "00:00:00")
		So(racetime.FormatClock(90000), ShouldEqual, "25:00:00")
		So(racetime.FormatClock(-3), ShouldEqual, "00:00:00")
	})
}

func TestFormatPercent(t *testing.T) {
	Convey("Given fractions", t, func() {
		So(racetime.FormatPercent(1.12943, 2), ShouldEqual, "112.94%")
		So(racetime.FormatPercent(0.75, 2), ShouldEqual, "75.00%")
		So(racetime.FormatPercent(0.5, 0), ShouldEqual, "50%")
	})
}

func TestAgeOn(t *testing.T) {
	Convey("Given a birth date and a race day", t, func() {
		race, err := racetime.ParseDate("2024-03-15")
		So(err, ShouldBeNil)

		Convey("When the birthday is later in the year", func() {
			dob, _ := racetime.ParseDate("1985-06-15")
			So(racetime.AgeOn(dob, race), ShouldEqual, 38)
		})

		Convey("When the birthday already passed", func() {
			dob, _ := racetime.ParseDate("1990-01-15")
			So(racetime.AgeOn(dob, race), ShouldEqual, 34)
		})

		Convey("When the race is on the birthday", func() {
			dob, _ := racetime.ParseDate("1990-03-15")
			So(racetime.AgeOn(dob, race), ShouldEqual, 34)
		})

		Convey("When the race is the day before the birthday", func() {
			dob, _ := racetime.ParseDate("1990-03-16")
			So(racetime.AgeOn(dob, race), ShouldEqual, 33)
		})
	})

	Convey("Given an invalid date", t, func() {
		_, err := racetime.ParseDate("invalid-date")
		So(errors.Is(err, racetime.ErrInvalidDate), ShouldBeTrue)
	})
}
