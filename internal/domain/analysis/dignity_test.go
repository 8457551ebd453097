package analysis_test

import (
	"testing"

	"github.com/astrium/natal/internal/domain/analysis"
	"github.com/astrium/natal/internal/domain/chart"
	"github.com/astrium/natal/internal/domain/zodiac"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDignityTable(t *testing.T) {
	Convey("Given the default dignity table", t, func() {
		table, err := analysis.NewDignityTable()
		So(err, ShouldBeNil)

		Convey("When looking up the Sun", func() {
			So(table.Lookup(chart.Sun, zodiac.Leo), ShouldEqual, analysis.Domicile)
			So(table.Lookup(chart.Sun, zodiac.Aries), ShouldEqual, analysis.Exaltation)
			So(table.Lookup(chart.Sun, zodiac.Aquarius), ShouldEqual, analysis.Detriment)
			So(table.Lookup(chart.Sun, zodiac.Libra), ShouldEqual, analysis.Fall)
			So(table.Lookup(chart.Sun, zodiac.Virgo), ShouldEqual, analysis.Peregrine)
		})

		Convey("When a body rules more than one sign", func() {
			So(table.Lookup(chart.Mercury, zodiac.Gemini), ShouldEqual, analysis.Domicile)
			So(table.Lookup(chart.Mercury, zodiac.Virgo), ShouldEqual, analysis.Domicile)
			So(table.Lookup(chart.Venus, zodiac.Taurus), ShouldEqual, analysis.Domicile)
			So(table.Lookup(chart.Venus, zodiac.Libra), ShouldEqual, analysis.Domicile)
		})

		Convey("When domicile and exaltation overlap in one sign", func() {
			// Mercury is both domiciled and exalted in Virgo; domicile is
			// checked first and wins.
			So(table.Lookup(chart.Mercury, zodiac.Virgo), ShouldEqual, analysis.Domicile)
			// Likewise detriment beats fall for Mercury in Pisces.
			So(table.Lookup(chart.Mercury, zodiac.Pisces), ShouldEqual, analysis.Detriment)
		})

		Convey("When looking up the outer planets", func() {
			So(table.Lookup(chart.Uranus, zodiac.Aquarius), ShouldEqual, analysis.Domicile)
			So(table.Lookup(chart.Neptune, zodiac.Pisces), ShouldEqual, analysis.Domicile)
			So(table.Lookup(chart.Pluto, zodiac.Scorpio), ShouldEqual, analysis.Domicile)
			So(table.Lookup(chart.Neptune, zodiac.Leo), ShouldEqual, analysis.Exaltation)
		})

		Convey("When looking up a body without a rule", func() {
			So(table.Lookup(chart.NorthNode, zodiac.Gemini), ShouldEqual, analysis.Peregrine)
			So(table.Lookup(chart.Chiron, zodiac.Aries), ShouldEqual, analysis.Peregrine)
		})

		Convey("Then every core planet has a complete rule", func() {
			for _, b := range chart.CorePlanets() {
				states := make(map[analysis.DignityState]bool)
				for s := zodiac.Aries; s <= zodiac.Pisces; s++ {
					states[table.Lookup(b, s)] = true
				}
				So(states[analysis.Domicile], ShouldBeTrue)
				So(states[analysis.Exaltation], ShouldBeTrue)
				So(states[analysis.Detriment], ShouldBeTrue)
				So(states[analysis.Fall], ShouldBeTrue)
			}
		})
	})
}

func TestEvaluateDignities(t *testing.T) {
	Convey("Given placed bodies", t, func() {
		table, err := analysis.NewDignityTable()
		So(err, ShouldBeNil)

		positions := []chart.Position{
			pos(chart.Sun, 125, 5),   // Leo
			pos(chart.Moon, 215, 8),  // Scorpio
			pos(chart.Mars, 275, 10), // Capricorn
		}

		Convey("When evaluating", func() {
			dignities := analysis.EvaluateDignities(positions, table)

			Convey("Then every body is keyed by name with its state", func() {
				So(len(dignities), ShouldEqual, 3)
				So(dignities["Sun"], ShouldEqual, "domicile")
				So(dignities["Moon"], ShouldEqual, "fall")
				So(dignities["Mars"], ShouldEqual, "exaltation")
			})
		})

		Convey("When no bodies are supplied", func() {
			So(analysis.EvaluateDignities(nil, table), ShouldBeEmpty)
		})
	})
}

func TestDignityStateString(t *testing.T) {
	Convey("Given the dignity states", t, func() {
		So(analysis.Domicile.String(), ShouldEqual, "domicile")
		So(analysis.Exaltation.String(), ShouldEqual, "exaltation")
		So(analysis.Detriment.String(), ShouldEqual, "detriment")
		So(analysis.Fall.String(), ShouldEqual, "fall")
		So(analysis.Peregrine.String(), ShouldEqual, "peregrine")
	})
}
