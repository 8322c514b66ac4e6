package boundary

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestReformatDate(t *testing.T) {
	Convey("Given a handful of common observation-header date/time spellings", t, func() {
		cases := []struct {
			input string
			want  string
		}{
			{"2015-01-01 00:00:00", "2015-01-01 00:00:00"},
			{"2015-01-01T00:00:00", "2015-01-01 00:00:00"},
			{"2015-01-01", "2015-01-01 00:00:00"},
		}
		for _, c := range cases {
			c := c
			Convey("ReformatDate("+c.input+") canonicalizes to the comparison form", func() {
				got, err := ReformatDate(c.input)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, c.want)
			})
		}

		Convey("a malformed date/time string fails loudly", func() {
			_, err := ReformatDate("not-a-date")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestParseDateRejectsEmpty(t *testing.T) {
	if _, err := ParseDate(""); err == nil {
		t.Fatal("expected an error parsing an empty date/time string")
	}
}
