package main

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/aquilax/catalog/node"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParentField(t *testing.T) {
	Convey("Decoding parent_id", t, func() {
		tests := []struct {
			body    string
			set     bool
			id      *node.NodeID
			invalid bool
		}{
			{`{}`, false, nil, false},
			{`{"parent_id":null}`, true, nil, false},
			{`{"parent_id":7}`, true, node.ID(7), false},
			{`{"parent_id":"7"}`, true, node.ID(7), false},
			{`{"parent_id":""}`, true, nil, false},
			{`{"parent_id":"seven"}`, true, nil, true},
			{`{"parent_id":1.5}`, true, nil, true},
			{`{"parent_id":-3}`, true, nil, true},
		}
		for _, tt := range tests {
			var in NodeInput
			So(json.Unmarshal([]byte(tt.body), &in), ShouldBeNil)
			So(in.Parent.Set, ShouldEqual, tt.set)
			So(in.Parent.Invalid, ShouldEqual, tt.invalid)
			So(in.Parent.ID, ShouldResemble, tt.id)
		}
	})
}

func TestParseFilter(t *testing.T) {
	Convey("Building a filter from the query", t, func() {
		Convey("No parameters match everything", func() {
			f, err := parseFilter(url.Values{})
			So(err, ShouldBeNil)
			So(f, ShouldResemble, node.Filter{})
		})

		Convey("Every parameter is carried", func() {
			q, _ := url.ParseQuery("search=+pro+&type=product&parent_id=4&roots_only=0")
			f, err := parseFilter(q)
			So(err, ShouldBeNil)
			So(f, ShouldResemble, node.Filter{Search: "pro", Type: "product", Parent: node.ParentIs, ParentID: 4})
		})

		Convey("An empty or null parent_id selects roots", func() {
			for _, raw := range []string{"parent_id=", "parent_id=null"} {
				q, _ := url.ParseQuery(raw)
				f, err := parseFilter(q)
				So(err, ShouldBeNil)
				So(f.Parent, ShouldEqual, node.ParentRoots)
			}
		})

		Convey("Ids that are never issued select no children instead of failing", func() {
			for _, raw := range []string{"0", "-5"} {
				f, err := parseFilter(url.Values{"parent_id": {raw}})
				So(err, ShouldBeNil)
				So(f.Parent, ShouldEqual, node.ParentIs)
				So(f.ParentID, ShouldBeLessThan, 1)
			}
		})

		Convey("A non numeric parent_id is rejected", func() {
			_, err := parseFilter(url.Values{"parent_id": {"abc"}})
			So(err, ShouldHaveSameTypeAs, ValidationErrors{})
		})

		Convey("roots_only accepts the usual truthy spellings", func() {
			for _, raw := range []string{"1", "true", "on", "yes"} {
				f, err := parseFilter(url.Values{"roots_only": {raw}})
				So(err, ShouldBeNil)
				So(f.RootsOnly, ShouldBeTrue)
			}
		})
	})
}

func TestPageParams(t *testing.T) {
	Convey("Paging parameters", t, func() {
		Convey("Absent parameters disable paging", func() {
			_, offset, limit := pageParams(url.Values{}, 20)
			So(offset, ShouldEqual, 0)
			So(limit, ShouldEqual, 0)
		})

		Convey("page alone uses the default page size", func() {
			page, offset, limit := pageParams(url.Values{"page": {"3"}}, 20)
			So(page, ShouldEqual, 2)
			So(offset, ShouldEqual, 40)
			So(limit, ShouldEqual, 20)
		})

		Convey("Huge values are capped instead of wrapping around", func() {
			page, offset, limit := pageParams(url.Values{"page": {"9223372036854775807"}, "per_page": {"9223372036854775807"}}, 20)
			So(page, ShouldEqual, maxPage-1)
			So(limit, ShouldEqual, maxPerPage)
			So(offset, ShouldEqual, (maxPage-1)*maxPerPage)
			So(offset, ShouldBeGreaterThan, 0)
		})

		Convey("Bad values fall back to the first page", func() {
			page, offset, limit := pageParams(url.Values{"page": {"x"}, "per_page": {"-1"}}, 20)
			So(page, ShouldEqual, 0)
			So(offset, ShouldEqual, 0)
			So(limit, ShouldEqual, 20)
		})
	})
}
