package buildpack_test

import (
	"testing"

	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"

	"github.com/dsi-platform/dsi/internal/buildpack"
	h "github.com/dsi-platform/dsi/testhelpers"
)

func TestParseName(t *testing.T) {
	spec.Run(t, "ParseName", testParseName, spec.Parallel(), spec.Report(report.Terminal{}))
}

func testParseName(t *testing.T, when spec.G, it spec.S) {
	when("#ParseReference", func() {
		for _, tc := range []struct {
			reference string
			id        string
			version   string
		}{
			{"heroku/ruby", "heroku/ruby", ""},
			{"heroku/ruby@0.1.3", "heroku/ruby", "0.1.3"},
			{"urn:cnb:registry:heroku/ruby", "heroku/ruby", ""},
			{"urn:cnb:registry:heroku/ruby@0.1.3", "heroku/ruby", "0.1.3"},
			{"heroku/ruby@", "heroku/ruby", ""},
		} {
			tc := tc
			it("parses "+tc.reference, func() {
				id, version := buildpack.ParseReference(tc.reference)
				h.AssertEq(t, id, tc.id)
				h.AssertEq(t, version, tc.version)
			})
		}

		it("only strips a leading registry prefix", func() {
			id, _ := buildpack.ParseReference("heroku/urn:cnb:registry:ruby")
			h.AssertEq(t, id, "heroku/urn:cnb:registry:ruby")
		})
	})

	when("#ParseRegistryID", func() {
		it("splits namespace and name", func() {
			ns, name, version, err := buildpack.ParseRegistryID("urn:cnb:registry:heroku/nodejs@1.2.3")
			h.AssertNil(t, err)
			h.AssertEq(t, ns, "heroku")
			h.AssertEq(t, name, "nodejs")
			h.AssertEq(t, version, "1.2.3")
		})

		it("fails without a namespace", func() {
			_, _, _, err := buildpack.ParseRegistryID("nodejs")
			h.AssertError(t, err, "invalid registry ID: nodejs")
		})
	})
}
