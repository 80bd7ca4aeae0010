package swagger_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/cavops/muster/internal/adapters/http/swagger"
)

func TestRegister(t *testing.T) {
	Convey("Given the documentation routes", t, func() {
		mux := http.NewServeMux()
		swagger.Register(context.Background(), mux)
		ts := httptest.NewServer(mux)
		defer ts.Close()

		Convey("When fetching the docs page", func() {
			resp, err := http.Get(ts.URL + "/api-docs")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then it renders ReDoc HTML", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(resp.Header.Get("Content-Type"), ShouldContainSubstring, "text/html")

				body, err := io.ReadAll(resp.Body)
				So(err, ShouldBeNil)
				So(string(body), ShouldContainSubstring, "redoc")
				So(string(body), ShouldContainSubstring, "/openapi.yaml")
			})
		})

		Convey("When fetching the spec", func() {
			resp, err := http.Get(ts.URL + "/openapi.yaml")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the embedded YAML is served", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(resp.Header.Get("Content-Type"), ShouldContainSubstring, "yaml")

				body, err := io.ReadAll(resp.Body)
				So(err, ShouldBeNil)
				So(strings.HasPrefix(string(body), "openapi:"), ShouldBeTrue)
				So(string(body), ShouldContainSubstring, "/strength")
			})
		})
	})
}

func TestRegisterNilMux(t *testing.T) {
	Convey("Given a nil mux", t, func() {
		Convey("Then registration panics", func() {
			So(func() { swagger.Register(context.Background(), nil) }, ShouldPanic)
		})
	})
}

func TestEmbeddedSpec(t *testing.T) {
	Convey("Given the embedded spec", t, func() {
		Convey("Then it is present and well formed at the top level", func() {
			So(len(swagger.OpenAPI), ShouldBeGreaterThan, 0)
			So(string(swagger.OpenAPI), ShouldContainSubstring, "paths:")
		})
	})
}
