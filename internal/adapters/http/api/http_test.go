package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/podium/internal/adapters/http/api"
	app "github.com/okian/podium/internal/app"
	. "github.com/smartystreets/goconvey/convey"
)

const uploadCSV = `Name,Sex,Division,WeightClassKg,BodyweightKg,Best3SquatKg,Best3BenchKg,Best3DeadliftKg,TotalKg,Place
Alice,F,Open,60,59.5,100,60,120,280,1
Alice,F,M1,60,59.5,95,55,111,261,1
Bob,F,Open,60,58.0,90,50,110,250,2
`

func newTestServer(opts ...app.Option) *httptest.Server {
	svc := app.New(opts...)
	mux := http.NewServeMux()
	api.NewServer(svc, 0).Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func uploadBody(content string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "meet.csv")
	_, _ = fw.Write([]byte(content))
	_ = mw.Close()
	return &buf, mw.FormDataContentType()
}

type boardResponse struct {
	Sex         string `json:"sex"`
	WeightClass string `json:"weight_class"`
	Division    string `json:"division"`
	Metric      string `json:"metric"`
	Entries     []struct {
		Name string `json:"Name"`
	} `json:"entries"`
}

func TestHTTPServer(t *testing.T) {
	Convey("Given a running API server", t, func() {
		ts := newTestServer()
		defer ts.Close()

		Convey("Then the health endpoint should respond", func() {
			resp, err := http.Get(ts.URL + "/healthz")
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
		})

		Convey("And GET / should serve the upload form", func() {
			resp, err := http.Get(ts.URL + "/")
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(resp.Header.Get("Content-Type"), ShouldStartWith, "text/html")
		})

		Convey("And reads before any upload should return 404", func() {
			resp, err := http.Get(ts.URL + "/leaderboards")
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)

			var body struct {
				Code string `json:"code"`
			}
			So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
			So(body.Code, ShouldEqual, "no_run")
		})

		Convey("When a meet export is uploaded", func() {
			buf, contentType := uploadBody(uploadCSV)
			resp, err := http.Post(ts.URL+"/", contentType, buf)
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			Convey("Then GET /leaderboards should return every board", func() {
				resp, err := http.Get(ts.URL + "/leaderboards")
				So(err, ShouldBeNil)
				defer func() { _ = resp.Body.Close() }()
				So(resp.StatusCode, ShouldEqual, http.StatusOK)

				var boards []boardResponse
				So(json.NewDecoder(resp.Body).Decode(&boards), ShouldBeNil)
				So(boards, ShouldHaveLength, 8)
				So(boards[0].Metric, ShouldEqual, "squat")
			})

			Convey("And cohort filtering should narrow the result", func() {
				resp, err := http.Get(ts.URL + "/leaderboards?sex=F&weight_class=60&division=M1")
				So(err, ShouldBeNil)
				defer func() { _ = resp.Body.Close() }()
				So(resp.StatusCode, ShouldEqual, http.StatusOK)

				var boards []boardResponse
				So(json.NewDecoder(resp.Body).Decode(&boards), ShouldBeNil)
				So(boards, ShouldHaveLength, 4)
				for _, b := range boards {
					So(b.Division, ShouldEqual, "M1")
					So(b.Entries, ShouldHaveLength, 1)
					So(b.Entries[0].Name, ShouldEqual, "Alice")
				}
			})

			Convey("And GET /cohorts should list cohorts in display order", func() {
				resp, err := http.Get(ts.URL + "/cohorts")
				So(err, ShouldBeNil)
				defer func() { _ = resp.Body.Close() }()
				So(resp.StatusCode, ShouldEqual, http.StatusOK)

				var cohorts []struct {
					Sex         string `json:"sex"`
					WeightClass string `json:"weight_class"`
					Division    string `json:"division"`
				}
				So(json.NewDecoder(resp.Body).Decode(&cohorts), ShouldBeNil)
				So(cohorts, ShouldHaveLength, 2)
				So(cohorts[0].Division, ShouldEqual, "M1")
				So(cohorts[1].Division, ShouldEqual, "Open")
			})
		})

		Convey("When an upload is missing required columns", func() {
			buf, contentType := uploadBody("Name,Sex\nAlice,F\n")
			resp, err := http.Post(ts.URL+"/", contentType, buf)
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			Convey("Then the form should come back with an error message", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				page, err := io.ReadAll(resp.Body)
				So(err, ShouldBeNil)
				So(string(page), ShouldContainSubstring, "required column missing")
			})
		})

		Convey("And unknown paths should 404", func() {
			resp, err := http.Get(ts.URL + "/nope")
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})

		Convey("And non-GET reads should 404", func() {
			resp, err := http.Post(ts.URL+"/leaderboards", "text/plain", strings.NewReader(""))
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})
	})
}
