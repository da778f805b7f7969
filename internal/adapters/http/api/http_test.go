package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/scorevault/internal/adapters/http/api"
	service "github.com/okian/scorevault/internal/app"
	"github.com/okian/scorevault/internal/domain/model"
	"github.com/okian/scorevault/internal/domain/query"
	"github.com/okian/scorevault/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeDeps struct {
	result     types.Result
	idx        *model.UserIndex
	games      map[string]string
	ingestErr  error
	lastWindow query.Window
}

func (f *fakeDeps) Leaderboard(_ context.Context, w query.Window) (types.Result, error) {
	f.lastWindow = w
	return f.result, nil
}

func (f *fakeDeps) Users(context.Context) (*model.UserIndex, error) {
	return f.idx, nil
}

func (f *fakeDeps) User(_ context.Context, username string) (*model.UserRecord, error) {
	return f.idx.Users[model.Key(username)], nil
}

func (f *fakeDeps) Games(context.Context) (map[string]string, error) {
	return f.games, nil
}

func (f *fakeDeps) Ingest(context.Context) error { return f.ingestErr }

func (f *fakeDeps) AvatarDir() string { return "" }

func (f *fakeDeps) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true}
}

func newDeps() *fakeDeps {
	return &fakeDeps{
		result: types.Result{
			"skeeball": {
				Name:         "Skee-Ball",
				TopAvatarRef: "ariel.png",
				Scores: []types.Entry{
					{Rank: 1, Username: "Ariel", Score: 4200},
				},
			},
		},
		idx: &model.UserIndex{
			UserCount: 2,
			Users: map[string]*model.UserRecord{
				"ariel": {Username: "Ariel", Avatar: "ariel.png", LastSeen: "2026-08-27",
					Games: map[string]*model.UserGameStat{"skeeball": {BestScore: 4200}}},
				"boris": {Username: "Boris", LastSeen: "2026-08-20",
					Games: map[string]*model.UserGameStat{}},
			},
		},
		games: map[string]string{"skeeball": "Skee-Ball", "pinball": "Pinball"},
	}
}

func TestAPI(t *testing.T) {
	Convey("Given an API server over fake dependencies", t, func() {
		deps := newDeps()
		ts := httptest.NewServer(api.NewServer(deps, deps).Router())
		defer ts.Close()

		get := func(path string) (*http.Response, []byte) {
			resp, err := http.Get(ts.URL + path)
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			So(err, ShouldBeNil)
			return resp, body
		}

		Convey("When requesting the leaderboard", func() {
			resp, body := get("/api/leaderboard?period=week")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(deps.lastWindow, ShouldEqual, query.WindowWeek)

			var payload struct {
				Period string       `json:"period"`
				Games  types.Result `json:"games"`
			}
			So(json.Unmarshal(body, &payload), ShouldBeNil)
			So(payload.Period, ShouldEqual, "week")
			So(payload.Games["skeeball"].Scores[0].Username, ShouldEqual, "Ariel")
		})

		Convey("When omitting the period", func() {
			resp, _ := get("/api/leaderboard")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(deps.lastWindow, ShouldEqual, query.WindowToday)
		})

		Convey("When requesting an unknown period", func() {
			resp, body := get("/api/leaderboard?period=century")
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			So(string(body), ShouldContainSubstring, "unknown_period")
		})

		Convey("When listing users", func() {
			resp, body := get("/api/users")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var payload struct {
				Count int `json:"count"`
				Users []struct {
					Username string `json:"username"`
					Games    int    `json:"games"`
				} `json:"users"`
			}
			So(json.Unmarshal(body, &payload), ShouldBeNil)
			So(payload.Count, ShouldEqual, 2)
			So(payload.Users[0].Username, ShouldEqual, "Ariel")
			So(payload.Users[0].Games, ShouldEqual, 1)
			So(payload.Users[1].Username, ShouldEqual, "Boris")
		})

		Convey("When looking up a user with different casing", func() {
			resp, body := get("/api/users/ARIEL")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var u model.UserRecord
			So(json.Unmarshal(body, &u), ShouldBeNil)
			So(u.Username, ShouldEqual, "Ariel")
		})

		Convey("When looking up an unknown user", func() {
			resp, body := get("/api/users/nobody")
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			So(string(body), ShouldContainSubstring, "user_not_found")
		})

		Convey("When listing games", func() {
			resp, body := get("/api/games")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var games []struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			}
			So(json.Unmarshal(body, &games), ShouldBeNil)
			So(len(games), ShouldEqual, 2)
			So(games[0].ID, ShouldEqual, "pinball")
			So(games[1].Name, ShouldEqual, "Skee-Ball")
		})

		Convey("When triggering ingestion", func() {
			resp, err := http.Post(ts.URL+"/api/ingest", "application/json", nil)
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
		})

		Convey("When an ingestion is already running", func() {
			deps.ingestErr = service.ErrIngestInProgress
			resp, err := http.Post(ts.URL+"/api/ingest", "application/json", nil)
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusConflict)
		})

		Convey("When no source is configured", func() {
			deps.ingestErr = service.ErrNoSource
			resp, err := http.Post(ts.URL+"/api/ingest", "application/json", nil)
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusServiceUnavailable)
		})

		Convey("When fetching the dashboard", func() {
			resp, body := get("/dashboard")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(string(body), ShouldContainSubstring, "SCOREVAULT")
		})

		Convey("When checking health", func() {
			resp, _ := get("/healthz")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
		})

		Convey("When using a disallowed method", func() {
			resp, err := http.Post(ts.URL+"/api/leaderboard", "application/json", nil)
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}
