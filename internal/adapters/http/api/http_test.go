package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	api "github.com/podiumhq/podium/internal/adapters/http/api"
	app "github.com/podiumhq/podium/internal/app"
	criteria "github.com/podiumhq/podium/internal/domain/criteria"
	"github.com/podiumhq/podium/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func fullScores(value int) map[string]int {
	scores := make(map[string]int)
	for _, c := range criteria.Default().Criteria() {
		scores[c.Name] = value
	}
	return scores
}

// newTestServer starts a service and returns it with a ready mux.
func newTestServer(ctx context.Context) (*app.Service, *http.ServeMux) {
	So(logger.Init(), ShouldBeNil)
	svc := app.New(app.WithShardCount(2))
	So(svc.Start(ctx), ShouldBeNil)

	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(ctx, mux)
	return svc, mux
}

func doJSON(mux *http.ServeMux, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		So(json.NewEncoder(&buf).Encode(body), ShouldBeNil)
	}
	req := httptest.NewRequest(method, path, &buf)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

// seed creates an event with one team and one assigned judge over HTTP.
func seed(mux *http.ServeMux) (eventID, teamID, judgeID string) {
	rec := doJSON(mux, http.MethodPost, "/events", map[string]any{"name": "Hack Night", "date": "2026-09-12"}, nil)
	So(rec.Code, ShouldEqual, http.StatusCreated)
	var ev struct {
		ID string `json:"id"`
	}
	So(json.Unmarshal(rec.Body.Bytes(), &ev), ShouldBeNil)

	rec = doJSON(mux, http.MethodPost, "/events/"+ev.ID+"/teams",
		map[string]any{"team_name": "Rocket", "team_number": 1, "description": "orbital delivery"}, nil)
	So(rec.Code, ShouldEqual, http.StatusCreated)
	var team struct {
		ID string `json:"id"`
	}
	So(json.Unmarshal(rec.Body.Bytes(), &team), ShouldBeNil)

	rec = doJSON(mux, http.MethodPost, "/events/"+ev.ID+"/judges",
		map[string]any{"name": "Sam", "email": "sam@example.com"}, nil)
	So(rec.Code, ShouldEqual, http.StatusCreated)
	var judge struct {
		ID string `json:"id"`
	}
	So(json.Unmarshal(rec.Body.Bytes(), &judge), ShouldBeNil)

	return ev.ID, team.ID, judge.ID
}

func TestEventEndpoints(t *testing.T) {
	Convey("Given a running API", t, func() {
		ctx := context.Background()
		_, mux := newTestServer(ctx)

		Convey("When creating an event", func() {
			rec := doJSON(mux, http.MethodPost, "/events", map[string]any{"name": "Hack Night", "date": "2026-09-12"}, nil)

			Convey("Then it should return 201 with the stock criteria", func() {
				So(rec.Code, ShouldEqual, http.StatusCreated)
				var got struct {
					ID       string               `json:"id"`
					Criteria []criteria.Criterion `json:"criteria"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
				So(got.ID, ShouldNotBeEmpty)
				So(got.Criteria, ShouldHaveLength, 5)
			})
		})

		Convey("When the date is malformed", func() {
			rec := doJSON(mux, http.MethodPost, "/events", map[string]any{"name": "Hack Night", "date": "12/09/2026"}, nil)

			Convey("Then it should return 400", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When custom criteria are invalid", func() {
			rec := doJSON(mux, http.MethodPost, "/events", map[string]any{
				"name":     "Broken",
				"criteria": []map[string]any{{"name": "Craft", "weight": 0.5}},
			}, nil)

			Convey("Then it should return 400", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When fetching a missing event", func() {
			rec := doJSON(mux, http.MethodGet, "/events/nope", nil, nil)

			Convey("Then it should return 404 with the error shape", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
				var got struct {
					Code    string `json:"code"`
					Message string `json:"message"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
				So(got.Code, ShouldEqual, "not_found")
			})
		})

		Convey("When listing events", func() {
			seed(mux)
			rec := doJSON(mux, http.MethodGet, "/events", nil, nil)

			Convey("Then the created event should be listed", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var got []map[string]any
				So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
				So(got, ShouldHaveLength, 1)
			})
		})
	})
}

func TestRosterEndpoints(t *testing.T) {
	Convey("Given a running API with a seeded event", t, func() {
		ctx := context.Background()
		_, mux := newTestServer(ctx)
		eventID, _, _ := seed(mux)

		Convey("When adding a team with a duplicate number", func() {
			rec := doJSON(mux, http.MethodPost, "/events/"+eventID+"/teams",
				map[string]any{"team_name": "Copycat", "team_number": 1, "description": "same slot"}, nil)

			Convey("Then it should return 409", func() {
				So(rec.Code, ShouldEqual, http.StatusConflict)
			})
		})

		Convey("When importing a roster CSV", func() {
			body := "teamName,teamNumber,description\nComet,2,tail tracking\n,3,missing name\n"
			req := httptest.NewRequest(http.MethodPost, "/events/"+eventID+"/teams/import", strings.NewReader(body))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then created and rejected rows should both be reported", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var got struct {
					Created []map[string]any `json:"created"`
					Errors  []map[string]any `json:"errors"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
				So(got.Created, ShouldHaveLength, 1)
				So(got.Errors, ShouldHaveLength, 1)
			})
		})

		Convey("When listing teams", func() {
			rec := doJSON(mux, http.MethodGet, "/events/"+eventID+"/teams", nil, nil)

			Convey("Then the roster should use the wire field names", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var got []struct {
					TeamName   string `json:"team_name"`
					TeamNumber int    `json:"team_number"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
				So(got, ShouldHaveLength, 1)
				So(got[0].TeamName, ShouldEqual, "Rocket")
				So(got[0].TeamNumber, ShouldEqual, 1)
			})
		})

		Convey("When listing judges", func() {
			rec := doJSON(mux, http.MethodGet, "/events/"+eventID+"/judges", nil, nil)

			Convey("Then the assigned judge should be listed", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var got []struct {
					Email string `json:"email"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
				So(got, ShouldHaveLength, 1)
				So(got[0].Email, ShouldEqual, "sam@example.com")
			})
		})
	})
}

func TestScoreEndpoint(t *testing.T) {
	Convey("Given a running API with a seeded event", t, func() {
		ctx := context.Background()
		_, mux := newTestServer(ctx)
		_, teamID, judgeID := seed(mux)

		Convey("When the judge submits a valid scoresheet", func() {
			rec := doJSON(mux, http.MethodPost, "/teams/"+teamID+"/score",
				map[string]any{"scores": fullScores(9), "comment": "sharp"},
				map[string]string{"X-Judge-ID": judgeID})

			Convey("Then it should return the final score and its label", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var got struct {
					FinalScore float64 `json:"final_score"`
					Label      string  `json:"label"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
				So(got.FinalScore, ShouldAlmostEqual, 9.0, 1e-12)
				So(got.Label, ShouldEqual, "Excellent")
			})
		})

		Convey("When the judge header is missing", func() {
			rec := doJSON(mux, http.MethodPost, "/teams/"+teamID+"/score",
				map[string]any{"scores": fullScores(9)}, nil)

			Convey("Then it should return 401", func() {
				So(rec.Code, ShouldEqual, http.StatusUnauthorized)
			})
		})

		Convey("When the judge is not assigned to the event", func() {
			other := doJSON(mux, http.MethodPost, "/events", map[string]any{"name": "Other"}, nil)
			So(other.Code, ShouldEqual, http.StatusCreated)
			var otherEv struct {
				ID string `json:"id"`
			}
			So(json.Unmarshal(other.Body.Bytes(), &otherEv), ShouldBeNil)

			outsider := doJSON(mux, http.MethodPost, "/events/"+otherEv.ID+"/judges",
				map[string]any{"name": "Out", "email": "out@example.com"}, nil)
			So(outsider.Code, ShouldEqual, http.StatusCreated)
			var out struct {
				ID string `json:"id"`
			}
			So(json.Unmarshal(outsider.Body.Bytes(), &out), ShouldBeNil)

			rec := doJSON(mux, http.MethodPost, "/teams/"+teamID+"/score",
				map[string]any{"scores": fullScores(5)},
				map[string]string{"X-Judge-ID": out.ID})

			Convey("Then it should return 403", func() {
				So(rec.Code, ShouldEqual, http.StatusForbidden)
			})
		})

		Convey("When a score is out of range", func() {
			scores := fullScores(5)
			scores["Innovation"] = 11
			rec := doJSON(mux, http.MethodPost, "/teams/"+teamID+"/score",
				map[string]any{"scores": scores},
				map[string]string{"X-Judge-ID": judgeID})

			Convey("Then it should return 400", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the team does not exist", func() {
			rec := doJSON(mux, http.MethodPost, "/teams/nope/score",
				map[string]any{"scores": fullScores(5)},
				map[string]string{"X-Judge-ID": judgeID})

			Convey("Then it should return 404", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestLeaderboardEndpoints(t *testing.T) {
	Convey("Given a running API with submitted scores", t, func() {
		ctx := context.Background()
		_, mux := newTestServer(ctx)
		eventID, teamID, judgeID := seed(mux)

		idle := doJSON(mux, http.MethodPost, "/events/"+eventID+"/teams",
			map[string]any{"team_name": "Idle", "team_number": 2, "description": "still setting up"}, nil)
		So(idle.Code, ShouldEqual, http.StatusCreated)

		score := doJSON(mux, http.MethodPost, "/teams/"+teamID+"/score",
			map[string]any{"scores": fullScores(7)},
			map[string]string{"X-Judge-ID": judgeID})
		So(score.Code, ShouldEqual, http.StatusOK)

		Convey("When fetching the leaderboard", func() {
			rec := doJSON(mux, http.MethodGet, "/events/"+eventID+"/leaderboard", nil, nil)

			Convey("Then scored teams should carry an average and unscored ones null", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var got []struct {
					Rank         int      `json:"rank"`
					TeamName     string   `json:"team_name"`
					AverageScore *float64 `json:"average_score"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
				So(got, ShouldHaveLength, 2)
				So(got[0].TeamName, ShouldEqual, "Rocket")
				So(got[0].AverageScore, ShouldNotBeNil)
				So(*got[0].AverageScore, ShouldAlmostEqual, 7.0, 1e-12)
				So(got[1].AverageScore, ShouldBeNil)
			})
		})

		Convey("When exporting the leaderboard", func() {
			rec := doJSON(mux, http.MethodGet, "/events/"+eventID+"/export", nil, nil)

			Convey("Then it should serve a CSV attachment", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Header().Get("Content-Type"), ShouldStartWith, "text/csv")
				So(rec.Header().Get("Content-Disposition"), ShouldContainSubstring, "leaderboard.csv")
				So(rec.Body.String(), ShouldStartWith, "rank,teamName,teamNumber,averageScore,scoresCount")
			})
		})

		Convey("When fetching event progress", func() {
			rec := doJSON(mux, http.MethodGet, "/events/"+eventID+"/progress", nil, nil)

			Convey("Then it should report pair coverage", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var got struct {
					PercentComplete float64        `json:"percent_complete"`
					PerJudge        map[string]int `json:"per_judge"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
				So(got.PercentComplete, ShouldAlmostEqual, 50.0, 1e-9)
				So(got.PerJudge[judgeID], ShouldEqual, 1)
			})
		})

		Convey("When fetching the judge's history", func() {
			rec := doJSON(mux, http.MethodGet, "/judges/"+judgeID+"/scored", nil, nil)

			Convey("Then the scored team should appear with its label", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var got []struct {
					TeamID string `json:"team_id"`
					Label  string `json:"label"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
				So(got, ShouldHaveLength, 1)
				So(got[0].TeamID, ShouldEqual, teamID)
				So(got[0].Label, ShouldEqual, "Good")
			})
		})

		Convey("When fetching the judge's per-event progress", func() {
			rec := doJSON(mux, http.MethodGet,
				fmt.Sprintf("/judges/%s/progress?event_id=%s", judgeID, eventID), nil, nil)

			Convey("Then it should count scored teams out of the roster", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var got struct {
					Scored int `json:"scored"`
					Total  int `json:"total"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
				So(got.Scored, ShouldEqual, 1)
				So(got.Total, ShouldEqual, 2)
			})
		})

		Convey("When the event_id query is missing", func() {
			rec := doJSON(mux, http.MethodGet, "/judges/"+judgeID+"/progress", nil, nil)

			Convey("Then it should return 400", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestOperationalEndpoints(t *testing.T) {
	Convey("Given a running API", t, func() {
		ctx := context.Background()
		_, mux := newTestServer(ctx)

		Convey("When probing /healthz", func() {
			rec := doJSON(mux, http.MethodGet, "/healthz", nil, nil)

			Convey("Then it should report ok", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, `"ok"`)
			})
		})

		Convey("When fetching /stats", func() {
			rec := doJSON(mux, http.MethodGet, "/stats", nil, nil)

			Convey("Then it should expose service counters", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var got map[string]any
				So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
				So(got["started"], ShouldEqual, true)
			})
		})

		Convey("When scraping /metrics", func() {
			rec := doJSON(mux, http.MethodGet, "/metrics", nil, nil)

			Convey("Then it should serve the Prometheus exposition format", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, "podium_judging")
			})
		})

		Convey("When using an unsupported method", func() {
			rec := doJSON(mux, http.MethodDelete, "/events", nil, nil)

			Convey("Then it should return 404", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}
