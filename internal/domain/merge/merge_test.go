package merge_test

import (
	"reflect"
	"testing"

	"github.com/okian/scorevault/internal/domain/merge"
	"github.com/okian/scorevault/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func day(name string, highscores, today model.PeriodBlock) model.GameDay {
	return model.GameDay{Name: name, Highscores: highscores, Today: today}
}

func block(avatar string, rows ...model.ScoreEntry) model.PeriodBlock {
	return model.PeriodBlock{TopAvatarRef: avatar, Scores: rows}
}

func row(rank int, user string, score int) model.ScoreEntry {
	return model.ScoreEntry{Rank: rank, Username: user, Score: score}
}

func TestMerger_ColdStart(t *testing.T) {
	Convey("Given no existing all-time record", t, func() {
		m := merge.New()
		incoming := map[string]model.GameDay{
			"skeeball": day("Skee-Ball",
				block("ariel.png", row(1, "Ariel", 900), row(2, "Boris", 700)),
				block("", row(1, "Caro", 120)),
			),
		}

		Convey("When merging the first day", func() {
			got := m.Merge(nil, incoming, "2026-08-01")

			Convey("Then the highscores block seeds the record", func() {
				g := got.Games["skeeball"]
				So(g.Scores, ShouldHaveLength, 2)
				So(g.Scores[0].Username, ShouldEqual, "Ariel")
				So(g.Scores[0].Score, ShouldEqual, 900)
				So(g.Scores[0].Rank, ShouldEqual, 1)
				So(g.Scores[1].Rank, ShouldEqual, 2)
			})

			Convey("And every entry is stamped with the merge date", func() {
				for _, e := range got.Games["skeeball"].Scores {
					So(e.AchievedOn, ShouldEqual, model.Date("2026-08-01"))
				}
			})

			Convey("And the avatar comes from the incoming day", func() {
				So(got.Games["skeeball"].TopAvatarRef, ShouldEqual, "ariel.png")
			})

			Convey("And lastUpdated is the merge date", func() {
				So(got.LastUpdated, ShouldEqual, model.Date("2026-08-01"))
			})
		})

		Convey("When the existing record is malformed (nil games map)", func() {
			got := m.Merge(&model.AllTimeRecord{}, incoming, "2026-08-01")

			Convey("Then it behaves exactly like a cold start", func() {
				So(got.Games["skeeball"].Scores, ShouldHaveLength, 2)
			})
		})
	})
}

func TestMerger_BestScoreWins(t *testing.T) {
	Convey("Given an existing record", t, func() {
		m := merge.New()
		current := &model.AllTimeRecord{
			LastUpdated: "2026-08-01",
			Games: map[string]model.AllTimeGame{
				"skeeball": {
					Name: "Skee-Ball",
					Scores: []model.AllTimeEntry{
						{Rank: 1, Username: "Ariel", Score: 900, AchievedOn: "2026-08-01"},
						{Rank: 2, Username: "Boris", Score: 700, AchievedOn: "2026-08-01"},
					},
				},
			},
		}

		Convey("When a user strictly beats their stored score", func() {
			incoming := map[string]model.GameDay{
				"skeeball": day("Skee-Ball",
					block("", row(1, "Ariel", 900)),
					block("", row(1, "Boris", 950)),
				),
			}
			got := m.Merge(current, incoming, "2026-08-02")
			g := got.Games["skeeball"]

			Convey("Then the entry is replaced and re-ranked", func() {
				So(g.Scores[0].Username, ShouldEqual, "Boris")
				So(g.Scores[0].Score, ShouldEqual, 950)
				So(g.Scores[0].AchievedOn, ShouldEqual, model.Date("2026-08-02"))
				So(g.Scores[1].Username, ShouldEqual, "Ariel")
			})

			Convey("And the untouched entry keeps its provenance", func() {
				So(g.Scores[1].AchievedOn, ShouldEqual, model.Date("2026-08-01"))
			})
		})

		Convey("When a user ties their stored score", func() {
			incoming := map[string]model.GameDay{
				"skeeball": day("Skee-Ball",
					block("", row(1, "Ariel", 900)),
					block("", row(1, "Boris", 700)),
				),
			}
			got := m.Merge(current, incoming, "2026-08-02")

			Convey("Then achievedOn never changes on a tie", func() {
				for _, e := range got.Games["skeeball"].Scores {
					So(e.AchievedOn, ShouldEqual, model.Date("2026-08-01"))
				}
			})
		})

		Convey("When a candidate arrives under different casing", func() {
			incoming := map[string]model.GameDay{
				"skeeball": day("Skee-Ball",
					block("", row(1, "ARIEL", 1000)),
					block(""),
				),
			}
			got := m.Merge(current, incoming, "2026-08-02")
			g := got.Games["skeeball"]

			Convey("Then it merges into the existing entry, keeping first-seen casing", func() {
				So(g.Scores, ShouldHaveLength, 2)
				So(g.Scores[0].Username, ShouldEqual, "Ariel")
				So(g.Scores[0].Score, ShouldEqual, 1000)
			})
		})

		Convey("When a game has no incoming data", func() {
			got := m.Merge(current, map[string]model.GameDay{}, "2026-08-02")

			Convey("Then it carries over untouched and lastUpdated still advances", func() {
				So(got.Games["skeeball"], ShouldResemble, current.Games["skeeball"])
				So(got.LastUpdated, ShouldEqual, model.Date("2026-08-02"))
			})
		})
	})
}

func TestMerger_TopNInvariant(t *testing.T) {
	Convey("Given a small entry cap", t, func() {
		m := merge.New(merge.WithMaxEntries(3))
		hs := block("",
			row(1, "a", 50), row(2, "b", 40), row(3, "c", 30),
			row(4, "d", 20), row(5, "e", 10),
		)
		incoming := map[string]model.GameDay{"pinball": day("Pinball", hs, block(""))}

		Convey("When merging more entries than the cap", func() {
			got := m.Merge(nil, incoming, "2026-08-01")
			g := got.Games["pinball"]

			Convey("Then the list is truncated, sorted, and contiguously ranked", func() {
				So(g.Scores, ShouldHaveLength, 3)
				for i, e := range g.Scores {
					So(e.Rank, ShouldEqual, i+1)
					if i > 0 {
						So(e.Score, ShouldBeLessThanOrEqualTo, g.Scores[i-1].Score)
					}
				}
			})
		})
	})
}

func TestMerger_Idempotence(t *testing.T) {
	Convey("Given an arbitrary record and day", t, func() {
		m := merge.New()
		current := &model.AllTimeRecord{
			LastUpdated: "2026-08-01",
			Games: map[string]model.AllTimeGame{
				"skeeball": {
					Name:         "Skee-Ball",
					TopAvatarRef: "old.png",
					Scores: []model.AllTimeEntry{
						{Rank: 1, Username: "Ariel", Score: 900, AchievedOn: "2026-07-01"},
						{Rank: 2, Username: "Boris", Score: 900, AchievedOn: "2026-07-15"},
						{Rank: 3, Username: "Caro", Score: 300, AchievedOn: "2026-07-20"},
					},
				},
			},
		}
		incoming := map[string]model.GameDay{
			"skeeball": day("Skee-Ball",
				block("new.png", row(1, "Dana", 950), row(2, "Ariel", 900)),
				block("", row(1, "Caro", 500)),
			),
		}

		Convey("When merging the same day twice", func() {
			once := m.Merge(current, incoming, "2026-08-02")
			twice := m.Merge(once, incoming, "2026-08-02")

			Convey("Then the result is identical", func() {
				So(reflect.DeepEqual(once, twice), ShouldBeTrue)
			})

			Convey("And exact ties keep their insertion order", func() {
				g := once.Games["skeeball"]
				So(g.Scores[0].Username, ShouldEqual, "Dana")
				So(g.Scores[1].Username, ShouldEqual, "Ariel")
				So(g.Scores[2].Username, ShouldEqual, "Boris")
			})
		})
	})
}

func TestMerger_AvatarRetention(t *testing.T) {
	Convey("Given a record whose #1 was achieved in the past", t, func() {
		m := merge.New()
		current := &model.AllTimeRecord{
			LastUpdated: "2026-08-01",
			Games: map[string]model.AllTimeGame{
				"skeeball": {
					Name:         "Skee-Ball",
					TopAvatarRef: "known-good.png",
					Scores: []model.AllTimeEntry{
						{Rank: 1, Username: "Ariel", Score: 900, AchievedOn: "2026-07-01"},
					},
				},
			},
		}

		Convey("When the day changes nothing at the top", func() {
			incoming := map[string]model.GameDay{
				"skeeball": day("Skee-Ball", block("", row(1, "Ariel", 900)), block("")),
			}
			got := m.Merge(current, incoming, "2026-08-02")

			Convey("Then the stored avatar is retained", func() {
				So(got.Games["skeeball"].TopAvatarRef, ShouldEqual, "known-good.png")
			})
		})

		Convey("When a new #1 is achieved today", func() {
			incoming := map[string]model.GameDay{
				"skeeball": day("Skee-Ball",
					block("hs.png", row(1, "Boris", 990)),
					block("today.png", row(1, "Boris", 990)),
				),
			}
			got := m.Merge(current, incoming, "2026-08-02")

			Convey("Then the today block's avatar wins over highscores'", func() {
				So(got.Games["skeeball"].TopAvatarRef, ShouldEqual, "today.png")
			})
		})

		Convey("When a new #1 is achieved today but only highscores has an avatar", func() {
			incoming := map[string]model.GameDay{
				"skeeball": day("Skee-Ball",
					block("hs.png", row(1, "Boris", 990)),
					block(""),
				),
			}
			got := m.Merge(current, incoming, "2026-08-02")

			Convey("Then the highscores avatar is used", func() {
				So(got.Games["skeeball"].TopAvatarRef, ShouldEqual, "hs.png")
			})
		})
	})
}
