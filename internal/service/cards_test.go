package service_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"citadelle-cards-api/internal/catalog"
	"citadelle-cards-api/internal/cooldown"
	"citadelle-cards-api/internal/draw"
	"citadelle-cards-api/internal/exchange"
	"citadelle-cards-api/internal/ledger"
	"citadelle-cards-api/internal/model"
	"citadelle-cards-api/internal/service"
	"citadelle-cards-api/internal/store"
)

// testFixture wires a full CardService over in-memory stores with a fixed
// clock and a seeded draw source.
type testFixture struct {
	svc     *service.CardService
	ledger  *ledger.Ledger
	board   *exchange.Board
	tabular store.TabularStore
	names   *service.Directory
}

func testClock() time.Time {
	return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
}

func newFixture(tab store.TabularStore) *testFixture {
	files := store.NewMemoryFileStore()
	folders := make(map[string]string, len(model.Categories))
	for _, cat := range model.Categories {
		folder := "folder-" + string(cat)
		folders[string(cat)] = folder
		for i := 0; i < 4; i++ {
			name := fmt.Sprintf("%s-%d.png", cat, i)
			files.AddFile(folder, store.File{ID: "img-" + name, Name: name}, nil)
		}
	}
	cat := catalog.New(files, folders)
	if err := cat.Reload(context.Background()); err != nil {
		panic(err)
	}

	led := ledger.New(tab, cat)
	engine := draw.NewEngineWithSource(cat, rand.NewSource(7))
	selector := draw.NewSelector(led, cat, time.UTC)
	selector.SetNow(testClock)
	daily := cooldown.New(tab, store.TableDailyDraw, time.UTC)
	daily.SetNow(testClock)
	sacrifice := cooldown.New(tab, store.TableSacrifice, time.UTC)
	sacrifice.SetNow(testClock)
	board := exchange.New(tab, time.UTC)
	board.SetNow(testClock)
	names := service.NewDirectory()

	return &testFixture{
		svc:     service.NewCardService(cat, engine, selector, led, daily, sacrifice, board, names),
		ledger:  led,
		board:   board,
		tabular: tab,
		names:   names,
	}
}

func (f *testFixture) grant(ctx context.Context, userID string, cat model.Category, name string, count int) {
	for i := 0; i < count; i++ {
		if err := f.ledger.AddCard(ctx, userID, cat, name); err != nil {
			panic(err)
		}
	}
}

func (f *testFixture) totalCards(ctx context.Context, userID string) int {
	owned, err := f.svc.Inventory(ctx, userID)
	if err != nil {
		panic(err)
	}
	total := 0
	for _, c := range owned {
		total += c.Count
	}
	return total
}

func (f *testFixture) countOf(ctx context.Context, userID string, cat model.Category, name string) int {
	owned, err := f.svc.Inventory(ctx, userID)
	if err != nil {
		panic(err)
	}
	for _, c := range owned {
		if c.Category == cat && c.Name == name {
			return c.Count
		}
	}
	return 0
}

func TestPerformDailyDraw(t *testing.T) {
	Convey("Given a user who has not drawn today", t, func() {
		f := newFixture(store.NewMemoryTabularStore())
		ctx := context.Background()

		Convey("When they perform the daily draw", func() {
			drawn, err := f.svc.PerformDailyDraw(ctx, "u1")

			Convey("Then they receive three cards", func() {
				So(err, ShouldBeNil)
				So(drawn, ShouldHaveLength, service.DailyDrawCount)
			})

			Convey("And the cards land in their inventory", func() {
				So(f.totalCards(ctx, "u1"), ShouldEqual, service.DailyDrawCount)
			})

			Convey("And a second draw the same day is refused", func() {
				_, err := f.svc.PerformDailyDraw(ctx, "u1")
				So(err, ShouldEqual, service.ErrCooldownActive)
				So(f.totalCards(ctx, "u1"), ShouldEqual, service.DailyDrawCount)
			})

			Convey("And another user can still draw", func() {
				other, err := f.svc.PerformDailyDraw(ctx, "u2")
				So(err, ShouldBeNil)
				So(other, ShouldHaveLength, service.DailyDrawCount)
			})
		})
	})
}

func TestSacrifice(t *testing.T) {
	Convey("Given a user with an empty inventory", t, func() {
		f := newFixture(store.NewMemoryTabularStore())
		ctx := context.Background()

		Convey("When they preview the sacrifice", func() {
			_, err := f.svc.SacrificePreview(ctx, "u1")

			Convey("Then they are told they lack cards", func() {
				var notEnough *service.NotEnoughCardsError
				So(errors.As(err, &notEnough), ShouldBeTrue)
				So(notEnough.Have, ShouldEqual, 0)
				So(notEnough.Need, ShouldEqual, draw.SacrificeCount)
			})
		})

		Convey("When they attempt the sacrifice anyway", func() {
			_, err := f.svc.PerformSacrifice(ctx, "u1")

			Convey("Then it fails without touching the inventory", func() {
				var notEnough *service.NotEnoughCardsError
				So(errors.As(err, &notEnough), ShouldBeTrue)
				So(f.totalCards(ctx, "u1"), ShouldEqual, 0)
			})
		})
	})

	Convey("Given a user holding a broad collection", t, func() {
		f := newFixture(store.NewMemoryTabularStore())
		ctx := context.Background()
		for i := 0; i < 10; i++ {
			f.grant(ctx, "u1", model.CategoryStudents, fmt.Sprintf("Students-%d", i), 2)
		}
		before := f.totalCards(ctx, "u1")

		Convey("When they preview the sacrifice twice", func() {
			first, err1 := f.svc.SacrificePreview(ctx, "u1")
			second, err2 := f.svc.SacrificePreview(ctx, "u1")

			Convey("Then both previews show the same five cards", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(first, ShouldHaveLength, draw.SacrificeCount)
				So(first, ShouldResemble, second)
			})

			Convey("And previewing does not consume anything", func() {
				So(f.totalCards(ctx, "u1"), ShouldEqual, before)
			})
		})

		Convey("When they perform the sacrifice", func() {
			rewards, err := f.svc.PerformSacrifice(ctx, "u1")

			Convey("Then five cards are traded for three fresh draws", func() {
				So(err, ShouldBeNil)
				So(rewards, ShouldHaveLength, service.SacrificeRewardCount)
				So(f.totalCards(ctx, "u1"), ShouldEqual,
					before-draw.SacrificeCount+service.SacrificeRewardCount)
			})

			Convey("And a second sacrifice the same day is refused", func() {
				_, err := f.svc.PerformSacrifice(ctx, "u1")
				So(err, ShouldEqual, service.ErrCooldownActive)
			})
		})
	})
}

func TestExchange(t *testing.T) {
	Convey("Given two users each holding a card", t, func() {
		f := newFixture(store.NewMemoryTabularStore())
		ctx := context.Background()
		f.grant(ctx, "u1", model.CategoryMaster, "Master-0", 1)
		f.grant(ctx, "u2", model.CategoryStudents, "Students-0", 1)
		f.names.Set("u1", "Alice")

		Convey("When the first user deposits their card", func() {
			offer, err := f.svc.DepositOffer(ctx, "u1", model.CategoryMaster, "Master-0", "any student?")

			Convey("Then the offer appears on the board with their name", func() {
				So(err, ShouldBeNil)
				So(offer.OwnerName, ShouldEqual, "Alice")
				board, err := f.svc.ExchangeBoard(ctx)
				So(err, ShouldBeNil)
				So(board, ShouldHaveLength, 1)
				So(board[0].Name, ShouldEqual, "Master-0")
			})

			Convey("And the card leaves their inventory", func() {
				So(f.countOf(ctx, "u1", model.CategoryMaster, "Master-0"), ShouldEqual, 0)
			})

			Convey("And they cannot take their own offer", func() {
				_, err := f.svc.TakeOffer(ctx, "u1", offer.ID, model.CategoryMaster, "Master-0")
				So(err, ShouldEqual, service.ErrOwnOffer)
			})

			Convey("And the second user trades for it", func() {
				got, err := f.svc.TakeOffer(ctx, "u2", offer.ID, model.CategoryStudents, "Students-0")
				So(err, ShouldBeNil)
				So(got.Name, ShouldEqual, "Master-0")

				So(f.countOf(ctx, "u2", model.CategoryMaster, "Master-0"), ShouldEqual, 1)
				So(f.countOf(ctx, "u2", model.CategoryStudents, "Students-0"), ShouldEqual, 0)
				So(f.countOf(ctx, "u1", model.CategoryStudents, "Students-0"), ShouldEqual, 1)

				board, err := f.svc.ExchangeBoard(ctx)
				So(err, ShouldBeNil)
				So(board, ShouldBeEmpty)
			})
		})

		Convey("When a user deposits a card they do not own", func() {
			_, err := f.svc.DepositOffer(ctx, "u2", model.CategorySecret, "Secret-0", "")

			Convey("Then the deposit is refused", func() {
				So(err, ShouldEqual, service.ErrCardNotOwned)
			})
		})

		Convey("When a user takes a vanished offer", func() {
			_, err := f.svc.TakeOffer(ctx, "u2", 42, model.CategoryStudents, "Students-0")

			Convey("Then the board reports it missing", func() {
				So(err, ShouldEqual, exchange.ErrOfferNotFound)
			})

			Convey("And their card is untouched", func() {
				So(f.countOf(ctx, "u2", model.CategoryStudents, "Students-0"), ShouldEqual, 1)
			})
		})
	})
}

func TestTradeRollsBackOnFailure(t *testing.T) {
	Convey("Given a board whose row deletion fails", t, func() {
		tab := &failingDeleteStore{
			TabularStore: store.NewMemoryTabularStore(),
			failTable:    store.TableExchange,
		}
		f := newFixture(tab)
		ctx := context.Background()
		f.grant(ctx, "u1", model.CategoryMaster, "Master-0", 1)
		f.grant(ctx, "u2", model.CategoryStudents, "Students-0", 1)

		offer, err := f.svc.DepositOffer(ctx, "u1", model.CategoryMaster, "Master-0", "")
		So(err, ShouldBeNil)

		Convey("When a trade cannot remove the offer", func() {
			_, err := f.svc.TakeOffer(ctx, "u2", offer.ID, model.CategoryStudents, "Students-0")

			Convey("Then the trade is reported as aborted", func() {
				So(err, ShouldNotBeNil)
			})

			Convey("And both inventories are restored", func() {
				So(f.countOf(ctx, "u2", model.CategoryStudents, "Students-0"), ShouldEqual, 1)
				So(f.countOf(ctx, "u2", model.CategoryMaster, "Master-0"), ShouldEqual, 0)
				So(f.countOf(ctx, "u1", model.CategoryStudents, "Students-0"), ShouldEqual, 0)
			})

			Convey("And the offer stays on the board", func() {
				board, err := f.svc.ExchangeBoard(ctx)
				So(err, ShouldBeNil)
				So(board, ShouldHaveLength, 1)
			})
		})
	})
}

func TestRankingAnnotation(t *testing.T) {
	Convey("Given collectors with known and unknown names", t, func() {
		f := newFixture(store.NewMemoryTabularStore())
		ctx := context.Background()
		f.grant(ctx, "u1", model.CategoryStudents, "Students-0", 3)
		f.grant(ctx, "u2", model.CategoryStudents, "Students-1", 1)
		f.names.Set("u1", "Alice")

		Convey("When the ranking is read", func() {
			ranking, err := f.svc.Ranking(ctx)

			Convey("Then it is ordered by total with names filled in", func() {
				So(err, ShouldBeNil)
				So(ranking, ShouldHaveLength, 2)
				So(ranking[0].UserID, ShouldEqual, "u1")
				So(ranking[0].Total, ShouldEqual, 3)
				So(ranking[0].DisplayName, ShouldEqual, "Alice")
				So(ranking[1].DisplayName, ShouldBeBlank)
			})
		})
	})
}

// failingDeleteStore rejects row deletion on one table.
type failingDeleteStore struct {
	store.TabularStore
	failTable string
}

func (s *failingDeleteStore) DeleteRow(ctx context.Context, table string, index int) error {
	if table == s.failTable {
		return store.StoreError("delete rejected")
	}
	return s.TabularStore.DeleteRow(ctx, table, index)
}
