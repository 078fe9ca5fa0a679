package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-ops/database"
	"github.com/yeremiapane/restaurant-ops/domain"
	"github.com/yeremiapane/restaurant-ops/events"
	"github.com/yeremiapane/restaurant-ops/locks"
	"github.com/yeremiapane/restaurant-ops/models"
	"github.com/yeremiapane/restaurant-ops/repository"
	"github.com/yeremiapane/restaurant-ops/services"
)

var (
	waiter  = services.Actor{EmployeeID: 10, CompanyID: 1, Role: "waiter"}
	cashier = services.Actor{EmployeeID: 11, CompanyID: 1, Role: "cashier"}
	rival   = services.Actor{EmployeeID: 20, CompanyID: 2, Role: "waiter"}
)

// clock hands out strictly increasing instants one second apart.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type fixture struct {
	t        *testing.T
	ctx      context.Context
	db       *gorm.DB
	recorder *events.Recorder

	tables   *services.TableRegistry
	commands *services.CommandService
	orders   *services.OrderService
	sessions *services.CashSessionService
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWithPolicy(t, domain.RejectForeignOptions)
}

func newFixtureWithPolicy(t *testing.T, policy domain.ForeignOptionPolicy) *fixture {
	return newFixtureWith(t, policy, nil)
}

// newFixtureWith routes events through wrap when it is given; wrap receives
// the recorder so the events still end up there.
func newFixtureWith(t *testing.T, policy domain.ForeignOptionPolicy, wrap func(*events.Recorder) events.Publisher) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := database.Connect("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(ctx, db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	lookup, err := repository.NewStatusLookup(ctx, db)
	require.NoError(t, err)

	recorder := &events.Recorder{}
	var publisher events.Publisher = recorder
	if wrap != nil {
		publisher = wrap(recorder)
	}
	clk := &clock{now: time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)}
	deps := services.Deps{
		UoW:       repository.NewUnitOfWork(db, lookup),
		Statuses:  lookup,
		Locker:    locks.NewLocal(),
		Publisher: publisher,
		Clock:     clk.Now,
	}
	return &fixture{
		t:        t,
		ctx:      ctx,
		db:       db,
		recorder: recorder,
		tables:   services.NewTableRegistry(deps),
		commands: services.NewCommandService(deps),
		orders:   services.NewOrderService(deps, policy),
		sessions: services.NewCashSessionService(deps),
	}
}

func (f *fixture) table(name string) domain.Table {
	f.t.Helper()
	table, err := f.tables.Register(f.ctx, waiter, name, 4)
	require.NoError(f.t, err)
	return table
}

func (f *fixture) openCommand(name string) domain.Command {
	f.t.Helper()
	cmd, err := f.commands.Open(f.ctx, waiter, f.table(name).ID)
	require.NoError(f.t, err)
	return cmd
}

type groupSpec struct {
	name     string
	min, max int
	options  map[string]string
}

// product stores a catalog product and returns it with the option ids keyed
// by option name.
func (f *fixture) product(companyID uint, price string, groups ...groupSpec) (models.Product, map[string]domain.ID) {
	f.t.Helper()
	p := models.Product{CompanyID: companyID, Name: "Burger", Price: decimal.RequireFromString(price)}
	p.AuditFields = models.AuditFields{CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(), Version: 1}
	require.NoError(f.t, f.db.Create(&p).Error)

	options := map[string]domain.ID{}
	for _, g := range groups {
		group := models.ProductModifierGroup{ProductID: p.ID, Name: g.name, MinSelection: g.min, MaxSelection: g.max}
		require.NoError(f.t, f.db.Create(&group).Error)
		for name, delta := range g.options {
			opt := models.ProductModifierOption{GroupID: group.ID, Name: name, PriceDelta: decimal.RequireFromString(delta)}
			require.NoError(f.t, f.db.Create(&opt).Error)
			options[name] = domain.ID(opt.ID)
		}
	}
	return p, options
}

func (f *fixture) count(model any, where string, args ...any) int64 {
	f.t.Helper()
	var n int64
	q := f.db.Model(model)
	if where != "" {
		q = q.Where(where, args...)
	}
	require.NoError(f.t, q.Count(&n).Error)
	return n
}

func money(s string) domain.Money { return domain.MustMoney(s) }
