package manualorderservice

import (
	"log/slog"

	httpadapter "sourcingdash/contexts/sourcing-ops/manual-order-service/adapters/http"
	"sourcingdash/contexts/sourcing-ops/manual-order-service/adapters/memory"
	"sourcingdash/contexts/sourcing-ops/manual-order-service/application/backfill"
	"sourcingdash/contexts/sourcing-ops/manual-order-service/application/commands"
	"sourcingdash/contexts/sourcing-ops/manual-order-service/application/queries"
	"sourcingdash/contexts/sourcing-ops/manual-order-service/application/workers"
	"sourcingdash/contexts/sourcing-ops/manual-order-service/ports"
)

type Module struct {
	Handler    httpadapter.Handler
	Reconciler workers.ClaimReconciler
	Store      *memory.Store
}

type Dependencies struct {
	Orders          ports.OrderRepository
	Sources         ports.SourceOrderRepository
	Guard           ports.ClaimGuard
	Alerts          ports.Alerter
	Clock           ports.Clock
	IDGenerator     ports.IDGenerator
	BackfillMetrics backfill.Metrics
	// PendingListCap caps GET /manual-orders to the N most recent orders
	// when > 0 (debug builds use 50).
	PendingListCap int
	Logger         *slog.Logger
}

func NewModule(deps Dependencies) Module {
	backfillService := backfill.Service{
		Orders:  deps.Orders,
		Sources: deps.Sources,
		Alerts:  deps.Alerts,
		Metrics: deps.BackfillMetrics,
		Logger:  deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			ListPending: queries.ListPendingUseCase{
				Orders:    deps.Orders,
				Backfill:  backfillService,
				MaxOrders: deps.PendingListCap,
				Logger:    deps.Logger,
			},
			GetOrder:  queries.GetOrderUseCase{Orders: deps.Orders},
			IsClaimed: queries.IsClaimedUseCase{Orders: deps.Orders},
			Claim: commands.ClaimOrderUseCase{
				Orders:      deps.Orders,
				Guard:       deps.Guard,
				Clock:       deps.Clock,
				IDGenerator: deps.IDGenerator,
				Logger:      deps.Logger,
			},
			Release: commands.ReleaseOrderUseCase{
				Orders:      deps.Orders,
				Guard:       deps.Guard,
				Clock:       deps.Clock,
				IDGenerator: deps.IDGenerator,
				Logger:      deps.Logger,
			},
			Complete: commands.CompleteOrderUseCase{
				Orders:      deps.Orders,
				Guard:       deps.Guard,
				Clock:       deps.Clock,
				IDGenerator: deps.IDGenerator,
				Logger:      deps.Logger,
			},
			UpdateNote: commands.UpdateNoteUseCase{Orders: deps.Orders, Logger: deps.Logger},
			Logger:     deps.Logger,
		},
		Reconciler: workers.ClaimReconciler{
			Orders: deps.Orders,
			Alerts: deps.Alerts,
			Logger: deps.Logger,
		},
	}
}

// NewInMemoryModule wires the module against the in-memory store, for tests
// and local runs without Postgres.
func NewInMemoryModule() Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Orders:      store,
		Sources:     store,
		Clock:       store,
		IDGenerator: store,
	})
	module.Store = store
	return module
}
