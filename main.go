package main

import (
	"context"
	"time"

	"github.com/cppla/missionboard/config"
	"github.com/cppla/missionboard/metrics"
	"github.com/cppla/missionboard/routes"
	"github.com/cppla/missionboard/services"
	"github.com/cppla/missionboard/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer utils.Logger.Sync() //nolint:errcheck

	db := config.InitDatabase()
	defer utils.CloseRedis()

	r := routes.SetupRouter(db)

	reconciler := services.NewPointsReconciler(db)
	scheduler, err := utils.StartScheduler(cfg.ReconcileCron, "reconcile-points", 5*time.Minute, func(ctx context.Context) error {
		drift, err := reconciler.Reconcile(ctx)
		if err != nil {
			return err
		}
		metrics.RecordReconcileRepairs(len(drift))
		if len(drift) > 0 {
			utils.InvalidateRankings(ctx)
		}
		return nil
	})
	if err != nil {
		utils.Sugar.Fatalf("invalid reconcile schedule %q: %v", cfg.ReconcileCron, err)
	}
	if scheduler != nil {
		defer scheduler.Stop()
	}

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
