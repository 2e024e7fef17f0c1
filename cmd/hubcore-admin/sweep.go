package main

import (
	"github.com/centralhub/hub-core/internal/service"
)

func runSweep(ctx *commandContext, _ []string) error {
	services, cleanup, err := buildServices(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	sweeper, err := service.NewSweeperService(service.SweeperServiceOptions{
		Targets: service.SweepTargets{
			Sessions: services.Sessions,
			Tokens:   services.SSO,
		},
		Config: ctx.Config.Sweeper,
		Logger: ctx.Logger,
	})
	if err != nil {
		return err
	}

	result, err := sweeper.RunOnce(ctx.Ctx)
	if err != nil {
		return err
	}
	ctx.Logger.InfoContext(ctx.Ctx, "sweep completed",
		"sessions_deleted", result.Sessions,
		"sso_tokens_deleted", result.SSOTokens)
	return nil
}
