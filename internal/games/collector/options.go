package collector

import (
	"errors"

	"github.com/vovakirdan/collector/internal/config"
	"github.com/vovakirdan/collector/internal/games/collector/core"
)

// OptionsFromConfig converts a loaded configuration into episode options and
// validates them.
func OptionsFromConfig(cfg config.CollectorConfig) (core.Options, error) {
	var errs []error

	loc, err := core.ParseLocatorType(string(cfg.InitLocatorType))
	if err != nil {
		errs = append(errs, err)
	}
	timing, err := core.ParseRespawnTiming(cfg.Respawn.Timing)
	if err != nil {
		errs = append(errs, err)
	}
	where, err := core.ParseRespawnLocation(cfg.Respawn.Location)
	if err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return core.Options{}, errors.Join(errs...)
	}

	o := core.Options{
		WorldDim:                cfg.WorldDim,
		Locator:                 loc,
		NumGoalsGreen:           cfg.NumGoalsGreen,
		NumGoalsRed:             cfg.NumGoalsRed,
		NumResourcesGreen:       cfg.NumResourcesGreen,
		NumResourcesRed:         cfg.NumResourcesRed,
		NumFuel:                 cfg.NumFuel,
		NumObstacles:            cfg.NumObstacles,
		GoalMax:                 cfg.GoalMax,
		GoalInit:                cfg.GoalInit,
		AgentMaxFuel:            cfg.AgentMaxFuel,
		AgentInitFuel:           cfg.AgentInitFuel,
		AgentMaxResources:       cfg.AgentMaxResources,
		AgentInitResourcesGreen: cfg.AgentInitResourcesGreen,
		AgentInitResourcesRed:   cfg.AgentInitResourcesRed,
		Timeout:                 cfg.Timeout,
		CargoCoalesce:           cfg.CargoCoalesce,
		Respawn: core.RespawnPolicy{
			Timing:      timing,
			Delay:       cfg.Respawn.Delay,
			DelayMax:    cfg.Respawn.DelayMax,
			Location:    where,
			MinDistance: cfg.Respawn.MinDistance,
		},
	}
	if err := o.Validate(); err != nil {
		return core.Options{}, err
	}
	return o, nil
}
