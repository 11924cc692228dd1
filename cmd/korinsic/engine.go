package main

import (
	"errors"

	"github.com/korinsic/surveillance-core/internal/apperrors"
	"github.com/korinsic/surveillance-core/internal/config"
	"github.com/korinsic/surveillance-core/pkg/explain"
	"github.com/korinsic/surveillance-core/pkg/surveillance"
)

// buildEngine loads the three configuration documents from configDir and
// constructs the process-wide Engine (spec.md §9: one immutable engine per
// process, built once from config that never reloads).
func buildEngine() (*surveillance.Engine, error) {
	paths := config.DefaultPaths(configDir)
	cfg, err := config.Load(paths)
	if err != nil {
		return nil, err
	}

	templates, err := explain.LoadTemplates(configDir + "/explanation_templates.yaml")
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		templates = explain.Templates{}
	}

	return surveillance.NewEngine(cfg, templates, Version, paths.Models), nil
}
