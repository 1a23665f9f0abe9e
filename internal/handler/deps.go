package handler

import (
	"bingohub/internal/app/lobby"
	"bingohub/internal/configs"
	"bingohub/internal/pkg/pow"
)

// AppDeps bundles what the HTTP handlers need.
type AppDeps struct {
	Manager *lobby.Manager
	Config  *configs.AppConfig
	Pow     *pow.Guard
}
