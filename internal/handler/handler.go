package handler

import (
	"github.com/Jefrey05/sistema-gestion/pkg/assets"
	"github.com/Jefrey05/sistema-gestion/pkg/config"
	"github.com/Jefrey05/sistema-gestion/pkg/jwtutil"
)

var (
	appConfig  *config.Config
	jwtUtil    *jwtutil.JWTUtil
	assetStore assets.Store
)

// Init wires the handler package's shared dependencies. Called once from
// main before any route is registered; tests call it with an in-memory
// asset store.
func Init(cfg *config.Config, j *jwtutil.JWTUtil, store assets.Store) {
	appConfig = cfg
	jwtUtil = j
	assetStore = store
}
