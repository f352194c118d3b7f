// Package v1 contains the full set of handler functions and
// routes supported by the v1 web api.
package v1

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/adamwoolhether/htdfsign/app/services/signer/handlers/v1/public"
	"github.com/adamwoolhether/htdfsign/foundation/blockchain/node"
	"github.com/adamwoolhether/htdfsign/foundation/blockchain/wallet"
	"github.com/adamwoolhether/htdfsign/foundation/events"
	"github.com/adamwoolhether/htdfsign/foundation/web"
)

const version = "v1"

// Config contains all mandatory systems required by handlers.
type Config struct {
	Log    *zap.SugaredLogger
	Wallet *wallet.Wallet
	Node   *node.Client
	Evts   *events.Events
}

// PublicRoutes binds all version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	pbl := public.Handlers{
		Log:    cfg.Log,
		Wallet: cfg.Wallet,
		Node:   cfg.Node,
		Evts:   cfg.Evts,
	}

	app.Handle(http.MethodGet, version, "/events", pbl.Events)
	app.Handle(http.MethodGet, version, "/account", pbl.Account)
	app.Handle(http.MethodGet, version, "/address/:pubkey", pbl.Address)
	app.Handle(http.MethodPost, version, "/tx/signbytes", pbl.SignBytes)
	app.Handle(http.MethodPost, version, "/tx/sign", pbl.Sign)
	app.Handle(http.MethodPost, version, "/tx/encode", pbl.Encode)
	app.Handle(http.MethodPost, version, "/tx/broadcast", pbl.Broadcast)
}
