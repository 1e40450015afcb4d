// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tokens

import (
	"math/big"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stvault/api/utils"
	"github.com/vechain/stvault/app"
	"github.com/vechain/stvault/effect"
	"github.com/vechain/stvault/host"
	"github.com/vechain/stvault/stv"
	"github.com/vechain/stvault/vault"
)

type Token struct {
	host.TokenInfo
	TotalSupply *big.Int `json:"total_supply"`
}

type Balance struct {
	Holder  stv.Address `json:"holder"`
	Balance *big.Int    `json:"balance"`
}

type AllowanceRequest struct {
	Sender  stv.Address `json:"sender"`
	Spender stv.Address `json:"spender"`
	Amount  *big.Int    `json:"amount"`
}

type Tokens struct {
	app *app.App
}

func New(a *app.App) *Tokens {
	return &Tokens{app: a}
}

func (t *Tokens) handleGetToken(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "token")
	if err != nil {
		return err
	}
	var res Token
	if err := t.app.Query(func(_ *vault.Vault, h *host.Host) error {
		info, err := h.Tokens.Info(addr)
		if err != nil {
			return utils.HTTPError(err, http.StatusNotFound)
		}
		res.TokenInfo = *info
		res.TotalSupply, err = h.Tokens.TotalSupply(addr)
		return err
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &res)
}

func (t *Tokens) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "token")
	if err != nil {
		return err
	}
	holder, err := utils.AddressVar(req, "holder")
	if err != nil {
		return err
	}
	res := Balance{Holder: holder}
	if err := t.app.Query(func(_ *vault.Vault, h *host.Host) error {
		res.Balance, err = h.Tokens.Balance(addr, holder)
		return err
	}); err != nil {
		return utils.HTTPError(err, http.StatusNotFound)
	}
	return utils.WriteJSON(w, &res)
}

func (t *Tokens) handleIncreaseAllowance(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "token")
	if err != nil {
		return err
	}
	var body AllowanceRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Sender.IsZero() {
		return utils.BadRequest(errors.New("sender: required"))
	}
	if body.Amount == nil {
		return utils.BadRequest(errors.New("amount: required"))
	}

	blk := t.app.Head()
	if _, err := t.app.Invoke(blk, body.Sender, effect.IncreaseAllowance{
		Token:   addr,
		Spender: body.Spender,
		Amount:  body.Amount,
	}); err != nil {
		return utils.BadRequest(err)
	}
	return utils.WriteJSON(w, utils.M{"block": blk})
}

func (t *Tokens) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{token}").
		Methods(http.MethodGet).
		Name("tokens_get_token").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetToken))
	sub.Path("/{token}/balances/{holder}").
		Methods(http.MethodGet).
		Name("tokens_get_balance").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetBalance))
	sub.Path("/{token}/allowances").
		Methods(http.MethodPost).
		Name("tokens_increase_allowance").
		HandlerFunc(utils.WrapHandlerFunc(t.handleIncreaseAllowance))
}
