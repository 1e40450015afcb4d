// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"math/big"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vechain/stvault/api/utils"
	"github.com/vechain/stvault/app"
	"github.com/vechain/stvault/host"
	"github.com/vechain/stvault/stv"
	"github.com/vechain/stvault/vault"
)

// Account is the native balance and the delegations of an address.
type Account struct {
	Balance     stv.Coin         `json:"balance"`
	Delegations []stv.Delegation `json:"delegations"`
}

type Accounts struct {
	app *app.App
}

func New(a *app.App) *Accounts {
	return &Accounts{app: a}
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	denom := a.app.Genesis().Denom

	var (
		balance     *big.Int
		delegations []stv.Delegation
	)
	if err := a.app.Query(func(_ *vault.Vault, h *host.Host) error {
		if balance, err = h.Bank.Balance(addr, denom); err != nil {
			return err
		}
		delegations, err = h.Staking.AllDelegations(addr)
		return err
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &Account{
		Balance:     stv.Coin{Denom: denom, Amount: balance},
		Delegations: delegations,
	})
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("accounts_get_account").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
}
