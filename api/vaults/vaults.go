// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vaults

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stvault/api/utils"
	"github.com/vechain/stvault/app"
	"github.com/vechain/stvault/effect"
	"github.com/vechain/stvault/host"
	"github.com/vechain/stvault/stv"
	"github.com/vechain/stvault/vault"
	"github.com/vechain/stvault/vault/reverts"
)

type Vaults struct {
	app *app.App
}

func New(a *app.App) *Vaults {
	return &Vaults{app: a}
}

func (v *Vaults) query(w http.ResponseWriter, fn func(vt *vault.Vault) (any, error)) error {
	var res any
	if err := v.app.Query(func(vt *vault.Vault, _ *host.Host) error {
		var err error
		res, err = fn(vt)
		return err
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, res)
}

func (v *Vaults) handleGetState(w http.ResponseWriter, _ *http.Request) error {
	return v.query(w, func(vt *vault.Vault) (any, error) { return vt.State() })
}

func (v *Vaults) handleGetConfig(w http.ResponseWriter, _ *http.Request) error {
	return v.query(w, func(vt *vault.Vault) (any, error) { return vt.Config() })
}

func (v *Vaults) handleGetParameters(w http.ResponseWriter, _ *http.Request) error {
	return v.query(w, func(vt *vault.Vault) (any, error) { return vt.Parameters() })
}

func (v *Vaults) handleGetCurrentBatch(w http.ResponseWriter, _ *http.Request) error {
	return v.query(w, func(vt *vault.Vault) (any, error) { return vt.CurrentBatch() })
}

func (v *Vaults) handleGetValidators(w http.ResponseWriter, _ *http.Request) error {
	return v.query(w, func(vt *vault.Vault) (any, error) { return vt.WhitelistedValidators() })
}

func (v *Vaults) handleGetUnbondRequests(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	return v.query(w, func(vt *vault.Vault) (any, error) { return vt.UnbondRequests(addr) })
}

func (v *Vaults) handleGetWithdrawable(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	now, err := utils.Uint64Query(req, "time", v.app.Head().Time)
	if err != nil {
		return err
	}
	return v.query(w, func(vt *vault.Vault) (any, error) {
		amount, err := vt.WithdrawableUnbonded(addr, now)
		if err != nil {
			return nil, err
		}
		return &Withdrawable{Address: addr, Amount: amount}, nil
	})
}

func (v *Vaults) handleGetHistory(w http.ResponseWriter, req *http.Request) error {
	startFrom, err := utils.Uint64Query(req, "start_from", 0)
	if err != nil {
		return err
	}
	limit, err := utils.Uint64Query(req, "limit", stv.DefaultHistoryLimit)
	if err != nil {
		return err
	}
	if limit > stv.MaxHistoryLimit {
		return utils.BadRequest(errors.Errorf("limit: exceeds %d", stv.MaxHistoryLimit))
	}
	return v.query(w, func(vt *vault.Vault) (any, error) { return vt.AllHistory(startFrom, int(limit)) })
}

// invoke runs e for sender in the head block and responds with the receipt.
func (v *Vaults) invoke(w http.ResponseWriter, sender stv.Address, e effect.Effect) error {
	if sender.IsZero() {
		return utils.BadRequest(errors.New("sender: required"))
	}
	blk := v.app.Head()
	receipt, err := v.app.Invoke(blk, sender, e)
	if err != nil {
		return invocationError(err)
	}
	return utils.WriteJSON(w, convertReceipt(blk, receipt))
}

func (v *Vaults) execute(w http.ResponseWriter, sender stv.Address, msg any, funds stv.Coins) error {
	return v.invoke(w, sender, effect.Execute{Contract: v.app.Vault().Address(), Msg: msg, Funds: funds})
}

// invocationError maps a rejected invocation to a client error.
func invocationError(err error) error {
	switch {
	case reverts.IsUnauthorized(err):
		return utils.Forbidden(err)
	case reverts.IsNotYetAvailable(err):
		return utils.Conflict(err)
	default:
		return utils.BadRequest(err)
	}
}

func parseBody[T any](req *http.Request) (*T, error) {
	var body T
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return &body, nil
}

func (v *Vaults) handleBond(w http.ResponseWriter, req *http.Request) error {
	body, err := parseBody[BondRequest](req)
	if err != nil {
		return err
	}
	if body.Amount == nil {
		return utils.BadRequest(errors.New("amount: required"))
	}
	var denom string
	if err := v.app.Query(func(vt *vault.Vault, _ *host.Host) error {
		p, err := vt.Parameters()
		if err == nil {
			denom = p.UnderlyingCoinDenom
		}
		return err
	}); err != nil {
		return err
	}
	funds := stv.Coins{{Denom: denom, Amount: body.Amount}}
	return v.execute(w, body.Sender, vault.Bond{Validator: body.Validator}, funds)
}

func (v *Vaults) handleUnbond(w http.ResponseWriter, req *http.Request) error {
	body, err := parseBody[UnbondRequest](req)
	if err != nil {
		return err
	}
	if body.Amount == nil {
		return utils.BadRequest(errors.New("amount: required"))
	}
	var token stv.Address
	if err := v.app.Query(func(vt *vault.Vault, _ *host.Host) error {
		conf, err := vt.Config()
		if err == nil {
			token = conf.TokenContract
		}
		return err
	}); err != nil {
		return err
	}
	return v.invoke(w, body.Sender, effect.TokenSend{
		Token:    token,
		Contract: v.app.Vault().Address(),
		Amount:   body.Amount,
		Msg:      vault.UnbondMsg(),
	})
}

func (v *Vaults) handleWithdraw(w http.ResponseWriter, req *http.Request) error {
	body, err := parseBody[Caller](req)
	if err != nil {
		return err
	}
	return v.execute(w, body.Sender, vault.WithdrawUnbonded{}, nil)
}

func (v *Vaults) handleCheckSlashing(w http.ResponseWriter, req *http.Request) error {
	body, err := parseBody[Caller](req)
	if err != nil {
		return err
	}
	return v.execute(w, body.Sender, vault.CheckSlashing{}, nil)
}

func (v *Vaults) handleUpdateGlobalIndex(w http.ResponseWriter, req *http.Request) error {
	body, err := parseBody[Caller](req)
	if err != nil {
		return err
	}
	return v.execute(w, body.Sender, vault.UpdateGlobalIndex{}, nil)
}

func (v *Vaults) handleRegisterValidator(w http.ResponseWriter, req *http.Request) error {
	body, err := parseBody[RegisterValidatorRequest](req)
	if err != nil {
		return err
	}
	return v.execute(w, body.Sender, vault.RegisterValidator{Validator: body.Validator}, nil)
}

func (v *Vaults) handleDeregisterValidator(w http.ResponseWriter, req *http.Request) error {
	validator, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	body, err := parseBody[DeregisterValidatorRequest](req)
	if err != nil {
		return err
	}
	return v.execute(w, body.Sender, vault.DeregisterValidator{Validator: validator, RedelegateTo: body.RedelegateTo}, nil)
}

func (v *Vaults) handleUpdateParams(w http.ResponseWriter, req *http.Request) error {
	body, err := parseBody[UpdateParamsRequest](req)
	if err != nil {
		return err
	}
	return v.execute(w, body.Sender, vault.UpdateParams{ParametersUpdate: body.ParametersUpdate}, nil)
}

func (v *Vaults) handleUpdateConfig(w http.ResponseWriter, req *http.Request) error {
	body, err := parseBody[UpdateConfigRequest](req)
	if err != nil {
		return err
	}
	return v.execute(w, body.Sender, vault.UpdateConfig{ConfigUpdate: body.ConfigUpdate}, nil)
}

func (v *Vaults) handleSplit(w http.ResponseWriter, req *http.Request) error {
	body, err := parseBody[AmountRequest](req)
	if err != nil {
		return err
	}
	return v.execute(w, body.Sender, vault.Split{Amount: body.Amount}, nil)
}

func (v *Vaults) handleMerge(w http.ResponseWriter, req *http.Request) error {
	body, err := parseBody[AmountRequest](req)
	if err != nil {
		return err
	}
	return v.execute(w, body.Sender, vault.Merge{Amount: body.Amount}, nil)
}

func (v *Vaults) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	for _, r := range []struct {
		path    string
		method  string
		name    string
		handler utils.HandlerFunc
	}{
		{"/state", http.MethodGet, "vault_get_state", v.handleGetState},
		{"/config", http.MethodGet, "vault_get_config", v.handleGetConfig},
		{"/parameters", http.MethodGet, "vault_get_parameters", v.handleGetParameters},
		{"/batch", http.MethodGet, "vault_get_current_batch", v.handleGetCurrentBatch},
		{"/validators", http.MethodGet, "vault_get_validators", v.handleGetValidators},
		{"/unbond-requests/{address}", http.MethodGet, "vault_get_unbond_requests", v.handleGetUnbondRequests},
		{"/withdrawable/{address}", http.MethodGet, "vault_get_withdrawable", v.handleGetWithdrawable},
		{"/history", http.MethodGet, "vault_get_history", v.handleGetHistory},

		{"/bond", http.MethodPost, "vault_bond", v.handleBond},
		{"/unbond", http.MethodPost, "vault_unbond", v.handleUnbond},
		{"/withdraw", http.MethodPost, "vault_withdraw_unbonded", v.handleWithdraw},
		{"/check-slashing", http.MethodPost, "vault_check_slashing", v.handleCheckSlashing},
		{"/update-global-index", http.MethodPost, "vault_update_global_index", v.handleUpdateGlobalIndex},
		{"/validators", http.MethodPost, "vault_register_validator", v.handleRegisterValidator},
		{"/validators/{address}/deregister", http.MethodPost, "vault_deregister_validator", v.handleDeregisterValidator},
		{"/parameters", http.MethodPost, "vault_update_params", v.handleUpdateParams},
		{"/config", http.MethodPost, "vault_update_config", v.handleUpdateConfig},
		{"/split", http.MethodPost, "vault_split", v.handleSplit},
		{"/merge", http.MethodPost, "vault_merge", v.handleMerge},
	} {
		sub.Path(r.path).
			Methods(r.method).
			Name(r.name).
			HandlerFunc(utils.WrapHandlerFunc(r.handler))
	}
}
