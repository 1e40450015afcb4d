// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stvault/api/vaults"
	"github.com/vechain/stvault/app"
	"github.com/vechain/stvault/genesis"
	"github.com/vechain/stvault/lvldb"
	"github.com/vechain/stvault/stv"
)

var alice = stv.BytesToAddress([]byte("alice"))

func newTestAPI(t *testing.T) http.HandlerFunc {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	gen := genesis.Default()
	gen.Accounts = append(gen.Accounts, genesis.Account{Address: alice, Balance: "1000000"})
	a, err := app.New(db, gen)
	require.NoError(t, err)
	return New(a, Options{
		AllowedOrigins:  "*",
		EnableMetrics:   true,
		EnableReqLogger: &atomic.Bool{},
	})
}

func call(t *testing.T, h http.HandlerFunc, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestVaultLifecycle(t *testing.T) {
	h := newTestAPI(t)

	rec := call(t, h, http.MethodPost, "/vault/bond", fmt.Sprintf(`{"sender":"%v","amount":1000}`, alice))
	receipt := decode[vaults.Receipt](t, rec)
	types := make([]string, 0, len(receipt.Effects))
	for _, e := range receipt.Effects {
		types = append(types, e.Type)
	}
	assert.Equal(t, []string{"execute", "delegate", "mint"}, types)

	state := decode[struct {
		TotalBondAmount *big.Int `json:"total_bond_amount"`
		ExchangeRate    string   `json:"exchange_rate"`
	}](t, call(t, h, http.MethodGet, "/vault/state", ""))
	assert.Equal(t, "1000", state.TotalBondAmount.String())
	assert.Equal(t, "1.000000000000000000", state.ExchangeRate)

	balance := decode[struct {
		Balance *big.Int `json:"balance"`
	}](t, call(t, h, http.MethodGet, fmt.Sprintf("/tokens/%v/balances/%v", genesis.DevToken, alice), ""))
	assert.Equal(t, "1000", balance.Balance.String())

	rec = call(t, h, http.MethodPost, "/vault/unbond", fmt.Sprintf(`{"sender":"%v","amount":400}`, alice))
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	requests := decode[[]struct {
		BatchID uint64   `json:"batch_id"`
		Amount  *big.Int `json:"amount"`
	}](t, call(t, h, http.MethodGet, fmt.Sprintf("/vault/unbond-requests/%v", alice), ""))
	require.Len(t, requests, 1)
	assert.Equal(t, uint64(1), requests[0].BatchID)
	assert.Equal(t, "400", requests[0].Amount.String())

	rec = call(t, h, http.MethodPost, "/vault/withdraw", fmt.Sprintf(`{"sender":"%v"}`, alice))
	assert.Equal(t, http.StatusConflict, rec.Code)

	account := decode[struct {
		Balance struct {
			Amount *big.Int `json:"amount"`
		} `json:"balance"`
		Delegations []json.RawMessage `json:"delegations"`
	}](t, call(t, h, http.MethodGet, fmt.Sprintf("/accounts/%v", alice), ""))
	assert.Equal(t, "999000", account.Balance.Amount.String())
	assert.Empty(t, account.Delegations)
}

func TestCommandErrors(t *testing.T) {
	h := newTestAPI(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"not owner", http.MethodPost, "/vault/validators", fmt.Sprintf(`{"sender":"%v","validator":"%v"}`, alice, genesis.DevValidators[1]), http.StatusForbidden},
		{"unknown field", http.MethodPost, "/vault/bond", fmt.Sprintf(`{"sender":"%v","amount":1,"x":1}`, alice), http.StatusBadRequest},
		{"missing sender", http.MethodPost, "/vault/withdraw", `{}`, http.StatusBadRequest},
		{"missing amount", http.MethodPost, "/vault/bond", fmt.Sprintf(`{"sender":"%v"}`, alice), http.StatusBadRequest},
		{"insufficient funds", http.MethodPost, "/vault/bond", fmt.Sprintf(`{"sender":"%v","amount":2000000}`, alice), http.StatusBadRequest},
		{"bad address", http.MethodGet, "/vault/unbond-requests/0x12", "", http.StatusBadRequest},
		{"limit too high", http.MethodGet, "/vault/history?limit=500", "", http.StatusBadRequest},
		{"unknown token", http.MethodGet, fmt.Sprintf("/tokens/%v", alice), "", http.StatusNotFound},
		{"wrong method", http.MethodGet, "/vault/bond", "", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := call(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestOwnerCommands(t *testing.T) {
	h := newTestAPI(t)
	owner := genesis.DevOwner

	rec := call(t, h, http.MethodPost, "/vault/validators", fmt.Sprintf(`{"sender":"%v","validator":"%v"}`, owner, genesis.DevValidators[1]))
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	validators := decode[[]stv.Address](t, call(t, h, http.MethodGet, "/vault/validators", ""))
	assert.Equal(t, genesis.DevValidators[:2], validators)

	rec = call(t, h, http.MethodPost, "/vault/parameters", fmt.Sprintf(`{"sender":"%v","epoch_period":60}`, owner))
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	params := decode[struct {
		EpochPeriod uint64 `json:"epoch_period"`
	}](t, call(t, h, http.MethodGet, "/vault/parameters", ""))
	assert.Equal(t, uint64(60), params.EpochPeriod)

	rec = call(t, h, http.MethodPost, fmt.Sprintf("/vault/validators/%v/deregister", genesis.DevValidators[0]),
		fmt.Sprintf(`{"sender":"%v","redelegate_to":"%v"}`, owner, genesis.DevValidators[1]))
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	head := decode[stv.BlockContext](t, call(t, h, http.MethodGet, "/head", ""))
	assert.Equal(t, genesis.Default().LaunchTime, head.Time)
}

func TestSplitWithAllowance(t *testing.T) {
	h := newTestAPI(t)

	rec := call(t, h, http.MethodPost, "/vault/split", fmt.Sprintf(`{"sender":"%v","amount":50}`, alice))
	assert.Equal(t, http.StatusBadRequest, rec.Code, "no principal tokens to split")

	rec = call(t, h, http.MethodPost, "/vault/bond", fmt.Sprintf(`{"sender":"%v","amount":100}`, alice))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = call(t, h, http.MethodPost, "/vault/split", fmt.Sprintf(`{"sender":"%v","amount":50}`, alice))
	assert.Equal(t, http.StatusBadRequest, rec.Code, "no allowance")

	rec = call(t, h, http.MethodPost, fmt.Sprintf("/tokens/%v/allowances", genesis.DevToken),
		fmt.Sprintf(`{"sender":"%v","spender":"%v","amount":50}`, alice, genesis.DevVault))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = call(t, h, http.MethodPost, "/vault/split", fmt.Sprintf(`{"sender":"%v","amount":50}`, alice))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	for token, want := range map[stv.Address]string{
		genesis.DevToken:          "50",
		genesis.DevYieldToken:     "50",
		genesis.DevComponentToken: "50",
	} {
		balance := decode[struct {
			Balance *big.Int `json:"balance"`
		}](t, call(t, h, http.MethodGet, fmt.Sprintf("/tokens/%v/balances/%v", token, alice), ""))
		assert.Equal(t, want, balance.Balance.String(), token.String())
	}
}
