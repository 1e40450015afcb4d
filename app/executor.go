// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package app

import (
	"github.com/pkg/errors"

	"github.com/vechain/stvault/dispatch"
	"github.com/vechain/stvault/effect"
	"github.com/vechain/stvault/stv"
	"github.com/vechain/stvault/vault"
)

// execute routes a message to the module it addresses.
func (a *App) execute(blk stv.BlockContext, msg dispatch.Message) ([]dispatch.Message, error) {
	h := a.host
	switch e := msg.Effect.(type) {
	case effect.Delegate:
		return nil, h.Staking.Delegate(msg.Sender, e.Validator, e.Amount)
	case effect.Undelegate:
		return nil, h.Staking.Undelegate(blk.Time, msg.Sender, e.Validator, e.Amount)
	case effect.Redelegate:
		return nil, h.Staking.Redelegate(msg.Sender, e.Src, e.Dst, e.Amount)
	case effect.WithdrawRewards:
		_, err := h.Staking.WithdrawRewards(msg.Sender, e.Validator, e.Recipient)
		return nil, err
	case effect.BankSend:
		return nil, h.Bank.Send(msg.Sender, e.To, e.Amount)
	case effect.Mint:
		return nil, h.Tokens.Mint(msg.Sender, e.Token, e.Recipient, e.Amount)
	case effect.Burn:
		return nil, h.Tokens.Burn(msg.Sender, e.Token, e.Amount)
	case effect.BurnFrom:
		return nil, h.Tokens.BurnFrom(msg.Sender, e.Token, e.Owner, e.Amount)
	case effect.IncreaseAllowance:
		return nil, h.Tokens.IncreaseAllowance(msg.Sender, e.Token, e.Spender, e.Amount)
	case effect.TokenSend:
		hook, err := h.Tokens.Send(msg.Sender, e.Token, e.Contract, e.Amount, e.Msg)
		if err != nil {
			return nil, err
		}
		return []dispatch.Message{{Sender: e.Token, Effect: *hook}}, nil
	case effect.UpdateRewardIndex:
		return nil, h.Rewards.UpdateIndex(e.Contract)
	case effect.Execute:
		return a.executeContract(blk, msg.Sender, e)
	default:
		return nil, errors.Errorf("unsupported effect %T", msg.Effect)
	}
}

func (a *App) executeContract(blk stv.BlockContext, sender stv.Address, e effect.Execute) ([]dispatch.Message, error) {
	if e.Contract != a.vault.Address() {
		return nil, errors.Errorf("no contract at %v", e.Contract)
	}
	if len(e.Funds) > 0 {
		if err := a.host.Bank.Send(sender, e.Contract, e.Funds); err != nil {
			return nil, err
		}
	}

	effects, err := a.vault.Execute(blk, vault.MessageInfo{Sender: sender, Funds: e.Funds}, e.Msg)
	if err != nil {
		return nil, err
	}
	msgs := make([]dispatch.Message, 0, len(effects))
	for _, eff := range effects {
		msgs = append(msgs, dispatch.Message{Sender: e.Contract, Effect: eff})
	}
	return msgs, nil
}
