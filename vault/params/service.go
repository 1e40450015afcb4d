// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params

import (
	"github.com/pkg/errors"

	"github.com/vechain/stvault/storage"
	"github.com/vechain/stvault/stv"
)

var (
	slotParameters = stv.BytesToBytes32([]byte("parameters"))
	slotConfig     = stv.BytesToBytes32([]byte("config"))
)

type Service struct {
	params *storage.Raw[storedParameters]
	config *storage.Raw[Config]
}

func New(sctx *storage.Context) *Service {
	return &Service{
		params: storage.NewRaw[storedParameters](sctx, slotParameters),
		config: storage.NewRaw[Config](sctx, slotConfig),
	}
}

// Initialized reports whether the vault has been instantiated.
func (s *Service) Initialized() (bool, error) {
	return s.config.IsSet()
}

func (s *Service) Parameters() (*Parameters, error) {
	stored, err := s.params.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get parameters")
	}
	return stored.parameters(), nil
}

// SetParameters validates and stores p.
func (s *Service) SetParameters(p *Parameters) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := s.params.Set(p.stored()); err != nil {
		return errors.Wrap(err, "failed to set parameters")
	}
	return nil
}

func (s *Service) Config() (*Config, error) {
	c, err := s.config.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get config")
	}
	return &c, nil
}

func (s *Service) SetConfig(c *Config) error {
	if err := s.config.Set(*c); err != nil {
		return errors.Wrap(err, "failed to set config")
	}
	return nil
}
