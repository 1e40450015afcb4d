// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
)

// Kind classifies a revert for callers deciding whether to fix the input or retry later.
type Kind uint8

const (
	KindValidation      Kind = iota // malformed input, rejected before any mutation
	KindUnauthorized                // wrong sender for a gated operation
	KindNotYetAvailable             // retry after time passes
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotYetAvailable:
		return "not yet available"
	default:
		return "unknown"
	}
}

// ErrRevert is a failure caused by the caller rather than by storage or the host.
type ErrRevert struct {
	kind    Kind
	message string
}

func New(message string) *ErrRevert {
	return &ErrRevert{kind: KindValidation, message: message}
}

func Newf(format string, args ...any) *ErrRevert {
	return New(fmt.Sprintf(format, args...))
}

func Unauthorized(message string) *ErrRevert {
	return &ErrRevert{kind: KindUnauthorized, message: message}
}

func NotYetAvailable(message string) *ErrRevert {
	return &ErrRevert{kind: KindNotYetAvailable, message: message}
}

func (e *ErrRevert) Error() string {
	return e.message
}

func (e *ErrRevert) Kind() Kind {
	return e.kind
}

// KindOf returns the kind of the revert wrapped in err.
func KindOf(err error) (Kind, bool) {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.kind, true
	}
	return 0, false
}

func IsRevertErr(err error) bool {
	_, ok := KindOf(err)
	return ok
}

func IsUnauthorized(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == KindUnauthorized
}

func IsNotYetAvailable(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == KindNotYetAvailable
}
