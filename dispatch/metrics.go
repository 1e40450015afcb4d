// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package dispatch

import "github.com/vechain/stvault/metrics"

var (
	metricInvocations          = metrics.LazyLoadCounterVec("dispatch_invocations_count", []string{"outcome"})
	metricEffects              = metrics.LazyLoadCounterVec("dispatch_effects_count", []string{"effect"})
	metricInvocationDuration   = metrics.LazyLoadHistogram("dispatch_invocation_duration_ms", metrics.BucketDurationMs)
	metricEffectsPerInvocation = metrics.LazyLoadHistogram("dispatch_effects_per_invocation", metrics.BucketEffects)
)
