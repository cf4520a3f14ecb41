// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package flow

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	messagesDelivered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "intents_messages_delivered_total",
		Help: "Inbound wire messages applied, by message type",
	}, []string{"type"})

	messagesDuplicate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "intents_messages_duplicate_total",
		Help: "Inbound wire messages dropped as replays, by message type",
	}, []string{"type"})

	messagesFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "intents_messages_failed_total",
		Help: "Inbound deliveries aborted, by message type (unknown for undecodable payloads)",
	}, []string{"type"})

	fulfillments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "intents_fulfillments_total",
		Help: "Completed sessions, by settlement direction",
	}, []string{"flow"})
)
