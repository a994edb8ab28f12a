package mpt

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics used in monitoring service.
var (
	commits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Help:      "Number of trie commits",
			Name:      "commits_total",
			Namespace: "mptrie",
		},
	)
	committedNodes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Help:      "Number of trie nodes written to the store",
			Name:      "committed_nodes_total",
			Namespace: "mptrie",
		},
	)
	nodeLoads = prometheus.NewCounter(
		prometheus.CounterOpts{
			Help:      "Number of trie nodes loaded from the store",
			Name:      "node_loads_total",
			Namespace: "mptrie",
		},
	)
)

func init() {
	prometheus.MustRegister(
		commits,
		committedNodes,
		nodeLoads,
	)
}
