package db

import (
	"fmt"
	"time"

	"scylla-migration/internal/config"

	"github.com/gocql/gocql"
)

// NewSession connects to the Scylla cluster listed in the "scylla" config
// section. Queries are never retried: a failed write fails its unit of work.
func NewSession(c config.ScyllaCfg) (*gocql.Session, error) {
	cluster := gocql.NewCluster(c.Nodes...)
	cluster.Keyspace = c.Keyspace
	cluster.Consistency = gocql.LocalQuorum
	cluster.Timeout = 10 * time.Second
	cluster.ConnectTimeout = 10 * time.Second
	cluster.RetryPolicy = &gocql.SimpleRetryPolicy{NumRetries: 0}
	if c.LocalDataCentre != "" {
		cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(
			gocql.DCAwareRoundRobinPolicy(c.LocalDataCentre),
		)
	}
	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("connect scylla %v: %w", c.Nodes, err)
	}
	return session, nil
}
