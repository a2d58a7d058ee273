package db

import (
	"net"
	"net/url"
	"strconv"

	"scylla-migration/internal/config"
)

// PostgresDSN renders the "db" config section as a postgres:// URL.
// Credentials are percent-encoded so passwords may contain any character.
func PostgresDSN(c config.DbCfg) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Pass),
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.Db,
	}
	return u.String()
}
