package database

import (
	"fmt"
	"net/url"

	"github.com/predictdash/predict-relay/internal/config"
)

// ApplicationName identifies relay sessions in pg_stat_activity.
const ApplicationName = "predict-relay"

// BuildConnString builds a PostgreSQL connection URL from config.
// Credentials are escaped, so passwords may contain URL metacharacters.
func BuildConnString(cfg config.DBConfig) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = config.DefaultDBSSLMode
	}

	query := url.Values{}
	query.Set("sslmode", sslMode)
	query.Set("application_name", ApplicationName)

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:     "/" + cfg.Name,
		RawQuery: query.Encode(),
	}
	return u.String()
}
