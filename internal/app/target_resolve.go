package app

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mmrzaf/sdstats/internal/domain"
	"github.com/mmrzaf/sdstats/internal/validation"
)

// effectiveTarget copies base and applies a per-run database override.
// Postgres kinds take a database name, redis takes a numeric db index.
// File-backed kinds get environment variables and a leading ~ expanded.
func effectiveTarget(base *domain.TargetConfig, database string) (*domain.TargetConfig, error) {
	if base == nil {
		return nil, nil
	}
	t := *base
	if base.Options != nil {
		t.Options = make(map[string]string, len(base.Options))
		for k, v := range base.Options {
			t.Options[k] = v
		}
	}

	switch t.Kind {
	case domain.TargetKindPostgres, domain.TargetKindPGCopy:
		if database != "" {
			if !validation.IsValidIdentifier(database) {
				return nil, fmt.Errorf("invalid database identifier: %s", database)
			}
			t.Database = database
			t.DSN = withPostgresDatabase(t.DSN, database)
		}
	case domain.TargetKindRedis:
		if database != "" {
			index, err := strconv.Atoi(database)
			if err != nil || index < 0 {
				return nil, fmt.Errorf("redis database must be a non-negative index, got %q", database)
			}
			t.Database = database
			dsn, err := withRedisDB(t.DSN, index)
			if err != nil {
				return nil, err
			}
			t.DSN = dsn
		}
	case domain.TargetKindSQLite, domain.TargetKindCSV, domain.TargetKindJSONL, domain.TargetKindParquet:
		if database != "" {
			return nil, fmt.Errorf("%s targets do not take a database override", t.Kind)
		}
		t.DSN = expandPath(t.DSN)
	default:
		if database != "" {
			return nil, fmt.Errorf("%s targets do not take a database override", t.Kind)
		}
	}
	return &t, nil
}

func withPostgresDatabase(dsn, database string) string {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return dsn
	}
	if u, err := url.Parse(dsn); err == nil && u.Scheme != "" && u.Host != "" {
		u.Path = "/" + database
		return u.String()
	}
	parts := strings.Fields(dsn)
	for i := range parts {
		if strings.HasPrefix(strings.ToLower(parts[i]), "dbname=") {
			parts[i] = "dbname=" + database
			return strings.Join(parts, " ")
		}
	}
	return strings.Join(append(parts, "dbname="+database), " ")
}

func withRedisDB(dsn string, index int) (string, error) {
	raw := strings.TrimSpace(dsn)
	if !strings.Contains(raw, "://") {
		raw = "redis://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid redis dsn: %w", err)
	}
	u.Path = "/" + strconv.Itoa(index)
	return u.String(), nil
}

func expandPath(p string) string {
	p = os.ExpandEnv(strings.TrimSpace(p))
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
