// Package vectorutils is the vector store utility package
package vectorutils

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/papergrid/askdocs/pkg/vector"
	"github.com/papergrid/askdocs/pkg/vector/chroma"
	"github.com/papergrid/askdocs/pkg/vector/qdrant"
	"github.com/papergrid/askdocs/pkg/vector/sqlitevec"
)

type NewVectorDriverOpts struct {
	ProviderType string
	// Target is provider-specific: a URL for chroma, host:port for qdrant,
	// a database path for sqlite.
	Target         string
	CollectionName string
	Dimensions     uint
	Logger         *zap.Logger
}

// NewVectorDriver creates a vector driver for the configured provider.
func NewVectorDriver(o *NewVectorDriverOpts) (vector.Driver, error) {
	switch o.ProviderType {
	case "chroma":
		return chroma.NewChromaDriver(chroma.Config{
			URL:            o.Target,
			CollectionName: o.CollectionName,
		}, o.Logger)
	case "sqlite":
		return sqlitevec.NewSQLiteVecDriver(sqlitevec.Config{
			DBPath:     o.Target,
			Dimensions: o.Dimensions,
		}, o.Logger)
	case "qdrant":
		host, port, err := splitHostPort(o.Target)
		if err != nil {
			return nil, err
		}
		return qdrant.NewQdrantDriver(qdrant.Config{
			Host:           host,
			Port:           port,
			CollectionName: o.CollectionName,
			Dimensions:     o.Dimensions,
		}, o.Logger)
	default:
		return nil, fmt.Errorf("unsupported vector store provider: %s", o.ProviderType)
	}
}

// splitHostPort parses a "host:port" target, tolerating a bare host.
func splitHostPort(target string) (string, int, error) {
	if target == "" {
		return "", 0, fmt.Errorf("qdrant target is required")
	}
	if !strings.Contains(target, ":") {
		return target, 0, nil
	}
	host, portStr, err := net.SplitHostPort(target)
	if err != nil {
		return "", 0, fmt.Errorf("parsing qdrant target %q: %w", target, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("parsing qdrant port %q: %w", portStr, err)
	}
	return host, port, nil
}
