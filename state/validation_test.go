package state

import (
	"net/netip"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/multierr"
)

func validCfg() NodeCfg {
	cfg := NodeCfg{Id: 5}
	cfg.ApplyDefaults()
	return cfg
}

func TestNodeConfigValidator_Valid(t *testing.T) {
	cfg := validCfg()
	assert.NoError(t, NodeConfigValidator(&cfg))

	cfg.Id = 62
	cfg.Capacity = CapacityCfg{RouterIds: 1, Links: 255, Routes: 7}
	cfg.MetricsAddr = "127.0.0.1:9100"
	cfg.LogPath = filepath.Join(t.TempDir(), "node.log")
	assert.NoError(t, NodeConfigValidator(&cfg))
}

func TestNodeConfigValidator_ReportsEverything(t *testing.T) {
	cfg := NodeCfg{
		Id:              63,
		Capacity:        CapacityCfg{RouterIds: 0, Links: 256, Routes: 1},
		LinkAge:         -time.Second,
		MeshLocalPrefix: netip.MustParsePrefix("10.0.0.0/8"),
		MetricsAddr:     "not an address",
	}
	err := NodeConfigValidator(&cfg)
	assert.Error(t, err)
	assert.Len(t, multierr.Errors(err), 6)
	assert.ErrorContains(t, err, "id 63")
	assert.ErrorContains(t, err, "capacity.router_ids = 0")
	assert.ErrorContains(t, err, "capacity.links = 256")
	assert.ErrorContains(t, err, "link_age")
	assert.ErrorContains(t, err, "mesh_local_prefix")
	assert.ErrorContains(t, err, "metrics_addr")
}

func TestNodeConfigValidator_PrefixLength(t *testing.T) {
	cfg := validCfg()
	cfg.MeshLocalPrefix = netip.MustParsePrefix("fd00::/48")
	assert.ErrorContains(t, NodeConfigValidator(&cfg), "must be an IPv6 /64")
}

func TestNodeConfigValidator_MissingFiles(t *testing.T) {
	cfg := validCfg()
	cfg.Scenario = filepath.Join(t.TempDir(), "missing.yaml")
	cfg.LogPath = "/definitely/not/a/dir/node.log"
	err := NodeConfigValidator(&cfg)
	assert.Len(t, multierr.Errors(err), 2)
}
