package state

import (
	"net/netip"
	"time"

	"github.com/encodeous/weft/rdb"
	"github.com/goccy/go-yaml"
)

type CapacityCfg struct {
	RouterIds int `yaml:"router_ids,omitempty"`
	Links     int `yaml:"links,omitempty"`
	Routes    int `yaml:"routes,omitempty"`
}

// NodeCfg represents local node-level configuration
type NodeCfg struct {
	Id              rdb.RouterId  `yaml:"id"`                          // router id assigned to this node
	Capacity        CapacityCfg   `yaml:"capacity,omitempty"`          // routing database pool sizes
	LinkAge         time.Duration `yaml:"link_age,omitempty"`          // lifetime of a link that is not observed again
	LogPath         string        `yaml:"log_path,omitempty"`          // if not empty, logs are also written to this file
	MetricsAddr     string        `yaml:"metrics_addr,omitempty"`      // ip:port serving /metrics and /debug endpoints
	MeshLocalPrefix netip.Prefix  `yaml:"mesh_local_prefix,omitempty"` // /64 used to derive RLOC addresses
	Scenario        string        `yaml:"scenario,omitempty"`          // scenario file replayed once the node is up
}

// ApplyDefaults fills in every field left at its zero value.
func (c *NodeCfg) ApplyDefaults() {
	def := rdb.DefaultConfig()
	if c.Capacity.RouterIds == 0 {
		c.Capacity.RouterIds = def.RouterIds
	}
	if c.Capacity.Links == 0 {
		c.Capacity.Links = def.Links
	}
	if c.Capacity.Routes == 0 {
		c.Capacity.Routes = def.Routes
	}
	if c.LinkAge == 0 {
		c.LinkAge = DefaultLinkAge
	}
	if !c.MeshLocalPrefix.IsValid() {
		c.MeshLocalPrefix = DefaultMeshLocalPrefix
	}
}

// DbConfig converts the configured capacities for the routing database.
func (c *NodeCfg) DbConfig() rdb.Config {
	return rdb.Config{
		RouterIds: c.Capacity.RouterIds,
		Links:     c.Capacity.Links,
		Routes:    c.Capacity.Routes,
	}
}

// ParseNodeConfig decodes a node config and applies defaults. It does not validate.
func ParseNodeConfig(data []byte) (*NodeCfg, error) {
	var cfg NodeCfg
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}
