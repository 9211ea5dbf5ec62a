package state

import (
	"fmt"
	"net/netip"
	"os"
	"path"
	"path/filepath"

	"github.com/encodeous/weft/rdb"
	"go.uber.org/multierr"
)

func PathValidator(s string) error {
	_, err := os.Stat(path.Dir(s))
	if err != nil {
		return err
	}
	_, err = filepath.Abs(s)
	return err
}

func BindValidator(s string) error {
	_, err := netip.ParseAddrPort(s)
	return err
}

func capacityValidator(name string, v int) error {
	if v < 1 || v > MaxPoolCapacity {
		return fmt.Errorf("capacity.%s = %d must be within [1, %d]", name, v, MaxPoolCapacity)
	}
	return nil
}

// NodeConfigValidator reports every problem with node, not just the first one.
func NodeConfigValidator(node *NodeCfg) error {
	var err error
	if node.Id > rdb.MaxRouterId {
		err = multierr.Append(err, fmt.Errorf("id %d is larger than the maximum router id %d", node.Id, rdb.MaxRouterId))
	}
	err = multierr.Append(err, capacityValidator("router_ids", node.Capacity.RouterIds))
	err = multierr.Append(err, capacityValidator("links", node.Capacity.Links))
	err = multierr.Append(err, capacityValidator("routes", node.Capacity.Routes))
	if node.LinkAge <= 0 {
		err = multierr.Append(err, fmt.Errorf("link_age %s must be positive", node.LinkAge))
	}
	if p := node.MeshLocalPrefix; !p.IsValid() || !p.Addr().Is6() || p.Bits() != 64 {
		err = multierr.Append(err, fmt.Errorf("mesh_local_prefix %s must be an IPv6 /64", p))
	}
	if node.MetricsAddr != "" {
		if e := BindValidator(node.MetricsAddr); e != nil {
			err = multierr.Append(err, fmt.Errorf("metrics_addr: %w", e))
		}
	}
	if node.LogPath != "" {
		if e := PathValidator(node.LogPath); e != nil {
			err = multierr.Append(err, fmt.Errorf("log_path: %w", e))
		}
	}
	if node.Scenario != "" {
		if _, e := os.Stat(node.Scenario); e != nil {
			err = multierr.Append(err, fmt.Errorf("scenario: %w", e))
		}
	}
	return err
}
