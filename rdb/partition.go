package rdb

import "fmt"

// LeaderData is the content of a Leader Data TLV.
type LeaderData struct {
	PartitionId       uint32
	Weighting         uint8
	DataVersion       uint8
	StableDataVersion uint8
	LeaderRouterId    RouterId
}

// Partition holds what this node knows about the network partition it is in.
type Partition struct {
	LeaderRouterId   RouterId
	PartitionId      uint32
	VNVersion        uint8
	VNStableVersion  uint8
	IdSequenceNumber uint8
	Weight           uint8
	valid            bool
}

// Valid reports whether leader data has been accepted since the last Empty.
func (p *Partition) Valid() bool {
	return p.valid
}

// ProcessLeaderData validates a Leader Data TLV together with the ID sequence
// number carried by the accompanying Route64 TLV, and stores it.
func (p *Partition) ProcessLeaderData(idSequence uint8, ld LeaderData) error {
	if ld.LeaderRouterId > MaxRouterId {
		return fmt.Errorf("leader router id %d: %w", ld.LeaderRouterId, ErrInvalidArgs)
	}
	p.LeaderRouterId = ld.LeaderRouterId
	p.PartitionId = ld.PartitionId
	p.VNVersion = ld.DataVersion
	p.VNStableVersion = ld.StableDataVersion
	p.Weight = ld.Weighting
	p.IdSequenceNumber = idSequence
	p.valid = true
	return nil
}

// Empty forgets everything about the previous partition.
func (p *Partition) Empty() {
	*p = Partition{}
}

func (p *Partition) String() string {
	if !p.valid {
		return "(no partition)"
	}
	return fmt.Sprintf("(partition: %08x, leader: %d, weight: %d, vn: %d/%d, id seq: %d)",
		p.PartitionId, p.LeaderRouterId, p.Weight, p.VNVersion, p.VNStableVersion, p.IdSequenceNumber)
}
