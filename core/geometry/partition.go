package geometry

import "strings"

// Partition is a quantization partition: the features of one partition are buffered,
// simplified and consolidated together.
type Partition int

const (
	Metropolitan Partition = iota
	Overseas
)

// Partitions lists the partitions in processing order.
func Partitions() []Partition {
	return []Partition{Metropolitan, Overseas}
}

// PartitionOf returns the partition of a commune, sector or department code.
func PartitionOf(code string) Partition {
	if strings.HasPrefix(code, "97") || strings.HasPrefix(code, "98") {
		return Overseas
	}
	return Metropolitan
}

func (p Partition) String() string {
	if p == Overseas {
		return "outremer"
	}
	return "metropole"
}
