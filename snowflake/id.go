package snowflake

import (
	"strconv"
	"sync/atomic"
	"time"

	"get.pme.sh/atomix/config"
)

// Layout, low to high: 12 bits sequence, 10 bits machine, 42 bits milliseconds
// since EpochBegin.
const (
	EpochBegin     = int64(1704067200000) // 2024-01-01T00:00:00Z
	SeqMask        = uint64(0xFFF)
	MachineIDShift = 12
	MachineIDMask  = uint64(0x3FF)
	TimestampShift = 22
)

type ID uint64

// Generator hands out strictly increasing ids. When a millisecond's sequence
// space is used up it borrows from the next millisecond.
type Generator struct {
	MachineID uint32
	last      atomic.Uint64 // unix millis << 12 | sequence
}

func (g *Generator) NextAt(t time.Time) ID {
	ms := uint64(t.UnixMilli())
	for {
		last := g.last.Load()
		next := ms << MachineIDShift
		if lastMs := last >> MachineIDShift; ms <= lastMs {
			if last&SeqMask == SeqMask {
				next = (lastMs + 1) << MachineIDShift
			} else {
				next = last + 1
			}
		}
		if g.last.CompareAndSwap(last, next) {
			return FromParts(g.MachineID, uint32(next&SeqMask), int64(next>>MachineIDShift))
		}
	}
}
func (g *Generator) Next() ID {
	return g.NextAt(time.Now())
}

var DefaultGenerator = &Generator{}

func init() {
	DefaultGenerator.MachineID = config.GetMachineID().Uint32()
}

func New() ID {
	return DefaultGenerator.Next()
}

func FromParts(machineID uint32, seq uint32, unixMilli int64) ID {
	v := (uint64(machineID) & MachineIDMask) << MachineIDShift
	v |= uint64(seq) & SeqMask
	v |= uint64(unixMilli-EpochBegin) << TimestampShift
	return ID(v)
}

func (value ID) String() string {
	return strconv.FormatUint(uint64(value), 10)
}
func (value ID) IsZero() bool {
	return value == 0
}
func (value ID) Sequence() uint32 {
	return uint32(uint64(value) & SeqMask)
}
func (value ID) MachineID() uint32 {
	return uint32((uint64(value) >> MachineIDShift) & MachineIDMask)
}
func (value ID) Timestamp() time.Time {
	return time.UnixMilli(int64(uint64(value)>>TimestampShift) + EpochBegin)
}
func (value ID) MarshalText() ([]byte, error) {
	return strconv.AppendUint(nil, uint64(value), 10), nil
}
func (value *ID) UnmarshalText(data []byte) error {
	val, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return err
	}
	*value = ID(val)
	return nil
}
