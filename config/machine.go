package config

import (
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/shirou/gopsutil/v3/host"
)

// MachineID identifies this host in generated ids.
type MachineID uint32

func (m MachineID) Uint32() uint32 {
	return uint32(m)
}
func (m MachineID) String() string {
	return fmt.Sprintf("%08x", uint32(m))
}

var GetMachineID = sync.OnceValue(func() MachineID {
	hash := sha1.New()
	hn, _ := os.Hostname()
	hash.Write([]byte(hn + "---atomix"))
	if hid, err := host.HostID(); err == nil && len(hid) > 0 {
		hash.Write([]byte(strings.ToLower(hid)))
	}
	s := hash.Sum(nil)
	return MachineID(binary.LittleEndian.Uint32(s[:4]))
})
