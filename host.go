package termbench

import (
	"os"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v3/host"
	log "github.com/sirupsen/logrus"
)

// hostInfo calls host.Info(), but may be replaced in tests.
var hostInfo = host.Info

// describeHost returns the host name and a short description of the
// operating system, e.g. "Darwin 23.1.0 arm64".
func describeHost() (name, osInfo string) {
	name, _ = os.Hostname()
	osInfo = osName(runtime.GOOS)

	info, err := hostInfo()
	if err != nil {
		log.WithError(err).Debug("reading host info")
		return name, osInfo
	}
	if info.Hostname != "" {
		name = info.Hostname
	}
	if info.OS != "" {
		osInfo = osName(info.OS)
	}
	for _, part := range []string{info.KernelVersion, info.KernelArch} {
		if part != "" {
			osInfo += " " + part
		}
	}
	return name, osInfo
}

func osName(goos string) string {
	if goos == "" {
		return goos
	}
	return strings.ToUpper(goos[:1]) + goos[1:]
}
