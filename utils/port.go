package utils

import (
	"fmt"
	"net"
	"time"
)

// IsPortOpen probes host:port with a raw TCP connect. It is used to
// check tunnel/port-forward reachability before issuing HTTP requests.
func IsPortOpen(host string, port int, timeout time.Duration) bool {
	conn, err := net.DialTimeout("tcp", fmt.Sprintf("%s:%d", host, port), timeout)
	if err != nil {
		Verbose("port probe %s:%d failed: %v", host, port, err)
		return false
	}

	conn.Close()
	return true
}
