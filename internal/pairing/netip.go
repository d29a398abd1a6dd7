package pairing

import "net"

// LocalIP returns the first non-loopback IPv4 address of this host, or
// "localhost" when none is found. Used to advertise a reachable
// address in pairing info when the server binds a wildcard interface.
func LocalIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "localhost"
	}

	for _, addr := range addrs {
		if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			if ipnet.IP.To4() != nil {
				return ipnet.IP.String()
			}
		}
	}
	return "localhost"
}

// AdvertiseHost maps a bind host to the host that should appear in
// connection info: wildcard binds advertise the LAN address.
func AdvertiseHost(bindHost string) string {
	if bindHost == "" || bindHost == "0.0.0.0" || bindHost == "::" {
		return LocalIP()
	}
	return bindHost
}
