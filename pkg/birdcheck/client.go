package birdcheck

import (
	"bufio"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// DefaultSocketPath is where BIRD usually exposes its control socket.
const DefaultSocketPath = "/run/bird/bird.ctl"

// DefaultTimeout bounds the whole control-socket conversation.
const DefaultTimeout = 5 * time.Second

// Dialer abstracts the socket connection for testability.
type Dialer interface {
	Dial(network, address string, timeout time.Duration) (net.Conn, error)
}

// RealDialer uses the real net package.
type RealDialer struct{}

// Dial connects to the address with a timeout.
func (RealDialer) Dial(network, address string, timeout time.Duration) (net.Conn, error) {
	return net.DialTimeout(network, address, timeout)
}

// ProtocolStatus is the parsed state of one BIRD protocol session.
type ProtocolStatus struct {
	Name        string
	Proto       string
	State       string // "up", "down", "start"
	Info        string // trailing info column, e.g. "Established"
	BGPState    string
	LastError   string
	Imported    int64
	Filtered    int64
	Exported    int64
	ImportLimit int64 // 0 when no limit is configured
}

// Established reports whether the session reached its expected state.
func (s *ProtocolStatus) Established() bool {
	return s.BGPState == "Established" || s.Info == "Established" ||
		(s.BGPState == "" && s.Info == "" && s.State == "up")
}

// Client speaks the BIRD control-socket line protocol: replies are
// lines starting with a four-digit code, "-" after the code marking a
// continuation and " " the final line of a reply; lines starting with
// whitespace continue the previous long message.
type Client struct {
	SocketPath string // DefaultSocketPath if empty
	Timeout    time.Duration
	Dialer     Dialer
}

// ShowProtocol queries "show protocols all <name>" and parses the
// reply into a ProtocolStatus.
func (c *Client) ShowProtocol(name string) (*ProtocolStatus, error) {
	path := c.SocketPath
	if path == "" {
		path = DefaultSocketPath
	}
	timeout := c.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	dialer := c.Dialer
	if dialer == nil {
		dialer = RealDialer{}
	}

	conn, err := dialer.Dial("unix", path, timeout)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", path, err)
	}
	defer func() { _ = conn.Close() }()
	_ = conn.SetDeadline(time.Now().Add(timeout))

	reader := bufio.NewReader(conn)

	welcome, err := reader.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("reading greeting: %w", err)
	}
	if !strings.HasPrefix(welcome, "0001") {
		return nil, fmt.Errorf("unexpected greeting %q", strings.TrimSpace(welcome))
	}

	if _, err := fmt.Fprintf(conn, "show protocols all %s\n", name); err != nil {
		return nil, fmt.Errorf("sending command: %w", err)
	}

	lines, err := readReply(reader)
	if err != nil {
		return nil, err
	}

	status, err := parseProtocol(lines)
	if err != nil {
		return nil, err
	}
	if status.Name != name {
		return nil, fmt.Errorf("daemon answered for %q, asked about %q", status.Name, name)
	}
	return status, nil
}

// readReply collects reply lines until the final line of the reply.
// Error codes (8xxx, 9xxx) abort with the daemon's message.
func readReply(reader *bufio.Reader) ([]string, error) {
	var lines []string
	for {
		raw, err := reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("reading reply: %w", err)
		}
		line := strings.TrimRight(raw, "\r\n")

		code, rest, final, ok := splitReplyLine(line)
		if !ok {
			// continuation of the previous long message
			lines = append(lines, strings.TrimSpace(line))
			continue
		}
		if code >= 8000 {
			return nil, fmt.Errorf("daemon error %04d: %s", code, rest)
		}
		if rest != "" {
			lines = append(lines, rest)
		}
		if final {
			return lines, nil
		}
	}
}

// splitReplyLine splits "NNNN-text" / "NNNN text" lines; ok is false
// for continuation lines without a code.
func splitReplyLine(line string) (code int, rest string, final, ok bool) {
	if len(line) < 4 {
		return 0, "", false, false
	}
	n, err := strconv.Atoi(line[:4])
	if err != nil {
		return 0, "", false, false
	}
	if len(line) == 4 {
		return n, "", true, true
	}
	switch line[4] {
	case ' ':
		return n, strings.TrimSpace(line[5:]), true, true
	case '-':
		return n, strings.TrimSpace(line[5:]), false, true
	}
	return 0, "", false, false
}

// parseProtocol extracts session fields from a "show protocols all"
// reply body.
func parseProtocol(lines []string) (*ProtocolStatus, error) {
	status := &ProtocolStatus{ImportLimit: 0}
	seenRow := false

	for _, line := range lines {
		if !seenRow {
			// skip the table header, match the protocol row
			fields := strings.Fields(line)
			if len(fields) >= 4 && fields[0] != "Name" {
				status.Name = fields[0]
				status.Proto = fields[1]
				status.State = fields[3]
				if len(fields) >= 6 {
					status.Info = strings.Join(fields[5:], " ")
				}
				seenRow = true
			}
			continue
		}

		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "BGP state":
			status.BGPState = value
		case "Last error":
			status.LastError = value
		case "Import limit":
			if fields := strings.Fields(value); len(fields) > 0 {
				if n, err := strconv.ParseInt(fields[0], 10, 64); err == nil {
					status.ImportLimit = n
				}
			}
		case "Routes":
			parseRoutes(value, status)
		}
	}

	if !seenRow {
		return nil, fmt.Errorf("reply contains no protocol row")
	}
	return status, nil
}

// parseRoutes reads "12 imported, 3 filtered, 10 exported, 20 preferred".
func parseRoutes(value string, status *ProtocolStatus) {
	for _, part := range strings.Split(value, ",") {
		fields := strings.Fields(part)
		if len(fields) != 2 {
			continue
		}
		n, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			continue
		}
		switch fields[1] {
		case "imported":
			status.Imported = n
		case "filtered":
			status.Filtered = n
		case "exported":
			status.Exported = n
		}
	}
}
