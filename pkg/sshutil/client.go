package sshutil

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/kevinburke/ssh_config"
	"github.com/rileyhilliard/ctop/internal/errors"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"
)

// UserEnv overrides the login user for every host that does not name one
// explicitly ("user@host").
const UserEnv = "CTOP_SSH_USER"

// KeyEnv names an extra private key file to try before the defaults.
const KeyEnv = "CTOP_SSH_KEY"

// Options controls how Dial connects.
type Options struct {
	// User overrides the login user from ~/.ssh/config and $USER.
	User string
	// StrictHostKeyChecking verifies host keys against ~/.ssh/known_hosts.
	// When false any host key is accepted.
	StrictHostKeyChecking bool
	// Timeout bounds the TCP connect and SSH handshake. Zero means 10s.
	Timeout time.Duration
	// Logger receives warnings about the local SSH setup. Nil discards them.
	Logger *slog.Logger
}

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return 10 * time.Second
	}
	return o.Timeout
}

// Client wraps an SSH connection with the host it was dialed for.
type Client struct {
	*ssh.Client
	Host    string // node name as given to Dial
	Address string // resolved host:port
}

// matchWarningOnce limits the ssh_config Match warning to one per process.
var matchWarningOnce sync.Once

// Dial connects to host, which may be an ssh_config alias, a hostname,
// user@hostname or hostname:port. Settings are resolved from ~/.ssh/config
// when it exists. The context bounds the TCP connect and the handshake.
func Dial(ctx context.Context, host string, opts Options) (*Client, error) {
	settings := resolveSSHSettings(host, opts)

	config, err := buildSSHConfig(settings, opts)
	if err != nil {
		var ctopErr *errors.Error
		if stderrors.As(err, &ctopErr) {
			return nil, err
		}
		return nil, errors.WrapWithCode(err, errors.ErrSSH,
			fmt.Sprintf("Couldn't set up SSH for '%s'", host),
			"Check your keys are loaded: ssh-add -l")
	}

	ctx, cancel := context.WithTimeout(ctx, opts.timeout())
	defer cancel()

	address := settings.address()
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrSSH,
			fmt.Sprintf("Can't reach '%s' at %s", host, address),
			suggestionForDialError(err))
	}

	// The handshake has no context of its own; a deadline on the raw
	// connection stands in for it.
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	sshConn, chans, reqs, err := ssh.NewClientConn(conn, address, config)
	if err != nil {
		conn.Close()

		var hostKeyErr *HostKeyMismatchError
		if stderrors.As(err, &hostKeyErr) {
			return nil, errors.New(errors.ErrSSH,
				hostKeyErr.Error(),
				hostKeyErr.Suggestion())
		}

		return nil, errors.WrapWithCode(err, errors.ErrSSH,
			fmt.Sprintf("SSH handshake with '%s' didn't go through", host),
			suggestionForHandshakeError(err, settings.encryptedKeys))
	}
	_ = conn.SetDeadline(time.Time{})

	return &Client{
		Client:  ssh.NewClient(sshConn, chans, reqs),
		Host:    host,
		Address: address,
	}, nil
}

// Close closes the SSH connection.
func (c *Client) Close() error {
	if c.Client == nil {
		return nil
	}
	return c.Client.Close()
}

// GetHost returns the host passed to Dial.
func (c *Client) GetHost() string {
	return c.Host
}

// Alive sends an OpenSSH keepalive and reports whether the server answered.
// It is much cheaper than opening a session.
func (c *Client) Alive() bool {
	if c == nil || c.Client == nil {
		return false
	}
	_, _, err := c.Client.SendRequest("keepalive@openssh.com", true, nil)
	return err == nil
}

// sshSettings holds resolved SSH connection parameters.
type sshSettings struct {
	hostname      string
	port          string
	user          string
	identityFile  string
	encryptedKeys []string
}

func (s *sshSettings) address() string {
	return net.JoinHostPort(s.hostname, s.port)
}

// resolveSSHSettings parses user@host:port and fills the gaps from
// ~/.ssh/config. Precedence for the user: explicit user@, then
// Options.User, then CTOP_SSH_USER, then ssh_config, then $USER.
func resolveSSHSettings(host string, opts Options) *sshSettings {
	settings := &sshSettings{
		port: "22",
		user: currentUser(),
	}

	explicitUser := ""
	if user, rest, ok := strings.Cut(host, "@"); ok {
		explicitUser = user
		host = rest
	}

	if colonIdx := strings.LastIndex(host, ":"); colonIdx != -1 {
		if port := host[colonIdx+1:]; isAllDigits(port) {
			settings.port = port
			host = host[:colonIdx]
		}
	}
	settings.hostname = host

	defer func() {
		switch {
		case explicitUser != "":
			settings.user = explicitUser
		case opts.User != "":
			settings.user = opts.User
		case os.Getenv(UserEnv) != "":
			settings.user = os.Getenv(UserEnv)
		}
	}()

	// kevinburke/ssh_config can't parse Match blocks, so only the part of
	// the file before the first one is decoded.
	content, matchLine, err := preprocessSSHConfig(filepath.Join(homeDir(), ".ssh", "config"))
	if err != nil {
		return settings
	}
	cfg, err := ssh_config.Decode(bytes.NewReader(content))
	if err != nil {
		return settings
	}

	hostFound := false
	if hostname, _ := cfg.Get(host, "HostName"); hostname != "" {
		settings.hostname = hostname
		hostFound = true
	}
	if port, _ := cfg.Get(host, "Port"); port != "" {
		settings.port = port
		hostFound = true
	}
	if user, _ := cfg.Get(host, "User"); user != "" {
		settings.user = user
		hostFound = true
	}
	if identity, _ := cfg.Get(host, "IdentityFile"); identity != "" {
		settings.identityFile = expandPath(identity)
		hostFound = true
	}

	if matchLine > 0 && !hostFound && opts.Logger != nil {
		matchWarningOnce.Do(func() {
			opts.Logger.Warn("host not found in ssh config; a Match block may hide later entries",
				"host", host, "match_line", matchLine)
		})
	}

	return settings
}

// buildSSHConfig collects auth methods and the host key policy. Encrypted
// keys it skipped are recorded in settings.encryptedKeys for error hints.
func buildSSHConfig(settings *sshSettings, opts Options) (*ssh.ClientConfig, error) {
	var authMethods []ssh.AuthMethod

	tryKeyFile := func(keyPath string) {
		keyAuth, err := keyFileAuth(keyPath)
		if err != nil {
			var encErr *EncryptedKeyError
			if stderrors.As(err, &encErr) {
				settings.encryptedKeys = append(settings.encryptedKeys, keyPath)
			}
			return
		}
		authMethods = append(authMethods, keyAuth)
	}

	if agentAuth := sshAgentAuth(); agentAuth != nil {
		authMethods = append(authMethods, agentAuth)
	}
	if key := os.Getenv(KeyEnv); key != "" {
		tryKeyFile(key)
	}
	if settings.identityFile != "" {
		tryKeyFile(settings.identityFile)
	}
	for _, name := range []string{"id_ed25519", "id_rsa", "id_ecdsa"} {
		keyPath := filepath.Join(homeDir(), ".ssh", name)
		if keyPath == settings.identityFile {
			continue
		}
		tryKeyFile(keyPath)
	}

	if len(authMethods) == 0 {
		msg := "No SSH auth methods available"
		suggestion := "Check your keys are loaded: ssh-add -l"
		if len(settings.encryptedKeys) > 0 {
			msg = fmt.Sprintf("Found SSH key(s) but they're encrypted: %s", strings.Join(settings.encryptedKeys, ", "))
			suggestion = addKeysHint("Add your key(s) to the agent:", settings.encryptedKeys)
		}
		return nil, errors.New(errors.ErrSSH, msg, suggestion)
	}

	hostKeyCallback := ssh.InsecureIgnoreHostKey() //nolint:gosec // opted out via transport.strict_host_key
	if opts.StrictHostKeyChecking {
		var err error
		hostKeyCallback, err = createHostKeyCallback(filepath.Join(homeDir(), ".ssh", "known_hosts"))
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrSSH,
				"Couldn't load known_hosts",
				"Check ~/.ssh/known_hosts is readable, or set transport.strict_host_key: false.")
		}
	}

	return &ssh.ClientConfig{
		User:            settings.user,
		Auth:            authMethods,
		HostKeyCallback: hostKeyCallback,
		Timeout:         opts.timeout(),
	}, nil
}

// The agent connection is shared by every dial in the process.
var (
	agentConn     net.Conn
	agentClient   agent.ExtendedAgent
	agentConnOnce sync.Once
)

// sshAgentAuth returns agent auth, or nil when there is no agent or it holds
// no keys. An empty agent placed first would make the server reject us
// before the key files are tried.
func sshAgentAuth() ssh.AuthMethod {
	socket := os.Getenv("SSH_AUTH_SOCK")
	if socket == "" {
		return nil
	}

	agentConnOnce.Do(func() {
		conn, err := net.Dial("unix", socket)
		if err != nil {
			return
		}
		agentConn = conn
		agentClient = agent.NewClient(conn)
	})
	if agentClient == nil {
		return nil
	}

	signers, err := agentClient.Signers()
	if err != nil || len(signers) == 0 {
		return nil
	}
	return ssh.PublicKeysCallback(agentClient.Signers)
}

// CloseAgent closes the shared agent connection. Call it on shutdown.
func CloseAgent() {
	if agentConn != nil {
		agentConn.Close()
	}
}

// keyFileAuth loads a private key. Passphrase-protected keys return
// *EncryptedKeyError.
func keyFileAuth(keyPath string) (ssh.AuthMethod, error) {
	key, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, err
	}

	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		var missing *ssh.PassphraseMissingError
		if stderrors.As(err, &missing) || isEncryptedPEM(key) {
			return nil, &EncryptedKeyError{Path: keyPath}
		}
		return nil, err
	}
	return ssh.PublicKeys(signer), nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.Getenv("HOME")
	}
	return home
}

func currentUser() string {
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	return "root"
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func addKeysHint(lead string, keys []string) string {
	var sb strings.Builder
	sb.WriteString(lead + "\n")
	for _, key := range keys {
		if runtime.GOOS == "darwin" {
			fmt.Fprintf(&sb, "  ssh-add --apple-use-keychain %s\n", key)
		} else {
			fmt.Fprintf(&sb, "  ssh-add %s\n", key)
		}
	}
	sb.WriteString("\nNot sure which key? Check with: ssh -v <host>")
	return sb.String()
}

func suggestionForDialError(err error) string {
	errStr := err.Error()
	switch {
	case strings.Contains(errStr, "connection refused"):
		return "Is sshd running on that node? Try: ssh <host>"
	case strings.Contains(errStr, "no route to host"), strings.Contains(errStr, "network is unreachable"):
		return "Can't route to the node. Check the cluster network."
	case strings.Contains(errStr, "timeout"), strings.Contains(errStr, "deadline exceeded"):
		return "Connection timed out. The node might be down or firewalled."
	case strings.Contains(errStr, "no such host"):
		return "The name doesn't resolve. Check fleet.template and /etc/hosts."
	}
	return "Make sure the node is reachable: ping <host>"
}

func suggestionForHandshakeError(err error, encryptedKeys []string) string {
	errStr := err.Error()
	if strings.Contains(errStr, "unable to authenticate") || strings.Contains(errStr, "no supported methods") {
		if len(encryptedKeys) > 0 {
			return addKeysHint("Your key(s) are encrypted. Add them to the agent:", encryptedKeys)
		}
		return "Auth failed. Check your keys are loaded: ssh-add -l"
	}
	if strings.Contains(errStr, "host key") {
		return "Host key issue. Try connecting manually first: ssh <host>"
	}
	return "Something went wrong during SSH setup. Try: ssh <host>"
}

// EncryptedKeyError is returned when an SSH key requires a passphrase.
type EncryptedKeyError struct {
	Path string
}

func (e *EncryptedKeyError) Error() string {
	return fmt.Sprintf("SSH key at %s is encrypted (passphrase protected)", e.Path)
}

// HostKeyMismatchError is returned when known_hosts holds a different key
// for the node.
type HostKeyMismatchError struct {
	Hostname     string
	ReceivedType string
	KnownHosts   string
	Want         []knownhosts.KnownKey
}

func (e *HostKeyMismatchError) Error() string {
	return fmt.Sprintf("host key mismatch for %s: server sent %s key", e.Hostname, e.ReceivedType)
}

// Suggestion returns the commands that refresh the known_hosts entry.
func (e *HostKeyMismatchError) Suggestion() string {
	host := e.Hostname
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}

	wantStr := "unknown"
	if len(e.Want) > 0 {
		types := make([]string, 0, len(e.Want))
		for _, k := range e.Want {
			types = append(types, k.Key.Type())
		}
		wantStr = strings.Join(types, ", ")
	}

	return fmt.Sprintf(
		"The node's host key doesn't match known_hosts.\n"+
			"  Known types: %s\n"+
			"  Node sent:   %s\n\n"+
			"  If the node was reinstalled, refresh the entry:\n"+
			"    ssh-keygen -R %s\n"+
			"    ssh-keyscan -t rsa,ecdsa,ed25519 %s >> %s",
		wantStr, e.ReceivedType, host, host, e.KnownHosts)
}

// preprocessSSHConfig returns the config content before the first Match
// directive and the 1-based line of that directive (0 when absent).
func preprocessSSHConfig(configPath string) ([]byte, int, error) {
	content, err := os.ReadFile(configPath)
	if err != nil {
		return nil, 0, err
	}

	lines := strings.Split(string(content), "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "match ") {
			return []byte(strings.Join(lines[:i], "\n")), i + 1, nil
		}
	}
	return content, 0, nil
}

func isEncryptedPEM(data []byte) bool {
	return bytes.Contains(data, []byte("ENCRYPTED"))
}

// createHostKeyCallback wraps knownhosts so key mismatches surface as
// *HostKeyMismatchError. A missing known_hosts file is created empty.
func createHostKeyCallback(knownHostsPath string) (ssh.HostKeyCallback, error) {
	if _, err := os.Stat(knownHostsPath); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(knownHostsPath), 0o700); err != nil {
			return nil, fmt.Errorf("failed to create .ssh directory: %w", err)
		}
		if err := os.WriteFile(knownHostsPath, []byte{}, 0o600); err != nil {
			return nil, fmt.Errorf("failed to create known_hosts: %w", err)
		}
	}

	callback, err := knownhosts.New(knownHostsPath)
	if err != nil {
		return nil, err
	}

	return func(hostname string, remote net.Addr, key ssh.PublicKey) error {
		err := callback(hostname, remote, key)
		var keyErr *knownhosts.KeyError
		if stderrors.As(err, &keyErr) && len(keyErr.Want) > 0 {
			return &HostKeyMismatchError{
				Hostname:     hostname,
				ReceivedType: key.Type(),
				KnownHosts:   knownHostsPath,
				Want:         keyErr.Want,
			}
		}
		return err
	}, nil
}
