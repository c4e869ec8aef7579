package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
)

var (
	ErrSSHHostRequired = errors.New("SSH host is required")
	ErrNoSSHAuth       = errors.New("no valid SSH authentication methods found")
)

// SSHConfig holds SSH connection details
type SSHConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	KeyPath  string
}

// SSHTunnel is an SSH client used to reach a metadata source behind a bastion
type SSHTunnel struct {
	client *ssh.Client
}

// NewSSHTunnel establishes an SSH connection
func NewSSHTunnel(config *SSHConfig) (*SSHTunnel, error) {
	if config.Host == "" {
		return nil, ErrSSHHostRequired
	}

	methods := sshAuthMethods(config)
	if len(methods) == 0 {
		return nil, ErrNoSSHAuth
	}

	port := config.Port
	if port == 0 {
		port = 22
	}
	address := fmt.Sprintf("%s:%d", config.Host, port)

	log.Printf("SSH: dialing %s as %s with %d auth methods", address, config.User, len(methods))
	client, err := ssh.Dial("tcp", address, &ssh.ClientConfig{
		User:            config.User,
		Auth:            methods,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to dial SSH: %w", err)
	}
	return &SSHTunnel{client: client}, nil
}

// sshAuthMethods collects key file, agent and password auth, in that order.
func sshAuthMethods(config *SSHConfig) []ssh.AuthMethod {
	var methods []ssh.AuthMethod

	if config.KeyPath != "" {
		if signer, err := loadSigner(config.KeyPath, config.Password); err == nil {
			log.Printf("SSH: loaded %s private key", signer.PublicKey().Type())
			methods = append(methods, ssh.PublicKeys(signer))
		} else {
			log.Printf("SSH: private key %s unusable: %v", config.KeyPath, err)
		}
	}

	if socket := os.Getenv("SSH_AUTH_SOCK"); socket != "" {
		if conn, err := net.Dial("unix", socket); err == nil {
			methods = append(methods, ssh.PublicKeysCallback(agent.NewClient(conn).Signers))
		} else {
			log.Printf("SSH: agent unavailable: %v", err)
		}
	}

	if config.Password != "" {
		methods = append(methods,
			ssh.Password(config.Password),
			ssh.KeyboardInteractive(func(user, instruction string, questions []string, echos []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range answers {
					answers[i] = config.Password
				}
				return answers, nil
			}),
		)
	}
	return methods
}

// loadSigner reads a private key, expanding a leading "~/" and retrying with the
// password as passphrase when the key is encrypted.
func loadSigner(keyPath, passphrase string) (ssh.Signer, error) {
	if rest, ok := strings.CutPrefix(keyPath, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			keyPath = filepath.Join(home, rest)
		}
	}
	key, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, err
	}
	signer, err := ssh.ParsePrivateKey(key)
	var missing *ssh.PassphraseMissingError
	if errors.As(err, &missing) && passphrase != "" {
		return ssh.ParsePrivateKeyWithPassphrase(key, []byte(passphrase))
	}
	return signer, err
}

// DialContext connects to a remote address through the tunnel, giving up when ctx is done
func (t *SSHTunnel) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	type result struct {
		conn net.Conn
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		conn, err := t.client.Dial(network, addr)
		ch <- result{conn, err}
	}()

	select {
	case <-ctx.Done():
		go func() {
			if res := <-ch; res.conn != nil {
				res.conn.Close()
			}
		}()
		return nil, ctx.Err()
	case res := <-ch:
		return res.conn, res.err
	}
}

// Close closes the SSH connection
func (t *SSHTunnel) Close() error {
	return t.client.Close()
}
