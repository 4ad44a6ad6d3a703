package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gritvcs/grit/pkg/repo"
	"golang.org/x/crypto/ssh"
)

// Signature text format stored under the commit's sshsig header:
// one line per field so the value exercises the continuation encoding.
const signatureVersion = "sshsig-v1"

// sshSigner builds a repo.CommitSigner from an OpenSSH private key.
// An empty keyPath falls back to the usual ~/.ssh identities.
func sshSigner(keyPath string) (repo.CommitSigner, string, error) {
	keyFile, err := signingKeyFile(keyPath)
	if err != nil {
		return nil, "", err
	}

	pem, err := os.ReadFile(keyFile)
	if err != nil {
		return nil, "", fmt.Errorf("read signing key %q: %w", keyFile, err)
	}
	key, err := ssh.ParsePrivateKey(pem)
	if err != nil {
		return nil, "", fmt.Errorf("parse signing key %q: %w", keyFile, err)
	}
	pubB64 := base64.StdEncoding.EncodeToString(key.PublicKey().Marshal())

	sign := func(payload []byte) (string, error) {
		sig, err := key.Sign(rand.Reader, payload)
		if err != nil {
			return "", err
		}
		lines := []string{
			signatureVersion,
			"format " + sig.Format,
			"key " + pubB64,
			"sig " + base64.StdEncoding.EncodeToString(sig.Blob),
		}
		return strings.Join(lines, "\n"), nil
	}
	return sign, keyFile, nil
}

func signingKeyFile(path string) (string, error) {
	if path = strings.TrimSpace(path); path != "" {
		if strings.HasPrefix(path, "~/") {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("resolve home dir: %w", err)
			}
			path = filepath.Join(home, path[2:])
		}
		return filepath.Abs(path)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	for _, name := range []string{"id_ed25519", "id_ecdsa", "id_rsa"} {
		candidate := filepath.Join(home, ".ssh", name)
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no default SSH private key found in ~/.ssh (id_ed25519, id_ecdsa, id_rsa)")
}
